// Package http reads and writes HTTP/1.1 messages on the wire: request and
// status lines, header field lines and the blank line ending the head.
// Meaning is given to those bytes by package semantic.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc9110
//
// - https://datatracker.ietf.org/doc/html/rfc9112
package http
