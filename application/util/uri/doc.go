// Package uri handles the URL pieces an HTTP/1.1 client needs: percent
// encoding in the flavours browsers use for form data and cookies,
// splitting a request URL into scheme, host, port and path, and resolving
// the Location of a redirect against the URL that produced it.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc3986
//
// - https://url.spec.whatwg.org/#application/x-www-form-urlencoded
package uri
