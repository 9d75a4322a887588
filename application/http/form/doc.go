// Package form encodes and decodes HTML form payloads:
// application/x-www-form-urlencoded query strings and multipart/form-data
// bodies, including file parts nested in multipart/mixed.
//
// Reference:
//
// - https://url.spec.whatwg.org/#application/x-www-form-urlencoded
//
// - https://datatracker.ietf.org/doc/html/rfc7578
//
// - https://datatracker.ietf.org/doc/html/rfc2046#section-5.1
package form
