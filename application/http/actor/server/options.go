package server

import (
	"http-engine/application/http/form"
)

type RequestOptions struct {
	// MaxContentLength rejects bodies announcing more bytes with 413.
	// Zero means no limit.
	MaxContentLength uint

	Multipart form.MultipartOptions
}

var DefaultRequestOptions = RequestOptions{
	MaxContentLength: 0,
	Multipart:        form.DefaultMultipartOptions,
}
