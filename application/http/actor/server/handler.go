package server

import (
	"context"

	"github.com/pkg/errors"
)

// HandleFunc answers req through res. A returned error becomes a status
// response unless output has already started.
type HandleFunc func(ctx context.Context, req *Request, res *Response) error

func doHandle(ctx context.Context, handle HandleFunc, req *Request, res *Response) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = errors.Errorf("handler panicked: %v", e)
		}
	}()

	return handle(ctx, req, res)
}
