// Package server adapts a CGI-style host to the request and response model.
package server

import (
	"context"
	"log/slog"

	"http-engine/application/http/semantic/status"

	"github.com/pkg/errors"
)

// Serve handles the single transaction host carries.
//
// Errors from parsing the request or from handle are answered with the
// status they carry (500 when none) and logged. Serve returns an error only
// when no complete response could be produced.
func Serve(ctx context.Context, host Host, handle HandleFunc, opts RequestOptions, logger *slog.Logger) error {
	res := NewResponse(host)

	req, err := NewRequest(host, opts)
	if err == nil {
		err = doHandle(ctx, handle, req, res)
	}

	if err != nil {
		st := status.Of(err)
		logger.Error("serving request", "status", st.Code, "error", err)

		if res.OutputStarted() {
			return errors.Wrap(err, "output already started")
		}
		if werr := writeStatus(res, st); werr != nil {
			return errors.Wrapf(werr, "writing %d response", st.Code)
		}
		return nil
	}

	return res.End()
}

func writeStatus(res *Response, st status.Status) error {
	if err := res.Status(st.Code, st.ReasonPhrase); err != nil {
		return err
	}
	if err := res.Header("Content-Type", "text/plain; charset=utf-8"); err != nil {
		return err
	}
	_, err := res.Write([]byte(st.String() + "\n"))
	return err
}
