// Formecho is a CGI program that describes the request it was invoked with.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"http-engine/application/http/actor/server"
	"http-engine/application/http/form"
	"http-engine/application/http/semantic"
)

func main() {
	level := slog.LevelInfo
	if os.Getenv("PRINT_DEBUGS") == "1" {
		level = slog.LevelDebug
	}
	// stdout carries the response.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	host := server.NewCGIHost(nil, os.Stdin, os.Stdout)
	err := server.Serve(context.Background(), host, echo, server.DefaultRequestOptions, logger)
	if ferr := host.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		logger.Error("serving", "error", err)
		os.Exit(1)
	}
}

func echo(ctx context.Context, req *server.Request, res *server.Response) error {
	if err := res.Header("Content-Type", "text/plain; charset=utf-8"); err != nil {
		return err
	}
	if err := res.SetCookie(semantic.SetCookie{Name: "echoed", Value: "1", Path: "/"}); err != nil {
		return err
	}

	b := new(strings.Builder)
	fmt.Fprintf(b, "method: %s\n", req.Method)
	if ua, ok := req.Header("User-Agent"); ok {
		fmt.Fprintf(b, "user-agent: %s\n", ua)
	}
	writeValues(b, "get", req.Get)
	writeValues(b, "post", req.Post)
	for _, name := range slices.Sorted(maps.Keys(req.Cookies)) {
		fmt.Fprintf(b, "cookie %s = %q\n", name, req.Cookies[name])
	}
	for _, name := range req.Files.Keys() {
		for _, f := range req.Files.Values(name) {
			fmt.Fprintf(b, "file %s: %q (%d bytes)\n", name, f.OriginalName, len(f.Data))
		}
	}
	if len(req.RawPost) > 0 {
		fmt.Fprintf(b, "raw: %d bytes\n", len(req.RawPost))
	}

	_, err := res.Write([]byte(b.String()))
	return err
}

func writeValues(b *strings.Builder, kind string, values form.Values) {
	for _, name := range values.Keys() {
		fmt.Fprintf(b, "%s %s = %q\n", kind, name, values.Values(name))
	}
}
