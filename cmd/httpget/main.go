// Httpget sends one HTTP/1.1 request and prints the response.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"http-engine/application/http"
	"http-engine/application/http/actor/client"
	"http-engine/application/http/form"
	"http-engine/application/http/semantic"
	"http-engine/application/util/domain"
	"http-engine/lib/filesystem"
	"http-engine/transport/tcp"
	enginetls "http-engine/transport/tls"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

type listFlag []string

func (l *listFlag) String() string     { return strings.Join(*l, ", ") }
func (l *listFlag) Set(v string) error { *l = append(*l, v); return nil }

// httpget -u http://localhost:8080/hello -f
// httpget -u https://example.com/ -H "Accept: text/html" -o page.html
// httpget -u http://localhost:8080/upload -F name=value -file doc=./doc.txt

func main() {
	var (
		rawURL   string
		method   string
		data     string
		raw      string
		follow   bool
		output   string
		timeout  time.Duration
		insecure bool
		skipPort bool
		tls12    bool
		headers  listFlag
		params   listFlag
		files    listFlag
	)
	flag.StringVar(&rawURL, "u", "http://localhost:8080/", "target url")
	flag.StringVar(&method, "m", "", "http method (default GET, or POST with a body)")
	flag.StringVar(&data, "d", "", "urlencoded form body")
	flag.StringVar(&raw, "b", "", "raw body, sent verbatim")
	flag.BoolVar(&follow, "f", false, "follow redirects")
	flag.StringVar(&output, "o", "", "write the body to this file")
	flag.DurationVar(&timeout, "t", 30*time.Second, "connect and i/o timeout")
	flag.BoolVar(&insecure, "k", false, "skip certificate verification")
	flag.BoolVar(&skipPort, "skip-port", false, "omit the port from the Host header")
	flag.BoolVar(&tls12, "tls12", true, "pin TLS 1.2 (TLS 1.3 otherwise)")
	flag.Var(&headers, "H", "request header \"Name: value\" (repeatable)")
	flag.Var(&params, "F", "multipart field name=value (repeatable)")
	flag.Var(&files, "file", "multipart file name=path (repeatable)")
	flag.Parse()

	level := slog.LevelInfo
	if os.Getenv("PRINT_DEBUGS") == "1" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	req, err := buildRequest(rawURL, method, data, raw, headers, params, files)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	req.Timeout = timeout
	req.SkipPort = skipPort
	req.CertificateCheck = !insecure
	if !tls12 {
		req.TLSVersion = tls.VersionTLS13
	}

	dialer := tcp.NewDialer(domain.NewResolverLookuper(nil), tcp.DialerOptions{
		Timeout:  timeout,
		Families: tcp.DefaultDialerOptions.Families,
	}, logger)
	c := client.New(
		dialer,
		enginetls.NewWrapper(nil),
		filesystem.NewLocalFilesystem(),
		logger,
		clock.New(),
		client.DefaultOptions,
	)

	ctx := context.Background()
	var res *semantic.Response
	switch {
	case output != "":
		res, err = c.Download(ctx, req, output, follow)
	case len(req.Params) > 0 || len(req.Files) > 0:
		res, err = c.SendFiles(ctx, req, follow)
	default:
		res, err = c.Send(ctx, req, follow)
	}
	if err != nil {
		logger.Error("request failed", "url", rawURL, "error", err)
		if res == nil || res.Status.Code == 0 {
			os.Exit(1)
		}
	}

	fmt.Fprintf(os.Stderr, "%s %s\n", res.Version, res.Status)
	for _, field := range res.Headers.ToRawFields() {
		fmt.Fprintln(os.Stderr, string(field.Text()))
	}
	if output == "" {
		os.Stdout.Write(res.Body)
	}
}

func buildRequest(rawURL, method, data, raw string, headers, params, files []string) (*client.Request, error) {
	req := client.NewRequest(rawURL)

	for _, h := range headers {
		field, err := http.ParseField([]byte(h))
		if err != nil {
			return nil, errors.Wrapf(err, "header %q", h)
		}
		req.SetHeader(field.Name, field.Value)
	}

	if data != "" {
		req.Post = form.Decode(data)
	}
	if raw != "" {
		req.RawBody = []byte(raw)
	}
	for _, p := range params {
		name, value, _ := strings.Cut(p, "=")
		req.Params = append(req.Params, form.Field{Name: name, Value: value})
	}
	for _, f := range files {
		name, path, ok := strings.Cut(f, "=")
		if !ok {
			return nil, errors.Errorf("file %q: expected name=path", f)
		}
		req.Files = append(req.Files, form.FileField{Name: name, Path: path})
	}

	switch {
	case method != "":
		req.Method = semantic.Method(strings.ToUpper(method))
	case data != "" || raw != "":
		req.Method = semantic.MethodPost
	}
	return req, nil
}
