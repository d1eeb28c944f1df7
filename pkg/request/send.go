package request

import (
	"bufio"
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/WhileEndless/go-httpreq/pkg/chunked"
	"github.com/WhileEndless/go-httpreq/pkg/compression"
	"github.com/WhileEndless/go-httpreq/pkg/cookies"
	"github.com/WhileEndless/go-httpreq/pkg/errors"
	"github.com/WhileEndless/go-httpreq/pkg/headers"
	"github.com/WhileEndless/go-httpreq/pkg/response"
	"github.com/WhileEndless/go-httpreq/pkg/stream"
	"github.com/WhileEndless/go-httpreq/pkg/version"
)

type result struct {
	resp *response.Response
	err  error
}

// Send performs the exchange over a new connection, which is closed before
// Send returns. Redirects are not followed.
func (r *Request) Send(ctx context.Context) (*response.Response, error) {
	start := time.Now()
	log := r.log.With(zap.String("method", r.Method), zap.String("url", r.URI.String()))
	log.Debug("sending request")

	resp, err := r.send(ctx, start)
	if err != nil {
		log.Warn("request failed",
			zap.Stringer("kind", errors.KindOf(err)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	log.Info("response received",
		zap.Int("status", int(resp.Code)),
		zap.Int("bytes", len(resp.Body)),
		zap.Duration("elapsed", resp.Timing.Total),
	)
	return resp, nil
}

func (r *Request) send(ctx context.Context, start time.Time) (*response.Response, error) {
	dialCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	conn, err := stream.Dial(dialCtx, r.URI, r.opts)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	// The exchange runs on its own goroutine so the overall timeout holds
	// even while a single read is blocked. Closing conn releases it.
	results := make(chan result, 1)
	go func() {
		resp, err := r.exchange(conn)
		results <- result{resp: resp, err: err}
	}()

	var wait time.Duration
	if r.timeout > 0 {
		if wait = r.timeout - time.Since(start); wait <= 0 {
			wait = time.Nanosecond
		}
	}
	res, err := stream.Recv(ctx, results, wait)
	if err != nil {
		return nil, err
	}
	if res.err != nil {
		return nil, errors.Wrap(res.err)
	}

	res.resp.Timing.Connect = conn.Connect
	res.resp.Timing.TLSHandshake = conn.TLSHandshake
	res.resp.Timing.Total = time.Since(start)
	return res.resp, nil
}

// exchange writes the request and reads the response.
func (r *Request) exchange(conn *stream.Conn) (*response.Response, error) {
	bw := bufio.NewWriter(conn)
	if err := r.write(bw); err != nil {
		return nil, err
	}
	if err := bw.Flush(); err != nil {
		return nil, errors.Wrap(err)
	}

	written := time.Now()
	br := bufio.NewReader(conn)
	resp, err := response.ReadHead(br)
	if err != nil {
		return nil, err
	}
	resp.Timing.TTFB = time.Since(written)

	err = resp.ReadBody(br, response.BodyOptions{
		Limit:  r.bodyLimit,
		NoBody: r.Method == "HEAD",
		Decode: !r.raw,
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// write serializes the request line, the header block and the body.
func (r *Request) write(bw *bufio.Writer) error {
	bw.WriteString(r.Method)
	bw.WriteByte(' ')
	bw.WriteString(r.URI.RequestTarget())
	bw.WriteString(" HTTP/1.1\r\n")

	if err := r.wireHeaders().Write(bw); err != nil {
		return err
	}
	bw.WriteString("\r\n")

	if len(r.body) == 0 {
		return nil
	}
	if !r.chunked {
		if _, err := bw.Write(r.body); err != nil {
			return errors.Wrap(err)
		}
		return nil
	}

	cw := chunked.NewWriter(bw)
	if _, err := cw.Write(r.body); err != nil {
		return err
	}
	return cw.Close()
}

// wireHeaders returns the user headers completed with the ones this client
// manages. User values win, except for the framing headers.
func (r *Request) wireHeaders() *headers.Headers {
	h := headers.New()
	h.Add("Host", r.URI.HostHeader())
	h.Add("User-Agent", version.UserAgent())
	if !r.raw {
		h.Add("Accept-Encoding", compression.Accepted)
	}
	if auth := r.basicAuth(); auth != "" {
		h.Add("Authorization", auth)
	}

	replaced := make(map[string]bool)
	for _, f := range r.Headers.All() {
		key := strings.ToLower(f.Name)
		switch {
		case isFraming(f.Name):
			continue
		case h.Has(f.Name) && !replaced[key]:
			h.Set(f.Name, f.Value)
		default:
			h.Add(f.Name, f.Value)
		}
		replaced[key] = true
	}

	if len(r.cookies) > 0 {
		value := cookies.Header(r.cookies)
		if prev := h.Get("Cookie"); prev != "" {
			value = prev + "; " + value
		}
		h.Set("Cookie", value)
	}

	h.Set("Connection", "close")
	switch {
	case len(r.body) > 0 && r.chunked:
		h.Set("Transfer-Encoding", "chunked")
	case len(r.body) > 0 || r.Method == "POST" || r.Method == "PUT" || r.Method == "PATCH":
		h.Set("Content-Length", strconv.Itoa(len(r.body)))
	}
	return h
}

func isFraming(name string) bool {
	for _, f := range []string{"Content-Length", "Transfer-Encoding", "Connection"} {
		if strings.EqualFold(name, f) {
			return true
		}
	}
	return false
}
