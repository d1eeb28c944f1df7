package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WhileEndless/go-httpreq/pkg/cookies"
	"github.com/WhileEndless/go-httpreq/pkg/errors"
	"github.com/WhileEndless/go-httpreq/pkg/request"
	"github.com/WhileEndless/go-httpreq/pkg/response"
	"github.com/WhileEndless/go-httpreq/pkg/stream"
)

func newMethodCmd(g *globalFlags, method string) *cobra.Command {
	var data string
	var chunked bool

	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " URL",
		Short: "Send a " + method + " request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, g, method, args[0], []byte(data), chunked)
		},
	}

	if method == "POST" || method == "PUT" {
		cmd.Flags().StringVarP(&data, "data", "d", "", "Request body")
		cmd.Flags().BoolVar(&chunked, "chunked", false, "Send the body with chunked transfer coding")
	}
	return cmd
}

func run(cmd *cobra.Command, g *globalFlags, method, rawURL string, body []byte, chunked bool) error {
	req, err := request.New(method, rawURL)
	if err != nil {
		return err
	}

	opts := stream.Options{InsecureSkipVerify: g.insecure}
	if g.caFile != "" {
		pem, err := os.ReadFile(g.caFile)
		if err != nil {
			return errors.Wrap(err)
		}
		opts.CustomCACerts = [][]byte{pem}
	}

	for _, h := range g.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return errors.FromParse(errors.ErrHeaders)
		}
		req.Header(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	for _, v := range g.cookies {
		pairs, err := cookies.ParseCookies(v)
		if err != nil {
			return err
		}
		for _, c := range pairs {
			req.Cookie(c.Name, c.Value)
		}
	}

	logger := g.logger()
	defer logger.Sync()

	resp, err := req.
		Body(body).
		Chunked(chunked).
		Timeout(g.timeout).
		Raw(g.raw).
		Options(opts).
		Logger(logger).
		Send(cmd.Context())
	if err != nil {
		return err
	}

	printResponse(cmd.OutOrStdout(), resp, g.include)
	return nil
}

func printResponse(w io.Writer, resp *response.Response, include bool) {
	if include {
		fmt.Fprintln(w, resp.StatusLine)
		resp.Headers.Write(w)
		fmt.Fprintln(w)
	}
	if len(resp.Body) == 0 {
		return
	}
	if s, err := resp.Text(); err == nil {
		io.WriteString(w, s)
	} else {
		w.Write(resp.Body)
	}
}
