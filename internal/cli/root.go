package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/WhileEndless/go-httpreq/pkg/version"
)

// flags shared by every request command
type globalFlags struct {
	headers  []string
	cookies  []string
	timeout  time.Duration
	insecure bool
	caFile   string
	include  bool
	raw      bool
	verbose  bool
}

func newRootCmd(g *globalFlags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "httpreq",
		Short: "httpreq - send one HTTP/1.1 request and print the response",
		Long: `httpreq sends a single HTTP/1.1 request over a fresh connection and
prints the response body. Failures are reported by category: IO, Parse,
Timeout or TLS.

Example:
  httpreq get https://example.com/
  httpreq head -i http://localhost:8080/health
  httpreq post -d '{"a":1}' -H 'Content-Type: application/json' http://localhost:8080/api`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringArrayVarP(&g.headers, "header", "H", nil, "Extra header, \"Name: value\" (repeatable)")
	rootCmd.PersistentFlags().StringArrayVarP(&g.cookies, "cookie", "b", nil, "Cookies to send, \"name=value; name2=value2\" (repeatable)")
	rootCmd.PersistentFlags().DurationVar(&g.timeout, "timeout", 30*time.Second, "Overall request timeout")
	rootCmd.PersistentFlags().BoolVarP(&g.insecure, "insecure", "k", false, "Skip TLS certificate verification")
	rootCmd.PersistentFlags().StringVar(&g.caFile, "cacert", "", "Extra CA certificate (PEM) to trust")
	rootCmd.PersistentFlags().BoolVarP(&g.include, "include", "i", false, "Print the status line and headers")
	rootCmd.PersistentFlags().BoolVar(&g.raw, "raw", false, "Do not request or decode compressed bodies")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(newMethodCmd(g, "GET"))
	rootCmd.AddCommand(newMethodCmd(g, "HEAD"))
	rootCmd.AddCommand(newMethodCmd(g, "POST"))
	rootCmd.AddCommand(newMethodCmd(g, "PUT"))
	rootCmd.AddCommand(newMethodCmd(g, "DELETE"))

	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	g := &globalFlags{}
	return execute(newRootCmd(g), g, os.Stderr)
}

// execute runs root and reports a failure on stderr, with its cause chain
// in verbose mode.
func execute(root *cobra.Command, g *globalFlags, stderr io.Writer) error {
	err := root.Execute()
	if err == nil {
		return nil
	}
	fmt.Fprintf(stderr, "httpreq: %s\n", err)
	if g.verbose {
		for cause := stderrors.Unwrap(err); cause != nil; cause = stderrors.Unwrap(cause) {
			fmt.Fprintf(stderr, "  caused by: %s\n", cause)
		}
	}
	return err
}

// logger returns a development logger in verbose mode, a no-op one otherwise.
func (g *globalFlags) logger() *zap.Logger {
	if !g.verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
