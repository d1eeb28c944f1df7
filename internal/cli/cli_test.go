package cli

import (
	"bytes"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WhileEndless/go-httpreq/pkg/errors"
)

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	g := &globalFlags{}
	root := newRootCmd(g)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err = execute(root, g, &errOut)
	return out.String(), errOut.String(), err
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Seen", r.Header.Get("X-Token"))
		w.Header().Set("X-Cookie", r.Header.Get("Cookie"))
		io.WriteString(w, "body text")
	}))
	defer srv.Close()

	stdout, _, err := runCLI(t, "get", "-H", "X-Token: abc", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "body text", stdout)

	stdout, _, err = runCLI(t, "get", "-i", "-H", "X-Token: abc", "-b", "a=1; b=2", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, stdout, "X-Cookie: a=1; b=2\r\n")
	assert.Contains(t, stdout, "HTTP/1.1 200 OK\n")
	assert.Contains(t, stdout, "X-Seen: abc\r\n")
	assert.Contains(t, stdout, "body text")
}

func TestPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(w, r.Body)
	}))
	defer srv.Close()

	stdout, _, err := runCLI(t, "post", "-d", "echo me", "--chunked", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "echo me", stdout)
}

func TestFailures(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	closed := "http://" + ln.Addr().String() + "/"
	ln.Close()

	tests := []struct {
		name   string
		args   []string
		kind   errors.Kind
		stderr string
	}{
		{"bad url", []string{"get", "ftp://example.com/"}, errors.KindParse, "httpreq: ParseErr: invalid value\n"},
		{"bad header flag", []string{"get", "-H", "nocolon", "http://example.com/"}, errors.KindParse, "httpreq: ParseErr: headers contain invalid values\n"},
		{"bad cookie flag", []string{"get", "-b", "novalue", "http://example.com/"}, errors.KindParse, "httpreq: ParseErr: headers contain invalid values\n"},
		{"refused", []string{"get", closed}, errors.KindIO, "httpreq: Error: IO error\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.kind, errors.KindOf(err))
			assert.Equal(t, tt.stderr, stderr)
		})
	}
}

func TestVerboseChain(t *testing.T) {
	_, stderr, err := runCLI(t, "get", "-v", "http://example.com:99999/")
	require.Error(t, err)
	assert.Contains(t, stderr, "httpreq: ParseErr: cannot parse number\n")
	assert.Contains(t, stderr, "  caused by: ParseErr: cannot parse number\n")
	assert.Contains(t, stderr, `  caused by: strconv.ParseUint: parsing "99999": value out of range`)
}

func TestUsageErrors(t *testing.T) {
	_, stderr, err := runCLI(t, "get")
	require.Error(t, err)
	assert.Contains(t, stderr, "accepts 1 arg(s), received 0")

	var e *errors.Error
	assert.False(t, stderrors.As(err, &e))
}
