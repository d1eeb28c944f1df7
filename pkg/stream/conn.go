package stream

import (
	"io"
	"net"
	"time"
)

// Conn is an established connection. Every Read and Write refreshes its own
// deadline, and failures other than io.EOF come back as *errors.Error.
type Conn struct {
	conn         net.Conn
	addr         string
	readTimeout  time.Duration
	writeTimeout time.Duration

	// Connect and TLSHandshake record how long Dial spent in each step.
	Connect      time.Duration
	TLSHandshake time.Duration
}

var _ io.ReadWriteCloser = (*Conn)(nil)

// Addr returns the host:port the connection was dialed to.
func (c *Conn) Addr() string {
	return c.addr
}

func (c *Conn) Read(b []byte) (int, error) {
	if c.readTimeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	}
	n, err := c.conn.Read(b)
	if err == io.EOF {
		return n, err
	}
	return n, wrapErr(ErrRead, c.addr, err)
}

func (c *Conn) Write(b []byte) (int, error) {
	if c.writeTimeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	n, err := c.conn.Write(b)
	return n, wrapErr(ErrWrite, c.addr, err)
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}
