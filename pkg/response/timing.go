package response

import (
	"strings"
	"time"
)

// Timing records how long each phase of an exchange took.
type Timing struct {
	Connect      time.Duration // TCP connection establishment
	TLSHandshake time.Duration // 0 for plain HTTP
	TTFB         time.Duration // from request written to status line read
	Total        time.Duration
}

func (t Timing) String() string {
	var b strings.Builder
	b.WriteString("Timing:\n")
	if t.Connect > 0 {
		b.WriteString("  Connect: " + t.Connect.String() + "\n")
	}
	if t.TLSHandshake > 0 {
		b.WriteString("  TLS Handshake: " + t.TLSHandshake.String() + "\n")
	}
	if t.TTFB > 0 {
		b.WriteString("  Time to First Byte: " + t.TTFB.String() + "\n")
	}
	b.WriteString("  Total: " + t.Total.String())
	return b.String()
}
