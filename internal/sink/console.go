// internal/sink/console.go
package sink

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/tamzrod/modbus-gauge/internal/poller"
)

// Console formats.
const (
	FormatDecimal = "decimal"
	FormatHex     = "hex"
	FormatBinary  = "binary"
)

// Console prints one line per result. It is the default sink.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	format string
}

func NewConsole(w io.Writer, format string) *Console {
	if format == "" {
		format = FormatDecimal
	}
	return &Console{w: w, format: format}
}

func (c *Console) Name() string { return "console" }

func (c *Console) Deliver(_ context.Context, res poller.PollResult) error {
	line := c.render(res)

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.w, line+"\n")
	return err
}

func (c *Console) render(res poller.PollResult) string {
	t := res.Target
	ts := res.At.UTC().Format(time.RFC3339)

	if res.Err != nil {
		return fmt.Sprintf("%s %s addr=%d error kind=%s code=0x%04x err=%v",
			ts, t.ID, t.UserAddress, res.Kind, res.Code(), res.Err)
	}

	return fmt.Sprintf("%s %s addr=%d type=%s raw=%s value=%s",
		ts, t.ID, t.UserAddress, t.Type, c.raw(res), strconv.FormatFloat(res.Scaled, 'g', -1, 64))
}

// raw renders the decoded value before scaling. hex and binary show the
// bit pattern padded to the type width.
func (c *Console) raw(res poller.PollResult) string {
	v := res.Value
	width := 16 * v.Type.Words()

	switch c.format {
	case FormatHex:
		return fmt.Sprintf("0x%0*x", width/4, v.Bits)
	case FormatBinary:
		return fmt.Sprintf("0b%0*b", width, v.Bits)
	}
	if n, ok := v.Int64(); ok {
		return strconv.FormatInt(n, 10)
	}
	return strconv.FormatFloat(v.Float64(), 'g', -1, 32)
}
