package notification

import (
	"context"
	"fmt"
	"net"
	"time"
)

// NetworkPrinter sends rendered receipt documents to a thermal printer
// listening on a raw TCP port (the common port-9100 setup).
type NetworkPrinter struct {
	addr    string
	timeout time.Duration
}

// NewNetworkPrinter creates a printer client for the given host:port.
func NewNetworkPrinter(addr string) *NetworkPrinter {
	return &NetworkPrinter{addr: addr, timeout: defaultGatewayTimeout}
}

// Print writes the document to the printer socket, followed by a feed
// and cut sequence.
func (p *NetworkPrinter) Print(ctx context.Context, document string) error {
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	} else {
		_ = conn.SetWriteDeadline(time.Now().Add(p.timeout))
	}

	if _, err := conn.Write([]byte(document)); err != nil {
		return fmt.Errorf("printer: write: %w", err)
	}
	// feed 4 lines, then full cut (ESC/POS GS V 0)
	if _, err := conn.Write([]byte("\n\n\n\n\x1d\x56\x00")); err != nil {
		return fmt.Errorf("printer: cut: %w", err)
	}
	return nil
}
