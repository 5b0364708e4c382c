package probes

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	gnet "github.com/shirou/gopsutil/v4/net"

	"labdoctor/internal/health"
)

const (
	listenStatus       = "LISTEN"
	defaultDialTimeout = 300 * time.Millisecond
)

// ListenerFunc lists TCP sockets on the host.
type ListenerFunc func(ctx context.Context) ([]gnet.ConnectionStat, error)

// PortProbe reports whether something is listening on a local TCP port.
// It reads the socket table first and falls back to a dial when the table
// is unreadable or empty.
type PortProbe struct {
	Port        int
	Host        string
	DialTimeout time.Duration

	listeners ListenerFunc
}

func NewPortProbe(port int) *PortProbe {
	return &PortProbe{
		Port:        port,
		Host:        "127.0.0.1",
		DialTimeout: defaultDialTimeout,
		listeners:   tcpSockets,
	}
}

func tcpSockets(ctx context.Context) ([]gnet.ConnectionStat, error) {
	return gnet.ConnectionsWithContext(ctx, "tcp")
}

func (p *PortProbe) Label() string {
	return fmt.Sprintf("port:%d", p.Port)
}

func (p *PortProbe) Check(ctx context.Context) health.Row {
	label := p.Label()

	if p.listeners != nil {
		conns, err := p.listeners(ctx)
		if err == nil && len(conns) > 0 {
			if hasListener(conns, p.Port) {
				return health.OK(label, "listening")
			}
			return health.Warn(label, "idle")
		}
	}
	if ctx.Err() != nil {
		return health.Fail(label, TimedOut)
	}

	if p.dial(ctx) {
		return health.OK(label, "listening")
	}
	return health.Warn(label, "idle")
}

func hasListener(conns []gnet.ConnectionStat, port int) bool {
	for _, c := range conns {
		if c.Status == listenStatus && int(c.Laddr.Port) == port {
			return true
		}
	}
	return false
}

func (p *PortProbe) dial(ctx context.Context) bool {
	d := net.Dialer{Timeout: p.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(p.Host, strconv.Itoa(p.Port)))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
