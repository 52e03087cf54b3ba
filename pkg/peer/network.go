package peer

import (
	"context"
	"fmt"
	"net"

	"github.com/df07/mirror-raytracer/pkg/core"
)

// Network owns one node's listening socket and peer table, and is itself the
// Gossiper every session recurses into when it learns new addresses.
type Network struct {
	Table      *Table
	ListenPort uint16
	Renderer   TileRenderer
	Logger     core.Logger
}

// NewNetwork builds a Network over a fresh peer table, ready to Listen and
// ConnectToPeers.
func NewNetwork(listenPort uint16, renderer TileRenderer, logger core.Logger) *Network {
	return NewNetworkWithTable(NewTable(), listenPort, renderer, logger)
}

// NewNetworkWithTable builds a Network over an existing peer table. Useful
// when another component (e.g. the scheduler) needs to share the same Table
// the network registers connections into.
func NewNetworkWithTable(table *Table, listenPort uint16, renderer TileRenderer, logger core.Logger) *Network {
	return &Network{Table: table, ListenPort: listenPort, Renderer: renderer, Logger: logger}
}

// Listen binds host and accepts inbound connections until ctx is canceled,
// dispatching each into its own session goroutine.
func (n *Network) Listen(ctx context.Context, host string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", host)
	if err != nil {
		return fmt.Errorf("peer: listen on %s: %w", host, err)
	}
	n.Logger.Printf("peer: listening on %s\n", host)

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("peer: accept: %w", err)
		}
		go runSession(ctx, conn, n.ListenPort, n.Table, n.Renderer, n, n.Logger)
	}
}

// ConnectToPeers dials every address not already known and not ourselves,
// each bounded by DialTimeout, handing successful connections to a session.
func (n *Network) ConnectToPeers(ctx context.Context, addrs []string) {
	localAddr := fmt.Sprintf("127.0.0.1:%d", n.ListenPort)
	for _, addr := range addrs {
		if addr == localAddr {
			n.Logger.Printf("peer: skipping self %s\n", addr)
			continue
		}
		if n.Table.Contains(addr) {
			n.Logger.Printf("peer: already connected to %s, skipping\n", addr)
			continue
		}

		dialCtx, cancel := context.WithTimeout(ctx, DialTimeout)
		conn, err := (&net.Dialer{}).DialContext(dialCtx, "tcp", addr)
		cancel()
		if err != nil {
			n.Logger.Printf("peer: could not connect to %s: %v\n", addr, err)
			continue
		}
		go runSession(ctx, conn, n.ListenPort, n.Table, n.Renderer, n, n.Logger)
	}
}
