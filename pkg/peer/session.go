package peer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/df07/mirror-raytracer/pkg/core"
	"github.com/df07/mirror-raytracer/pkg/wire"
)

// DialTimeout bounds how long ConnectToPeers waits for one outbound
// connection attempt before giving up on that address.
const DialTimeout = 5 * time.Second

// TileRenderer lets a session satisfy SyncScene and RenderTileRequest
// packets without this package needing to know how scenes are rendered.
type TileRenderer interface {
	SyncScene(snap wire.SceneSnapshot) error
	RenderTiles(req wire.RenderTileRequestPacket) (wire.RenderTileResponsePacket, error)
}

// Gossiper reacts to newly-learned peer addresses, normally by dialing them.
type Gossiper interface {
	ConnectToPeers(ctx context.Context, addrs []string)
}

// runSession drives one peer connection from handshake to disconnection:
// Dialing -> Greeting -> Greeted -> Registered -> Running -> Closing ->
// Closed. Blocks until the connection closes.
func runSession(ctx context.Context, conn net.Conn, listenPort uint16, table *Table, renderer TileRenderer, gossiper Gossiper, logger core.Logger) {
	localAddr := fmt.Sprintf("127.0.0.1:%d", listenPort)
	remoteHost, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		logger.Printf("peer: bad remote address %s: %v\n", conn.RemoteAddr(), err)
		conn.Close()
		return
	}

	if err := wire.WritePacket(conn, wire.HelloOf(nil, listenPort)); err != nil {
		logger.Printf("peer: hello to %s failed: %v\n", conn.RemoteAddr(), err)
		conn.Close()
		return
	}

	pkt, err := wire.ReadPacket(conn)
	if err != nil || pkt.Hello == nil {
		logger.Printf("peer: handshake with %s failed: %v\n", conn.RemoteAddr(), err)
		conn.Close()
		return
	}
	peerAddr := net.JoinHostPort(remoteHost, fmt.Sprintf("%d", pkt.Hello.ListenPort))

	p := newPeer(peerAddr, pkt.Hello.Name, conn)

	others, err := table.Register(peerAddr, localAddr, p)
	if err != nil {
		logger.Printf("peer: refused %s: %v\n", peerAddr, err)
		conn.Close()
		return
	}
	p.SetState(Registered)

	if err := p.Send(wire.GossipPeersOf(others)); err != nil {
		logger.Printf("peer: gossip to %s failed: %v\n", peerAddr, err)
	}
	logger.Printf("peer: connected to %s\n", peerAddr)

	p.SetState(Running)
	dispatchLoop(ctx, conn, p, renderer, gossiper, logger)

	p.SetState(Closing)
	table.Remove(peerAddr)
	conn.Close()
	// dispatchLoop has returned, so no goroutine can still be sending into
	// Responses; closing it wakes any remote worker blocked waiting for an
	// answer that will now never arrive.
	close(p.Responses)
	p.SetState(Closed)
	logger.Printf("peer: disconnected from %s\n", peerAddr)
}

func dispatchLoop(ctx context.Context, conn net.Conn, p *Peer, renderer TileRenderer, gossiper Gossiper, logger core.Logger) {
	for {
		pkt, err := wire.ReadPacket(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, wire.ErrShortRead) {
				logger.Printf("peer: read from %s failed: %v\n", p.Addr, err)
			}
			return
		}

		switch {
		case pkt.Hello != nil:
			logger.Printf("peer: unexpected Hello from %s\n", p.Addr)

		case pkt.GossipPeers != nil:
			gossiper.ConnectToPeers(ctx, pkt.GossipPeers.Addrs)

		case pkt.SyncScene != nil:
			if err := renderer.SyncScene(pkt.SyncScene.Scene); err != nil {
				logger.Printf("peer: scene sync from %s failed: %v\n", p.Addr, err)
			}

		case pkt.RenderTileRequest != nil:
			resp, err := renderer.RenderTiles(*pkt.RenderTileRequest)
			if err != nil {
				logger.Printf("peer: render request from %s failed: %v\n", p.Addr, err)
				continue
			}
			if err := p.Send(wire.Packet{RenderTileResponse: &resp}); err != nil {
				logger.Printf("peer: response to %s failed: %v\n", p.Addr, err)
			}

		case pkt.RenderTileResponse != nil:
			select {
			case p.Responses <- *pkt.RenderTileResponse:
			default:
				logger.Printf("peer: response queue full for %s, dropping\n", p.Addr)
			}

		default:
			logger.Printf("peer: empty packet from %s\n", p.Addr)
		}
	}
}
