package peer

import (
	"net"
	"sync"

	"github.com/df07/mirror-raytracer/pkg/wire"
)

// State is a point in a peer session's lifecycle. Sessions move strictly
// forward through these states, never backward.
type State int

const (
	Dialing State = iota
	Greeting
	Greeted
	Registered
	Running
	Closing
	Closed
)

func (s State) String() string {
	switch s {
	case Dialing:
		return "dialing"
	case Greeting:
		return "greeting"
	case Greeted:
		return "greeted"
	case Registered:
		return "registered"
	case Running:
		return "running"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// responseQueueSize bounds render-tile responses in flight for one peer.
// The scheduler's remote worker never has more than BATCH outstanding, so
// this only needs headroom over that.
const responseQueueSize = 64

// Peer is a registered connection to another node.
type Peer struct {
	Addr string
	Name *string

	writeMu sync.Mutex
	conn    net.Conn

	stMu  sync.Mutex
	state State

	// Responses delivers RenderTileResponse packets this peer sends us, for
	// a remote worker awaiting the answer to its own request.
	Responses chan wire.RenderTileResponsePacket
}

func newPeer(addr string, name *string, conn net.Conn) *Peer {
	return &Peer{
		Addr:      addr,
		Name:      name,
		conn:      conn,
		Responses: make(chan wire.RenderTileResponsePacket, responseQueueSize),
	}
}

// SetState records the session's current lifecycle state.
func (p *Peer) SetState(s State) {
	p.stMu.Lock()
	p.state = s
	p.stMu.Unlock()
}

// State returns the session's current lifecycle state.
func (p *Peer) State() State {
	p.stMu.Lock()
	defer p.stMu.Unlock()
	return p.state
}

// Send writes a packet to this peer, serializing concurrent writers (a
// session's read loop and a scheduler worker may both want to send at once).
func (p *Peer) Send(pkt wire.Packet) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return wire.WritePacket(p.conn, pkt)
}

// Close closes the underlying connection.
func (p *Peer) Close() error {
	return p.conn.Close()
}
