// Package peer implements the TCP gossip mesh: dialing and accepting
// connections, the handshake/registration state machine, and the shared
// table of currently-connected peers.
package peer

import (
	"errors"
	"sync"
)

// ErrSelfConnect is returned by Table.Register when addr names this node's
// own listen address.
var ErrSelfConnect = errors.New("peer: refusing to connect to self")

// ErrDuplicatePeer is returned by Table.Register when addr is already
// registered.
var ErrDuplicatePeer = errors.New("peer: already connected")

// Table is the set of currently connected peers, keyed by their dial-able
// listen address ("host:port"). A single write lock guards the whole table
// so the duplicate-connection check and the insert happen atomically.
type Table struct {
	mu    sync.RWMutex
	peers map[string]*Peer
}

// NewTable creates an empty peer table.
func NewTable() *Table {
	return &Table{peers: make(map[string]*Peer)}
}

// Contains reports whether addr is currently registered.
func (t *Table) Contains(addr string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.peers[addr]
	return ok
}

// Get returns the peer registered under addr, if any.
func (t *Table) Get(addr string) (*Peer, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.peers[addr]
	return p, ok
}

// Peers returns every currently registered peer.
func (t *Table) Peers() []*Peer {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Peer, 0, len(t.peers))
	for _, p := range t.peers {
		out = append(out, p)
	}
	return out
}

// Register inserts p under addr, refusing self-connections (addr ==
// localAddr) and duplicates. On success it returns the addresses of every
// peer already in the table, computed under the same write lock as the
// insert so the list handed back for gossip can never race a concurrent
// registration.
func (t *Table) Register(addr, localAddr string, p *Peer) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if addr == localAddr {
		return nil, ErrSelfConnect
	}
	if _, ok := t.peers[addr]; ok {
		return nil, ErrDuplicatePeer
	}

	others := make([]string, 0, len(t.peers))
	for a := range t.peers {
		others = append(others, a)
	}
	t.peers[addr] = p
	return others, nil
}

// Remove deregisters addr, if present.
func (t *Table) Remove(addr string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.peers, addr)
}
