package peer

import (
	"errors"
	"net"
	"testing"
)

func fakePeer(t *testing.T) *Peer {
	t.Helper()
	c1, c2 := net.Pipe()
	t.Cleanup(func() { c1.Close(); c2.Close() })
	return newPeer("10.0.0.1:2020", nil, c1)
}

func TestTable_RegisterAndContains(t *testing.T) {
	table := NewTable()
	p := fakePeer(t)

	if _, err := table.Register("10.0.0.1:2020", "10.0.0.9:2020", p); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !table.Contains("10.0.0.1:2020") {
		t.Errorf("expected table to contain the registered address")
	}
	if got, ok := table.Get("10.0.0.1:2020"); !ok || got != p {
		t.Errorf("Get returned (%+v, %v), want (%+v, true)", got, ok, p)
	}
}

func TestTable_RegisterRefusesSelf(t *testing.T) {
	table := NewTable()
	p := fakePeer(t)

	_, err := table.Register("10.0.0.1:2020", "10.0.0.1:2020", p)
	if !errors.Is(err, ErrSelfConnect) {
		t.Errorf("got err %v, want ErrSelfConnect", err)
	}
}

func TestTable_RegisterRefusesDuplicate(t *testing.T) {
	table := NewTable()
	p1 := fakePeer(t)
	p2 := fakePeer(t)

	if _, err := table.Register("10.0.0.1:2020", "10.0.0.9:2020", p1); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := table.Register("10.0.0.1:2020", "10.0.0.9:2020", p2); !errors.Is(err, ErrDuplicatePeer) {
		t.Errorf("got err %v, want ErrDuplicatePeer", err)
	}
}

func TestTable_RegisterReturnsExistingAddrs(t *testing.T) {
	table := NewTable()
	p1 := fakePeer(t)
	p2 := fakePeer(t)

	if _, err := table.Register("10.0.0.1:2020", "10.0.0.9:2020", p1); err != nil {
		t.Fatalf("Register p1: %v", err)
	}
	others, err := table.Register("10.0.0.2:2020", "10.0.0.9:2020", p2)
	if err != nil {
		t.Fatalf("Register p2: %v", err)
	}
	if len(others) != 1 || others[0] != "10.0.0.1:2020" {
		t.Errorf("got others %v, want [10.0.0.1:2020]", others)
	}
}

func TestTable_Remove(t *testing.T) {
	table := NewTable()
	p := fakePeer(t)
	if _, err := table.Register("10.0.0.1:2020", "", p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	table.Remove("10.0.0.1:2020")
	if table.Contains("10.0.0.1:2020") {
		t.Errorf("expected address to be removed")
	}
}
