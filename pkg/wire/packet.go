// Package wire implements the length-prefixed, CBOR-encoded framing protocol
// peers use to exchange control and render traffic, and the serializable
// snapshot of a scene that travels inside a SyncScene packet.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/df07/mirror-raytracer/pkg/render"
	"github.com/fxamacker/cbor/v2"
)

// ErrShortRead is returned when a peer closes the connection mid-frame.
var ErrShortRead = errors.New("wire: short read")

// HelloPacket is the initial handshake packet: the sender's optional display
// name and the port it listens on for inbound connections.
type HelloPacket struct {
	Name       *string `cbor:"name"`
	ListenPort uint16  `cbor:"listenPort"`
}

// GossipPeersPacket distributes known peer listen-addresses.
type GossipPeersPacket struct {
	Addrs []string `cbor:"addrs"`
}

// SyncScenePacket carries a full scene snapshot to a collaborating peer.
type SyncScenePacket struct {
	Scene SceneSnapshot `cbor:"scene"`
}

// RenderTileRequestPacket asks a peer to render a batch of tiles.
type RenderTileRequestPacket struct {
	Tiles           []render.TileRenderWork `cbor:"tiles"`
	ImageSize       render.Point            `cbor:"imageSize"`
	SamplesPerPixel int                     `cbor:"spp"`
}

// WireTile is the over-the-wire form of a render.Tile (same shape; named
// distinctly so the packet's schema doesn't silently change if render.Tile
// ever grows unexported bookkeeping fields).
type WireTile struct {
	BeginPos render.Point `cbor:"beginPos"`
	Size     render.Point `cbor:"size"`
	Pixels   []float64    `cbor:"pixels"` // flattened X,Y,Z per pixel
}

// ToWireTile flattens a render.Tile for transport.
func ToWireTile(t *render.Tile) WireTile {
	pixels := make([]float64, 0, len(t.Pixels)*3)
	for _, p := range t.Pixels {
		pixels = append(pixels, p.X, p.Y, p.Z)
	}
	return WireTile{BeginPos: t.BeginPos, Size: t.Size, Pixels: pixels}
}

// ToTile reconstructs a render.Tile from its wire form.
func (wt WireTile) ToTile() *render.Tile {
	t := render.NewTile(wt.BeginPos, wt.Size)
	for i := range t.Pixels {
		t.Pixels[i].X = wt.Pixels[i*3]
		t.Pixels[i].Y = wt.Pixels[i*3+1]
		t.Pixels[i].Z = wt.Pixels[i*3+2]
	}
	return t
}

// RenderTileResponsePacket answers a RenderTileRequestPacket; Tiles is
// positionally aligned with the request's Tiles.
type RenderTileResponsePacket struct {
	Tiles      []WireTile `cbor:"tiles"`
	RenderTime int64      `cbor:"renderTimeMs"`
}

// Packet is the tagged union of every message exchanged between peers.
// Exactly one field is non-nil.
type Packet struct {
	Hello              *HelloPacket              `cbor:"hello,omitempty"`
	GossipPeers        *GossipPeersPacket        `cbor:"gossipPeers,omitempty"`
	SyncScene          *SyncScenePacket          `cbor:"syncScene,omitempty"`
	RenderTileRequest  *RenderTileRequestPacket  `cbor:"renderTileRequest,omitempty"`
	RenderTileResponse *RenderTileResponsePacket `cbor:"renderTileResponse,omitempty"`
}

// HelloOf wraps a HelloPacket into a Packet.
func HelloOf(name *string, listenPort uint16) Packet {
	return Packet{Hello: &HelloPacket{Name: name, ListenPort: listenPort}}
}

// GossipPeersOf wraps a GossipPeersPacket into a Packet.
func GossipPeersOf(addrs []string) Packet {
	return Packet{GossipPeers: &GossipPeersPacket{Addrs: addrs}}
}

// SyncSceneOf wraps a SceneSnapshot into a Packet.
func SyncSceneOf(s SceneSnapshot) Packet {
	return Packet{SyncScene: &SyncScenePacket{Scene: s}}
}

// ReadPacket reads one length-prefixed CBOR frame from r and decodes it.
func ReadPacket(r io.Reader) (Packet, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return Packet{}, io.EOF
		}
		return Packet{}, fmt.Errorf("wire: read length prefix: %w", err)
	}
	length := binary.BigEndian.Uint32(lenBuf[:])

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Packet{}, ErrShortRead
		}
		return Packet{}, fmt.Errorf("wire: read payload: %w", err)
	}

	var p Packet
	if err := cbor.Unmarshal(payload, &p); err != nil {
		return Packet{}, fmt.Errorf("wire: decode: %w", err)
	}
	return p, nil
}

// WritePacket encodes p as CBOR and writes it to w as one length-prefixed
// frame.
func WritePacket(w io.Writer, p Packet) error {
	payload, err := cbor.Marshal(p)
	if err != nil {
		return fmt.Errorf("wire: encode: %w", err)
	}

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("wire: write length prefix: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("wire: write payload: %w", err)
	}
	return nil
}
