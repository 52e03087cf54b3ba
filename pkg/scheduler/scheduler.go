// Package scheduler partitions an image into tiles and drains them through a
// pool of local workers and one remote worker per connected peer, splicing
// every finished tile into a shared render.Framebuffer as it arrives.
package scheduler

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/df07/mirror-raytracer/pkg/core"
	"github.com/df07/mirror-raytracer/pkg/peer"
	"github.com/df07/mirror-raytracer/pkg/render"
	"github.com/df07/mirror-raytracer/pkg/wire"
)

// ErrSceneMissing is returned when a render is requested before a scene has
// been set on the Scheduler.
var ErrSceneMissing = fmt.Errorf("scheduler: no scene set")

// ErrFramebufferTooSmall is returned when a render is requested against a
// framebuffer smaller than render.MaxTileSize on either axis.
var ErrFramebufferTooSmall = fmt.Errorf("scheduler: framebuffer smaller than %dx%d", render.MaxTileSize, render.MaxTileSize)

// Scheduler owns the shared framebuffer and drives one progressive pass
// (samplesPerPixel additional samples) across local CPU workers and remote
// peers. It also answers RenderTileRequests from peers that treat this node
// as one of their own remote workers (see SyncScene/RenderTiles, which
// implement peer.TileRenderer).
type Scheduler struct {
	Framebuffer *render.Framebuffer
	Table       *peer.Table
	Logger      core.Logger
	Integrator  core.Integrator

	scene core.Scene
}

// NewScheduler creates a scheduler for an image of the given size.
func NewScheduler(width, height int, table *peer.Table, integrator core.Integrator, logger core.Logger) *Scheduler {
	return &Scheduler{
		Framebuffer: render.NewFramebuffer(width, height),
		Table:       table,
		Integrator:  integrator,
		Logger:      logger,
	}
}

// SetScene installs the scene future renders draw from.
func (s *Scheduler) SetScene(scene core.Scene) {
	s.scene = scene
}

// Scene returns the currently installed scene, if any.
func (s *Scheduler) Scene() (core.Scene, bool) {
	return s.scene, s.scene != nil
}

// numLocalWorkers mirrors the original backend's split: reserve at most half
// the available processors for remote peers, keep at least one local worker.
func numLocalWorkers(numRemote int) int {
	numProcessors := runtime.NumCPU()
	reserved := numRemote
	if max := numProcessors / 2; reserved > max {
		reserved = max
	}
	n := numProcessors - reserved
	if n < 1 {
		n = 1
	}
	return n
}

// RenderPass drains one progressive pass of samplesPerPixel additional
// samples over every tile of the image, across local workers and any
// connected peers, then splices every result into Framebuffer with the
// appropriate prior/new sample weighting.
func (s *Scheduler) RenderPass(ctx context.Context, samplesPerPixel int) (Info, error) {
	if s.scene == nil {
		return Info{}, ErrSceneMissing
	}

	imageSize := s.Framebuffer.Size()
	if imageSize.X < render.MaxTileSize || imageSize.Y < render.MaxTileSize {
		return Info{}, ErrFramebufferTooSmall
	}

	start := time.Now()
	priorSamples := s.Framebuffer.SampleCount()
	merge := render.WeightedMerge(priorSamples, samplesPerPixel)

	tiles := render.PartitionTiles(imageSize)
	remaining := atomic.NewInt64(int64(len(tiles)))
	work := newWorkQueue(tiles)

	peers := s.Table.Peers()
	numLocal := numLocalWorkers(len(peers))

	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < numLocal; i++ {
		seed := int64(i) + start.UnixNano()
		g.Go(func() error {
			return s.runLocalWorker(gctx, work, remaining, imageSize, samplesPerPixel, merge, seed)
		})
	}

	for _, p := range peers {
		p := p
		g.Go(func() error {
			return s.runRemoteWorker(gctx, work, remaining, p, imageSize, samplesPerPixel, merge)
		})
	}

	if err := g.Wait(); err != nil {
		return Info{}, err
	}

	s.Framebuffer.AddSamples(samplesPerPixel)
	elapsed := time.Since(start)

	return Info{
		TotalSamples:         samplesPerPixel,
		TotalTime:            elapsed,
		LastSamples:          samplesPerPixel,
		LastTime:             elapsed,
		AvgTimePerSample:     elapsed / time.Duration(samplesPerPixel),
		LastAvgTimePerSample: elapsed / time.Duration(samplesPerPixel),
	}, nil
}

// SyncScene implements peer.TileRenderer: it installs the scene a peer sent
// us so we can answer its RenderTileRequests.
func (s *Scheduler) SyncScene(snap wire.SceneSnapshot) error {
	rebuilt, err := wire.FromSnapshot(snap)
	if err != nil {
		return err
	}
	s.scene = rebuilt
	return nil
}

// RenderTiles implements peer.TileRenderer: it renders every tile a peer
// asked us to render, against the scene most recently synced to us.
func (s *Scheduler) RenderTiles(req wire.RenderTileRequestPacket) (wire.RenderTileResponsePacket, error) {
	if s.scene == nil {
		return wire.RenderTileResponsePacket{}, ErrSceneMissing
	}

	start := time.Now()
	imageSize := req.ImageSize

	wireTiles := make([]wire.WireTile, 0, len(req.Tiles))
	sampler := core.NewRandSampler(start.UnixNano())
	for _, t := range req.Tiles {
		tile := render.RenderTile(s.scene, s.Integrator, req.SamplesPerPixel, t.BeginPos, t.TileSize, imageSize, sampler)
		wireTiles = append(wireTiles, wire.ToWireTile(tile))
	}

	return wire.RenderTileResponsePacket{
		Tiles:      wireTiles,
		RenderTime: time.Since(start).Milliseconds(),
	}, nil
}
