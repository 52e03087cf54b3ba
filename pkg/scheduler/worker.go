package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/atomic"

	"github.com/df07/mirror-raytracer/pkg/core"
	"github.com/df07/mirror-raytracer/pkg/peer"
	"github.com/df07/mirror-raytracer/pkg/render"
	"github.com/df07/mirror-raytracer/pkg/scene"
	"github.com/df07/mirror-raytracer/pkg/wire"
)

// batchSize is the number of tiles a remote worker requests per round trip.
const batchSize = 8

// ErrUnsnapshottableScene is returned when a remote worker needs to hand its
// scene to a peer but the installed scene isn't a *scene.Scene (the only
// concrete type wire.ToSnapshot knows how to serialize).
var ErrUnsnapshottableScene = fmt.Errorf("scheduler: scene is not serializable for remote peers")

// runLocalWorker drains render.TileRenderWork items from work, rendering
// each on this CPU, until the channel is exhausted, splicing finished tiles
// into the framebuffer as they complete.
func (s *Scheduler) runLocalWorker(ctx context.Context, work *workQueue, remaining *atomic.Int64, imageSize render.Point, samplesPerPixel int, merge render.MergeFunc, seed int64) error {
	sampler := core.NewRandSampler(seed)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case item, ok := <-work.ch:
			if !ok {
				return nil
			}
			tile := render.RenderTile(s.scene, s.Integrator, samplesPerPixel, item.BeginPos, item.TileSize, imageSize, sampler)
			s.Framebuffer.InsertTileBy(tile, item.BeginPos, merge)
			work.complete(remaining, 1)
		}
	}
}

// runRemoteWorker syncs the current scene to p, then drains
// render.TileRenderWork items from work in batches of up to batchSize,
// asking p to render each batch. A batch that fails to round-trip is
// requeued for another worker to pick up and this worker exits; work stays
// open for the remaining workers.
func (s *Scheduler) runRemoteWorker(ctx context.Context, work *workQueue, remaining *atomic.Int64, p *peer.Peer, imageSize render.Point, samplesPerPixel int, merge render.MergeFunc) error {
	concreteScene, ok := s.scene.(*scene.Scene)
	if !ok {
		return ErrUnsnapshottableScene
	}
	snap, err := wire.ToSnapshot(concreteScene)
	if err != nil {
		return fmt.Errorf("scheduler: snapshot scene for %s: %w", p.Addr, err)
	}
	if err := p.Send(wire.SyncSceneOf(snap)); err != nil {
		s.Logger.Printf("scheduler: sync scene to %s failed: %v\n", p.Addr, err)
		return nil
	}

	batch := make([]render.TileRenderWork, 0, batchSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case item, ok := <-work.ch:
			if !ok {
				return nil
			}
			batch = append(batch, item)
			batch = drainUpTo(work.ch, batch, batchSize)

			if err := s.flushRemoteBatch(p, batch, imageSize, samplesPerPixel, merge, work, remaining); err != nil {
				s.Logger.Printf("scheduler: remote batch to %s failed: %v\n", p.Addr, err)
				work.pushBatch(batch)
				return nil
			}
			batch = batch[:0]
		}
	}
}

// drainUpTo opportunistically grabs additional queued work without blocking,
// up to limit items total in batch.
func drainUpTo(ch <-chan render.TileRenderWork, batch []render.TileRenderWork, limit int) []render.TileRenderWork {
	for len(batch) < limit {
		select {
		case item, ok := <-ch:
			if !ok {
				return batch
			}
			batch = append(batch, item)
		default:
			return batch
		}
	}
	return batch
}

func (s *Scheduler) flushRemoteBatch(p *peer.Peer, batch []render.TileRenderWork, imageSize render.Point, samplesPerPixel int, merge render.MergeFunc, work *workQueue, remaining *atomic.Int64) error {
	if len(batch) == 0 {
		return nil
	}

	req := wire.RenderTileRequestPacket{
		Tiles:           batch,
		ImageSize:       imageSize,
		SamplesPerPixel: samplesPerPixel,
	}
	if err := p.Send(wire.Packet{RenderTileRequest: &req}); err != nil {
		return err
	}

	resp, ok := <-p.Responses
	if !ok {
		return fmt.Errorf("peer %s closed its response queue", p.Addr)
	}
	for i, wt := range resp.Tiles {
		if i >= len(batch) {
			break
		}
		s.Framebuffer.InsertTileBy(wt.ToTile(), batch[i].BeginPos, merge)
	}
	work.complete(remaining, int64(len(batch)))
	return nil
}
