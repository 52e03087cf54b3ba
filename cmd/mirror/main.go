// Command mirror runs one node of a distributed progressive path tracer: it
// renders its own tiles locally, farms tiles out to any peers it is
// connected to, and gossips peer addresses so the mesh stays connected.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/df07/mirror-raytracer/pkg/config"
	"github.com/df07/mirror-raytracer/pkg/core"
	"github.com/df07/mirror-raytracer/pkg/geometry"
	"github.com/df07/mirror-raytracer/pkg/integrator"
	"github.com/df07/mirror-raytracer/pkg/peer"
	"github.com/df07/mirror-raytracer/pkg/scene"
	"github.com/df07/mirror-raytracer/pkg/scheduler"
)

// cliFlags holds the command-line surface; --no-gui is accepted for
// compatibility with scripts driving this and a GUI-bearing sibling build,
// but this binary never has a GUI, so it's a no-op.
type cliFlags struct {
	ConfigPath string
	NoGUI      bool
	SceneType  string
	Width      int
	Height     int
	SPP        int
	MaxPasses  int
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.ConfigPath, "config", "", "path to a TOML config file (default: built-in defaults)")
	flag.BoolVar(&f.NoGUI, "no-gui", false, "accepted for compatibility; this build has no GUI")
	flag.StringVar(&f.SceneType, "scene", "default", "built-in scene to render")
	flag.IntVar(&f.Width, "width", 0, "override image width (0 = scene default; the cornell scene ignores it)")
	flag.IntVar(&f.Height, "height", 0, "override image height (0 = derive from width and aspect ratio)")
	flag.IntVar(&f.SPP, "spp", 16, "samples per pixel added per progressive pass")
	flag.IntVar(&f.MaxPasses, "max-passes", 10, "number of progressive passes to run before exiting")
	flag.Parse()
	return f
}

func main() {
	flags := parseFlags()
	logger := core.NewDefaultLogger()

	cfg := config.Default()
	if flags.ConfigPath != "" {
		loaded, err := config.Load(flags.ConfigPath)
		if err != nil {
			logger.Printf("mirror: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	sceneObj, err := buildScene(flags.SceneType, flags.Width)
	if err != nil {
		logger.Printf("mirror: %v\n", err)
		os.Exit(1)
	}
	if err := sceneObj.Preprocess(); err != nil {
		logger.Printf("mirror: preprocess scene: %v\n", err)
		os.Exit(1)
	}

	width := sceneObj.CameraConfig.Width
	height := flags.Height
	if height == 0 {
		height = int(float64(width) / sceneObj.CameraConfig.AspectRatio)
	}

	pathTracer := integrator.NewPathTracingIntegrator(sceneObj.SamplingConfig)

	table := peer.NewTable()
	sched := scheduler.NewScheduler(width, height, table, pathTracer, logger)
	sched.SetScene(sceneObj)

	_, listenPortStr, err := net.SplitHostPort(cfg.Host)
	if err != nil {
		logger.Printf("mirror: bad host %q: %v\n", cfg.Host, err)
		os.Exit(1)
	}
	listenPort := parsePort(listenPortStr)

	network := peer.NewNetworkWithTable(table, listenPort, sched, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := network.Listen(ctx, cfg.Host); err != nil {
			logger.Printf("mirror: listener stopped: %v\n", err)
			os.Exit(1)
		}
	}()
	network.ConnectToPeers(ctx, cfg.BootstrapPeers)

	runRenderLoop(ctx, sched, flags.MaxPasses, flags.SPP, flags.SceneType, logger)
}

func buildScene(sceneType string, width int) (*scene.Scene, error) {
	var cameraOverride geometry.CameraConfig
	if width > 0 {
		cameraOverride.Width = width
	}

	switch sceneType {
	case "default":
		return scene.NewDefaultScene(cameraOverride), nil
	case "cornell":
		return scene.NewCornellScene(), nil
	case "spheregrid":
		return scene.NewSphereGridScene(cameraOverride), nil
	default:
		return nil, fmt.Errorf("unknown scene type: %s", sceneType)
	}
}

func runRenderLoop(ctx context.Context, sched *scheduler.Scheduler, maxPasses, spp int, sceneType string, logger core.Logger) {
	outputDir := filepath.Join("output", sceneType)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		logger.Printf("mirror: create output dir: %v\n", err)
		return
	}

	var info scheduler.Info
	for pass := 1; pass <= maxPasses; pass++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		passInfo, err := sched.RenderPass(ctx, spp)
		if err != nil {
			logger.Printf("mirror: render pass %d failed: %v\n", pass, err)
			return
		}
		info.Merge(passInfo)

		logger.Printf("mirror: pass %d/%d done in %v (total samples %d, avg %v/sample)\n",
			pass, maxPasses, passInfo.LastTime, info.TotalSamples, info.AvgTimePerSample)

		filename := filepath.Join(outputDir, fmt.Sprintf("render_pass_%02d.png", pass))
		if err := savePNG(sched.Framebuffer.Size().X, sched.Framebuffer.Size().Y, sched.Framebuffer.ToBytes(), filename); err != nil {
			logger.Printf("mirror: save %s: %v\n", filename, err)
		}
	}
}

func savePNG(width, height int, rgb []byte, filename string) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		img.Pix[i*4+0] = rgb[i*3+0]
		img.Pix[i*4+1] = rgb[i*3+1]
		img.Pix[i*4+2] = rgb[i*3+2]
		img.Pix[i*4+3] = 255
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, img)
}

func parsePort(s string) uint16 {
	var port int
	_, _ = fmt.Sscanf(s, "%d", &port)
	return uint16(port)
}
