// Command gridsig renders synthetic multi-channel signals with the grid
// renderer on the headless noop GPU backend and prints the resulting
// layout and channel lookup table.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/gridsig"
	"github.com/gogpu/gridsig/render"
)

func main() {
	var (
		shape   = flag.String("shape", "5", "channel dimensions, e.g. 64 or 8x8")
		samples = flag.Int("samples", 1000, "samples per channel")
		rate    = flag.Float64("rate", 512, "sampling rate in Hz")
		color   = flag.String("color", "random", "channel color: random, a name or #rrggbb")
		space   = flag.Float64("space", gridsig.DefaultSpace, "spacing between subplots")
		scaleX  = flag.Float64("scalex", 1, "horizontal scale")
		scaleY  = flag.Float64("scaley", 1, "vertical scale")
		seed    = flag.Uint64("seed", 1, "random seed for signals and colors")
		width   = flag.Int("width", 800, "target width")
		height  = flag.Int("height", 600, "target height")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	gridsig.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	dims, err := parseShape(*shape)
	if err != nil {
		log.Fatalf("shape: %v", err)
	}
	spec, err := gridsig.ParseColor(*color)
	if err != nil {
		log.Fatalf("color: %v", err)
	}
	if spec.Mode == gridsig.ColorRandom {
		spec.Seed = *seed
	}

	sig, err := synthesize(dims, *samples, *rate, *seed)
	if err != nil {
		log.Fatalf("synthesize: %v", err)
	}

	if err := run(sig, spec, *space, *scaleX, *scaleY, *rate, uint32(*width), uint32(*height)); err != nil { //nolint:gosec // flag values
		log.Fatal(err)
	}
}

func run(sig gridsig.Signal, spec gridsig.ColorSpec, space, sx, sy, rate float64, w, h uint32) error {
	device, queue, cleanup, err := openNoopDevice()
	if err != nil {
		return err
	}
	defer cleanup()

	r, err := render.New(device, queue,
		render.WithSpace(space),
		render.WithScale(sx, sy),
		render.WithColor(spec),
		render.WithSampleRate(rate),
	)
	if err != nil {
		return err
	}
	defer r.Destroy()

	if err := r.SetData(sig); err != nil {
		return err
	}

	view, release, err := createTarget(device, w, h)
	if err != nil {
		return err
	}
	defer release()

	if err := r.Draw(view, gridsig.Identity()); err != nil {
		return fmt.Errorf("draw: %w", err)
	}

	p := r.Params()
	fmt.Printf("grid %s, %d channels, %d samples each, %d vertices in one draw\n",
		p.Grid, p.Count, r.Len(), r.Buffers().Len())
	for row := 0; row < p.Grid.Rows; row++ {
		cells := make([]string, 0, p.Grid.Cols)
		for col := 0; col < p.Grid.Cols; col++ {
			idx, err := r.Locate(row, col)
			if errors.Is(err, gridsig.ErrLookupMiss) {
				cells = append(cells, "-")
				continue
			}
			cells = append(cells, fmt.Sprint([]int(idx)))
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
	return nil
}

// parseShape parses "64" or "8x8".
func parseShape(s string) ([]int, error) {
	parts := strings.Split(s, "x")
	if len(parts) > 2 {
		return nil, fmt.Errorf("at most two channel dimensions, got %q", s)
	}
	dims := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 1 {
			return nil, fmt.Errorf("bad dimension %q", p)
		}
		dims[i] = v
	}
	return dims, nil
}

// synthesize builds noisy sinusoids, one frequency per channel, with time
// on the last axis.
func synthesize(dims []int, n int, rate float64, seed uint64) (gridsig.Signal, error) {
	channels := 1
	for _, d := range dims {
		channels *= d
	}
	rng := rand.New(rand.NewPCG(seed, seed+1))
	data := make([]float64, channels*n)
	for k := 0; k < channels; k++ {
		freq := 2 + float64(k%16)
		offset := rng.NormFloat64() * 10
		for t := 0; t < n; t++ {
			ts := float64(t) / rate
			data[k*n+t] = offset + math.Sin(2*math.Pi*freq*ts) + 0.2*rng.NormFloat64()
		}
	}
	return gridsig.FromShape(append(dims, n), data)
}

// openNoopDevice opens the headless noop HAL device.
func openNoopDevice() (hal.Device, hal.Queue, func(), error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, nil, nil, errors.New("no adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, nil, nil, fmt.Errorf("open device: %w", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup, nil
}

// createTarget creates an offscreen render target of the given size.
func createTarget(device hal.Device, w, h uint32) (hal.TextureView, func(), error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "gridsig_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create target texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "gridsig_target_view",
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, nil, fmt.Errorf("create target view: %w", err)
	}
	release := func() {
		device.DestroyTextureView(view)
		device.DestroyTexture(tex)
	}
	return view, release, nil
}
