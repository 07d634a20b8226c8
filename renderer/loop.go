package renderer

import (
	"log"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3/core1_0"
)

// SurfaceSource reports the current drawable size of a presentation
// surface.
type SurfaceSource interface {
	DrawableExtent() core1_0.Extent2D
}

// RenderTarget is the device-facing side of the loop: everything that has
// to be rebuilt when the surface size changes.
type RenderTarget interface {
	RecreateSwapchain(extent core1_0.Extent2D) error
}

type loopState uint8

const (
	loopRunning loopState = iota
	loopExiting
)

// Loop drives swapchain recreation from window events. Resize notifications
// only mark the swapchain stale; the recreation itself happens once per
// drained event batch, using whatever extent the surface reports at that
// point.
type Loop struct {
	surface SurfaceSource
	target  RenderTarget

	state             loopState
	recreateSwapchain bool
}

func NewLoop(surface SurfaceSource, target RenderTarget) *Loop {
	return &Loop{
		surface: surface,
		target:  target,
	}
}

// NoteResize marks the swapchain stale. Resize events arrive in bursts;
// the batch tick coalesces any number of them into a single recreation.
func (l *Loop) NoteResize() {
	l.recreateSwapchain = true
}

// NoteCloseRequested moves the loop to its terminal state.
func (l *Loop) NoteCloseRequested() {
	l.state = loopExiting
}

func (l *Loop) Running() bool {
	return l.state == loopRunning
}

// FinishEventBatch runs once after each drained event batch. A recreation
// attempt against an unsupported extent is skipped with the stale mark left
// in place, to be retried on a later batch; any other recreation failure is
// fatal.
func (l *Loop) FinishEventBatch() error {
	if !l.recreateSwapchain {
		return nil
	}

	extent := l.surface.DrawableExtent()

	start := hrtime.Now()
	err := l.target.RecreateSwapchain(extent)
	if errors.Is(err, ErrExtentUnsupported) {
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("recreated swapchain at %dx%d in %v", extent.Width, extent.Height, hrtime.Since(start))
	l.recreateSwapchain = false
	return nil
}

// Run pumps SDL events until a close is requested. Nothing is drawn or
// presented between batches yet.
func (l *Loop) Run() error {
	for l.Running() {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				l.NoteCloseRequested()
			case *sdl.WindowEvent:
				switch e.Event {
				case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED, sdl.WINDOWEVENT_MINIMIZED, sdl.WINDOWEVENT_RESTORED:
					l.NoteResize()
				}
			}
		}

		if err := l.FinishEventBatch(); err != nil {
			return err
		}

		// No draw call exists to block on, so yield between batches.
		sdl.Delay(1)
	}

	return nil
}
