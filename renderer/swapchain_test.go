package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

func TestChooseSurfaceFormatPrefersBGRASRGB(t *testing.T) {
	formats := []khr_surface.SurfaceFormat{
		{Format: core1_0.FormatR8G8B8A8UnsignedNormalized, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
		{Format: core1_0.FormatB8G8R8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
	}

	chosen := chooseSurfaceFormat(formats)
	assert.Equal(t, core1_0.FormatB8G8R8A8SRGB, chosen.Format)
	assert.Equal(t, khr_surface.ColorSpaceSRGBNonlinear, chosen.ColorSpace)
}

func TestChooseSurfaceFormatFallsBackToFirst(t *testing.T) {
	formats := []khr_surface.SurfaceFormat{
		{Format: core1_0.FormatR8G8B8A8UnsignedNormalized, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
		{Format: core1_0.FormatB8G8R8A8UnsignedNormalized, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
	}

	assert.Equal(t, formats[0], chooseSurfaceFormat(formats))
}

func TestChoosePresentModePrefersMailbox(t *testing.T) {
	modes := []khr_surface.PresentMode{
		khr_surface.PresentModeFIFO,
		khr_surface.PresentModeMailbox,
	}

	assert.Equal(t, khr_surface.PresentModeMailbox, choosePresentMode(modes))
}

func TestChoosePresentModeFallsBackToFIFO(t *testing.T) {
	modes := []khr_surface.PresentMode{
		khr_surface.PresentModeImmediate,
	}

	assert.Equal(t, khr_surface.PresentModeFIFO, choosePresentMode(modes))
}

func TestChooseImageCountRequestsOneOverMinimum(t *testing.T) {
	capabilities := &khr_surface.SurfaceCapabilities{
		MinImageCount: 2,
		MaxImageCount: 0,
	}

	assert.Equal(t, 3, chooseImageCount(capabilities))
}

func TestChooseImageCountRespectsMaximum(t *testing.T) {
	capabilities := &khr_surface.SurfaceCapabilities{
		MinImageCount: 3,
		MaxImageCount: 3,
	}

	assert.Equal(t, 3, chooseImageCount(capabilities))
}

func TestChooseCompositeAlphaPicksFirstSupported(t *testing.T) {
	capabilities := &khr_surface.SurfaceCapabilities{
		SupportedCompositeAlpha: khr_surface.CompositeAlphaPostMultiplied | khr_surface.CompositeAlphaInherit,
	}

	assert.Equal(t, khr_surface.CompositeAlphaPostMultiplied, chooseCompositeAlpha(capabilities))
}

func TestChooseCompositeAlphaDefaultsToOpaque(t *testing.T) {
	capabilities := &khr_surface.SurfaceCapabilities{
		SupportedCompositeAlpha: 0,
	}

	assert.Equal(t, khr_surface.CompositeAlphaOpaque, chooseCompositeAlpha(capabilities))
}

func TestChooseSwapchainExtentFollowsSurface(t *testing.T) {
	capabilities := &khr_surface.SurfaceCapabilities{
		CurrentExtent: core1_0.Extent2D{Width: 1024, Height: 768},
	}

	extent := chooseSwapchainExtent(capabilities, core1_0.Extent2D{Width: 800, Height: 600})
	assert.Equal(t, core1_0.Extent2D{Width: 1024, Height: 768}, extent)
}

func TestChooseSwapchainExtentClampsDrawableSize(t *testing.T) {
	capabilities := &khr_surface.SurfaceCapabilities{
		CurrentExtent:  core1_0.Extent2D{Width: -1, Height: -1},
		MinImageExtent: core1_0.Extent2D{Width: 64, Height: 64},
		MaxImageExtent: core1_0.Extent2D{Width: 2048, Height: 2048},
	}

	extent := chooseSwapchainExtent(capabilities, core1_0.Extent2D{Width: 4096, Height: 16})
	assert.Equal(t, core1_0.Extent2D{Width: 2048, Height: 64}, extent)

	extent = chooseSwapchainExtent(capabilities, core1_0.Extent2D{Width: 800, Height: 600})
	assert.Equal(t, core1_0.Extent2D{Width: 800, Height: 600}, extent)
}

func TestExtentSupported(t *testing.T) {
	capabilities := &khr_surface.SurfaceCapabilities{
		MinImageExtent: core1_0.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: core1_0.Extent2D{Width: 2048, Height: 2048},
	}

	assert.True(t, extentSupported(capabilities, core1_0.Extent2D{Width: 800, Height: 600}))
	assert.False(t, extentSupported(capabilities, core1_0.Extent2D{Width: 0, Height: 0}))
	assert.False(t, extentSupported(capabilities, core1_0.Extent2D{Width: 4096, Height: 600}))
	assert.False(t, extentSupported(capabilities, core1_0.Extent2D{Width: 800, Height: 4096}))
}

func TestViewportForExtent(t *testing.T) {
	viewport := viewportForExtent(core1_0.Extent2D{Width: 800, Height: 600})

	assert.Equal(t, float32(800.0), viewport.Width)
	assert.Equal(t, float32(600.0), viewport.Height)
	assert.Equal(t, float32(0), viewport.MinDepth)
	assert.Equal(t, float32(1), viewport.MaxDepth)
}

func TestRecreateSwapchainRejectsDegenerateExtent(t *testing.T) {
	// The zero-extent guard runs before any device access, so a zero
	// renderer is enough to exercise it.
	r := &Renderer{}

	err := r.RecreateSwapchain(core1_0.Extent2D{Width: 0, Height: 0})
	require.ErrorIs(t, err, ErrExtentUnsupported)

	err = r.RecreateSwapchain(core1_0.Extent2D{Width: 800, Height: 0})
	require.ErrorIs(t, err, ErrExtentUnsupported)

	// The prior swapchain state must be untouched by a rejected recreate.
	assert.False(t, r.swapchain.Initialized())
	assert.Empty(t, r.swapchainFramebuffers)
	assert.Empty(t, r.swapchainImageViews)
}
