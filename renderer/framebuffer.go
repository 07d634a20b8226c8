package renderer

import (
	"github.com/vkngwrapper/core/v3/core1_0"
)

// buildFramebuffers derives one color view and one framebuffer per
// swapchain image against the shared render pass, then moves the viewport
// to the swapchain extent. Must run again after every successful swapchain
// recreation; the framebuffer count always matches the live image count.
func (r *Renderer) buildFramebuffers() error {
	extent := r.swapchainInfo.ImageExtent

	for _, image := range r.swapchainImages {
		view, _, err := r.deviceDriver.CreateImageView(nil, core1_0.ImageViewCreateInfo{
			Image:    image,
			ViewType: core1_0.ImageViewType2D,
			Format:   r.swapchainInfo.ImageFormat,
			SubresourceRange: core1_0.ImageSubresourceRange{
				AspectMask:     core1_0.ImageAspectColor,
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		})
		if err != nil {
			return err
		}
		r.swapchainImageViews = append(r.swapchainImageViews, view)

		framebuffer, _, err := r.deviceDriver.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
			RenderPass: r.renderPass,
			Layers:     1,
			Attachments: []core1_0.ImageView{
				view,
			},
			Width:  extent.Width,
			Height: extent.Height,
		})
		if err != nil {
			return err
		}
		r.swapchainFramebuffers = append(r.swapchainFramebuffers, framebuffer)
	}

	// Every image in a swapchain shares its extent, so the first image's
	// dimensions and the creation extent are the same value.
	r.viewport = viewportForExtent(extent)
	return nil
}

func viewportForExtent(extent core1_0.Extent2D) core1_0.Viewport {
	return core1_0.Viewport{
		X:        0,
		Y:        0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	}
}

func (r *Renderer) destroyFramebuffers() {
	for _, framebuffer := range r.swapchainFramebuffers {
		r.deviceDriver.DestroyFramebuffer(framebuffer, nil)
	}
	r.swapchainFramebuffers = nil

	for _, imageView := range r.swapchainImageViews {
		r.deviceDriver.DestroyImageView(imageView, nil)
	}
	r.swapchainImageViews = nil
}
