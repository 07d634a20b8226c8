package renderer

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// ErrExtentUnsupported reports that the surface cannot currently back a
// swapchain of the requested size, typically while the window is minimized.
// The condition is transient: keep the old swapchain and retry on a later
// tick.
var ErrExtentUnsupported = errors.New("swapchain extent unsupported by surface")

type swapchainSupportDetails struct {
	capabilities *khr_surface.SurfaceCapabilities
	formats      []khr_surface.SurfaceFormat
	presentModes []khr_surface.PresentMode
}

func (r *Renderer) querySwapchainSupport(device core1_0.PhysicalDevice) (swapchainSupportDetails, error) {
	var details swapchainSupportDetails
	var err error

	details.capabilities, _, err = r.surfaceExtension.GetPhysicalDeviceSurfaceCapabilities(r.surface, device)
	if err != nil {
		return details, err
	}

	details.formats, _, err = r.surfaceExtension.GetPhysicalDeviceSurfaceFormats(r.surface, device)
	if err != nil {
		return details, err
	}

	details.presentModes, _, err = r.surfaceExtension.GetPhysicalDeviceSurfacePresentModes(r.surface, device)
	return details, err
}

func (r *Renderer) createSwapchain() error {
	r.swapchainExtension = khr_swapchain.CreateExtensionDriverFromCoreDriver(r.deviceDriver)

	support, err := r.querySwapchainSupport(r.physicalDevice)
	if err != nil {
		return err
	}

	surfaceFormat := chooseSurfaceFormat(support.formats)
	presentMode := choosePresentMode(support.presentModes)
	extent := chooseSwapchainExtent(support.capabilities, r.DrawableExtent())

	sharingMode := core1_0.SharingModeExclusive
	var familyIndices []int

	indices, err := r.findQueueFamilies(r.physicalDevice)
	if err != nil {
		return err
	}

	if *indices.graphicsFamily != *indices.presentFamily {
		sharingMode = core1_0.SharingModeConcurrent
		familyIndices = append(familyIndices, *indices.graphicsFamily, *indices.presentFamily)
	}

	// Retained so recreation preserves every parameter except the extent.
	r.swapchainInfo = khr_swapchain.SwapchainCreateInfo{
		Surface: r.surface,

		MinImageCount:    chooseImageCount(support.capabilities),
		ImageFormat:      surfaceFormat.Format,
		ImageColorSpace:  surfaceFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   sharingMode,
		QueueFamilyIndices: familyIndices,

		PreTransform:   support.capabilities.CurrentTransform,
		CompositeAlpha: chooseCompositeAlpha(support.capabilities),
		PresentMode:    presentMode,
		Clipped:        true,
	}

	swapchain, _, err := r.swapchainExtension.CreateSwapchain(nil, r.swapchainInfo)
	if err != nil {
		return err
	}
	r.swapchain = swapchain

	r.swapchainImages, _, err = r.swapchainExtension.GetSwapchainImages(r.swapchain)
	return err
}

// RecreateSwapchain replaces the swapchain with one of the given extent,
// keeping every other creation parameter, then rebuilds the image views and
// framebuffers derived from it. An extent the surface cannot back yields
// ErrExtentUnsupported before anything is destroyed, so the previous
// swapchain and framebuffer set stay valid.
func (r *Renderer) RecreateSwapchain(extent core1_0.Extent2D) error {
	if extent.Width <= 0 || extent.Height <= 0 {
		return errors.Wrapf(ErrExtentUnsupported, "requested %dx%d", extent.Width, extent.Height)
	}

	capabilities, _, err := r.surfaceExtension.GetPhysicalDeviceSurfaceCapabilities(r.surface, r.physicalDevice)
	if err != nil {
		return err
	}
	if !extentSupported(capabilities, extent) {
		return errors.Wrapf(ErrExtentUnsupported, "requested %dx%d", extent.Width, extent.Height)
	}

	_, err = r.deviceDriver.DeviceWaitIdle()
	if err != nil {
		return err
	}

	r.destroyFramebuffers()

	oldSwapchain := r.swapchain
	r.swapchainInfo.ImageExtent = extent

	swapchain, _, err := r.swapchainExtension.CreateSwapchain(nil, r.swapchainInfo)
	if err != nil {
		return err
	}
	if oldSwapchain.Initialized() {
		r.swapchainExtension.DestroySwapchain(oldSwapchain, nil)
	}
	r.swapchain = swapchain

	r.swapchainImages, _, err = r.swapchainExtension.GetSwapchainImages(r.swapchain)
	if err != nil {
		return err
	}

	return r.buildFramebuffers()
}

func chooseSurfaceFormat(availableFormats []khr_surface.SurfaceFormat) khr_surface.SurfaceFormat {
	for _, format := range availableFormats {
		if format.Format == core1_0.FormatB8G8R8A8SRGB && format.ColorSpace == khr_surface.ColorSpaceSRGBNonlinear {
			return format
		}
	}

	return availableFormats[0]
}

func choosePresentMode(availablePresentModes []khr_surface.PresentMode) khr_surface.PresentMode {
	for _, presentMode := range availablePresentModes {
		if presentMode == khr_surface.PresentModeMailbox {
			return presentMode
		}
	}

	// FIFO support is mandated by the Vulkan spec
	return khr_surface.PresentModeFIFO
}

func chooseImageCount(capabilities *khr_surface.SurfaceCapabilities) int {
	count := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && count > capabilities.MaxImageCount {
		count = capabilities.MaxImageCount
	}
	return count
}

func chooseCompositeAlpha(capabilities *khr_surface.SurfaceCapabilities) khr_surface.CompositeAlphaFlags {
	modes := []khr_surface.CompositeAlphaFlags{
		khr_surface.CompositeAlphaOpaque,
		khr_surface.CompositeAlphaPreMultiplied,
		khr_surface.CompositeAlphaPostMultiplied,
		khr_surface.CompositeAlphaInherit,
	}

	for _, mode := range modes {
		if (capabilities.SupportedCompositeAlpha & mode) != 0 {
			return mode
		}
	}

	return khr_surface.CompositeAlphaOpaque
}

// chooseSwapchainExtent follows the surface when it dictates an extent;
// a CurrentExtent width of -1 means the surface defers to the window, in
// which case the drawable size is clamped into the supported range.
func chooseSwapchainExtent(capabilities *khr_surface.SurfaceCapabilities, drawable core1_0.Extent2D) core1_0.Extent2D {
	if capabilities.CurrentExtent.Width != -1 {
		return capabilities.CurrentExtent
	}

	extent := drawable
	if extent.Width < capabilities.MinImageExtent.Width {
		extent.Width = capabilities.MinImageExtent.Width
	}
	if extent.Width > capabilities.MaxImageExtent.Width {
		extent.Width = capabilities.MaxImageExtent.Width
	}
	if extent.Height < capabilities.MinImageExtent.Height {
		extent.Height = capabilities.MinImageExtent.Height
	}
	if extent.Height > capabilities.MaxImageExtent.Height {
		extent.Height = capabilities.MaxImageExtent.Height
	}

	return extent
}

func extentSupported(capabilities *khr_surface.SurfaceCapabilities, extent core1_0.Extent2D) bool {
	if extent.Width <= 0 || extent.Height <= 0 {
		return false
	}

	return extent.Width >= capabilities.MinImageExtent.Width &&
		extent.Width <= capabilities.MaxImageExtent.Width &&
		extent.Height >= capabilities.MinImageExtent.Height &&
		extent.Height <= capabilities.MaxImageExtent.Height
}
