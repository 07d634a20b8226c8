// Package renderer brings up a Vulkan instance, device, swapchain, and
// framebuffer set against an SDL window, and keeps the swapchain matched to
// the window's drawable size across resizes. Nothing is drawn or presented
// yet; the package ends at the recreation skeleton.
package renderer

import (
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// Renderer owns every Vulkan object the setup phase creates. All loop state
// lives in explicit fields rather than closure captures; the event loop
// reaches it through the SurfaceSource and RenderTarget interfaces.
type Renderer struct {
	window *sdl.Window

	globalDriver   core1_0.GlobalDriver
	instanceDriver core1_0.CoreInstanceDriver
	deviceDriver   core1_0.CoreDeviceDriver

	debugDriver    ext_debug_utils.ExtensionDriver
	debugMessenger ext_debug_utils.DebugUtilsMessenger

	surfaceExtension khr_surface.ExtensionDriver
	surface          khr_surface.Surface

	physicalDevice core1_0.PhysicalDevice

	// Queues are retrieved during setup but nothing submits to them yet.
	graphicsQueue core1_0.Queue
	presentQueue  core1_0.Queue

	swapchainExtension khr_swapchain.ExtensionDriver
	swapchain          khr_swapchain.Swapchain
	swapchainInfo      khr_swapchain.SwapchainCreateInfo
	swapchainImages    []core1_0.Image

	renderPass core1_0.RenderPass

	swapchainImageViews   []core1_0.ImageView
	swapchainFramebuffers []core1_0.Framebuffer
	viewport              core1_0.Viewport
}

// Run initializes the window and the Vulkan object graph, then drives the
// event loop until a close is requested.
func (r *Renderer) Run() error {
	err := r.initWindow()
	if err != nil {
		return err
	}

	err = r.initVulkan()
	if err != nil {
		return err
	}
	defer r.cleanup()

	return NewLoop(r, r).Run()
}

func (r *Renderer) initVulkan() error {
	err := r.createInstance()
	if err != nil {
		return err
	}

	err = r.setupDebugMessenger()
	if err != nil {
		return err
	}

	err = r.createSurface()
	if err != nil {
		return err
	}

	err = r.pickPhysicalDevice()
	if err != nil {
		return err
	}

	err = r.createLogicalDevice()
	if err != nil {
		return err
	}

	err = r.createSwapchain()
	if err != nil {
		return err
	}

	err = r.createRenderPass()
	if err != nil {
		return err
	}

	return r.buildFramebuffers()
}

func (r *Renderer) cleanup() {
	r.destroyFramebuffers()

	if r.swapchain.Initialized() {
		r.swapchainExtension.DestroySwapchain(r.swapchain, nil)
		r.swapchain = khr_swapchain.Swapchain{}
	}

	if r.renderPass.Initialized() {
		r.deviceDriver.DestroyRenderPass(r.renderPass, nil)
		r.renderPass = core1_0.RenderPass{}
	}

	if r.deviceDriver != nil {
		r.deviceDriver.DestroyDevice(nil)
	}

	if r.debugMessenger.Initialized() {
		r.debugDriver.DestroyDebugUtilsMessenger(r.debugMessenger, nil)
	}

	if r.surface.Initialized() {
		r.surfaceExtension.DestroySurface(r.surface, nil)
	}

	if r.instanceDriver != nil {
		r.instanceDriver.DestroyInstance(nil)
	}

	if r.window != nil {
		r.window.Destroy()
	}
	sdl.Quit()
}
