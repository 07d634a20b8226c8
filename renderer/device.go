package renderer

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_portability_subset"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

var deviceExtensions = []string{khr_swapchain.ExtensionName}

type queueFamilyIndices struct {
	graphicsFamily *int
	presentFamily  *int
}

func (i *queueFamilyIndices) isComplete() bool {
	return i.graphicsFamily != nil && i.presentFamily != nil
}

func (r *Renderer) pickPhysicalDevice() error {
	physicalDevices, _, err := r.instanceDriver.EnumeratePhysicalDevices()
	if err != nil {
		return err
	}

	bestRank := -1
	for _, device := range physicalDevices {
		if !r.isDeviceSuitable(device) {
			continue
		}

		properties, err := r.instanceDriver.GetPhysicalDeviceProperties(device)
		if err != nil {
			return err
		}

		rank := rankDeviceType(properties.DriverType)
		if bestRank < 0 || rank < bestRank {
			r.physicalDevice = device
			bestRank = rank
		}
	}

	if !r.physicalDevice.Initialized() {
		return errors.New("failed to find a suitable GPU")
	}

	return nil
}

// rankDeviceType orders suitable physical devices by how well their type
// fits an interactive presentation target; lower ranks win.
func rankDeviceType(deviceType core1_0.PhysicalDeviceType) int {
	switch deviceType {
	case core1_0.PhysicalDeviceTypeDiscreteGPU:
		return 0
	case core1_0.PhysicalDeviceTypeIntegratedGPU:
		return 1
	case core1_0.PhysicalDeviceTypeVirtualGPU:
		return 2
	case core1_0.PhysicalDeviceTypeCPU:
		return 3
	case core1_0.PhysicalDeviceTypeOther:
		return 4
	default:
		return 5
	}
}

func (r *Renderer) isDeviceSuitable(device core1_0.PhysicalDevice) bool {
	indices, err := r.findQueueFamilies(device)
	if err != nil || !indices.isComplete() {
		return false
	}

	if !r.checkDeviceExtensionSupport(device) {
		return false
	}

	support, err := r.querySwapchainSupport(device)
	if err != nil {
		return false
	}

	return len(support.formats) > 0 && len(support.presentModes) > 0
}

func (r *Renderer) checkDeviceExtensionSupport(device core1_0.PhysicalDevice) bool {
	extensions, _, err := r.instanceDriver.EnumerateDeviceExtensionProperties(device)
	if err != nil {
		return false
	}

	for _, extension := range deviceExtensions {
		_, hasExtension := extensions[extension]
		if !hasExtension {
			return false
		}
	}

	return true
}

func (r *Renderer) findQueueFamilies(device core1_0.PhysicalDevice) (queueFamilyIndices, error) {
	indices := queueFamilyIndices{}
	queueFamilies := r.instanceDriver.GetPhysicalDeviceQueueFamilyProperties(device)

	for queueFamilyIdx, queueFamily := range queueFamilies {
		if (queueFamily.QueueFlags & core1_0.QueueGraphics) != 0 {
			indices.graphicsFamily = new(int)
			*indices.graphicsFamily = queueFamilyIdx
		}

		supported, _, err := r.surfaceExtension.GetPhysicalDeviceSurfaceSupport(r.surface, device, queueFamilyIdx)
		if err != nil {
			return indices, err
		}

		if supported {
			indices.presentFamily = new(int)
			*indices.presentFamily = queueFamilyIdx
		}

		if indices.isComplete() {
			break
		}
	}

	return indices, nil
}

func (r *Renderer) createLogicalDevice() error {
	indices, err := r.findQueueFamilies(r.physicalDevice)
	if err != nil {
		return err
	}

	uniqueQueueFamilies := []int{*indices.graphicsFamily}
	if uniqueQueueFamilies[0] != *indices.presentFamily {
		uniqueQueueFamilies = append(uniqueQueueFamilies, *indices.presentFamily)
	}

	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	queuePriority := float32(1.0)
	for _, queueFamily := range uniqueQueueFamilies {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queueFamily,
			QueuePriorities:  []float32{queuePriority},
		})
	}

	extensionNames := append([]string{}, deviceExtensions...)

	// Necessary to run on vulkan portability drivers, e.g. MoltenVK
	extensions, _, err := r.instanceDriver.EnumerateDeviceExtensionProperties(r.physicalDevice)
	if err != nil {
		return err
	}

	_, supported := extensions[khr_portability_subset.ExtensionName]
	if supported {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	r.deviceDriver, _, err = r.instanceDriver.CreateDevice(r.physicalDevice, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueFamilyOptions,
		EnabledFeatures:       &core1_0.PhysicalDeviceFeatures{},
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return err
	}

	r.graphicsQueue = r.deviceDriver.GetQueue(*indices.graphicsFamily, 0)
	r.presentQueue = r.deviceDriver.GetQueue(*indices.presentFamily, 0)
	return nil
}
