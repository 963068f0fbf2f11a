package main

import (
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// Config carries the fixed startup parameters of the bootstrap sequence.
// A deployment wanting different requirements substitutes different values
// here, not different code paths.
type Config struct {
	WindowTitle  string
	WindowWidth  int
	WindowHeight int

	// ValidationLayers are requested only when enableValidationLayers is set.
	ValidationLayers []string

	// DeviceExtensions must all be present, under exact name match, for a
	// physical device to be considered suitable.
	DeviceExtensions []string

	// MinimumAPIVersion is the floor a physical device must report.
	MinimumAPIVersion common.APIVersion
}

func DefaultConfig() Config {
	return Config{
		WindowTitle:  "Vulkan",
		WindowWidth:  800,
		WindowHeight: 600,

		ValidationLayers: []string{"VK_LAYER_KHRONOS_validation"},

		DeviceExtensions: []string{
			khr_swapchain.ExtensionName,
			"VK_KHR_spirv_1_4",
			"VK_KHR_synchronization2",
			"VK_KHR_create_renderpass2",
		},

		MinimumAPIVersion: common.Vulkan1_3,
	}
}
