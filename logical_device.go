package main

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_portability_subset"
)

func (app *HelloTriangleApplication) createLogicalDevice() error {
	indices, err := resolveQueueFamilies(app.deviceCaps)
	if err != nil {
		if errors.Is(err, ErrNoQueueFamily) {
			return errors.WithHint(err, "this device cannot present to the window surface")
		}
		return err
	}
	app.queueIndices = indices

	uniqueQueueFamilies := []int{*indices.GraphicsFamily}
	if uniqueQueueFamilies[0] != *indices.PresentFamily {
		uniqueQueueFamilies = append(uniqueQueueFamilies, *indices.PresentFamily)
	}

	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	queuePriority := float32(0.5)
	for _, queueFamily := range uniqueQueueFamilies {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queueFamily,
			QueuePriorities:  []float32{queuePriority},
		})
	}

	var extensionNames []string
	extensionNames = append(extensionNames, app.config.DeviceExtensions...)

	// Makes this compatible with vulkan portability, necessary to run on mobile & mac
	if app.deviceCaps.HasExtension(khr_portability_subset.ExtensionName) {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	deviceDriver, _, err := app.instanceDriver.CreateDevice(app.physicalDevice, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueFamilyOptions,
		EnabledFeatures:       &core1_0.PhysicalDeviceFeatures{},
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return errors.Wrap(err, "could not create logical device")
	}
	app.deviceDriver = deviceDriver
	app.releases.Push("logical device", func() { deviceDriver.DestroyDevice(nil) })

	app.graphicsQueue = app.deviceDriver.GetQueue(*indices.GraphicsFamily, 0)
	app.presentQueue = app.deviceDriver.GetQueue(*indices.PresentFamily, 0)

	app.log.WithFields(logrus.Fields{
		"graphicsFamily": *indices.GraphicsFamily,
		"presentFamily":  *indices.PresentFamily,
	}).Debug("created logical device")

	return nil
}
