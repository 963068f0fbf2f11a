package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// QueueFamilyCaps is the per-family slice of a device snapshot: the graphics
// capability bit and whether the family can present to the target surface.
// Present support is a property of the family and surface together, not of
// the family alone.
type QueueFamilyCaps struct {
	Graphics bool
	Present  bool
}

// PhysicalDeviceCaps is a point-in-time snapshot of everything the bootstrap
// needs to know about one physical device. It is built once per candidate
// per startup and never mutated afterward.
type PhysicalDeviceCaps struct {
	Properties *core1_0.PhysicalDeviceProperties

	QueueFamilies []QueueFamilyCaps

	Extensions map[string]struct{}

	SurfaceCaps         *khr_surface.SurfaceCapabilities
	SurfaceFormats      []khr_surface.SurfaceFormat
	SurfacePresentModes []khr_surface.PresentMode
}

func (c *PhysicalDeviceCaps) HasExtension(name string) bool {
	_, ok := c.Extensions[name]
	return ok
}

func (c *PhysicalDeviceCaps) hasGraphicsFamily() bool {
	for _, family := range c.QueueFamilies {
		if family.Graphics {
			return true
		}
	}
	return false
}

// suitable applies the fixed requirement set: API version floor, at least one
// graphics-capable queue family, and every required extension present. There
// is no ranking beyond this predicate; selection is first-match in
// enumeration order.
func (c *PhysicalDeviceCaps) suitable(config Config) bool {
	if !c.Properties.APIVersion.IsAtLeast(config.MinimumAPIVersion) {
		return false
	}
	if !c.hasGraphicsFamily() {
		return false
	}
	for _, extension := range config.DeviceExtensions {
		if !c.HasExtension(extension) {
			return false
		}
	}
	return true
}

// DeviceReport summarizes the selected adapter for logs and diagnostics.
type DeviceReport struct {
	Name              string
	Type              core1_0.PhysicalDeviceType
	APIVersion        common.APIVersion
	VendorID          uint32
	DeviceID          uint32
	PipelineCacheUUID uuid.UUID
	QueueFamilyCount  int
}

func (c *PhysicalDeviceCaps) Report() DeviceReport {
	return DeviceReport{
		Name:              c.Properties.Name,
		Type:              c.Properties.Type,
		APIVersion:        c.Properties.APIVersion,
		VendorID:          c.Properties.VendorID,
		DeviceID:          c.Properties.DeviceID,
		PipelineCacheUUID: c.Properties.PipelineCacheUUID,
		QueueFamilyCount:  len(c.QueueFamilies),
	}
}

func (app *HelloTriangleApplication) probePhysicalDeviceCaps(device core1_0.PhysicalDevice) (*PhysicalDeviceCaps, error) {
	caps := &PhysicalDeviceCaps{}

	properties, err := app.instanceDriver.GetPhysicalDeviceProperties(device)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "could not query physical device properties"), ErrUnsupportedQuery)
	}
	caps.Properties = properties

	queueFamilies := app.instanceDriver.GetPhysicalDeviceQueueFamilyProperties(device)
	for familyIdx, family := range queueFamilies {
		supported, _, err := app.surfaceExtension.GetPhysicalDeviceSurfaceSupport(app.surface, device, familyIdx)
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "could not query queue family present support"), ErrUnsupportedQuery)
		}

		caps.QueueFamilies = append(caps.QueueFamilies, QueueFamilyCaps{
			Graphics: (family.QueueFlags & core1_0.QueueGraphics) != 0,
			Present:  supported,
		})
	}

	extensions, _, err := app.instanceDriver.EnumerateDeviceExtensionProperties(device)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "could not query device extensions"), ErrUnsupportedQuery)
	}
	caps.Extensions = make(map[string]struct{}, len(extensions))
	for name := range extensions {
		caps.Extensions[name] = struct{}{}
	}

	// Surface queries are only meaningful on devices that can drive a
	// swapchain, so gate them on the extension.
	if caps.HasExtension(khr_swapchain.ExtensionName) {
		caps.SurfaceCaps, _, err = app.surfaceExtension.GetPhysicalDeviceSurfaceCapabilities(app.surface, device)
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "could not query surface capabilities"), ErrUnsupportedQuery)
		}

		caps.SurfaceFormats, _, err = app.surfaceExtension.GetPhysicalDeviceSurfaceFormats(app.surface, device)
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "could not query surface formats"), ErrUnsupportedQuery)
		}

		caps.SurfacePresentModes, _, err = app.surfaceExtension.GetPhysicalDeviceSurfacePresentModes(app.surface, device)
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "could not query surface present modes"), ErrUnsupportedQuery)
		}
	}

	return caps, nil
}

// selectPhysicalDevice probes candidates in enumeration order and returns
// the index and snapshot of the first suitable one. Candidates after the
// selected device are never probed.
func selectPhysicalDevice(devices []core1_0.PhysicalDevice, probe func(core1_0.PhysicalDevice) (*PhysicalDeviceCaps, error), config Config) (int, *PhysicalDeviceCaps, error) {
	for deviceIdx, device := range devices {
		caps, err := probe(device)
		if err != nil {
			return -1, nil, err
		}

		if caps.suitable(config) {
			return deviceIdx, caps, nil
		}
	}

	return -1, nil, errors.Mark(errors.Newf("failed to find a suitable GPU among %d enumerated", len(devices)), ErrNoSuitableDevice)
}

func (app *HelloTriangleApplication) pickPhysicalDevice() error {
	physicalDevices, _, err := app.instanceDriver.EnumeratePhysicalDevices()
	if err != nil {
		return errors.Mark(errors.Wrap(err, "could not enumerate physical devices"), ErrUnsupportedQuery)
	}
	app.log.WithField("count", len(physicalDevices)).Debug("enumerated physical devices")

	deviceIdx, caps, err := selectPhysicalDevice(physicalDevices, app.probePhysicalDeviceCaps, app.config)
	if err != nil {
		if errors.Is(err, ErrNoSuitableDevice) {
			return errors.WithHint(err, "a newer GPU driver may report the missing extensions or API version")
		}
		return err
	}

	app.physicalDevice = physicalDevices[deviceIdx]
	app.deviceCaps = caps

	report := caps.Report()
	app.log.WithFields(logrus.Fields{
		"name":              report.Name,
		"type":              report.Type,
		"apiVersion":        report.APIVersion,
		"driverVersion":     caps.Properties.DriverVersion,
		"vendorID":          fmt.Sprintf("%#x", report.VendorID),
		"deviceID":          fmt.Sprintf("%#x", report.DeviceID),
		"pipelineCacheUUID": report.PipelineCacheUUID.String(),
		"queueFamilies":     report.QueueFamilyCount,
	}).Info("selected physical device")

	return nil
}
