package main

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

func chooseSwapSurfaceFormat(availableFormats []khr_surface.SurfaceFormat) khr_surface.SurfaceFormat {
	for _, format := range availableFormats {
		if format.Format == core1_0.FormatB8G8R8A8SRGB && format.ColorSpace == khr_surface.ColorSpaceSRGBNonlinear {
			return format
		}
	}

	return availableFormats[0]
}

// chooseSwapPresentMode returns mailbox when advertised, otherwise the first
// advertised mode. The platform guarantees FIFO is always in the list, but
// the fallback takes entry 0 of whatever list is given rather than searching
// for FIFO by name.
func chooseSwapPresentMode(availablePresentModes []khr_surface.PresentMode) khr_surface.PresentMode {
	for _, presentMode := range availablePresentModes {
		if presentMode == khr_surface.PresentModeMailbox {
			return presentMode
		}
	}

	return availablePresentModes[0]
}

// chooseSwapExtent uses the surface-reported extent verbatim unless the
// surface reports the "any extent" sentinel, in which case the window's
// drawable size is clamped componentwise into the advertised bounds. The
// drawable size is only queried on the sentinel path; when the surface owns
// the extent, overriding it would be invalid.
func chooseSwapExtent(capabilities *khr_surface.SurfaceCapabilities, drawableSize func() (int, int)) core1_0.Extent2D {
	if capabilities.CurrentExtent.Width != -1 {
		return capabilities.CurrentExtent
	}

	width, height := drawableSize()

	if width < capabilities.MinImageExtent.Width {
		width = capabilities.MinImageExtent.Width
	}
	if width > capabilities.MaxImageExtent.Width {
		width = capabilities.MaxImageExtent.Width
	}
	if height < capabilities.MinImageExtent.Height {
		height = capabilities.MinImageExtent.Height
	}
	if height > capabilities.MaxImageExtent.Height {
		height = capabilities.MaxImageExtent.Height
	}

	return core1_0.Extent2D{Width: width, Height: height}
}

// chooseImageCount requests at least three images for buffering headroom,
// never below the surface minimum and never above a finite surface maximum.
// A maximum of zero means unbounded.
func chooseImageCount(capabilities *khr_surface.SurfaceCapabilities) int {
	imageCount := capabilities.MinImageCount
	if imageCount < 3 {
		imageCount = 3
	}
	if capabilities.MaxImageCount > 0 && imageCount > capabilities.MaxImageCount {
		imageCount = capabilities.MaxImageCount
	}

	return imageCount
}

// swapchainSharingMode is exclusive when one family covers both graphics and
// present. A split pair shares the images concurrently between exactly those
// two families.
func swapchainSharingMode(indices QueueFamilyIndices) (core1_0.SharingMode, []int) {
	if indices.SeparatePresent() {
		return core1_0.SharingModeConcurrent, []int{*indices.GraphicsFamily, *indices.PresentFamily}
	}

	return core1_0.SharingModeExclusive, nil
}

func (app *HelloTriangleApplication) createSwapchain() error {
	app.swapchainExtension = khr_swapchain.CreateExtensionDriverFromCoreDriver(app.deviceDriver)

	caps := app.deviceCaps
	surfaceFormat := chooseSwapSurfaceFormat(caps.SurfaceFormats)
	presentMode := chooseSwapPresentMode(caps.SurfacePresentModes)

	extent := chooseSwapExtent(caps.SurfaceCaps, func() (int, int) {
		drawableWidth, drawableHeight := app.window.VulkanGetDrawableSize()
		return int(drawableWidth), int(drawableHeight)
	})

	imageCount := chooseImageCount(caps.SurfaceCaps)
	sharingMode, queueFamilyIndices := swapchainSharingMode(app.queueIndices)

	swapchain, _, err := app.swapchainExtension.CreateSwapchain(nil, khr_swapchain.SwapchainCreateInfo{
		Surface: app.surface,

		MinImageCount:    imageCount,
		ImageFormat:      surfaceFormat.Format,
		ImageColorSpace:  surfaceFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   sharingMode,
		QueueFamilyIndices: queueFamilyIndices,

		PreTransform:   caps.SurfaceCaps.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    presentMode,
		Clipped:        true,
	})
	if err != nil {
		return errors.Mark(errors.Wrap(err, "driver rejected swapchain configuration"), ErrSwapchainCreate)
	}
	app.swapchain = swapchain
	app.swapchainImageFormat = surfaceFormat.Format
	app.swapchainExtent = extent
	app.releases.Push("swapchain", func() { app.swapchainExtension.DestroySwapchain(swapchain, nil) })

	app.log.WithFields(logrus.Fields{
		"format":      surfaceFormat.Format,
		"colorSpace":  surfaceFormat.ColorSpace,
		"presentMode": presentMode,
		"extent":      extent,
		"imageCount":  imageCount,
		"sharingMode": sharingMode,
	}).Debug("created swapchain")

	return nil
}

func (app *HelloTriangleApplication) createImageViews() error {
	images, _, err := app.swapchainExtension.GetSwapchainImages(app.swapchain)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "could not retrieve swapchain images"), ErrSwapchainCreate)
	}
	app.swapchainImages = images

	// The release entry is pushed before the first view exists so a failure
	// partway through still releases the views built so far.
	app.releases.Push("swapchain image views", func() {
		for _, imageView := range app.swapchainImageViews {
			app.deviceDriver.DestroyImageView(imageView, nil)
		}
	})

	for _, image := range images {
		view, _, err := app.deviceDriver.CreateImageView(nil, core1_0.ImageViewCreateInfo{
			Image:    image,
			ViewType: core1_0.ImageViewType2D,
			Format:   app.swapchainImageFormat,
			SubresourceRange: core1_0.ImageSubresourceRange{
				AspectMask:     core1_0.ImageAspectColor,
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		})
		if err != nil {
			return errors.Mark(errors.Wrap(err, "could not create swapchain image view"), ErrSwapchainCreate)
		}

		app.swapchainImageViews = append(app.swapchainImageViews, view)
	}

	app.log.WithField("count", len(images)).Debug("created swapchain image views")

	return nil
}
