package main

import "github.com/cockroachdb/errors"

// Startup failures propagate as one of these named errors so the caller can
// report a specific diagnostic instead of a generic one. All four are fatal;
// none are retried, since retrying cannot change what the driver reports
// without operator intervention.
var (
	// ErrUnsupportedQuery indicates a driver capability query itself failed,
	// which means the environment is unusable rather than merely unsuitable.
	ErrUnsupportedQuery = errors.New("capability query unsupported by driver")

	// ErrNoSuitableDevice indicates no physical device passed the API version
	// floor, graphics queue family, and required extension checks.
	ErrNoSuitableDevice = errors.New("no suitable physical device")

	// ErrNoQueueFamily indicates no queue family arrangement covers both
	// graphics submission and presentation to the target surface.
	ErrNoQueueFamily = errors.New("no usable queue family")

	// ErrSwapchainCreate indicates the driver rejected the negotiated
	// swapchain configuration.
	ErrSwapchainCreate = errors.New("swapchain creation failed")
)
