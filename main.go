package main

import (
	"runtime"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"
)

type HelloTriangleApplication struct {
	config Config
	log    logrus.FieldLogger

	window *sdl.Window

	globalDriver   core1_0.GlobalDriver
	instanceDriver core1_0.CoreInstanceDriver
	deviceDriver   core1_0.CoreDeviceDriver

	debugDriver      ext_debug_utils.ExtensionDriver
	debugMessenger   ext_debug_utils.DebugUtilsMessenger
	surfaceExtension khr_surface.ExtensionDriver
	surface          khr_surface.Surface

	physicalDevice core1_0.PhysicalDevice
	deviceCaps     *PhysicalDeviceCaps
	queueIndices   QueueFamilyIndices

	graphicsQueue core1_0.Queue
	presentQueue  core1_0.Queue

	swapchainExtension   khr_swapchain.ExtensionDriver
	swapchain            khr_swapchain.Swapchain
	swapchainImages      []core1_0.Image
	swapchainImageFormat core1_0.Format
	swapchainExtent      core1_0.Extent2D
	swapchainImageViews  []core1_0.ImageView

	pipelineLayout core1_0.PipelineLayout

	releases releaseStack
}

func NewHelloTriangleApplication(config Config, log logrus.FieldLogger) *HelloTriangleApplication {
	return &HelloTriangleApplication{
		config: config,
		log:    log,
	}
}

func (app *HelloTriangleApplication) Run() error {
	defer app.cleanup()

	err := app.initWindow()
	if err != nil {
		return err
	}

	err = app.initVulkan()
	if err != nil {
		return err
	}

	return app.mainLoop()
}

func (app *HelloTriangleApplication) initWindow() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return err
	}
	app.releases.Push("sdl", sdl.Quit)

	window, err := sdl.CreateWindow(app.config.WindowTitle, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(app.config.WindowWidth), int32(app.config.WindowHeight), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN)
	if err != nil {
		return err
	}
	app.window = window
	app.releases.Push("window", func() { window.Destroy() })

	app.globalDriver, err = core.CreateDriverFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return errors.Wrap(err, "could not load the vulkan driver")
	}

	return nil
}

func (app *HelloTriangleApplication) initVulkan() error {
	start := hrtime.Now()

	err := app.createInstance()
	if err != nil {
		return err
	}

	err = app.setupDebugMessenger()
	if err != nil {
		return err
	}

	err = app.createSurface()
	if err != nil {
		return err
	}

	err = app.pickPhysicalDevice()
	if err != nil {
		return err
	}

	err = app.createLogicalDevice()
	if err != nil {
		return err
	}

	err = app.createSwapchain()
	if err != nil {
		return err
	}

	err = app.createImageViews()
	if err != nil {
		return err
	}

	err = app.createGraphicsPipeline()
	if err != nil {
		return err
	}

	app.log.WithField("elapsed", hrtime.Now()-start).Info("vulkan bootstrap complete")

	return nil
}

func (app *HelloTriangleApplication) mainLoop() error {
appLoop:
	for true {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch event.(type) {
			case *sdl.QuitEvent:
				break appLoop
			}
		}
	}

	_, err := app.deviceDriver.DeviceWaitIdle()
	return err
}

func (app *HelloTriangleApplication) cleanup() {
	app.releases.Drain(app.log)
}

func (app *HelloTriangleApplication) createInstance() error {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:    "Hello Triangle",
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         app.config.MinimumAPIVersion,
	}

	// Add extensions
	sdlExtensions := app.window.VulkanGetInstanceExtensions()
	extensions, _, err := app.globalDriver.AvailableExtensions()
	if err != nil {
		return errors.Mark(errors.Wrap(err, "could not query instance extensions"), ErrUnsupportedQuery)
	}

	extensionNames := make([]string, 0, len(extensions))
	for name := range extensions {
		extensionNames = append(extensionNames, name)
	}
	sort.Strings(extensionNames)
	app.log.WithField("extensions", extensionNames).Debug("available instance extensions")

	for _, ext := range sdlExtensions {
		_, hasExt := extensions[ext]
		if !hasExt {
			return errors.Newf("cannot initialize sdl surface: missing instance extension %s", ext)
		}
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, ext)
	}

	if enableValidationLayers {
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, ext_debug_utils.ExtensionName)
	}

	_, enumerationSupported := extensions[khr_portability_enumeration.ExtensionName]
	if enumerationSupported {
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		instanceOptions.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	// Add layers
	layers, _, err := app.globalDriver.AvailableLayers()
	if err != nil {
		return errors.Mark(errors.Wrap(err, "could not query instance layers"), ErrUnsupportedQuery)
	}

	if enableValidationLayers {
		for _, layer := range app.config.ValidationLayers {
			_, hasValidation := layers[layer]
			if !hasValidation {
				return errors.WithHint(
					errors.Newf("validation layer %s not available", layer),
					"install the LunarG Vulkan SDK to get the standard validation layers")
			}
			instanceOptions.EnabledLayerNames = append(instanceOptions.EnabledLayerNames, layer)
		}

		// The messenger chained here covers instance creation and
		// destruction, which the one from setupDebugMessenger cannot.
		instanceOptions.Next = app.debugMessengerOptions()
	}

	instanceDriver, _, err := app.globalDriver.CreateInstance(nil, instanceOptions)
	if err != nil {
		return errors.Wrap(err, "could not create vulkan instance")
	}
	app.instanceDriver = instanceDriver
	app.releases.Push("instance", func() { instanceDriver.DestroyInstance(nil) })

	return nil
}

func (app *HelloTriangleApplication) debugMessengerOptions() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning | ext_debug_utils.SeverityVerbose,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    app.logDebug,
	}
}

func (app *HelloTriangleApplication) setupDebugMessenger() error {
	if !enableValidationLayers {
		return nil
	}

	app.debugDriver = ext_debug_utils.CreateExtensionDriverFromCoreDriver(app.instanceDriver)
	debugMessenger, _, err := app.debugDriver.CreateDebugUtilsMessenger(nil, app.debugMessengerOptions())
	if err != nil {
		return errors.Wrap(err, "could not create debug messenger")
	}
	app.debugMessenger = debugMessenger
	app.releases.Push("debug messenger", func() { app.debugDriver.DestroyDebugUtilsMessenger(debugMessenger, nil) })

	return nil
}

func (app *HelloTriangleApplication) createSurface() error {
	app.surfaceExtension = khr_surface.CreateExtensionDriverFromCoreDriver(app.instanceDriver)
	surface, err := vkng_sdl2.CreateSurface(app.instanceDriver.Instance(), app.surfaceExtension, app.window)
	if err != nil {
		return errors.Wrap(err, "could not create window surface")
	}
	app.surface = surface
	app.releases.Push("surface", func() { app.surfaceExtension.DestroySurface(surface, nil) })

	return nil
}

// logDebug receives validation layer output. It never requests an abort, so
// it has no effect on resolution outcomes.
func (app *HelloTriangleApplication) logDebug(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	entry := app.log.WithField("messageType", msgType)
	switch {
	case (severity & ext_debug_utils.SeverityError) != 0:
		entry.Error(data.Message)
	case (severity & ext_debug_utils.SeverityWarning) != 0:
		entry.Warn(data.Message)
	default:
		entry.Debug(data.Message)
	}
	return false
}

func main() {
	runtime.LockOSThread()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	app := NewHelloTriangleApplication(DefaultConfig(), logger)

	err := app.Run()
	if err != nil {
		logger.Fatalf("%+v", err)
	}
}
