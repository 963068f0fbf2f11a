package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
)

//go:generate slangc shaders/shader.slang -target spirv -profile spirv_1_4 -emit-spirv-directly -fvk-use-entrypoint-name -entry vertMain -entry fragMain -o shaders/slang.spv

func bytesToBytecode(b []byte) []uint32 {
	byteCode := make([]uint32, len(b)/4)
	for i := 0; i < len(byteCode); i++ {
		byteIndex := i * 4
		byteCode[i] = 0
		byteCode[i] |= uint32(b[byteIndex])
		byteCode[i] |= uint32(b[byteIndex+1]) << 8
		byteCode[i] |= uint32(b[byteIndex+2]) << 16
		byteCode[i] |= uint32(b[byteIndex+3]) << 24
	}

	return byteCode
}

// pipelineFixedFunctions is the non-programmable state the renderer combines
// with the shader stages. The triangle is hardcoded in the vertex shader, so
// the vertex input stage stays empty.
func pipelineFixedFunctions(extent core1_0.Extent2D) core1_0.GraphicsPipelineCreateInfo {
	return core1_0.GraphicsPipelineCreateInfo{
		VertexInputState: &core1_0.PipelineVertexInputStateCreateInfo{},
		InputAssemblyState: &core1_0.PipelineInputAssemblyStateCreateInfo{
			Topology:               core1_0.PrimitiveTopologyTriangleList,
			PrimitiveRestartEnable: false,
		},
		ViewportState: &core1_0.PipelineViewportStateCreateInfo{
			Viewports: []core1_0.Viewport{
				{
					X:        0,
					Y:        0,
					Width:    float32(extent.Width),
					Height:   float32(extent.Height),
					MinDepth: 0,
					MaxDepth: 1,
				},
			},
			Scissors: []core1_0.Rect2D{
				{
					Offset: core1_0.Offset2D{X: 0, Y: 0},
					Extent: extent,
				},
			},
		},
		RasterizationState: &core1_0.PipelineRasterizationStateCreateInfo{
			DepthClampEnable:        false,
			RasterizerDiscardEnable: false,

			PolygonMode: core1_0.PolygonModeFill,
			CullMode:    core1_0.CullModeBack,
			FrontFace:   core1_0.FrontFaceClockwise,

			DepthBiasEnable: false,

			LineWidth: 1.0,
		},
		MultisampleState: &core1_0.PipelineMultisampleStateCreateInfo{
			SampleShadingEnable:  false,
			RasterizationSamples: core1_0.Samples1,
			MinSampleShading:     1.0,
		},
		ColorBlendState: &core1_0.PipelineColorBlendStateCreateInfo{
			LogicOpEnabled: false,
			LogicOp:        core1_0.LogicOpCopy,

			BlendConstants: [4]float32{0, 0, 0, 0},
			Attachments: []core1_0.PipelineColorBlendAttachmentState{
				{
					BlendEnabled:   false,
					ColorWriteMask: core1_0.ColorComponentRed | core1_0.ColorComponentGreen | core1_0.ColorComponentBlue | core1_0.ColorComponentAlpha,
				},
			},
		},
		BasePipelineIndex: -1,
	}
}

func (app *HelloTriangleApplication) createGraphicsPipeline() error {
	shaderBytes, err := os.ReadFile("shaders/slang.spv")
	if err != nil {
		return errors.Wrap(err, "could not read shader bytecode")
	}

	// Both entry points live in the one slang module.
	shaderModule, _, err := app.deviceDriver.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: bytesToBytecode(shaderBytes),
	})
	if err != nil {
		return errors.Wrap(err, "could not create shader module")
	}
	defer app.deviceDriver.DestroyShaderModule(shaderModule, nil)

	shaderStages := []core1_0.PipelineShaderStageCreateInfo{
		{
			Stage:  core1_0.StageVertex,
			Module: shaderModule,
			Name:   "vertMain",
		},
		{
			Stage:  core1_0.StageFragment,
			Module: shaderModule,
			Name:   "fragMain",
		},
	}

	pipelineLayout, _, err := app.deviceDriver.CreatePipelineLayout(nil, core1_0.PipelineLayoutCreateInfo{})
	if err != nil {
		return errors.Wrap(err, "could not create pipeline layout")
	}
	app.pipelineLayout = pipelineLayout
	app.releases.Push("pipeline layout", func() { app.deviceDriver.DestroyPipelineLayout(pipelineLayout, nil) })

	// Render pass and pipeline object construction belong to the rendering
	// stage built on top of this bootstrap.
	pipelineInfo := pipelineFixedFunctions(app.swapchainExtent)
	pipelineInfo.Stages = shaderStages
	pipelineInfo.Layout = pipelineLayout

	app.log.WithField("stages", len(pipelineInfo.Stages)).Debug("prepared graphics pipeline description")

	return nil
}
