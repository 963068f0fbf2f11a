package main

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
)

func suitableDeviceCaps(config Config) *PhysicalDeviceCaps {
	extensions := make(map[string]struct{}, len(config.DeviceExtensions))
	for _, extension := range config.DeviceExtensions {
		extensions[extension] = struct{}{}
	}

	return &PhysicalDeviceCaps{
		Properties:    &core1_0.PhysicalDeviceProperties{APIVersion: config.MinimumAPIVersion},
		QueueFamilies: []QueueFamilyCaps{{Graphics: true, Present: true}},
		Extensions:    extensions,
	}
}

func TestDeviceSuitability(t *testing.T) {
	config := DefaultConfig()

	tests := []struct {
		name   string
		mutate func(caps *PhysicalDeviceCaps)
		want   bool
	}{
		{
			name:   "all requirements met",
			mutate: func(caps *PhysicalDeviceCaps) {},
			want:   true,
		},
		{
			name: "api version below the floor",
			mutate: func(caps *PhysicalDeviceCaps) {
				caps.Properties.APIVersion = common.Vulkan1_2
			},
			want: false,
		},
		{
			name: "no graphics-capable family",
			mutate: func(caps *PhysicalDeviceCaps) {
				caps.QueueFamilies = []QueueFamilyCaps{{Present: true}}
			},
			want: false,
		},
		{
			name: "required extension missing",
			mutate: func(caps *PhysicalDeviceCaps) {
				delete(caps.Extensions, config.DeviceExtensions[0])
			},
			want: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			caps := suitableDeviceCaps(config)
			test.mutate(caps)

			if got := caps.suitable(config); got != test.want {
				t.Errorf("suitable: got %v, want %v", got, test.want)
			}
		})
	}
}

func TestSelectPhysicalDeviceFirstMatch(t *testing.T) {
	config := DefaultConfig()

	unsuitable := suitableDeviceCaps(config)
	unsuitable.QueueFamilies = nil

	capsList := []*PhysicalDeviceCaps{
		unsuitable,
		suitableDeviceCaps(config),
		suitableDeviceCaps(config),
	}
	devices := make([]core1_0.PhysicalDevice, len(capsList))

	probeCalls := 0
	probe := func(core1_0.PhysicalDevice) (*PhysicalDeviceCaps, error) {
		caps := capsList[probeCalls]
		probeCalls++
		return caps, nil
	}

	deviceIdx, caps, err := selectPhysicalDevice(devices, probe, config)
	if err != nil {
		t.Fatalf("selectPhysicalDevice: %v", err)
	}
	if deviceIdx != 1 {
		t.Errorf("selected device %d, want the first suitable device 1", deviceIdx)
	}
	if caps != capsList[1] {
		t.Error("returned snapshot does not belong to the selected device")
	}
	if probeCalls != 2 {
		t.Errorf("probed %d devices, want probing to stop after the first match", probeCalls)
	}
}

func TestSelectPhysicalDeviceNoneSuitable(t *testing.T) {
	config := DefaultConfig()

	unsuitable := suitableDeviceCaps(config)
	unsuitable.Properties.APIVersion = common.Vulkan1_2

	probe := func(core1_0.PhysicalDevice) (*PhysicalDeviceCaps, error) {
		return unsuitable, nil
	}

	_, _, err := selectPhysicalDevice(make([]core1_0.PhysicalDevice, 2), probe, config)
	if !errors.Is(err, ErrNoSuitableDevice) {
		t.Errorf("got %v, want ErrNoSuitableDevice", err)
	}
}

func TestSelectPhysicalDeviceProbeFailure(t *testing.T) {
	config := DefaultConfig()

	probe := func(core1_0.PhysicalDevice) (*PhysicalDeviceCaps, error) {
		return nil, errors.Mark(errors.New("device lost"), ErrUnsupportedQuery)
	}

	_, _, err := selectPhysicalDevice(make([]core1_0.PhysicalDevice, 1), probe, config)
	if !errors.Is(err, ErrUnsupportedQuery) {
		t.Errorf("got %v, want the probe failure to propagate as ErrUnsupportedQuery", err)
	}
}
