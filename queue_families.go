package main

import (
	"github.com/cockroachdb/errors"
)

type QueueFamilyIndices struct {
	GraphicsFamily *int
	PresentFamily  *int
}

func (i *QueueFamilyIndices) IsComplete() bool {
	return i.GraphicsFamily != nil && i.PresentFamily != nil
}

// SeparatePresent reports whether presentation runs on a different family
// than graphics, which forces concurrent image sharing downstream.
func (i *QueueFamilyIndices) SeparatePresent() bool {
	return i.IsComplete() && *i.GraphicsFamily != *i.PresentFamily
}

// resolveQueueFamilies picks the graphics and present family indices for a
// probed device. Preference order: the first graphics-capable family when it
// can also present, then any single family carrying both capabilities, then
// a split pair of the first graphics family and the first presenting family.
// Every scan runs in ascending index order, so the result is reproducible
// for a given driver snapshot.
func resolveQueueFamilies(caps *PhysicalDeviceCaps) (QueueFamilyIndices, error) {
	indices := QueueFamilyIndices{}

	for familyIdx, family := range caps.QueueFamilies {
		if family.Graphics {
			graphicsIdx := familyIdx
			indices.GraphicsFamily = &graphicsIdx
			break
		}
	}
	if indices.GraphicsFamily == nil {
		return indices, errors.Mark(errors.New("no graphics-capable queue family"), ErrNoQueueFamily)
	}

	if caps.QueueFamilies[*indices.GraphicsFamily].Present {
		presentIdx := *indices.GraphicsFamily
		indices.PresentFamily = &presentIdx
		return indices, nil
	}

	for familyIdx, family := range caps.QueueFamilies {
		if family.Graphics && family.Present {
			graphicsIdx := familyIdx
			presentIdx := familyIdx
			indices.GraphicsFamily = &graphicsIdx
			indices.PresentFamily = &presentIdx
			return indices, nil
		}
	}

	for familyIdx, family := range caps.QueueFamilies {
		if family.Present {
			presentIdx := familyIdx
			indices.PresentFamily = &presentIdx
			return indices, nil
		}
	}

	return indices, errors.Mark(errors.New("no queue family can present to the surface"), ErrNoQueueFamily)
}
