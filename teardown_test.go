package main

import (
	"testing"
)

func TestReleaseStackDrainsInReverse(t *testing.T) {
	var order []string
	var stack releaseStack

	stack.Push("instance", func() { order = append(order, "instance") })
	stack.Push("device", func() { order = append(order, "device") })
	stack.Push("swapchain", func() { order = append(order, "swapchain") })

	stack.Drain(nil)

	want := []string{"swapchain", "device", "instance"}
	if len(order) != len(want) {
		t.Fatalf("released %d handles, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("release %d: got %s, want %s", i, order[i], want[i])
		}
	}
}

func TestReleaseStackDrainIsIdempotent(t *testing.T) {
	calls := 0
	var stack releaseStack
	stack.Push("handle", func() { calls++ })

	stack.Drain(nil)
	stack.Drain(nil)

	if calls != 1 {
		t.Errorf("release ran %d times, want exactly once", calls)
	}
	if stack.Len() != 0 {
		t.Errorf("stack holds %d entries after drain, want 0", stack.Len())
	}
}

func TestReleaseStackRespectsDependencies(t *testing.T) {
	// Driver double: destroying a handle while something built from it is
	// still alive would be a validation error.
	dependencyOf := map[string]string{
		"device":      "instance",
		"swapchain":   "device",
		"image views": "swapchain",
	}

	alive := make(map[string]bool)
	var stack releaseStack
	for _, handle := range []string{"instance", "device", "swapchain", "image views"} {
		handle := handle
		alive[handle] = true
		stack.Push(handle, func() {
			for dependent, dependency := range dependencyOf {
				if dependency == handle && alive[dependent] {
					t.Errorf("released %s while dependent %s is still alive", handle, dependent)
				}
			}
			alive[handle] = false
		})
	}

	stack.Drain(nil)

	for handle, stillAlive := range alive {
		if stillAlive {
			t.Errorf("handle %s was never released", handle)
		}
	}
}
