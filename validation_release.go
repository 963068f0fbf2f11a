//go:build release

package main

const enableValidationLayers = false
