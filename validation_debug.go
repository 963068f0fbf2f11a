//go:build !release

package main

const enableValidationLayers = true
