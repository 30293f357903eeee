// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DeviceHandle provides GPU device access from the host application.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider. Providers that
// also expose their HAL objects through HalDevice() and HalQueue() can be
// passed to NewFromProvider.
type DeviceHandle = gpucontext.DeviceProvider

// halProvider is implemented by hosts that share their HAL device.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// halFromProvider extracts the HAL device and queue from a provider.
func halFromProvider(provider DeviceHandle) (hal.Device, hal.Queue, error) {
	if provider == nil {
		return nil, nil, ErrNilDevice
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, fmt.Errorf("render: provider %T does not expose HAL types", provider)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("render: provider HalDevice is not hal.Device: %w", ErrNilDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("render: provider HalQueue is not hal.Queue: %w", ErrNilDevice)
	}
	return device, queue, nil
}

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// NewFromProvider rejects it; it stands in where a host has no GPU.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
