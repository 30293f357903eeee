// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render draws a grid of signals on a GPU device supplied by the
// host application.
//
// # Key Principle
//
// The renderer RECEIVES a GPU device from the host, it does NOT create its
// own. Windowing, input and camera handling stay in the host: it hands the
// renderer a target view and a transform per frame, and converts pointer
// positions into grid cells before calling Locate.
//
// # Usage
//
//	r, err := render.NewFromProvider(app.GPUContextProvider(),
//	    render.WithSpace(2), render.WithColor(gridsig.RandomColors(0)))
//	if err != nil {
//	    return err
//	}
//	defer r.Destroy()
//
//	if err := r.SetData(gridsig.TwoD{Dims: [2]int{64, 2000}, Data: samples}); err != nil {
//	    return err
//	}
//
//	// every frame
//	if err := r.Draw(view, camera.Matrix()); err != nil {
//	    log.Print(err)
//	}
//
// # Threading
//
// GridRenderer is driven from the display loop and holds no locks. Every
// Set call completes its uploads before returning, so the next Draw always
// sees a consistent set of buffers.
package render
