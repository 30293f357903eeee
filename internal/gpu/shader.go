package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gridsig"
)

//go:embed shaders/grid.wgsl
var gridShaderSource string

// compileSPIRV compiles WGSL source to SPIR-V words.
func compileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V size %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// gridShaderModuleSource returns SPIR-V for the grid shader, or the WGSL
// source when naga cannot compile it.
func gridShaderModuleSource() hal.ShaderSource {
	words, err := compileSPIRV(gridShaderSource)
	if err != nil {
		gridsig.Logger().Warn("gpu: grid shader SPIR-V compile failed, using WGSL source", "err", err)
		return hal.ShaderSource{WGSL: gridShaderSource}
	}
	return hal.ShaderSource{SPIRV: words}
}
