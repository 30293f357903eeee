package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gridsig"
)

// gridUniformSize is the byte size of the Uniforms block in grid.wgsl:
//
//	transform (mat4x4<f32>) = 64 bytes
//	scale     (vec2<f32>)   =  8 bytes
//	size      (vec2<f32>)   =  8 bytes  (rows, cols)
//	space, n, count, pad    = 16 bytes
//
// Total = 96 bytes.
const gridUniformSize = 96

// Vertex buffer strides in bytes.
const (
	amplitudeStride = 4  // f32
	indexStride     = 12 // vec3<f32>
	colorStride     = 12 // vec3<f32>
)

// makeGridUniform packs the render parameters and camera transform.
func makeGridUniform(p gridsig.RenderParameters, transform gridsig.Matrix) []byte {
	buf := make([]byte, gridUniformSize)
	m := transform.Mat4()
	for i, v := range m {
		putFloat(buf[i*4:], v)
	}
	putFloat(buf[64:], float32(p.Scale[0]))
	putFloat(buf[68:], float32(p.Scale[1]))
	putFloat(buf[72:], float32(p.Grid.Rows))
	putFloat(buf[76:], float32(p.Grid.Cols))
	putFloat(buf[80:], float32(p.Space))
	putFloat(buf[84:], float32(p.N))
	putFloat(buf[88:], float32(p.Count))
	// Padding bytes 92..95 remain zero.
	return buf
}

func putFloat(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

// packFloats encodes a float32 stream as little-endian bytes.
func packFloats(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		putFloat(buf[i*4:], f)
	}
	return buf
}

// packTriples encodes (col, row, time) triples as vec3<f32> vertices.
func packTriples(v [][3]float32) []byte {
	buf := make([]byte, len(v)*indexStride)
	for i, t := range v {
		off := i * indexStride
		putFloat(buf[off:], t[0])
		putFloat(buf[off+4:], t[1])
		putFloat(buf[off+8:], t[2])
	}
	return buf
}
