package opengl

import (
	gl "github.com/go-gl/gl/v3.3-core/gl"
)

// VertexArray owns a VAO with one interleaved float32 vertex buffer
// and a uint32 element buffer, both streamed every flush.
type VertexArray struct {
	vao    uint32
	vbo    uint32
	ebo    uint32
	stride int32

	vboCap int
	eboCap int
}

// NewVertexArray configures attribute slots from the given float
// counts, eg [2, 4] for a vec2 position and vec4 color.
func NewVertexArray(attrSizes ...int32) *VertexArray {
	var stride int32
	for _, s := range attrSizes {
		stride += s
	}

	va := &VertexArray{stride: stride}
	gl.GenVertexArrays(1, &va.vao)
	gl.GenBuffers(1, &va.vbo)
	gl.GenBuffers(1, &va.ebo)

	gl.BindVertexArray(va.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, va.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, va.ebo)

	var offset int32
	for i, size := range attrSizes {
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointerWithOffset(uint32(i), size, gl.FLOAT, false, stride*4, uintptr(offset*4))
		offset += size
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	return va
}

// SetData streams vertices and indices, reallocating only on growth.
func (va *VertexArray) SetData(vertices []float32, indices []uint32) {
	gl.BindVertexArray(va.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, va.vbo)
	if len(vertices) > va.vboCap {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STREAM_DRAW)
		va.vboCap = len(vertices)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, va.ebo)
	if len(indices) > va.eboCap {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STREAM_DRAW)
		va.eboCap = len(indices)
	} else {
		gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, len(indices)*4, gl.Ptr(indices))
	}
	gl.BindVertexArray(0)
}

// Draw issues an indexed triangle draw of count indices.
func (va *VertexArray) Draw(count int32) {
	gl.BindVertexArray(va.vao)
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Destroy releases the VAO and both buffers.
func (va *VertexArray) Destroy() {
	if va.vao != 0 {
		gl.DeleteVertexArrays(1, &va.vao)
		gl.DeleteBuffers(1, &va.vbo)
		gl.DeleteBuffers(1, &va.ebo)
		va.vao = 0
	}
}
