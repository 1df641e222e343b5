package core

// AttribType is the component type of a vertex attribute.
type AttribType int

const (
	AttribFloat32 AttribType = iota
)

// VertexAttrib describes one attribute inside an interleaved vertex.
// Offset and the layout Stride are in bytes.
type VertexAttrib struct {
	Location int
	Size     int
	Type     AttribType
	Offset   int
}

type VertexLayout struct {
	Stride     int
	Attributes []VertexAttrib
}

// Floats is the number of float32 components per vertex.
func (l VertexLayout) Floats() int { return l.Stride / 4 }
