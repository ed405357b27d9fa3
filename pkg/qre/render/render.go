package render

import (
	"io"
)

// Overview is the resolved quote table: one row of cell values per quote.
type Overview struct {
	Date    string
	Columns []string
	Keys    []string
	Rows    [][]string
}

// Renderer renders an overview to an output writer.
type Renderer interface {
	Render(w io.Writer, ov Overview, opts RenderOptions) error
}

type RenderOptions struct {
	Color       bool
	PrettyJSON  bool
	MaxColWidth int
}
