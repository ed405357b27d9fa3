package render

import (
	"encoding/json"
	"io"
)

// jsonModel is the output shape for JSONRenderer.
type jsonModel struct {
	Date    string              `json:"date"`
	Columns []string            `json:"columns"`
	Quotes  []map[string]string `json:"quotes"`
}

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (r *JSONRenderer) Render(w io.Writer, ov Overview, opts RenderOptions) error {
	out := jsonModel{Date: ov.Date, Columns: ov.Columns, Quotes: make([]map[string]string, 0, len(ov.Rows))}
	for _, row := range ov.Rows {
		q := make(map[string]string, len(ov.Columns))
		for i, c := range ov.Columns {
			if i < len(row) {
				q[c] = row[i]
			}
		}
		out.Quotes = append(out.Quotes, q)
	}
	enc := json.NewEncoder(w)
	if opts.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
