package render

import (
	"fmt"
	"io"
	"strings"
)

// namesRenderer prints all quote names in a single comma-separated line.
type namesRenderer struct{}

func NewNamesRenderer() Renderer {
	return namesRenderer{}
}

func (namesRenderer) Render(w io.Writer, ov Overview, _ RenderOptions) error {
	names := make([]string, 0, len(ov.Keys))
	for _, k := range ov.Keys {
		if k = strings.TrimSpace(k); k != "" {
			names = append(names, k)
		}
	}
	_, err := fmt.Fprintln(w, strings.Join(names, ","))
	return err
}
