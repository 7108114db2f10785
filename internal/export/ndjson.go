package export

import (
	"encoding/json"
	"io"

	"github.com/qepting91/bydit/internal/domain"
)

// NDJSONWriter encodes one item per line
type NDJSONWriter struct {
	enc *json.Encoder
}

func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &NDJSONWriter{enc: enc}
}

func (w *NDJSONWriter) Write(it domain.UnifiedItem) error {
	return w.enc.Encode(it)
}

// WriteNDJSON writes items to path as newline-delimited JSON.
func WriteNDJSON(path string, items []domain.UnifiedItem) error {
	return writeFile(path, func(out io.Writer) error {
		w := NewNDJSONWriter(out)
		for _, it := range items {
			if err := w.Write(it); err != nil {
				return err
			}
		}
		return nil
	})
}
