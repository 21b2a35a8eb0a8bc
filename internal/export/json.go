package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/event-contexts/internal"
)

// JSONExporter writes the whole report as indented JSON
type JSONExporter struct{}

func (e *JSONExporter) Export(report *internal.Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func (e *JSONExporter) Extension() string {
	return "json"
}
