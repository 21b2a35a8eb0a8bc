package export

import (
	"io"

	"github.com/iksnae/event-contexts/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter writes the report as YAML; context values keep their key order
type YAMLExporter struct{}

func (e *YAMLExporter) Export(report *internal.Report, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(report)
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}
