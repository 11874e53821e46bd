package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/user/verseflow/internal/types"
)

// YAMLExporter writes the project as YAML.
type YAMLExporter struct{}

// Export writes the project in YAML format.
func (e *YAMLExporter) Export(p *types.Project, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(p)
}

// Extension returns the file extension for this format.
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
