package export

import (
	"encoding/json"
	"io"

	"github.com/user/verseflow/internal/types"
)

// JSONExporter writes the project as indented JSON.
type JSONExporter struct{}

// Export writes the project in JSON format.
func (e *JSONExporter) Export(p *types.Project, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// Extension returns the file extension for this format.
func (e *JSONExporter) Extension() string {
	return "json"
}
