// Package export renders a project as a document.
package export

import (
	"fmt"
	"io"

	"github.com/user/verseflow/internal/types"
)

// Exporter defines the interface for all export formats.
type Exporter interface {
	Export(p *types.Project, w io.Writer) error
	Extension() string
}

// NewExporter creates an exporter for the given format.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: md, json, yaml)", format)
	}
}
