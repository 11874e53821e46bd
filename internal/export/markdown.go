package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/user/verseflow/internal/types"
)

// MarkdownExporter renders a project as a song sheet.
type MarkdownExporter struct{}

// Export writes the project in Markdown format.
func (e *MarkdownExporter) Export(p *types.Project, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# %s\n\n", p.Name)

	if p.Metadata.Genre != "" {
		_, _ = fmt.Fprintf(w, "**Genre:** %s  \n", p.Metadata.Genre)
	}
	if p.Metadata.Mood != "" {
		_, _ = fmt.Fprintf(w, "**Mood:** %s  \n", p.Metadata.Mood)
	}
	if p.Metadata.StyleReference != "" {
		_, _ = fmt.Fprintf(w, "**Style reference:** %s  \n", p.Metadata.StyleReference)
	}
	if p.Music != nil {
		if p.Music.Key != "" {
			_, _ = fmt.Fprintf(w, "**Key:** %s  \n", p.Music.Key)
		}
		if p.Music.Tempo > 0 {
			_, _ = fmt.Fprintf(w, "**Tempo:** %d BPM  \n", p.Music.Tempo)
		}
	}
	_, _ = fmt.Fprintf(w, "\n---\n\n")

	for i, sec := range p.Sections {
		title := sec.Label
		if title == "" {
			title = string(sec.Type)
		}
		_, _ = fmt.Fprintf(w, "## %s\n\n", title)

		if prog := p.Music.Progression(sec.ProgressionID); prog != nil {
			_, _ = fmt.Fprintf(w, "`%s`\n\n", strings.Join(prog.Chords, " "))
		}

		if sec.Content == "" {
			_, _ = fmt.Fprintf(w, "*(empty)*\n\n")
		} else {
			// Lyric line breaks are hard breaks in the sheet.
			for _, line := range strings.Split(sec.Content, "\n") {
				_, _ = fmt.Fprintf(w, "%s  \n", line)
			}
			_, _ = fmt.Fprintf(w, "\n")
		}

		if i < len(p.Sections)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	if p.ScratchNotes != "" {
		_, _ = fmt.Fprintf(w, "---\n\n## Notes\n\n%s\n", p.ScratchNotes)
	}
	return nil
}

// Extension returns the file extension for this format.
func (e *MarkdownExporter) Extension() string {
	return "md"
}
