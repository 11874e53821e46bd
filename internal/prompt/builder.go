// Package prompt assembles the single text block sent to the model. The
// builder is a pure function of session state: identical sessions produce
// identical prompts, and the whole session goes in every time. Full context
// fidelity is preferred over prompt-length economy, so there is no sliding
// window; the token count is exposed for diagnostics only.
package prompt

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/user/verseflow/internal/types"
)

// Builder renders session state into prompts and reports their token cost.
type Builder struct {
	tokenizer *tiktoken.Tiktoken
}

// NewBuilder creates a prompt builder. The tokenizer is advisory;
// cl100k_base approximates well enough for local models, and if the encoding
// cannot be loaded the builder falls back to a bytes-per-token estimate.
func NewBuilder() *Builder {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &Builder{}
	}
	return &Builder{tokenizer: enc}
}

// TokenCount returns the approximate token count of text.
func (b *Builder) TokenCount(text string) int {
	if b.tokenizer == nil {
		return len(text) / 4
	}
	return len(b.tokenizer.Encode(text, nil, nil))
}

// Build renders the full prompt for a session: preamble, song context,
// optional music context, the complete timeline, the complete conversation
// history, and the trailing cue. Identical to itself for both the blocking
// and streaming gateway calls.
func (b *Builder) Build(sess *types.Session) string {
	var sb strings.Builder

	sb.WriteString(Preamble)
	sb.WriteString("\n\n")

	writeSongContext(&sb, sess.Metadata)

	if sess.Music != nil && (sess.Music.Key != "" || sess.Music.Tempo > 0) {
		writeMusicContext(&sb, sess.Music)
	}

	writeTimeline(&sb, sess)
	writeHistory(&sb, sess.Messages)

	sb.WriteString(cue)
	sb.WriteString(" ")
	return sb.String()
}

func writeSongContext(sb *strings.Builder, meta types.SessionMetadata) {
	sb.WriteString("## Song Context\n")
	fmt.Fprintf(sb, "Genre: %s\n", meta.Genre)
	fmt.Fprintf(sb, "Mood: %s\n", meta.Mood)
	if meta.StyleReference != "" {
		fmt.Fprintf(sb, "Style reference: %s\n", meta.StyleReference)
	}
	sb.WriteString("\n")
}

func writeMusicContext(sb *strings.Builder, music *types.MusicContext) {
	sb.WriteString("## Music Context\n")
	if music.Key != "" {
		fmt.Fprintf(sb, "Key: %s\n", music.Key)
	}
	if music.Tempo > 0 {
		fmt.Fprintf(sb, "Tempo: %d BPM\n", music.Tempo)
	}
	sb.WriteString("\n")
}

func writeTimeline(sb *strings.Builder, sess *types.Session) {
	sb.WriteString("## Timeline\n")
	if len(sess.Sections) == 0 {
		sb.WriteString("(no sections yet)\n")
	}
	for i, sec := range sess.Sections {
		fmt.Fprintf(sb, "%d. %s — %q", i+1, sec.Type, sec.Label)
		if sec.Status != "" {
			fmt.Fprintf(sb, " [%s]", sec.Status)
		}
		sb.WriteString("\n")

		if prog := sess.Music.Progression(sec.ProgressionID); prog != nil {
			fmt.Fprintf(sb, "   Chords: %s\n", strings.Join(prog.Chords, " "))
		}

		if sec.Content == "" {
			fmt.Fprintf(sb, "   Lyrics: %s\n", emptyMarker)
		} else {
			sb.WriteString("   Lyrics:\n")
			for _, line := range strings.Split(sec.Content, "\n") {
				fmt.Fprintf(sb, "   %s\n", line)
			}
		}
	}
	sb.WriteString("\n")
}

func writeHistory(sb *strings.Builder, messages []*types.Message) {
	sb.WriteString("## Conversation\n")
	for _, msg := range messages {
		switch msg.Role {
		case types.RoleUser:
			fmt.Fprintf(sb, "User: %s\n", msg.Content)
		case types.RoleAssistant:
			fmt.Fprintf(sb, "Assistant: %s\n", msg.Content)
		}
	}
	sb.WriteString("\n")
}
