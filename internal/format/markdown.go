package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"todolists/internal/model"
	"todolists/internal/statusutil"
	"todolists/internal/store"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"
)

const markdownWrap = 80

// DocumentMarkdown renders doc as a GitHub-style checklist in display order.
func DocumentMarkdown(doc *model.Document) string {
	var b strings.Builder
	b.WriteString("# Todo lists\n")
	if doc == nil || len(doc.Lists) == 0 {
		b.WriteString("\n_No lists yet._\n")
		return b.String()
	}
	for _, l := range statusutil.ListDisplayOrder(doc.Lists) {
		fmt.Fprintf(&b, "\n## %s\n\n", l.Value.Name)
		if len(l.Value.Todos) == 0 {
			b.WriteString("_No todos._\n")
			continue
		}
		for _, t := range statusutil.TodoDisplayOrder(l.Value.Todos) {
			box := " "
			if t.Value.Completed {
				box = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s\n", box, t.Value.Name)
		}
		fmt.Fprintf(&b, "\n%d of %d left\n", statusutil.IncompleteCount(l.Value), len(l.Value.Todos))
	}
	return b.String()
}

func sessionsMarkdown(infos []store.SessionInfo) string {
	var b strings.Builder
	b.WriteString("| Session | Lists | Todos | Updated |\n|---|---:|---:|---|\n")
	for _, in := range infos {
		fmt.Fprintf(&b, "| `%s` | %d | %d | %s |\n", in.ID, in.Lists, in.Todos, in.UpdatedAt.UTC().Format(time.RFC3339))
	}
	return b.String()
}

// WriteMarkdown renders v (a markdown string, a document or a session listing)
// to markdown and then through glamour. Without
// --pretty, or when the environment disables color, the notty style is used.
func WriteMarkdown(w io.Writer, v any, pretty bool) error {
	var md string
	switch t := v.(type) {
	case string:
		md = t
	case *model.Document:
		md = DocumentMarkdown(t)
	case model.Document:
		md = DocumentMarkdown(&t)
	case []store.SessionInfo:
		md = sessionsMarkdown(t)
	default:
		return fmt.Errorf("markdown output is not supported for %T", v)
	}

	style := styles.NoTTYStyle
	if pretty && termenv.EnvColorProfile() != termenv.Ascii {
		style = styles.DarkStyle
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(markdownWrap),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, strings.TrimRight(out, "\n")+"\n")
	return err
}
