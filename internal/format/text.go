package format

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"todolists/internal/model"
	"todolists/internal/statusutil"
	"todolists/internal/store"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// nameWidth caps list and todo names in terminal output.
const nameWidth = 60

type textStyles struct {
	title lipgloss.Style
	muted lipgloss.Style
	done  lipgloss.Style
	flash lipgloss.Style
	err   lipgloss.Style
}

// newTextStyles honors NO_COLOR and CLICOLOR(_FORCE) via termenv, which is
// what piped CLI output wants.
func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.EnvColorProfile())
	return textStyles{
		title: r.NewStyle().Bold(true),
		muted: r.NewStyle().Faint(true),
		done:  r.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("2")),
		flash: r.NewStyle().Foreground(lipgloss.Color("2")),
		err:   r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// WriteText writes a human-oriented rendering of v.
func WriteText(w io.Writer, v any) error {
	st := newTextStyles(w)
	var b strings.Builder
	switch t := v.(type) {
	case *model.Document:
		writeDocumentText(&b, st, t)
	case model.Document:
		writeDocumentText(&b, st, &t)
	case []store.SessionInfo:
		writeSessionsText(&b, st, t)
	case store.SessionInfo:
		writeSessionsText(&b, st, []store.SessionInfo{t})
	default:
		x, err := generic(v)
		if err != nil {
			return err
		}
		writeGenericText(&b, x)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func truncateName(s string) string {
	return xansi.Truncate(s, nameWidth, "…")
}

func writeDocumentText(b *strings.Builder, st textStyles, doc *model.Document) {
	if doc == nil || len(doc.Lists) == 0 {
		b.WriteString(st.muted.Render("(no lists)") + "\n")
	} else {
		for n, l := range statusutil.ListDisplayOrder(doc.Lists) {
			if n > 0 {
				b.WriteByte('\n')
			}
			name := st.title.Render(truncateName(l.Value.Name))
			if statusutil.IsListComplete(l.Value) {
				name = st.done.Render(truncateName(l.Value.Name))
			}
			fmt.Fprintf(b, "%d. %s %s\n", l.Index, name,
				st.muted.Render(fmt.Sprintf("(%d/%d left)", statusutil.IncompleteCount(l.Value), len(l.Value.Todos))))
			for _, t := range statusutil.TodoDisplayOrder(l.Value.Todos) {
				box, label := "[ ]", truncateName(t.Value.Name)
				if t.Value.Completed {
					box, label = "[x]", st.done.Render(label)
				}
				fmt.Fprintf(b, "   %d %s %s\n", t.Index, box, label)
			}
		}
	}
	if doc != nil && doc.Flash != nil {
		style := st.flash
		if doc.Flash.Kind == model.FlashError {
			style = st.err
		}
		b.WriteString("\n" + style.Render(doc.Flash.Message) + "\n")
	}
}

func writeSessionsText(b *strings.Builder, st textStyles, infos []store.SessionInfo) {
	if len(infos) == 0 {
		b.WriteString(st.muted.Render("(no sessions)") + "\n")
		return
	}
	idW := len("ID")
	for _, in := range infos {
		if w := xansi.StringWidth(in.ID); w > idW {
			idW = w
		}
	}
	row := func(id, lists, todos, updated string) string {
		return pad(id, idW) + "  " + pad(lists, 5) + "  " + pad(todos, 5) + "  " + updated
	}
	b.WriteString(st.title.Render(row("ID", "LISTS", "TODOS", "UPDATED")) + "\n")
	for _, in := range infos {
		b.WriteString(row(in.ID, fmt.Sprint(in.Lists), fmt.Sprint(in.Todos), in.UpdatedAt.UTC().Format(time.RFC3339)) + "\n")
	}
}

func writeGenericText(b *strings.Builder, v any) {
	m, ok := v.(map[string]any)
	if !ok {
		fmt.Fprintf(b, "%v\n", v)
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%s: %v\n", k, m[k])
	}
}

func pad(s string, width int) string {
	if n := width - xansi.StringWidth(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
