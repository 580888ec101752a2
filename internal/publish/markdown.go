package publish

import (
	"bytes"
	"fmt"
	"strings"

	"todolists/internal/model"
	"todolists/internal/statusutil"
)

// RenderListMarkdown renders one list as a checklist, completed todos first.
func RenderListMarkdown(l model.List) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", escapeHeading(l.Name))

	if len(l.Todos) == 0 {
		buf.WriteString("_No todos._\n")
		return buf.String()
	}
	for _, t := range statusutil.TodoDisplayOrder(l.Todos) {
		box := " "
		if t.Value.Completed {
			box = "x"
		}
		fmt.Fprintf(&buf, "- [%s] %s\n", box, t.Value.Name)
	}
	fmt.Fprintf(&buf, "\n%d of %d left\n", statusutil.IncompleteCount(l), len(l.Todos))
	return buf.String()
}

// RenderIndexMarkdown links every list page, in display order.
func RenderIndexMarkdown(sessionID string, doc *model.Document, files map[int]string) string {
	var buf bytes.Buffer
	buf.WriteString("# Todo lists\n\n")
	fmt.Fprintf(&buf, "Session `%s`\n\n", sessionID)

	if doc == nil || len(doc.Lists) == 0 {
		buf.WriteString("_No lists._\n")
		return buf.String()
	}
	for _, l := range statusutil.ListDisplayOrder(doc.Lists) {
		status := fmt.Sprintf("%d/%d left", statusutil.IncompleteCount(l.Value), len(l.Value.Todos))
		if statusutil.IsListComplete(l.Value) {
			status = "complete"
		}
		fmt.Fprintf(&buf, "- [%s](%s) (%s)\n", escapeLinkText(l.Value.Name), files[l.Index], status)
	}
	return buf.String()
}

func escapeHeading(s string) string {
	return strings.TrimLeft(strings.TrimSpace(s), "#")
}

func escapeLinkText(s string) string {
	return strings.NewReplacer("[", `\[`, "]", `\]`).Replace(s)
}
