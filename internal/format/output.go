package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	JSON     = "json"
	EDN      = "edn"
	Text     = "text"
	Markdown = "markdown"
)

// Formats lists the values accepted by --format.
var Formats = []string{JSON, EDN, Text, Markdown}

func Normalize(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	switch f {
	case "":
		return JSON, nil
	case JSON, EDN, Text, Markdown:
		return f, nil
	case "md":
		return Markdown, nil
	default:
		return "", fmt.Errorf("unknown format: %s (want one of %s)", format, strings.Join(Formats, "|"))
	}
}

// Write writes v in the requested format. json and edn accept any value;
// text and markdown understand documents and session listings.
func Write(w io.Writer, v any, format string, pretty bool) error {
	f, err := Normalize(format)
	if err != nil {
		return err
	}
	switch f {
	case EDN:
		return WriteEDN(w, v, pretty)
	case Text:
		return WriteText(w, v)
	case Markdown:
		return WriteMarkdown(w, v, pretty)
	default:
		return WriteJSON(w, v, pretty)
	}
}

func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// generic round-trips v through JSON so struct tags decide field names.
func generic(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
