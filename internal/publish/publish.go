// Package publish writes a session's lists as a directory of markdown files.
package publish

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"todolists/internal/model"
)

type WriteOptions struct {
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteSession writes <toDir>/index.md plus one page per list under
// <toDir>/lists/. Pages are named <index>-<slug>.md since list names need
// not be filesystem-safe.
func WriteSession(sessionID string, doc *model.Document, toDir string, opt WriteOptions) (WriteResult, error) {
	if doc == nil {
		return WriteResult{}, errors.New("missing document")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return WriteResult{}, errors.New("missing session id")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	listsDir := filepath.Join(toDir, "lists")
	if err := os.MkdirAll(listsDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	files := make(map[int]string, len(doc.Lists))
	written := make([]string, 0, len(doc.Lists)+1)
	for i, l := range doc.Lists {
		name := fmt.Sprintf("%d-%s.md", i, slug(l.Name))
		p := filepath.Join(listsDir, name)
		if err := writeFile(p, []byte(RenderListMarkdown(l)), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		files[i] = "lists/" + name
		written = append(written, p)
	}

	indexPath := filepath.Join(toDir, "index.md")
	if err := writeFile(indexPath, []byte(RenderIndexMarkdown(sessionID, doc, files)), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: append([]string{indexPath}, written...)}, nil
}

// maxSlugBytes keeps "<index>-<slug>.md" well under the usual 255-byte
// file name limit, whatever script the list name uses.
const maxSlugBytes = 60

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if b.Len()+utf8.RuneLen(r) > maxSlugBytes {
				break
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			if b.Len()+1 > maxSlugBytes {
				break
			}
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "list"
	}
	return s
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
