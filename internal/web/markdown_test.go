package web

import (
	"strings"
	"testing"
)

func TestRenderInlineMarkdown_BlockSyntaxStaysText(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"-":      "-",
		"---":    "---",
		"# Milk": "# Milk",
		"> x":    "&gt; x",
		"1. one": "1. one",
		"* star": "* star",
	}
	for in, want := range cases {
		got := string(renderInlineMarkdown(in))
		if got != want {
			t.Fatalf("renderInlineMarkdown(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderInlineMarkdown_Inline(t *testing.T) {
	t.Parallel()

	if got := string(renderInlineMarkdown("Buy **milk** ~~eggs~~")); got != "Buy <strong>milk</strong> <del>eggs</del>" {
		t.Fatalf("unexpected inline render: %q", got)
	}
	got := string(renderInlineMarkdown("<script>alert(1)</script>"))
	if strings.Contains(got, "<script>") {
		t.Fatalf("raw html passed through: %q", got)
	}
	if got := renderInlineMarkdown("   "); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
