package docs

import "testing"

func TestTopics(t *testing.T) {
	t.Parallel()

	topics := Topics()
	want := map[string]string{"import": "Importing documents", "sessions": "Sessions", "tui": "Terminal UI", "web": "Web UI"}
	if len(topics) != len(want) {
		t.Fatalf("unexpected topics: %+v", topics)
	}
	for _, tp := range topics {
		if want[tp.Name] != tp.Title {
			t.Fatalf("topic %s: title %q, want %q", tp.Name, tp.Title, want[tp.Name])
		}
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	if body, ok := Get(" WEB "); !ok || len(body) == 0 {
		t.Fatalf("expected web topic")
	}
	for _, bad := range []string{"", "nope", "../docs", "content/web"} {
		if _, ok := Get(bad); ok {
			t.Fatalf("expected %q to be unknown", bad)
		}
	}
}
