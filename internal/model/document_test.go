package model

import "testing"

func TestTakeFlash_ClearsAfterRead(t *testing.T) {
	t.Parallel()

	d := NewDocument()
	d.SetSuccess("saved")

	f := d.TakeFlash()
	if f == nil || f.Kind != FlashSuccess || f.Message != "saved" {
		t.Fatalf("unexpected flash: %+v", f)
	}
	if again := d.TakeFlash(); again != nil {
		t.Fatalf("expected flash to be cleared, got %+v", again)
	}
}

func TestClone_DoesNotShareTodos(t *testing.T) {
	t.Parallel()

	d := &Document{Lists: []List{{Name: "A", Todos: []Todo{{Name: "x"}}}}}
	d.SetError("boom")
	c := d.Clone()

	c.Lists[0].Todos[0].Completed = true
	c.Lists[0].Name = "B"
	c.Flash.Message = "changed"

	if d.Lists[0].Todos[0].Completed || d.Lists[0].Name != "A" {
		t.Fatalf("clone mutated original lists: %+v", d.Lists)
	}
	if d.Flash.Message != "boom" {
		t.Fatalf("clone mutated original flash: %+v", d.Flash)
	}
}

func TestClone_NilGivesEmptyDocument(t *testing.T) {
	t.Parallel()

	var d *Document
	c := d.Clone()
	if c == nil || c.Lists == nil || len(c.Lists) != 0 {
		t.Fatalf("expected empty document, got %+v", c)
	}
}
