package model

// FlashKind distinguishes success notices from validation errors.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot notice shown by the next render and then cleared.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

type Todo struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

type List struct {
	Name  string `json:"name"`
	Todos []Todo `json:"todos"`
}

// Document is the complete per-session state.
//
// Lists and todos are addressed by position. Removing an element shifts every
// later element down by one, so indices captured before a delete go stale.
type Document struct {
	Lists []List `json:"lists"`
	Flash *Flash `json:"flash,omitempty"`
}

func NewDocument() *Document {
	return &Document{Lists: []List{}}
}

// ListNames returns the names of all lists in stored order.
func (d *Document) ListNames() []string {
	out := make([]string, 0, len(d.Lists))
	for _, l := range d.Lists {
		out = append(out, l.Name)
	}
	return out
}

func (d *Document) SetSuccess(msg string) {
	d.Flash = &Flash{Kind: FlashSuccess, Message: msg}
}

func (d *Document) SetError(msg string) {
	d.Flash = &Flash{Kind: FlashError, Message: msg}
}

// TakeFlash returns the pending flash (if any) and clears it.
func (d *Document) TakeFlash() *Flash {
	f := d.Flash
	d.Flash = nil
	return f
}

// Clone returns a deep copy so callers never share slices across sessions or requests.
func (d *Document) Clone() *Document {
	if d == nil {
		return NewDocument()
	}
	out := &Document{Lists: make([]List, len(d.Lists))}
	for i, l := range d.Lists {
		todos := make([]Todo, len(l.Todos))
		copy(todos, l.Todos)
		out.Lists[i] = List{Name: l.Name, Todos: todos}
	}
	if d.Flash != nil {
		f := *d.Flash
		out.Flash = &f
	}
	return out
}
