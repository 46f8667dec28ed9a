package editor

type Mode string

const (
	Browsing Mode = "browsing"
	Adding   Mode = "adding"
	Editing  Mode = "editing"
)

// View is the complete state of one editor instance. It is plain data so a
// session store can persist it between requests.
type View[T any] struct {
	Mode      Mode   `json:"mode"`
	Loaded    bool   `json:"loaded"`
	FilterKey string `json:"filter_key"`
	Results   []T    `json:"results"`

	SelectedID string `json:"selected_id,omitempty"`
	ChildID    string `json:"child_id,omitempty"`
	// Current is the record shown read-only while browsing. It survives
	// add/edit so cancel can restore it.
	Current *T `json:"current,omitempty"`

	Form        Values   `json:"form,omitempty"`
	Flagged     []string `json:"flagged,omitempty"`
	FormMessage string   `json:"form_message,omitempty"`

	PendingDelete string  `json:"pending_delete,omitempty"`
	Dialog        *Dialog `json:"dialog,omitempty"`
	Notification  string  `json:"notification,omitempty"`
}

func NewView[T any]() *View[T] {
	return &View[T]{Mode: Browsing}
}

func (v *View[T]) IsEditing() bool {
	return v.Mode == Adding || v.Mode == Editing
}

func (v *View[T]) clearSelection() {
	v.SelectedID = ""
	v.ChildID = ""
	v.Current = nil
}

func (v *View[T]) clearForm() {
	v.Form = nil
	v.Flagged = nil
	v.FormMessage = ""
}

func (v *View[T]) clearMessages() {
	v.Dialog = nil
	v.Notification = ""
}
