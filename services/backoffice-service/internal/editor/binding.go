package editor

import (
	"context"

	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/backendapi"
)

// Values are raw form values keyed by field name.
type Values map[string]string

func (v Values) Get(name string) string { return v[name] }

func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldNumber   FieldKind = "number"
	FieldTextarea FieldKind = "textarea"
	FieldSelect   FieldKind = "select"
)

type Option struct {
	Value string
	Label string
}

type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
	Options  []Option
}

// Binding adapts one record type to the generic editor.
type Binding[T any] interface {
	// Kind is the lowercase record name used in events and routes.
	Kind() string
	// Label is the display name, e.g. "Customer".
	Label() string
	RecordID(T) string
	Fields() []Field
	Values(T) Values
	// Record builds a record from form values. An empty "id" value means
	// the record is new.
	Record(Values) T
	// Summary returns the bold title and the secondary line of a list row.
	Summary(T) (title, subtitle string)
	// Check runs record-specific validation after the required-field check.
	Check(Values) *ValidationError
}

// Merger is implemented by bindings whose records carry nested data the
// save response omits.
type Merger[T any] interface {
	Merge(saved, previous T) T
}

// Children is implemented by bindings whose records have selectable
// read-only sub-rows.
type Children[T any] interface {
	ChildRows(record T) []Row
	ChildDetail(record T, id string) (Detail, bool)
}

// Gateway is the remote filter/save/delete triple.
type Gateway[T any] interface {
	Filter(ctx context.Context, key string) ([]T, []backendapi.Issue, error)
	Save(ctx context.Context, record T) (backendapi.Saved[T], []backendapi.Issue, error)
	Delete(ctx context.Context, id string) ([]backendapi.Issue, error)
}
