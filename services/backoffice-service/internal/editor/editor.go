// Package editor implements the filter, select, edit, save and delete cycle
// shared by the customer, service and category pages.
//
// An Editor is stateless; every operation mutates the View passed to it.
// Callers serialize operations on one View.
package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/backendapi"
)

var (
	ErrEditInProgress  = errors.New("edit in progress")
	ErrNotEditing      = errors.New("not editing")
	ErrNoSelection     = errors.New("no record selected")
	ErrRecordNotFound  = errors.New("record not found")
	ErrNoPendingDelete = errors.New("no pending delete")
)

// IsGuard reports whether err is a mode-guard rejection, the equivalent of
// clicking a disabled control.
func IsGuard(err error) bool {
	return errors.Is(err, ErrEditInProgress) || errors.Is(err, ErrNotEditing) ||
		errors.Is(err, ErrNoSelection) || errors.Is(err, ErrRecordNotFound) ||
		errors.Is(err, ErrNoPendingDelete)
}

type Action string

const (
	ActionSaved   Action = "saved"
	ActionDeleted Action = "deleted"
)

// Change describes a successful save or delete.
type Change struct {
	Kind       string
	Action     Action
	RecordID   string
	OccurredAt time.Time
}

type Options struct {
	// OnChange runs after every successful save or delete.
	OnChange func(ctx context.Context, c Change)
	Now      func() time.Time
}

type Editor[T any] struct {
	binding  Binding[T]
	gateway  Gateway[T]
	onChange func(ctx context.Context, c Change)
	now      func() time.Time
}

func New[T any](binding Binding[T], gateway Gateway[T], opts Options) *Editor[T] {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Editor[T]{binding: binding, gateway: gateway, onChange: opts.OnChange, now: now}
}

func (e *Editor[T]) Binding() Binding[T] { return e.binding }

// Filter replaces the list with the records matching key and clears the
// selection. On failure the list and the selection are left as they were.
func (e *Editor[T]) Filter(ctx context.Context, v *View[T], key string) error {
	if v.IsEditing() {
		return ErrEditInProgress
	}
	v.clearMessages()
	v.PendingDelete = ""

	records, warnings, err := e.gateway.Filter(ctx, key)
	if err != nil {
		v.Dialog = failureDialog(err)
		return fmt.Errorf("filter %s: %w", e.binding.Kind(), err)
	}
	v.Loaded = true
	v.FilterKey = key
	v.Results = records
	v.clearSelection()
	v.clearForm()
	v.Dialog = warningsDialog(warnings)
	return nil
}

// Select shows the record with id from the last fetched results.
func (e *Editor[T]) Select(v *View[T], id string) error {
	if v.IsEditing() {
		return ErrEditInProgress
	}
	rec, ok := e.find(v.Results, id)
	if !ok {
		return fmt.Errorf("select %s %q: %w", e.binding.Kind(), id, ErrRecordNotFound)
	}
	v.clearMessages()
	v.PendingDelete = ""
	e.show(v, rec)
	return nil
}

// SelectChild highlights a read-only sub-row of the current record. It is
// allowed in every mode.
func (e *Editor[T]) SelectChild(v *View[T], id string) error {
	children, ok := e.binding.(Children[T])
	if !ok || v.Current == nil {
		return ErrNoSelection
	}
	if v.IsEditing() {
		return ErrEditInProgress
	}
	if _, found := children.ChildDetail(*v.Current, id); !found {
		return fmt.Errorf("select child %q: %w", id, ErrRecordNotFound)
	}
	v.ChildID = id
	return nil
}

// Add opens an empty editable form. The current selection is kept so
// Cancel can restore it.
func (e *Editor[T]) Add(v *View[T]) error {
	if v.IsEditing() {
		return ErrEditInProgress
	}
	v.clearMessages()
	v.PendingDelete = ""
	v.Mode = Adding
	v.ChildID = ""
	v.clearForm()
	v.Form = Values{}
	return nil
}

// Edit makes the selected record editable.
func (e *Editor[T]) Edit(v *View[T]) error {
	if v.IsEditing() {
		return ErrEditInProgress
	}
	if v.Current == nil {
		return ErrNoSelection
	}
	v.clearMessages()
	v.PendingDelete = ""
	v.Mode = Editing
	v.clearForm()
	v.Form = e.binding.Values(*v.Current)
	return nil
}

// Cancel discards the edits without a network call.
func (e *Editor[T]) Cancel(v *View[T]) error {
	if !v.IsEditing() {
		return ErrNotEditing
	}
	v.clearMessages()
	v.Mode = Browsing
	v.clearForm()
	if v.Current != nil {
		v.Form = e.binding.Values(*v.Current)
	}
	return nil
}

// Save validates the submitted values, posts the record and refreshes the
// list with the last filter key. A validation failure never reaches the
// gateway.
func (e *Editor[T]) Save(ctx context.Context, v *View[T], submitted Values) error {
	if !v.IsEditing() {
		return ErrNotEditing
	}
	v.clearMessages()

	values := submitted.Clone()
	values["id"] = ""
	if v.Mode == Editing && v.Current != nil {
		values["id"] = e.binding.RecordID(*v.Current)
	}
	v.Form = values

	if verr := Validate(e.binding.Fields(), values, e.binding.Check); verr != nil {
		v.Flagged = verr.Fields
		v.FormMessage = verr.Message
		return verr
	}
	v.Flagged = nil
	v.FormMessage = ""

	record := e.binding.Record(values)
	saved, warnings, err := e.gateway.Save(ctx, record)
	if err != nil {
		v.Dialog = failureDialog(err)
		return fmt.Errorf("save %s: %w", e.binding.Kind(), err)
	}

	shown := record
	if saved.HasRecord {
		shown = saved.Record
	}
	id := e.binding.RecordID(shown)
	if id == "" {
		id = saved.ID
	}
	wasEditing := v.Mode == Editing
	if wasEditing && v.Current != nil {
		if m, ok := e.binding.(Merger[T]); ok {
			shown = m.Merge(shown, *v.Current)
		}
	}

	v.Mode = Browsing
	v.clearForm()
	v.clearSelection()
	e.emit(ctx, ActionSaved, id)

	refreshErr := e.refresh(ctx, v, &warnings)
	switch {
	case wasEditing:
		e.show(v, shown)
		if id != "" {
			v.SelectedID = id
		}
	case id != "":
		if rec, ok := e.find(v.Results, id); ok {
			e.show(v, rec)
		}
	}
	v.Notification = e.binding.Label() + " saved successfully!"
	if refreshErr != nil {
		return refreshErr
	}
	v.Dialog = warningsDialog(warnings)
	return nil
}

// RequestDelete opens the confirmation for the selected record.
func (e *Editor[T]) RequestDelete(v *View[T]) error {
	if v.IsEditing() {
		return ErrEditInProgress
	}
	if v.Current == nil {
		return ErrNoSelection
	}
	v.clearMessages()
	v.PendingDelete = e.binding.RecordID(*v.Current)
	return nil
}

// CancelDelete closes the confirmation without a call.
func (e *Editor[T]) CancelDelete(v *View[T]) error {
	if v.PendingDelete == "" {
		return ErrNoPendingDelete
	}
	v.PendingDelete = ""
	return nil
}

// ConfirmDelete deletes the pending record and refreshes the list.
func (e *Editor[T]) ConfirmDelete(ctx context.Context, v *View[T]) error {
	if v.PendingDelete == "" {
		return ErrNoPendingDelete
	}
	id := v.PendingDelete
	v.PendingDelete = ""
	v.clearMessages()

	warnings, err := e.gateway.Delete(ctx, id)
	if err != nil {
		v.Dialog = failureDialog(err)
		return fmt.Errorf("delete %s %q: %w", e.binding.Kind(), id, err)
	}
	e.emit(ctx, ActionDeleted, id)

	v.clearSelection()
	v.clearForm()
	refreshErr := e.refresh(ctx, v, &warnings)
	v.Notification = e.binding.Label() + " deleted successfully!"
	if refreshErr != nil {
		return refreshErr
	}
	v.Dialog = warningsDialog(warnings)
	return nil
}

func (e *Editor[T]) CloseDialog(v *View[T]) {
	v.Dialog = nil
}

// Reset returns the view to an empty browsing state and filters with an
// empty key. Used when a tab becomes active.
func (e *Editor[T]) Reset(ctx context.Context, v *View[T]) error {
	v.Mode = Browsing
	v.PendingDelete = ""
	v.clearSelection()
	v.clearForm()
	return e.Filter(ctx, v, "")
}

// refresh re-runs the last filter after a mutation. Filter warnings are
// appended to warnings.
func (e *Editor[T]) refresh(ctx context.Context, v *View[T], warnings *[]backendapi.Issue) error {
	records, more, err := e.gateway.Filter(ctx, v.FilterKey)
	if err != nil {
		v.Dialog = failureDialog(err)
		return fmt.Errorf("refresh %s: %w", e.binding.Kind(), err)
	}
	v.Loaded = true
	v.Results = records
	*warnings = append(*warnings, more...)
	return nil
}

func (e *Editor[T]) show(v *View[T], rec T) {
	v.Current = &rec
	v.SelectedID = e.binding.RecordID(rec)
	v.ChildID = ""
	v.clearForm()
	v.Form = e.binding.Values(rec)
}

func (e *Editor[T]) find(records []T, id string) (T, bool) {
	for _, rec := range records {
		if e.binding.RecordID(rec) == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

func (e *Editor[T]) emit(ctx context.Context, action Action, id string) {
	if e.onChange == nil {
		return
	}
	e.onChange(ctx, Change{Kind: e.binding.Kind(), Action: action, RecordID: id, OccurredAt: e.now().UTC()})
}
