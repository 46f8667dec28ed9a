package editor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/backendapi"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/editor"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/forms"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/model"
)

type fakeGateway struct {
	filterKeys []string
	saved      []model.Customer
	deleted    []string

	results   []model.Customer
	filterErr error
	saveResp  backendapi.Saved[model.Customer]
	saveWarn  []backendapi.Issue
	saveErr   error
	deleteErr error
}

func (f *fakeGateway) Filter(_ context.Context, key string) ([]model.Customer, []backendapi.Issue, error) {
	f.filterKeys = append(f.filterKeys, key)
	if f.filterErr != nil {
		return nil, nil, f.filterErr
	}
	return f.results, nil, nil
}

func (f *fakeGateway) Save(_ context.Context, c model.Customer) (backendapi.Saved[model.Customer], []backendapi.Issue, error) {
	f.saved = append(f.saved, c)
	return f.saveResp, f.saveWarn, f.saveErr
}

func (f *fakeGateway) Delete(_ context.Context, id string) ([]backendapi.Issue, error) {
	f.deleted = append(f.deleted, id)
	return nil, f.deleteErr
}

func smiths() []model.Customer {
	return []model.Customer{
		{
			ID: "7", FirstName: "Jon", LastName: "Smith", Email: "jon@example.com", PhoneNumber: "555",
			Appointments: []model.Appointment{{
				ID: "3", StartDatetime: "2024-03-05 09:00:00", EndDatetime: "2024-03-05 09:30:00",
				Service: model.Named{Name: "Haircut"}, Provider: model.Person{FirstName: "Ann", LastName: "Lee"},
			}},
		},
		{ID: "8", FirstName: "Bob", LastName: "Smith", Email: "bob@example.com", PhoneNumber: "556"},
	}
}

func newEditor(gw *fakeGateway, changes *[]editor.Change) *editor.Editor[model.Customer] {
	return editor.New[model.Customer](forms.Customers{}, gw, editor.Options{
		OnChange: func(_ context.Context, c editor.Change) {
			if changes != nil {
				*changes = append(*changes, c)
			}
		},
		Now: func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
	})
}

func TestSmithScenario(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{results: smiths()}
	var changes []editor.Change
	ed := newEditor(gw, &changes)
	v := editor.NewView[model.Customer]()

	if err := ed.Filter(ctx, v, "Smith"); err != nil {
		t.Fatalf("filter: %v", err)
	}
	screen := ed.Screen(v)
	if len(screen.Rows) != 2 || screen.Rows[0].Title != "Jon Smith" || screen.Rows[1].Title != "Bob Smith" {
		t.Fatalf("expected two rows in response order, got %+v", screen.Rows)
	}

	if err := ed.Select(v, "7"); err != nil {
		t.Fatalf("select: %v", err)
	}
	screen = ed.Screen(v)
	if screen.Editable || !screen.CanEdit || !screen.CanDelete {
		t.Fatalf("expected read-only form with edit and delete enabled, got %+v", screen)
	}
	if len(screen.Children) != 1 || screen.Children[0].ID != "3" {
		t.Fatalf("expected appointment sub-row, got %+v", screen.Children)
	}

	if err := ed.Edit(v); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !ed.Screen(v).ListDisabled {
		t.Fatalf("expected list disabled while editing")
	}

	form := v.Form.Clone()
	form["first_name"] = ""
	err := ed.Save(ctx, v, form)
	var verr *editor.ValidationError
	if !errors.As(err, &verr) || verr.Message != editor.MessageRequired {
		t.Fatalf("expected required validation error, got %v", err)
	}
	if len(gw.saved) != 0 {
		t.Fatalf("expected no save call, got %d", len(gw.saved))
	}
	if len(v.Flagged) != 1 || v.Flagged[0] != "first_name" {
		t.Fatalf("expected first_name flagged, got %v", v.Flagged)
	}
	if v.Mode != editor.Editing {
		t.Fatalf("expected to stay in editing, got %s", v.Mode)
	}

	form["first_name"] = "John"
	updated := smiths()
	updated[0].FirstName = "John"
	gw.results = updated
	gw.saveResp = backendapi.Saved[model.Customer]{Record: model.Customer{ID: "7", FirstName: "John", LastName: "Smith", Email: "jon@example.com", PhoneNumber: "555"}, HasRecord: true}
	if err := ed.Save(ctx, v, form); err != nil {
		t.Fatalf("save: %v", err)
	}

	if len(gw.saved) != 1 || gw.saved[0].ID != "7" {
		t.Fatalf("expected one update call with id 7, got %+v", gw.saved)
	}
	if got := gw.filterKeys[len(gw.filterKeys)-1]; got != "Smith" {
		t.Fatalf("expected re-filter with Smith, got %q", got)
	}
	if v.Mode != editor.Browsing {
		t.Fatalf("expected browsing after save, got %s", v.Mode)
	}
	if v.Current == nil || v.Current.FirstName != "John" {
		t.Fatalf("expected new first name shown, got %+v", v.Current)
	}
	if len(v.Current.Appointments) != 1 || v.Current.Appointments[0].ID != "3" {
		t.Fatalf("expected old appointments kept, got %+v", v.Current.Appointments)
	}
	if v.Notification != "Customer saved successfully!" {
		t.Fatalf("unexpected notification %q", v.Notification)
	}
	if len(changes) != 1 || changes[0].Action != editor.ActionSaved || changes[0].RecordID != "7" || changes[0].Kind != "customer" {
		t.Fatalf("unexpected changes %+v", changes)
	}
}

func TestAddSavesWithoutID(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{results: smiths()}
	ed := newEditor(gw, nil)
	v := editor.NewView[model.Customer]()
	_ = ed.Filter(ctx, v, "")
	_ = ed.Select(v, "7")

	if err := ed.Add(v); err != nil {
		t.Fatalf("add: %v", err)
	}
	gw.saveResp = backendapi.Saved[model.Customer]{ID: "8"}
	values := editor.Values{"id": "7", "first_name": "Bob", "last_name": "Smith", "email": "bob@example.com", "phone_number": "556"}
	if err := ed.Save(ctx, v, values); err != nil {
		t.Fatalf("save: %v", err)
	}
	if gw.saved[0].ID != "" {
		t.Fatalf("expected insert without id, got %q", gw.saved[0].ID)
	}
	if v.SelectedID != "8" {
		t.Fatalf("expected new record selected, got %q", v.SelectedID)
	}
}

func TestCancelMakesNoCall(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{results: smiths()}
	ed := newEditor(gw, nil)
	v := editor.NewView[model.Customer]()
	_ = ed.Filter(ctx, v, "")
	_ = ed.Select(v, "8")
	_ = ed.Add(v)

	calls := len(gw.filterKeys)
	if err := ed.Cancel(v); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if len(gw.filterKeys) != calls || len(gw.saved) != 0 {
		t.Fatalf("expected no network calls on cancel")
	}
	if v.Mode != editor.Browsing || ed.Screen(v).ListDisabled {
		t.Fatalf("expected browsing with filtering enabled")
	}
	if v.SelectedID != "8" || v.Form["first_name"] != "Bob" {
		t.Fatalf("expected previous selection restored, got %q %v", v.SelectedID, v.Form)
	}
}

func TestGuardsWhileEditing(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{results: smiths()}
	ed := newEditor(gw, nil)
	v := editor.NewView[model.Customer]()
	_ = ed.Filter(ctx, v, "")
	_ = ed.Add(v)

	if err := ed.Filter(ctx, v, "x"); !errors.Is(err, editor.ErrEditInProgress) {
		t.Fatalf("expected ErrEditInProgress, got %v", err)
	}
	if err := ed.Select(v, "7"); !errors.Is(err, editor.ErrEditInProgress) {
		t.Fatalf("expected ErrEditInProgress, got %v", err)
	}
	if len(gw.filterKeys) != 1 {
		t.Fatalf("expected no extra filter call, got %v", gw.filterKeys)
	}
	if err := ed.Cancel(v); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := ed.Cancel(v); !errors.Is(err, editor.ErrNotEditing) {
		t.Fatalf("expected ErrNotEditing, got %v", err)
	}
	if err := ed.Edit(v); !errors.Is(err, editor.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	if !editor.IsGuard(editor.ErrNoSelection) {
		t.Fatalf("expected guard error")
	}
}

func TestFilterFailureLeavesListUnchanged(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{results: smiths()}
	ed := newEditor(gw, nil)
	v := editor.NewView[model.Customer]()
	_ = ed.Filter(ctx, v, "Smith")
	_ = ed.Select(v, "7")

	gw.filterErr = &backendapi.ExceptionsError{Endpoint: "ajax_filter_customers", Issues: []backendapi.Issue{{Message: "db down"}}}
	if err := ed.Filter(ctx, v, "other"); err == nil {
		t.Fatalf("expected error")
	}
	if len(v.Results) != 2 || v.SelectedID != "7" || v.FilterKey != "Smith" {
		t.Fatalf("expected list and selection unchanged, got %d %q %q", len(v.Results), v.SelectedID, v.FilterKey)
	}
	if v.Dialog == nil || v.Dialog.Title != "Unexpected Issues" || v.Dialog.Issues[0].Message != "db down" {
		t.Fatalf("unexpected dialog %+v", v.Dialog)
	}
	ed.CloseDialog(v)
	if v.Dialog != nil {
		t.Fatalf("expected dialog closed")
	}
}

func TestSaveExceptionKeepsEditing(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{results: smiths()}
	var changes []editor.Change
	ed := newEditor(gw, &changes)
	v := editor.NewView[model.Customer]()
	_ = ed.Filter(ctx, v, "")
	_ = ed.Select(v, "7")
	_ = ed.Edit(v)

	gw.saveErr = &backendapi.ExceptionsError{Issues: []backendapi.Issue{{Message: "duplicate email"}}}
	if err := ed.Save(ctx, v, v.Form.Clone()); err == nil {
		t.Fatalf("expected error")
	}
	if v.Mode != editor.Editing || v.Dialog == nil || v.Dialog.Kind != editor.DialogExceptions {
		t.Fatalf("expected editing with exceptions dialog, got %s %+v", v.Mode, v.Dialog)
	}
	if len(gw.filterKeys) != 1 || len(changes) != 0 {
		t.Fatalf("expected no refresh and no change event")
	}
}

func TestSaveWarningsContinue(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{results: smiths()}
	ed := newEditor(gw, nil)
	v := editor.NewView[model.Customer]()
	_ = ed.Filter(ctx, v, "")
	_ = ed.Select(v, "7")
	_ = ed.Edit(v)

	gw.saveWarn = []backendapi.Issue{{Message: "email not verified"}}
	if err := ed.Save(ctx, v, v.Form.Clone()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if v.Mode != editor.Browsing || len(gw.filterKeys) != 2 {
		t.Fatalf("expected success path to continue")
	}
	if v.Dialog == nil || v.Dialog.Kind != editor.DialogWarnings || v.Dialog.Title != "Unexpected Warnings" {
		t.Fatalf("expected warnings dialog, got %+v", v.Dialog)
	}
}

func TestDeleteFlow(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{results: smiths()}
	var changes []editor.Change
	ed := newEditor(gw, &changes)
	v := editor.NewView[model.Customer]()
	_ = ed.Filter(ctx, v, "Smith")

	if err := ed.RequestDelete(v); !errors.Is(err, editor.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	_ = ed.Select(v, "8")
	if err := ed.RequestDelete(v); err != nil {
		t.Fatalf("request delete: %v", err)
	}
	confirm := ed.Screen(v).Confirm
	if confirm == nil || confirm.Title != "Delete Customer" {
		t.Fatalf("unexpected confirm %+v", confirm)
	}

	if err := ed.CancelDelete(v); err != nil {
		t.Fatalf("cancel delete: %v", err)
	}
	if len(gw.deleted) != 0 || v.SelectedID != "8" {
		t.Fatalf("expected no change on cancel")
	}

	_ = ed.RequestDelete(v)
	if err := ed.ConfirmDelete(ctx, v); err != nil {
		t.Fatalf("confirm delete: %v", err)
	}
	if len(gw.deleted) != 1 || gw.deleted[0] != "8" {
		t.Fatalf("expected delete of 8, got %v", gw.deleted)
	}
	if got := gw.filterKeys[len(gw.filterKeys)-1]; got != "Smith" {
		t.Fatalf("expected re-filter with Smith, got %q", got)
	}
	if v.Current != nil || v.Notification != "Customer deleted successfully!" {
		t.Fatalf("expected cleared selection and notification, got %+v %q", v.Current, v.Notification)
	}
	if len(changes) != 1 || changes[0].Action != editor.ActionDeleted {
		t.Fatalf("unexpected changes %+v", changes)
	}
	if err := ed.ConfirmDelete(ctx, v); !errors.Is(err, editor.ErrNoPendingDelete) {
		t.Fatalf("expected ErrNoPendingDelete, got %v", err)
	}
}

func TestDeleteFailureKeepsList(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{results: smiths(), deleteErr: errors.New("connection refused")}
	ed := newEditor(gw, nil)
	v := editor.NewView[model.Customer]()
	_ = ed.Filter(ctx, v, "")
	_ = ed.Select(v, "7")
	_ = ed.RequestDelete(v)

	if err := ed.ConfirmDelete(ctx, v); err == nil {
		t.Fatalf("expected error")
	}
	if len(v.Results) != 2 || v.SelectedID != "7" || len(gw.filterKeys) != 1 {
		t.Fatalf("expected list unchanged")
	}
	if v.Dialog == nil || v.Dialog.Issues[0].Message != "connection refused" {
		t.Fatalf("expected transport error in dialog, got %+v", v.Dialog)
	}
}

func TestSelectChild(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{results: smiths()}
	ed := newEditor(gw, nil)
	v := editor.NewView[model.Customer]()
	_ = ed.Filter(ctx, v, "")

	if err := ed.SelectChild(v, "3"); !errors.Is(err, editor.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	_ = ed.Select(v, "7")
	if err := ed.SelectChild(v, "3"); err != nil {
		t.Fatalf("select child: %v", err)
	}
	d := ed.Screen(v).ChildDetail
	if d == nil || d.Title != "Haircut" {
		t.Fatalf("unexpected detail %+v", d)
	}
	if err := ed.SelectChild(v, "99"); !errors.Is(err, editor.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	_ = ed.Edit(v)
	if err := ed.SelectChild(v, "3"); !errors.Is(err, editor.ErrEditInProgress) {
		t.Fatalf("expected ErrEditInProgress while editing, got %v", err)
	}
}

func TestResetFiltersWithEmptyKey(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{results: smiths()}
	ed := newEditor(gw, nil)
	v := editor.NewView[model.Customer]()
	_ = ed.Filter(ctx, v, "Smith")
	_ = ed.Select(v, "7")
	_ = ed.Edit(v)

	if err := ed.Reset(ctx, v); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if v.Mode != editor.Browsing || v.FilterKey != "" || v.Current != nil {
		t.Fatalf("expected reset view, got %s %q %+v", v.Mode, v.FilterKey, v.Current)
	}
}
