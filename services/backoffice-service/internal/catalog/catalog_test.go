package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/backendapi"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/editor"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/model"
)

type fakeSource struct {
	calls []string
	list  []model.ServiceCategory
	err   error
}

func (f *fakeSource) Filter(ctx context.Context, key string) ([]model.ServiceCategory, []backendapi.Issue, error) {
	f.calls = append(f.calls, key)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return f.list, nil, f.err
}

func TestRefreshReplacesList(t *testing.T) {
	src := &fakeSource{list: []model.ServiceCategory{{ID: "1", Name: "Hair"}}}
	c := New(src, nil)
	if c.Loaded() {
		t.Fatalf("expected empty catalog")
	}
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(src.calls) != 1 || src.calls[0] != "" {
		t.Fatalf("expected one filter with empty key, got %v", src.calls)
	}
	got := c.Categories()
	if len(got) != 1 || got[0].Name != "Hair" {
		t.Fatalf("unexpected categories %+v", got)
	}

	got[0].Name = "mutated"
	if c.Categories()[0].Name != "Hair" {
		t.Fatalf("expected Categories to return a copy")
	}
}

func TestRefreshFailureKeepsPreviousList(t *testing.T) {
	src := &fakeSource{list: []model.ServiceCategory{{ID: "1", Name: "Hair"}}}
	c := New(src, nil)
	_ = c.Refresh(context.Background())

	src.err = errors.New("down")
	src.list = nil
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if len(c.Categories()) != 1 {
		t.Fatalf("expected previous list to survive")
	}
}

func TestEnsureLoadsOnce(t *testing.T) {
	src := &fakeSource{}
	c := New(src, nil)
	c.Ensure(context.Background())
	c.Ensure(context.Background())
	if len(src.calls) != 1 {
		t.Fatalf("expected one load, got %d", len(src.calls))
	}
}

func TestOnChangeRefreshesAfterNextHook(t *testing.T) {
	src := &fakeSource{list: []model.ServiceCategory{{ID: "1", Name: "Hair"}}}
	c := New(src, nil)

	var seen []editor.Change
	hook := c.OnChange(func(_ context.Context, ch editor.Change) {
		seen = append(seen, ch)
	})

	src.list = append(src.list, model.ServiceCategory{ID: "2", Name: "Nails"})
	hook(context.Background(), editor.Change{Kind: "category", Action: editor.ActionSaved, RecordID: "2"})

	if len(seen) != 1 || seen[0].RecordID != "2" {
		t.Fatalf("expected wrapped hook to run once, got %+v", seen)
	}
	if got := c.Categories(); len(got) != 2 || got[1].Name != "Nails" {
		t.Fatalf("expected refreshed list, got %+v", got)
	}
}

func TestOnChangeSurvivesCanceledRequest(t *testing.T) {
	src := &fakeSource{list: []model.ServiceCategory{{ID: "1", Name: "Hair"}}}
	c := New(src, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.OnChange(nil)(ctx, editor.Change{Kind: "category", Action: editor.ActionDeleted, RecordID: "3"})

	if !c.Loaded() || len(c.Categories()) != 1 {
		t.Fatalf("expected refresh despite canceled request context")
	}
}
