// Package handlers serves the operator pages. Every button is a form POST
// that runs one editor action against the session workspace and redirects
// back to the page.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/md-rashed-zaman/backoffice/libs/httpx"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/catalog"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/editor"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/model"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/session"
)

const (
	customersPage = "/customers"
	servicesPage  = "/services"
)

type Deps struct {
	Sessions   *session.Manager
	Customers  *editor.Editor[model.Customer]
	Services   *editor.Editor[model.Service]
	Categories *editor.Editor[model.ServiceCategory]
	Catalog    *catalog.Catalog
	Logger     *slog.Logger
}

type Handler struct {
	sessions   *session.Manager
	customers  *editor.Editor[model.Customer]
	services   *editor.Editor[model.Service]
	categories *editor.Editor[model.ServiceCategory]
	catalog    *catalog.Catalog
	pages      *pages
	logger     *slog.Logger
}

func New(d Deps) (*Handler, error) {
	p, err := loadPages()
	if err != nil {
		return nil, err
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		sessions:   d.Sessions,
		customers:  d.Customers,
		services:   d.Services,
		categories: d.Categories,
		catalog:    d.Catalog,
		pages:      p,
		logger:     logger,
	}, nil
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.Root)
	mux.HandleFunc(customersPage, h.CustomersPage)
	mux.HandleFunc(servicesPage, h.ServicesPage)
	mux.HandleFunc(servicesPage+"/tab", h.SwitchServicesTab)

	registerEditor(h, mux, customersPage, customersPage, h.customers, func(ws *session.Workspace) *editor.View[model.Customer] { return ws.Customers })
	registerEditor(h, mux, servicesPage, servicesPage, h.services, func(ws *session.Workspace) *editor.View[model.Service] { return ws.Services })
	registerEditor(h, mux, "/categories", servicesPage, h.categories, func(ws *session.Workspace) *editor.View[model.ServiceCategory] { return ws.Categories })

	mux.HandleFunc(customersPage+"/appointments/select", func(w http.ResponseWriter, r *http.Request) {
		h.mutate(w, r, "customer", "appointments/select", customersPage, func(_ context.Context, ws *session.Workspace) error {
			return h.customers.SelectChild(ws.Customers, r.PostFormValue("id"))
		})
	})
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	http.Redirect(w, r, customersPage, http.StatusSeeOther)
}

func (h *Handler) CustomersPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer sess.Close()

	v := sess.Workspace.Customers
	if !v.Loaded && !v.IsEditing() {
		h.logOutcome(r.Context(), "customer", "filter", h.customers.Filter(r.Context(), v, ""))
	}
	if !h.save(w, r, sess) {
		return
	}
	h.render(w, h.pages.customers, pageData{
		Title:  "Customers",
		Active: customersPage,
		Panel:  newPanel(h.customers.Screen(v), customersPage, customersPage+"/appointments"),
	})
}

func (h *Handler) ServicesPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.catalog.Ensure(r.Context())

	sess, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer sess.Close()

	ws := sess.Workspace
	data := pageData{Title: "Services", Active: servicesPage, Tabs: true, Tab: ws.ServicesTab}
	if ws.ServicesTab == session.TabCategories {
		if !ws.Categories.Loaded && !ws.Categories.IsEditing() {
			h.logOutcome(r.Context(), "category", "filter", h.categories.Filter(r.Context(), ws.Categories, ""))
		}
		data.Panel = newPanel(h.categories.Screen(ws.Categories), "/categories", "")
	} else {
		if !ws.Services.Loaded && !ws.Services.IsEditing() {
			h.logOutcome(r.Context(), "service", "filter", h.services.Filter(r.Context(), ws.Services, ""))
		}
		data.Panel = newPanel(h.services.Screen(ws.Services), servicesPage, "")
	}
	if !h.save(w, r, sess) {
		return
	}
	h.render(w, h.pages.services, data)
}

// SwitchServicesTab activates a tab, resets its form and filters with an
// empty key.
func (h *Handler) SwitchServicesTab(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "services", "tab", servicesPage, func(ctx context.Context, ws *session.Workspace) error {
		switch r.PostFormValue("tab") {
		case session.TabCategories:
			ws.ServicesTab = session.TabCategories
			return h.categories.Reset(ctx, ws.Categories)
		case session.TabServices:
			ws.ServicesTab = session.TabServices
			return h.services.Reset(ctx, ws.Services)
		default:
			return errUnknownTab
		}
	})
}

var errUnknownTab = errors.New("unknown tab")

func registerEditor[T any](h *Handler, mux *http.ServeMux, base, page string, ed *editor.Editor[T], pick func(*session.Workspace) *editor.View[T]) {
	kind := ed.Binding().Kind()
	handle := func(name string, fn func(ctx context.Context, r *http.Request, v *editor.View[T]) error) {
		mux.HandleFunc(base+"/"+name, func(w http.ResponseWriter, r *http.Request) {
			h.mutate(w, r, kind, name, page, func(ctx context.Context, ws *session.Workspace) error {
				return fn(ctx, r, pick(ws))
			})
		})
	}

	handle("filter", func(ctx context.Context, r *http.Request, v *editor.View[T]) error {
		return ed.Filter(ctx, v, r.PostFormValue("key"))
	})
	handle("select", func(_ context.Context, r *http.Request, v *editor.View[T]) error {
		return ed.Select(v, r.PostFormValue("id"))
	})
	handle("add", func(_ context.Context, _ *http.Request, v *editor.View[T]) error {
		return ed.Add(v)
	})
	handle("edit", func(_ context.Context, _ *http.Request, v *editor.View[T]) error {
		return ed.Edit(v)
	})
	handle("cancel", func(_ context.Context, _ *http.Request, v *editor.View[T]) error {
		return ed.Cancel(v)
	})
	handle("save", func(ctx context.Context, r *http.Request, v *editor.View[T]) error {
		return ed.Save(ctx, v, formValues(r, ed.Binding().Fields()))
	})
	handle("delete", func(_ context.Context, _ *http.Request, v *editor.View[T]) error {
		return ed.RequestDelete(v)
	})
	handle("delete/confirm", func(ctx context.Context, _ *http.Request, v *editor.View[T]) error {
		return ed.ConfirmDelete(ctx, v)
	})
	handle("delete/cancel", func(_ context.Context, _ *http.Request, v *editor.View[T]) error {
		return ed.CancelDelete(v)
	})
	handle("dialog/close", func(_ context.Context, _ *http.Request, v *editor.View[T]) error {
		ed.CloseDialog(v)
		return nil
	})
}

func formValues(r *http.Request, fields []editor.Field) editor.Values {
	values := make(editor.Values, len(fields))
	for _, f := range fields {
		values[f.Name] = r.PostFormValue(f.Name)
	}
	return values
}

// mutate runs one action under the session lock and redirects to page.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, kind, action, page string, fn func(ctx context.Context, ws *session.Workspace) error) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	sess, ok := h.begin(w, r)
	if !ok {
		return
	}
	defer sess.Close()

	httpx.AddLogAttrs(r.Context(), "editor", kind, "action", action)
	h.logOutcome(r.Context(), kind, action, fn(r.Context(), sess.Workspace))
	if !h.save(w, r, sess) {
		return
	}
	http.Redirect(w, r, page, http.StatusSeeOther)
}

func (h *Handler) begin(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.sessions.Begin(w, r)
	if err != nil {
		h.logger.Error("session load failed", "err", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, sess *session.Session) bool {
	if err := sess.Save(r.Context()); err != nil {
		h.logger.Error("session save failed", "err", err)
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return false
	}
	return true
}

func (h *Handler) logOutcome(ctx context.Context, kind, action string, err error) {
	var verr *editor.ValidationError
	switch {
	case err == nil:
	case editor.IsGuard(err) || errors.Is(err, errUnknownTab):
		h.logger.DebugContext(ctx, "action ignored", "editor", kind, "action", action, "reason", err.Error())
	case errors.As(err, &verr):
		h.logger.DebugContext(ctx, "form validation failed", "editor", kind, "fields", verr.Fields)
	default:
		h.logger.WarnContext(ctx, "backend call failed", "editor", kind, "action", action, "request_id", httpx.RequestIDFromContext(ctx), "err", err)
	}
}
