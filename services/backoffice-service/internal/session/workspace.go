// Package session keeps one workspace per operator browser: the state of the
// three editors and the active services tab.
package session

import (
	"time"

	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/editor"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/model"
)

const (
	TabServices   = "services"
	TabCategories = "categories"
)

type Workspace struct {
	Customers   *editor.View[model.Customer]        `json:"customers"`
	Services    *editor.View[model.Service]         `json:"services"`
	Categories  *editor.View[model.ServiceCategory] `json:"categories"`
	ServicesTab string                              `json:"services_tab"`
	UpdatedAt   time.Time                           `json:"updated_at"`
}

func NewWorkspace() *Workspace {
	w := &Workspace{}
	w.normalize()
	return w
}

func (w *Workspace) normalize() {
	if w.Customers == nil {
		w.Customers = editor.NewView[model.Customer]()
	}
	if w.Services == nil {
		w.Services = editor.NewView[model.Service]()
	}
	if w.Categories == nil {
		w.Categories = editor.NewView[model.ServiceCategory]()
	}
	if w.ServicesTab != TabCategories {
		w.ServicesTab = TabServices
	}
}
