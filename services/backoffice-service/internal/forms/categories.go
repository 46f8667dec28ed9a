package forms

import (
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/editor"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/model"
)

type Categories struct{}

var _ editor.Binding[model.ServiceCategory] = Categories{}

func (Categories) Kind() string  { return "category" }
func (Categories) Label() string { return "Category" }

func (Categories) RecordID(c model.ServiceCategory) string { return c.ID.String() }

func (Categories) Fields() []editor.Field {
	return []editor.Field{
		{Name: "name", Label: "Name", Kind: editor.FieldText, Required: true},
		{Name: "description", Label: "Description", Kind: editor.FieldTextarea},
	}
}

func (Categories) Values(c model.ServiceCategory) editor.Values {
	return editor.Values{
		"id":          c.ID.String(),
		"name":        c.Name.String(),
		"description": c.Description.String(),
	}
}

func (Categories) Record(v editor.Values) model.ServiceCategory {
	return model.ServiceCategory{
		ID:          model.Text(v.Get("id")),
		Name:        model.Text(v.Get("name")),
		Description: model.Text(v.Get("description")),
	}
}

func (Categories) Summary(c model.ServiceCategory) (string, string) {
	return c.Name.String(), ""
}

func (Categories) Check(editor.Values) *editor.ValidationError { return nil }
