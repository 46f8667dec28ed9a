package forms

import (
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/editor"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/model"
)

// NoCategory is the select value that clears a service's category.
const NoCategory = "null"

const (
	MessageInvalidDuration = "Duration must be a whole number of minutes!"
	MessageInvalidPrice    = "Invalid price!"
)

// CategoryLister supplies the category selector options.
type CategoryLister interface {
	Categories() []model.ServiceCategory
}

type Services struct {
	Categories CategoryLister
}

var _ editor.Binding[model.Service] = Services{}

func (Services) Kind() string  { return "service" }
func (Services) Label() string { return "Service" }

func (Services) RecordID(s model.Service) string { return s.ID.String() }

func (b Services) Fields() []editor.Field {
	options := []editor.Option{{Value: NoCategory, Label: "- No Category -"}}
	if b.Categories != nil {
		for _, c := range b.Categories.Categories() {
			options = append(options, editor.Option{Value: c.ID.String(), Label: c.Name.String()})
		}
	}
	return []editor.Field{
		{Name: "name", Label: "Name", Kind: editor.FieldText, Required: true},
		{Name: "duration", Label: "Duration (Minutes)", Kind: editor.FieldNumber, Required: true},
		{Name: "price", Label: "Price", Kind: editor.FieldNumber, Required: true},
		{Name: "currency", Label: "Currency", Kind: editor.FieldText},
		{Name: "id_service_categories", Label: "Category", Kind: editor.FieldSelect, Options: options},
		{Name: "description", Label: "Description", Kind: editor.FieldTextarea},
	}
}

func (Services) Values(s model.Service) editor.Values {
	category := NoCategory
	if s.CategoryID != nil && *s.CategoryID != "" {
		category = s.CategoryID.String()
	}
	return editor.Values{
		"id":                    s.ID.String(),
		"name":                  s.Name.String(),
		"duration":              s.Duration.String(),
		"price":                 s.Price.String(),
		"currency":              s.Currency.String(),
		"description":           s.Description.String(),
		"id_service_categories": category,
	}
}

func (Services) Record(v editor.Values) model.Service {
	s := model.Service{
		ID:          model.Text(v.Get("id")),
		Name:        model.Text(v.Get("name")),
		Duration:    model.Text(v.Get("duration")),
		Price:       model.Text(v.Get("price")),
		Currency:    model.Text(v.Get("currency")),
		Description: model.Text(v.Get("description")),
	}
	if c := v.Get("id_service_categories"); c != "" && c != NoCategory {
		id := model.Text(c)
		s.CategoryID = &id
	}
	return s
}

func (Services) Summary(s model.Service) (string, string) {
	return s.Name.String(), s.Duration.String() + " min - " + s.Price.String() + " " + s.Currency.String()
}

func (Services) Check(v editor.Values) *editor.ValidationError {
	if !model.IsWholeNumber(v.Get("duration")) {
		return &editor.ValidationError{Fields: []string{"duration"}, Message: MessageInvalidDuration}
	}
	if !model.IsAmount(v.Get("price")) {
		return &editor.ValidationError{Fields: []string{"price"}, Message: MessageInvalidPrice}
	}
	return nil
}
