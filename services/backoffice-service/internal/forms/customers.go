// Package forms binds the customer, service and category records to the
// generic editor: field layout, validation, list summaries.
package forms

import (
	"regexp"

	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/editor"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/model"
)

var emailPattern = regexp.MustCompile(`^([\w.-]+)@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.)|(([\w-]+\.)+))([a-zA-Z]{2,4}|[0-9]{1,3})(\]?)$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

type Customers struct{}

var _ editor.Binding[model.Customer] = Customers{}
var _ editor.Merger[model.Customer] = Customers{}
var _ editor.Children[model.Customer] = Customers{}

func (Customers) Kind() string  { return "customer" }
func (Customers) Label() string { return "Customer" }

func (Customers) RecordID(c model.Customer) string { return c.ID.String() }

func (Customers) Fields() []editor.Field {
	return []editor.Field{
		{Name: "first_name", Label: "First Name", Kind: editor.FieldText, Required: true},
		{Name: "last_name", Label: "Last Name", Kind: editor.FieldText, Required: true},
		{Name: "email", Label: "Email", Kind: editor.FieldText, Required: true},
		{Name: "phone_number", Label: "Phone Number", Kind: editor.FieldText, Required: true},
		{Name: "address", Label: "Address", Kind: editor.FieldText},
		{Name: "city", Label: "City", Kind: editor.FieldText},
		{Name: "zip_code", Label: "Zip Code", Kind: editor.FieldText},
		{Name: "notes", Label: "Notes", Kind: editor.FieldTextarea},
	}
}

func (Customers) Values(c model.Customer) editor.Values {
	return editor.Values{
		"id":           c.ID.String(),
		"first_name":   c.FirstName.String(),
		"last_name":    c.LastName.String(),
		"email":        c.Email.String(),
		"phone_number": c.PhoneNumber.String(),
		"address":      c.Address.String(),
		"city":         c.City.String(),
		"zip_code":     c.ZipCode.String(),
		"notes":        c.Notes.String(),
	}
}

func (Customers) Record(v editor.Values) model.Customer {
	return model.Customer{
		ID:          model.Text(v.Get("id")),
		FirstName:   model.Text(v.Get("first_name")),
		LastName:    model.Text(v.Get("last_name")),
		Email:       model.Text(v.Get("email")),
		PhoneNumber: model.Text(v.Get("phone_number")),
		Address:     model.Text(v.Get("address")),
		City:        model.Text(v.Get("city")),
		ZipCode:     model.Text(v.Get("zip_code")),
		Notes:       model.Text(v.Get("notes")),
	}
}

func (Customers) Summary(c model.Customer) (string, string) {
	return c.FullName(), c.Email.String() + " | " + c.PhoneNumber.String()
}

func (Customers) Check(v editor.Values) *editor.ValidationError {
	if !ValidEmail(v.Get("email")) {
		return &editor.ValidationError{Fields: []string{"email"}, Message: editor.MessageInvalidEmail}
	}
	return nil
}

// Merge keeps the appointments of the previously shown record; the save
// response never carries them.
func (Customers) Merge(saved, previous model.Customer) model.Customer {
	saved.Appointments = previous.Appointments
	return saved
}

func (Customers) ChildRows(c model.Customer) []editor.Row {
	rows := make([]editor.Row, 0, len(c.Appointments))
	for _, a := range c.Appointments {
		rows = append(rows, editor.Row{
			ID:       a.ID.String(),
			Title:    a.Period(),
			Subtitle: a.Service.Name.String() + ", " + a.Provider.FullName(),
		})
	}
	return rows
}

func (Customers) ChildDetail(c model.Customer, id string) (editor.Detail, bool) {
	for _, a := range c.Appointments {
		if a.ID.String() != id {
			continue
		}
		return editor.Detail{
			Title: a.Service.Name.String(),
			Lines: []string{a.Provider.FullName(), a.Period()},
		}, true
	}
	return editor.Detail{}, false
}
