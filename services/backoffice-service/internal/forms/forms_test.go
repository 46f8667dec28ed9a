package forms

import (
	"testing"

	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/editor"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/model"
)

func TestValidEmail(t *testing.T) {
	cases := map[string]bool{
		"user@example.com":       true,
		"first.last@mail.co.uk":  true,
		"a-b@[192.168.0.1]":      true,
		"not-an-email":           false,
		"user@":                  false,
		"user@example.toolongtl": false,
		"":                       false,
	}
	for in, want := range cases {
		if got := ValidEmail(in); got != want {
			t.Fatalf("ValidEmail(%q): expected %v, got %v", in, want, got)
		}
	}
}

func customerValues(email string) editor.Values {
	return editor.Values{"first_name": "John", "last_name": "Smith", "email": email, "phone_number": "555"}
}

func TestCustomerValidation(t *testing.T) {
	b := Customers{}
	if err := editor.Validate(b.Fields(), customerValues("user@example.com"), b.Check); err != nil {
		t.Fatalf("expected valid customer, got %v", err)
	}

	err := editor.Validate(b.Fields(), customerValues("not-an-email"), b.Check)
	if err == nil || err.Message != editor.MessageInvalidEmail {
		t.Fatalf("expected invalid email, got %v", err)
	}
	if len(err.Fields) != 1 || err.Fields[0] != "email" {
		t.Fatalf("expected email flagged, got %v", err.Fields)
	}

	missing := customerValues("user@example.com")
	missing["first_name"] = ""
	missing["phone_number"] = "  "
	err = editor.Validate(b.Fields(), missing, b.Check)
	if err == nil || err.Message != editor.MessageRequired {
		t.Fatalf("expected required message, got %v", err)
	}
	if len(err.Fields) != 2 || err.Fields[0] != "first_name" || err.Fields[1] != "phone_number" {
		t.Fatalf("unexpected flagged fields %v", err.Fields)
	}
}

func TestEmailRuleAppliesOnlyToCustomers(t *testing.T) {
	s := Services{}
	values := editor.Values{"name": "not-an-email", "duration": "30", "price": "10"}
	if err := editor.Validate(s.Fields(), values, s.Check); err != nil {
		t.Fatalf("expected valid service, got %v", err)
	}
	c := Categories{}
	if err := editor.Validate(c.Fields(), editor.Values{"name": "not-an-email"}, c.Check); err != nil {
		t.Fatalf("expected valid category, got %v", err)
	}
}

func TestCustomerRecordRoundTrip(t *testing.T) {
	b := Customers{}
	rec := b.Record(editor.Values{"id": "", "first_name": "John", "email": "j@example.com"})
	if rec.ID != "" {
		t.Fatalf("expected new record without id, got %q", rec.ID)
	}
	back := b.Values(model.Customer{ID: "7", FirstName: "John"})
	if back["id"] != "7" || back["first_name"] != "John" {
		t.Fatalf("unexpected values %v", back)
	}
}

func TestCustomerMergeKeepsAppointments(t *testing.T) {
	prev := model.Customer{ID: "7", FirstName: "Jon", Appointments: []model.Appointment{{ID: "3"}}}
	saved := model.Customer{ID: "7", FirstName: "John"}
	merged := Customers{}.Merge(saved, prev)
	if merged.FirstName != "John" {
		t.Fatalf("expected new first name, got %q", merged.FirstName)
	}
	if len(merged.Appointments) != 1 || merged.Appointments[0].ID != "3" {
		t.Fatalf("expected old appointments, got %+v", merged.Appointments)
	}
}

func TestCustomerAppointmentDetail(t *testing.T) {
	c := model.Customer{Appointments: []model.Appointment{{
		ID:            "3",
		StartDatetime: "2024-03-05 09:00:00",
		EndDatetime:   "2024-03-05 09:30:00",
		Service:       model.Named{Name: "Haircut"},
		Provider:      model.Person{FirstName: "Ann", LastName: "Lee"},
	}}}
	d, ok := Customers{}.ChildDetail(c, "3")
	if !ok {
		t.Fatalf("expected appointment detail")
	}
	if d.Title != "Haircut" || d.Lines[0] != "Ann Lee" || d.Lines[1] != "05/03/2024 09:00 - 05/03/2024 09:30" {
		t.Fatalf("unexpected detail %+v", d)
	}
	if _, ok := (Customers{}).ChildDetail(c, "9"); ok {
		t.Fatalf("expected unknown appointment to be missing")
	}
}

type staticCategories []model.ServiceCategory

func (s staticCategories) Categories() []model.ServiceCategory { return s }

func TestServiceCategorySelector(t *testing.T) {
	b := Services{Categories: staticCategories{{ID: "2", Name: "Hair"}}}

	var selector editor.Field
	for _, f := range b.Fields() {
		if f.Name == "id_service_categories" {
			selector = f
		}
	}
	if len(selector.Options) != 2 || selector.Options[0].Value != NoCategory || selector.Options[0].Label != "- No Category -" {
		t.Fatalf("unexpected options %+v", selector.Options)
	}

	if rec := b.Record(editor.Values{"name": "Cut", "id_service_categories": NoCategory}); rec.CategoryID != nil {
		t.Fatalf("expected nil category, got %v", *rec.CategoryID)
	}
	rec := b.Record(editor.Values{"name": "Cut", "id_service_categories": "2"})
	if rec.CategoryID == nil || *rec.CategoryID != "2" {
		t.Fatalf("expected category 2, got %v", rec.CategoryID)
	}
	if v := b.Values(model.Service{Name: "Cut"}); v["id_service_categories"] != NoCategory {
		t.Fatalf("expected no-category value, got %q", v["id_service_categories"])
	}
}

func TestServiceNumericChecks(t *testing.T) {
	b := Services{}
	err := editor.Validate(b.Fields(), editor.Values{"name": "Cut", "duration": "-5", "price": "10"}, b.Check)
	if err == nil || err.Message != MessageInvalidDuration {
		t.Fatalf("expected duration error, got %v", err)
	}
	err = editor.Validate(b.Fields(), editor.Values{"name": "Cut", "duration": "30", "price": "abc"}, b.Check)
	if err == nil || err.Message != MessageInvalidPrice {
		t.Fatalf("expected price error, got %v", err)
	}
}

func TestSummaries(t *testing.T) {
	title, sub := Customers{}.Summary(model.Customer{FirstName: "Jane", LastName: "Smith", Email: "j@example.com", PhoneNumber: "555"})
	if title != "Jane Smith" || sub != "j@example.com | 555" {
		t.Fatalf("unexpected customer summary %q / %q", title, sub)
	}
	title, sub = Services{}.Summary(model.Service{Name: "Cut", Duration: "30", Price: "10.00", Currency: "EUR"})
	if title != "Cut" || sub != "30 min - 10.00 EUR" {
		t.Fatalf("unexpected service summary %q / %q", title, sub)
	}
}
