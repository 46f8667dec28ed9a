// Package model holds the records exchanged with the backend API. Field
// names and JSON tags mirror the upstream tables.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Text is a string column the upstream may send as a JSON string, number or
// null. It always encodes as a JSON string.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("text: unsupported json value %s", data)
		}
		*t = Text(n.String())
		return nil
	}
}

func (t Text) String() string { return string(t) }

// DateTimeLayout is the upstream datetime format.
const DateTimeLayout = "2006-01-02 15:04:05"

// DisplayLayout renders datetimes as dd/MM/yyyy HH:mm.
const DisplayLayout = "02/01/2006 15:04"

// FormatDateTime reformats an upstream datetime for display. Values that do
// not parse are returned unchanged.
func FormatDateTime(raw string) string {
	ts, err := time.Parse(DateTimeLayout, raw)
	if err != nil {
		return raw
	}
	return ts.Format(DisplayLayout)
}

type Customer struct {
	ID           Text          `json:"id,omitempty"`
	FirstName    Text          `json:"first_name"`
	LastName     Text          `json:"last_name"`
	Email        Text          `json:"email"`
	PhoneNumber  Text          `json:"phone_number"`
	Address      Text          `json:"address"`
	City         Text          `json:"city"`
	ZipCode      Text          `json:"zip_code"`
	Notes        Text          `json:"notes"`
	Appointments []Appointment `json:"appointments,omitempty"`
}

func (c Customer) FullName() string {
	return joinName(c.FirstName, c.LastName)
}

type Appointment struct {
	ID            Text   `json:"id"`
	StartDatetime Text   `json:"start_datetime"`
	EndDatetime   Text   `json:"end_datetime"`
	Service       Named  `json:"service"`
	Provider      Person `json:"provider"`
}

// Period renders "start - end" in display format.
func (a Appointment) Period() string {
	return FormatDateTime(a.StartDatetime.String()) + " - " + FormatDateTime(a.EndDatetime.String())
}

type Named struct {
	Name Text `json:"name"`
}

type Person struct {
	FirstName Text `json:"first_name"`
	LastName  Text `json:"last_name"`
}

func (p Person) FullName() string {
	return joinName(p.FirstName, p.LastName)
}

type Service struct {
	ID          Text  `json:"id,omitempty"`
	Name        Text  `json:"name"`
	Duration    Text  `json:"duration"`
	Price       Text  `json:"price"`
	Currency    Text  `json:"currency"`
	Description Text  `json:"description"`
	CategoryID  *Text `json:"id_service_categories"`
}

type ServiceCategory struct {
	ID          Text `json:"id,omitempty"`
	Name        Text `json:"name"`
	Description Text `json:"description"`
}

// IsWholeNumber reports whether s is a run of ASCII digits. Signs are rejected.
func IsWholeNumber(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsAmount reports whether s is a plain decimal such as "10", "10.5" or ".5".
// Signs, exponents, hex floats and Inf/NaN spellings are rejected.
func IsAmount(s string) bool {
	whole, frac, dotted := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return false
	}
	if whole != "" && !IsWholeNumber(whole) {
		return false
	}
	if dotted && frac != "" && !IsWholeNumber(frac) {
		return false
	}
	return true
}

func joinName(first, last Text) string {
	switch {
	case first == "":
		return string(last)
	case last == "":
		return string(first)
	default:
		return string(first) + " " + string(last)
	}
}
