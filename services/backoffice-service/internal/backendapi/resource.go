package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"

	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/model"
)

// Endpoints names the ajax calls and form parameters of one record type.
type Endpoints struct {
	Filter      string
	Save        string
	Delete      string
	RecordParam string
	IDParam     string
}

var (
	CustomerEndpoints = Endpoints{
		Filter:      "ajax_filter_customers",
		Save:        "ajax_save_customer",
		Delete:      "ajax_delete_customer",
		RecordParam: "customer",
		IDParam:     "customer_id",
	}
	ServiceEndpoints = Endpoints{
		Filter:      "ajax_filter_services",
		Save:        "ajax_save_service",
		Delete:      "ajax_delete_service",
		RecordParam: "service",
		IDParam:     "service_id",
	}
	CategoryEndpoints = Endpoints{
		Filter:      "ajax_filter_service_categories",
		Save:        "ajax_save_service_category",
		Delete:      "ajax_delete_service_category",
		RecordParam: "category",
		IDParam:     "category_id",
	}
)

// Resource is the filter/save/delete triple for one record type.
type Resource[T any] struct {
	client    *Client
	endpoints Endpoints
}

func NewResource[T any](client *Client, endpoints Endpoints) Resource[T] {
	return Resource[T]{client: client, endpoints: endpoints}
}

func Customers(c *Client) Resource[model.Customer] {
	return NewResource[model.Customer](c, CustomerEndpoints)
}

func Services(c *Client) Resource[model.Service] {
	return NewResource[model.Service](c, ServiceEndpoints)
}

func Categories(c *Client) Resource[model.ServiceCategory] {
	return NewResource[model.ServiceCategory](c, CategoryEndpoints)
}

// Saved is the decoded answer of a save call. Some backends echo the stored
// record, others only a status with the new id.
type Saved[T any] struct {
	Record    T
	HasRecord bool
	ID        string
}

// Filter returns the records matching key; an empty key means all.
func (r Resource[T]) Filter(ctx context.Context, key string) ([]T, []Issue, error) {
	resp, err := r.client.Post(ctx, r.endpoints.Filter, url.Values{"key": {key}})
	if err != nil {
		return nil, warnings(resp), err
	}
	records := []T{}
	if len(resp.Payload) == 0 || bytes.Equal(resp.Payload, []byte("null")) {
		return records, resp.Warnings, nil
	}
	if err := json.Unmarshal(resp.Payload, &records); err != nil {
		return nil, resp.Warnings, &DecodeError{Endpoint: r.endpoints.Filter, Err: err}
	}
	return records, resp.Warnings, nil
}

// Save submits the JSON-encoded record. Records without an id are inserted,
// records with one are updated; the backend decides from the payload.
func (r Resource[T]) Save(ctx context.Context, record T) (Saved[T], []Issue, error) {
	encoded, err := json.Marshal(record)
	if err != nil {
		return Saved[T]{}, nil, err
	}
	resp, err := r.client.Post(ctx, r.endpoints.Save, url.Values{r.endpoints.RecordParam: {string(encoded)}})
	if err != nil {
		return Saved[T]{}, warnings(resp), err
	}
	saved, err := decodeSaved[T](resp.Payload)
	if err != nil {
		return Saved[T]{}, resp.Warnings, &DecodeError{Endpoint: r.endpoints.Save, Err: err}
	}
	return saved, resp.Warnings, nil
}

func (r Resource[T]) Delete(ctx context.Context, id string) ([]Issue, error) {
	resp, err := r.client.Post(ctx, r.endpoints.Delete, url.Values{r.endpoints.IDParam: {id}})
	return warnings(resp), err
}

func decodeSaved[T any](payload json.RawMessage) (Saved[T], error) {
	var saved Saved[T]
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || payload[0] != '{' {
		// "SUCCESS" or similar status strings.
		return saved, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(payload, &probe); err != nil {
		return saved, err
	}
	if rawID, ok := probe["id"]; ok {
		var id model.Text
		if err := json.Unmarshal(rawID, &id); err == nil {
			saved.ID = id.String()
		}
	}
	if _, isStatus := probe["status"]; isStatus {
		return saved, nil
	}
	if err := json.Unmarshal(payload, &saved.Record); err != nil {
		return saved, err
	}
	saved.HasRecord = true
	return saved, nil
}

func warnings(resp *Response) []Issue {
	if resp == nil {
		return nil
	}
	return resp.Warnings
}
