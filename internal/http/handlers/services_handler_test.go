package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/homeservices/exchange-api/internal/domain"
	"github.com/homeservices/exchange-api/internal/http/handlers"
	"github.com/homeservices/exchange-api/internal/repo/mongostore"
	"github.com/homeservices/exchange-api/pkg/events"
)

// mockServicesRepo mimics the store contract in memory: hex ids, upsert on
// replace, idempotent delete.
type mockServicesRepo struct {
	services map[string]domain.Service
}

func newMockServicesRepo() *mockServicesRepo {
	return &mockServicesRepo{services: map[string]domain.Service{}}
}

func (m *mockServicesRepo) Create(_ context.Context, svc *domain.Service) (*mongostore.InsertResult, error) {
	svc.ID = primitive.NewObjectID()
	m.services[svc.ID.Hex()] = *svc
	return &mongostore.InsertResult{Acknowledged: true, InsertedID: svc.ID.Hex()}, nil
}

func (m *mockServicesRepo) List(_ context.Context, providerEmail string) ([]domain.Service, error) {
	out := []domain.Service{}
	for _, svc := range m.services {
		if providerEmail == "" || svc.ServiceProviderEmail == providerEmail {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (m *mockServicesRepo) GetByID(_ context.Context, id string) (*domain.Service, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, mongostore.ErrInvalidID
	}
	svc, ok := m.services[id]
	if !ok {
		return nil, nil
	}
	return &svc, nil
}

func (m *mockServicesRepo) ReplaceByID(_ context.Context, id string, svc *domain.Service) (*mongostore.UpdateResult, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, mongostore.ErrInvalidID
	}

	stored := *svc
	stored.ID = oid
	if _, ok := m.services[id]; ok {
		m.services[id] = stored
		return &mongostore.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
	}
	m.services[id] = stored
	return &mongostore.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: id}, nil
}

func (m *mockServicesRepo) DeleteByID(_ context.Context, id string) (*mongostore.DeleteResult, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, mongostore.ErrInvalidID
	}
	if _, ok := m.services[id]; !ok {
		return &mongostore.DeleteResult{Acknowledged: true, DeletedCount: 0}, nil
	}
	delete(m.services, id)
	return &mongostore.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func newServicesRouter(repo *mockServicesRepo) chi.Router {
	h := handlers.NewServicesHandler(repo, events.NoopPublisher{})

	r := chi.NewRouter()
	r.Post("/services", h.Create)
	r.Get("/services", h.ListAll)
	r.Get("/services/{id}", h.GetByID)
	r.Put("/services/{id}", h.Replace)
	r.Delete("/services/{id}", h.Delete)
	r.Get("/added-services", h.ListAdded)
	return r
}

const serviceBody = `{
	"service_name": "Deep Cleaning",
	"service_area": "Brooklyn",
	"service_description": "Full home deep clean",
	"service_price": "120",
	"service_image": "https://img.example/clean.jpg",
	"service_provider_name": "Pat",
	"service_provider_email": "pat@x.com",
	"service_provider_img": "https://img.example/pat.jpg"
}`

func TestPutNonexistentIDUpserts(t *testing.T) {
	repo := newMockServicesRepo()
	r := newServicesRouter(repo)

	id := primitive.NewObjectID().Hex()
	req := httptest.NewRequest(http.MethodPut, "/services/"+id, strings.NewReader(serviceBody))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result mongostore.UpdateResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.UpsertedCount != 1 || result.UpsertedID != id {
		t.Errorf("result = %+v, want upsert under %s", result, id)
	}

	// The upserted document is retrievable at that id
	req = httptest.NewRequest(http.MethodGet, "/services/"+id, nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var svc domain.Service
	if err := json.NewDecoder(rec.Body).Decode(&svc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if svc.ServiceName != "Deep Cleaning" {
		t.Errorf("service_name = %q", svc.ServiceName)
	}
}

func TestDeleteTwiceIsIdempotent(t *testing.T) {
	repo := newMockServicesRepo()
	r := newServicesRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/services", strings.NewReader(serviceBody))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var created mongostore.InsertResult
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode insert: %v", err)
	}

	del := func() mongostore.DeleteResult {
		req := httptest.NewRequest(http.MethodDelete, "/services/"+created.InsertedID, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("delete status = %d, want 200", rec.Code)
		}
		var result mongostore.DeleteResult
		if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
			t.Fatalf("decode delete: %v", err)
		}
		return result
	}

	if first := del(); first.DeletedCount != 1 {
		t.Errorf("first delete count = %d, want 1", first.DeletedCount)
	}
	if second := del(); second.DeletedCount != 0 {
		t.Errorf("second delete count = %d, want 0", second.DeletedCount)
	}
}

func TestGetMissingServiceReturnsNull(t *testing.T) {
	r := newServicesRouter(newMockServicesRepo())

	req := httptest.NewRequest(http.MethodGet, "/services/"+primitive.NewObjectID().Hex(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "null" {
		t.Errorf("body = %q, want null", body)
	}
}

func TestGetServiceInvalidID(t *testing.T) {
	r := newServicesRouter(newMockServicesRepo())

	req := httptest.NewRequest(http.MethodGet, "/services/not-a-hex-id", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListAddedFiltersByProvider(t *testing.T) {
	repo := newMockServicesRepo()
	r := newServicesRouter(repo)

	post := func(body string) {
		req := httptest.NewRequest(http.MethodPost, "/services", strings.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("post status = %d", rec.Code)
		}
	}
	post(serviceBody)
	post(strings.ReplaceAll(serviceBody, "pat@x.com", "sam@x.com"))

	list := func(path string) []domain.Service {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("list status = %d", rec.Code)
		}
		var out []domain.Service
		if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
			t.Fatalf("decode list: %v", err)
		}
		return out
	}

	filtered := list("/added-services?service_provider_email=pat@x.com")
	if len(filtered) != 1 || filtered[0].ServiceProviderEmail != "pat@x.com" {
		t.Errorf("filtered = %+v, want only pat@x.com", filtered)
	}

	if all := list("/added-services"); len(all) != 2 {
		t.Errorf("unfiltered count = %d, want 2", len(all))
	}

	if all := list("/services"); len(all) != 2 {
		t.Errorf("/services count = %d, want 2", len(all))
	}
}

func TestCreateServiceResponseShape(t *testing.T) {
	r := newServicesRouter(newMockServicesRepo())

	req := httptest.NewRequest(http.MethodPost, "/services", bytes.NewReader([]byte(serviceBody)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result mongostore.InsertResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Acknowledged || result.InsertedID == "" {
		t.Errorf("result = %+v, want acknowledged with id", result)
	}
	if _, err := primitive.ObjectIDFromHex(result.InsertedID); err != nil {
		t.Errorf("insertedId %q is not a valid object id", result.InsertedID)
	}
}
