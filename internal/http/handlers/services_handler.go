package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/homeservices/exchange-api/internal/domain"
	"github.com/homeservices/exchange-api/internal/http/response"
	"github.com/homeservices/exchange-api/internal/repo/mongostore"
	"github.com/homeservices/exchange-api/pkg/events"
	"github.com/homeservices/exchange-api/pkg/logger"
)

type ServicesHandler struct {
	Repo   mongostore.ServicesRepo
	Events events.Publisher
}

func NewServicesHandler(repo mongostore.ServicesRepo, pub events.Publisher) *ServicesHandler {
	return &ServicesHandler{Repo: repo, Events: pub}
}

func (h *ServicesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var svc domain.Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	result, err := h.Repo.Create(r.Context(), &svc)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to insert service", "error", err)
		response.InternalError(w, "failed to create service")
		return
	}

	if err := h.Events.Publish(r.Context(), events.ServiceCreated, events.ServiceCreatedEvent{
		ServiceID:     result.InsertedID,
		ServiceName:   svc.ServiceName,
		ProviderEmail: svc.ServiceProviderEmail,
		CreatedAt:     time.Now(),
	}); err != nil {
		logger.ErrorContext(r.Context(), "failed to publish event", "subject", events.ServiceCreated, "error", err)
	}

	response.WriteJSON(w, http.StatusOK, result)
}

func (h *ServicesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.Repo.DeleteByID(r.Context(), id)
	if errors.Is(err, mongostore.ErrInvalidID) {
		response.BadRequest(w, "invalid id")
		return
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to delete service", "id", id, "error", err)
		response.InternalError(w, "failed to delete service")
		return
	}

	if result.DeletedCount > 0 {
		if err := h.Events.Publish(r.Context(), events.ServiceDeleted, events.ServiceDeletedEvent{
			ServiceID: id,
			DeletedAt: time.Now(),
		}); err != nil {
			logger.ErrorContext(r.Context(), "failed to publish event", "subject", events.ServiceDeleted, "error", err)
		}
	}

	response.WriteJSON(w, http.StatusOK, result)
}

// ListAdded lists a single provider's listings when the
// service_provider_email query param is present, otherwise everything.
func (h *ServicesHandler) ListAdded(w http.ResponseWriter, r *http.Request) {
	providerEmail := r.URL.Query().Get("service_provider_email")

	services, err := h.Repo.List(r.Context(), providerEmail)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list services", "error", err)
		response.InternalError(w, "failed to list services")
		return
	}
	response.WriteJSON(w, http.StatusOK, services)
}

func (h *ServicesHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	services, err := h.Repo.List(r.Context(), "")
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list services", "error", err)
		response.InternalError(w, "failed to list services")
		return
	}
	response.WriteJSON(w, http.StatusOK, services)
}

// GetByID responds with a JSON null body when no listing matches, not a 404.
func (h *ServicesHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	svc, err := h.Repo.GetByID(r.Context(), id)
	if errors.Is(err, mongostore.ErrInvalidID) {
		response.BadRequest(w, "invalid id")
		return
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to get service", "id", id, "error", err)
		response.InternalError(w, "failed to get service")
		return
	}
	response.WriteJSON(w, http.StatusOK, svc)
}

// Replace overwrites the full field set of the listing, creating it when
// absent. Omitted fields are dropped from the stored form.
func (h *ServicesHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var svc domain.Service
	if err := json.NewDecoder(r.Body).Decode(&svc); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	result, err := h.Repo.ReplaceByID(r.Context(), id, &svc)
	if errors.Is(err, mongostore.ErrInvalidID) {
		response.BadRequest(w, "invalid id")
		return
	}
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to replace service", "id", id, "error", err)
		response.InternalError(w, "failed to replace service")
		return
	}

	if err := h.Events.Publish(r.Context(), events.ServiceUpdated, events.ServiceUpdatedEvent{
		ServiceID: id,
		Upserted:  result.UpsertedCount > 0,
		UpdatedAt: time.Now(),
	}); err != nil {
		logger.ErrorContext(r.Context(), "failed to publish event", "subject", events.ServiceUpdated, "error", err)
	}

	response.WriteJSON(w, http.StatusOK, result)
}
