package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/homeservices/exchange-api/internal/domain"
	"github.com/homeservices/exchange-api/internal/http/middleware"
	"github.com/homeservices/exchange-api/internal/http/response"
	"github.com/homeservices/exchange-api/internal/repo/mongostore"
	"github.com/homeservices/exchange-api/pkg/events"
	"github.com/homeservices/exchange-api/pkg/logger"
)

type BookingsHandler struct {
	Repo   mongostore.BookingsRepo
	Events events.Publisher
}

func NewBookingsHandler(repo mongostore.BookingsRepo, pub events.Publisher) *BookingsHandler {
	return &BookingsHandler{Repo: repo, Events: pub}
}

func (h *BookingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var booking domain.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	result, err := h.Repo.Create(r.Context(), &booking)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to insert booking", "error", err)
		response.InternalError(w, "failed to create booking")
		return
	}

	if err := h.Events.Publish(r.Context(), events.BookingCreated, events.BookingCreatedEvent{
		BookingID:     result.InsertedID,
		ConsumerEmail: booking.Email,
		ProviderEmail: booking.ServiceProviderEmail,
		CreatedAt:     time.Now(),
	}); err != nil {
		logger.ErrorContext(r.Context(), "failed to publish event", "subject", events.BookingCreated, "error", err)
	}

	response.WriteJSON(w, http.StatusOK, result)
}

// ListMine is the consumer-side listing. The session middleware has already
// authenticated the caller; here the queried email must equal the
// authenticated one, whether or not matching records exist.
func (h *BookingsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Claims(r)
	if claims == nil {
		response.Unauthorized(w, "unauthorized access")
		return
	}

	email := r.URL.Query().Get("email")
	if claims.Email != email {
		response.Forbidden(w, "forbidden access")
		return
	}

	bookings, err := h.Repo.ListByConsumerEmail(r.Context(), email)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list bookings", "error", err)
		response.InternalError(w, "failed to list bookings")
		return
	}
	response.WriteJSON(w, http.StatusOK, bookings)
}

// ListForProvider is the provider-side listing. Unlike the consumer side it
// carries no ownership check.
func (h *BookingsHandler) ListForProvider(w http.ResponseWriter, r *http.Request) {
	providerEmail := r.URL.Query().Get("service_provider_email")

	bookings, err := h.Repo.ListByProviderEmail(r.Context(), providerEmail)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to list bookings", "error", err)
		response.InternalError(w, "failed to list bookings")
		return
	}
	response.WriteJSON(w, http.StatusOK, bookings)
}
