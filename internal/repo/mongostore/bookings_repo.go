package mongostore

import (
	"context"

	"github.com/homeservices/exchange-api/internal/domain"
	"go.mongodb.org/mongo-driver/mongo"
)

type BookingsRepo interface {
	Create(ctx context.Context, b *domain.Booking) (*InsertResult, error)
	ListByConsumerEmail(ctx context.Context, email string) ([]domain.Booking, error)
	ListByProviderEmail(ctx context.Context, email string) ([]domain.Booking, error)
}

type BookingsRepoImpl struct{ store *Store }

func NewBookingsRepo(db *mongo.Database) *BookingsRepoImpl {
	return &BookingsRepoImpl{store: New(db, "bookings")}
}

func (r *BookingsRepoImpl) Create(ctx context.Context, b *domain.Booking) (*InsertResult, error) {
	return r.store.Insert(ctx, b)
}

func (r *BookingsRepoImpl) ListByConsumerEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	return r.list(ctx, domain.FieldConsumerEmail, email)
}

func (r *BookingsRepoImpl) ListByProviderEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	return r.list(ctx, domain.FieldProviderEmail, email)
}

func (r *BookingsRepoImpl) list(ctx context.Context, field, value string) ([]domain.Booking, error) {
	filter := map[string]string{}
	if value != "" {
		filter[field] = value
	}

	bookings := []domain.Booking{}
	if err := r.store.FindMany(ctx, filter, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
