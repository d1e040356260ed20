package mongostore

import (
	"context"

	"github.com/homeservices/exchange-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ServicesRepo interface {
	Create(ctx context.Context, svc *domain.Service) (*InsertResult, error)
	List(ctx context.Context, providerEmail string) ([]domain.Service, error)
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	ReplaceByID(ctx context.Context, id string, svc *domain.Service) (*UpdateResult, error)
	DeleteByID(ctx context.Context, id string) (*DeleteResult, error)
}

type ServicesRepoImpl struct{ store *Store }

func NewServicesRepo(db *mongo.Database) *ServicesRepoImpl {
	return &ServicesRepoImpl{store: New(db, "services")}
}

func (r *ServicesRepoImpl) Create(ctx context.Context, svc *domain.Service) (*InsertResult, error) {
	return r.store.Insert(ctx, svc)
}

// List returns every service, narrowed to one provider when providerEmail
// is non-empty.
func (r *ServicesRepoImpl) List(ctx context.Context, providerEmail string) ([]domain.Service, error) {
	filter := map[string]string{}
	if providerEmail != "" {
		filter[domain.FieldProviderEmail] = providerEmail
	}

	services := []domain.Service{}
	if err := r.store.FindMany(ctx, filter, &services); err != nil {
		return nil, err
	}
	return services, nil
}

func (r *ServicesRepoImpl) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	var svc domain.Service
	found, err := r.store.FindOneByID(ctx, id, &svc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &svc, nil
}

// ReplaceByID sets the full field set of the listing, creating it under the
// given id when absent. Fields omitted from svc are overwritten with zero
// values; this is a replace, not a patch.
func (r *ServicesRepoImpl) ReplaceByID(ctx context.Context, id string, svc *domain.Service) (*UpdateResult, error) {
	fields := bson.M{
		"service_name":           svc.ServiceName,
		"service_area":           svc.ServiceArea,
		"service_description":    svc.ServiceDescription,
		"service_price":          svc.ServicePrice,
		"service_image":          svc.ServiceImage,
		"service_provider_name":  svc.ServiceProviderName,
		"service_provider_email": svc.ServiceProviderEmail,
		"service_provider_img":   svc.ServiceProviderImg,
	}
	return r.store.ReplaceByID(ctx, id, fields)
}

func (r *ServicesRepoImpl) DeleteByID(ctx context.Context, id string) (*DeleteResult, error) {
	return r.store.DeleteByID(ctx, id)
}
