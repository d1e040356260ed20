package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service is a marketplace listing owned by a provider. The provider email
// is the ownership key for provider-scoped listing queries; it is asserted
// by the caller at creation time and never verified against a session.
type Service struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ServiceName          string             `bson:"service_name" json:"service_name"`
	ServiceArea          string             `bson:"service_area" json:"service_area"`
	ServiceDescription   string             `bson:"service_description" json:"service_description"`
	ServicePrice         string             `bson:"service_price" json:"service_price"`
	ServiceImage         string             `bson:"service_image" json:"service_image"`
	ServiceProviderName  string             `bson:"service_provider_name" json:"service_provider_name"`
	ServiceProviderEmail string             `bson:"service_provider_email" json:"service_provider_email"`
	ServiceProviderImg   string             `bson:"service_provider_img" json:"service_provider_img"`
}

// Query field names shared by the store filters.
const (
	FieldProviderEmail = "service_provider_email"
	FieldConsumerEmail = "email"
)
