package domain

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking is a consumer's request to engage a service. Only the two email
// keys are typed; everything else the client sends (service reference,
// price, scheduling info) is carried through opaquely in Details.
type Booking struct {
	ID                   primitive.ObjectID     `bson:"_id,omitempty"`
	Email                string                 `bson:"email"`
	ServiceProviderEmail string                 `bson:"service_provider_email"`
	Details              map[string]interface{} `bson:",inline"`
}

// MarshalJSON flattens Details so the wire shape matches what the client
// originally submitted.
func (b Booking) MarshalJSON() ([]byte, error) {
	doc := make(map[string]interface{}, len(b.Details)+3)
	for k, v := range b.Details {
		doc[k] = v
	}
	if !b.ID.IsZero() {
		doc["_id"] = b.ID.Hex()
	}
	if b.Email != "" {
		doc["email"] = b.Email
	}
	if b.ServiceProviderEmail != "" {
		doc["service_provider_email"] = b.ServiceProviderEmail
	}
	return json.Marshal(doc)
}

// UnmarshalJSON lifts the identity keys out of the raw document and keeps
// the rest as opaque payload.
func (b *Booking) UnmarshalJSON(data []byte) error {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	if raw, ok := doc["_id"].(string); ok {
		if id, err := primitive.ObjectIDFromHex(raw); err == nil {
			b.ID = id
		}
	}
	if email, ok := doc["email"].(string); ok {
		b.Email = email
	}
	if provider, ok := doc["service_provider_email"].(string); ok {
		b.ServiceProviderEmail = provider
	}

	delete(doc, "_id")
	delete(doc, "email")
	delete(doc, "service_provider_email")
	b.Details = doc
	return nil
}
