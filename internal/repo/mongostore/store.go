package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrInvalidID marks a malformed document identifier supplied by the caller.
var ErrInvalidID = errors.New("invalid identifier")

const opTimeout = 3 * time.Second

type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedCount int64  `json:"upsertedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Store is a thin persistence facade over a single named collection.
type Store struct {
	coll *mongo.Collection
}

func New(db *mongo.Database, collection string) *Store {
	return &Store{coll: db.Collection(collection)}
}

func (s *Store) Insert(ctx context.Context, doc interface{}) (*InsertResult, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}

	out := &InsertResult{Acknowledged: true}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		out.InsertedID = oid.Hex()
	}
	return out, nil
}

// FindMany decodes every document matching the exact-match filter into out,
// which must be a pointer to a slice. An empty filter matches the whole
// collection. Result order is whatever the server returns.
func (s *Store) FindMany(ctx context.Context, filter map[string]string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query := bson.M{}
	for field, value := range filter {
		query[field] = value
	}

	cur, err := s.coll.Find(ctx, query)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

// FindOneByID decodes the document with the given id into out. It reports
// found=false without error when no document matches; a malformed id is a
// caller error (ErrInvalidID).
func (s *Store) FindOneByID(ctx context.Context, id string, out interface{}) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ReplaceByID sets the given fields on the document matching id, inserting
// a new document under that id when none matches (upsert).
func (s *Store) ReplaceByID(ctx context.Context, id string, fields interface{}) (*UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": fields},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, err
	}

	out := &UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if upserted, ok := res.UpsertedID.(primitive.ObjectID); ok {
		out.UpsertedID = upserted.Hex()
	}
	return out, nil
}

// DeleteByID removes the document matching id. Deleting an id that does not
// exist is not an error; the summary reports a zero count.
func (s *Store) DeleteByID(ctx context.Context, id string) (*DeleteResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	return &DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
