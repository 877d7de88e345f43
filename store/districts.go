package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aanchallguptaa/mgnrega-tracker/models"
)

// InsertDistrict inserts one reference row. Returns ErrDuplicate if the
// (state_code, district_name) pair is already present.
func (s *Store) InsertDistrict(ctx context.Context, d models.District) error {
	_, err := s.db.Collection(districtsCollection).InsertOne(ctx, d)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("error inserting district %q: %v", d.DistrictName, err)
	}
	return nil
}

// ListDistricts returns every district for a state in the collection's
// natural (insertion) order. The location matcher depends on that ordering
// being stable across calls.
func (s *Store) ListDistricts(ctx context.Context, stateCode string) ([]models.District, error) {
	cursor, err := s.db.Collection(districtsCollection).Find(ctx, bson.M{"state_code": stateCode})
	if err != nil {
		return nil, fmt.Errorf("error listing districts for state %s: %v", stateCode, err)
	}
	defer cursor.Close(ctx)

	var districts []models.District
	if err := cursor.All(ctx, &districts); err != nil {
		return nil, fmt.Errorf("error decoding districts: %v", err)
	}
	return districts, nil
}

// ListStates returns the distinct states present in the districts
// collection, sorted by state code.
func (s *Store) ListStates(ctx context.Context) ([]models.State, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$state_code"},
			{Key: "state_name", Value: bson.D{{Key: "$first", Value: "$state_name"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := s.db.Collection(districtsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error listing states: %v", err)
	}
	defer cursor.Close(ctx)

	var states []models.State
	if err := cursor.All(ctx, &states); err != nil {
		return nil, fmt.Errorf("error decoding states: %v", err)
	}
	return states, nil
}
