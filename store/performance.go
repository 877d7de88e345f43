package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aanchallguptaa/mgnrega-tracker/models"
)

// StateAverages is the result of the state-wide aggregation for one month.
type StateAverages struct {
	HouseholdsWorked float64 `bson:"avg_households_worked"`
	AvgDaysProvided  float64 `bson:"avg_days_provided"`
	AvgWage          float64 `bson:"avg_wage"`
	Districts        int     `bson:"districts"`
}

// InsertPerformance inserts one monthly snapshot. Returns ErrDuplicate when
// a row for the same (state, district, month) already exists; rows are never
// updated in place.
func (s *Store) InsertPerformance(ctx context.Context, p models.Performance) error {
	_, err := s.db.Collection(performanceCollection).InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("error inserting performance for %q: %v", p.DistrictName, err)
	}
	return nil
}

// LatestPerformance returns the row with the maximum data_month for a
// district, or ErrNotFound.
func (s *Store) LatestPerformance(ctx context.Context, stateCode, districtName string) (*models.Performance, error) {
	filter := bson.M{
		"state_code":    stateCode,
		"district_name": districtName,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "data_month", Value: -1}})

	var p models.Performance
	err := s.db.Collection(performanceCollection).FindOne(ctx, filter, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching latest performance for %q: %v", districtName, err)
	}
	return &p, nil
}

// PerformanceAt returns the row for an exact data_month, or ErrNotFound.
func (s *Store) PerformanceAt(ctx context.Context, stateCode, districtName string, month time.Time) (*models.Performance, error) {
	filter := bson.M{
		"state_code":    stateCode,
		"district_name": districtName,
		"data_month":    month,
	}

	var p models.Performance
	err := s.db.Collection(performanceCollection).FindOne(ctx, filter).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching performance at %s for %q: %v",
			month.Format("2006-01"), districtName, err)
	}
	return &p, nil
}

// StateAveragesFor computes the arithmetic mean of householdsWorked,
// avgDaysProvided and avgWage across every district of the state sharing
// the same data_month. Returns ErrNotFound when no rows match.
func (s *Store) StateAveragesFor(ctx context.Context, stateCode string, month time.Time) (*StateAverages, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "state_code", Value: stateCode},
			{Key: "data_month", Value: month},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg_households_worked", Value: bson.D{{Key: "$avg", Value: "$households_worked"}}},
			{Key: "avg_days_provided", Value: bson.D{{Key: "$avg", Value: "$avg_days_provided"}}},
			{Key: "avg_wage", Value: bson.D{{Key: "$avg", Value: "$avg_wage"}}},
			{Key: "districts", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := s.db.Collection(performanceCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating state averages for %s: %v", stateCode, err)
	}
	defer cursor.Close(ctx)

	var results []StateAverages
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("error decoding state averages: %v", err)
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return &results[0], nil
}
