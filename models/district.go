package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// District is immutable reference data seeded at startup. DistrictName is a
// bilingual composite string, e.g. "पुणे (Pune)" — Devanagari name followed
// by the English short form in parentheses.
type District struct {
	ID           primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	StateCode    string             `json:"stateCode" bson:"state_code"`
	StateName    string             `json:"stateName" bson:"state_name"`
	DistrictName string             `json:"districtName" bson:"district_name"`
	DistrictCode string             `json:"districtCode,omitempty" bson:"district_code,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"created_at"`
}

// State is the projection returned by the /api/states endpoint.
type State struct {
	StateCode string `json:"stateCode" bson:"_id"`
	StateName string `json:"stateName" bson:"state_name"`
}
