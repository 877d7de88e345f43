package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DataSourceSynthetic marks performance rows written by the built-in
// generator rather than a real government data feed.
const DataSourceSynthetic = "synthetic"

// Performance is one month's snapshot of employment-program statistics for a
// district. DataMonth is always the first day of the month at midnight UTC
// and acts as the version key: at most one document exists per
// (state_code, district_name, data_month), enforced by a unique index.
// Documents are inserted once and never updated in place.
type Performance struct {
	ID           primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	StateCode    string             `json:"stateCode" bson:"state_code"`
	DistrictName string             `json:"districtName" bson:"district_name"`
	DataMonth    time.Time          `json:"dataMonth" bson:"data_month"`

	JobCardsIssued   int64 `json:"jobCardsIssued" bson:"job_cards_issued"`
	HouseholdsWorked int64 `json:"householdsWorked" bson:"households_worked"`
	ActiveWorkers    int64 `json:"activeWorkers" bson:"active_workers"`
	WomenWorkers     int64 `json:"womenWorkers" bson:"women_workers"`
	SCWorkers        int64 `json:"scWorkers" bson:"sc_workers"`
	STWorkers        int64 `json:"stWorkers" bson:"st_workers"`

	AvgDaysProvided float64 `json:"avgDaysProvided" bson:"avg_days_provided"`
	TotalPersondays int64   `json:"totalPersondays" bson:"total_persondays"`

	AvgWage          float64 `json:"avgWage" bson:"avg_wage"`
	TotalExpenditure float64 `json:"totalExpenditure" bson:"total_expenditure"`

	CompletedWorks int64 `json:"completedWorks" bson:"completed_works"`
	OngoingWorks   int64 `json:"ongoingWorks" bson:"ongoing_works"`

	UpdatedAt  time.Time `json:"updatedAt" bson:"updated_at"`
	DataSource string    `json:"dataSource" bson:"data_source"`
}
