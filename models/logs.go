package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// APILog is an append-only audit record written for every request to the
// metrics and detection endpoints, success or failure.
type APILog struct {
	ID         primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	RequestID  string             `json:"requestId" bson:"request_id"`
	Endpoint   string             `json:"endpoint" bson:"endpoint"`
	Method     string             `json:"method" bson:"method"`
	IP         string             `json:"ip" bson:"ip"`
	UserAgent  string             `json:"userAgent" bson:"user_agent"`
	Query      map[string]string  `json:"query" bson:"query"`
	Status     int                `json:"status" bson:"status"`
	DurationMs int64              `json:"durationMs" bson:"duration_ms"`
	Timestamp  time.Time          `json:"timestamp" bson:"timestamp"`
}

// SyncLog records one run of the synthetic data generator (startup seed,
// daily refresh, or a manual POST /api/sync-data trigger).
type SyncLog struct {
	ID                primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	TriggeredBy       string             `json:"triggeredBy" bson:"triggered_by"`
	StateCode         string             `json:"stateCode" bson:"state_code"`
	DataMonth         time.Time          `json:"dataMonth" bson:"data_month"`
	DistrictsInserted int                `json:"districtsInserted" bson:"districts_inserted"`
	RecordsInserted   int                `json:"recordsInserted" bson:"records_inserted"`
	RecordsSkipped    int                `json:"recordsSkipped" bson:"records_skipped"`
	Failures          int                `json:"failures" bson:"failures"`
	Status            string             `json:"status" bson:"status"`
	Message           string             `json:"message,omitempty" bson:"message,omitempty"`
	DurationMs        int64              `json:"durationMs" bson:"duration_ms"`
	Timestamp         time.Time          `json:"timestamp" bson:"timestamp"`
}
