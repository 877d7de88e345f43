package store

import (
	"context"
	"fmt"

	"github.com/aanchallguptaa/mgnrega-tracker/models"
)

// LogAPI appends one audit record. Telemetry collections carry no
// invariants, so failures are the caller's to log and ignore.
func (s *Store) LogAPI(ctx context.Context, entry models.APILog) error {
	if _, err := s.db.Collection(apiLogsCollection).InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("error writing api log: %v", err)
	}
	return nil
}

// LogSync appends one generator-run record.
func (s *Store) LogSync(ctx context.Context, entry models.SyncLog) error {
	if _, err := s.db.Collection(syncLogsCollection).InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("error writing sync log: %v", err)
	}
	return nil
}
