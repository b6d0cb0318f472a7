// This file contains test helpers only available during testing.
package postgres

import (
	"context"
	"fmt"
)

// TruncateForTest removes all stored snapshots.
func (s *SnapshotStore) TruncateForTest(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "TRUNCATE TABLE caseflow_snapshots")
	if err != nil {
		return fmt.Errorf("postgres: failed to truncate snapshots: %w", err)
	}
	return nil
}

// SetRawForTest stores a raw document under the store's snapshot name.
func (s *SnapshotStore) SetRawForTest(ctx context.Context, raw string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO caseflow_snapshots (name, document) VALUES ($1, $2::jsonb)
		ON CONFLICT (name) DO UPDATE SET document = EXCLUDED.document
	`, s.name, raw)
	return err
}
