package db

import (
	"context"
	"encoding/json"
	"fmt"
)

// InsertAnalyticsEvent stores an event. A repeated client_event_id is
// ignored; inserted reports whether a row was written.
func (db *DB) InsertAnalyticsEvent(ctx context.Context, ev *AnalyticsEvent) (inserted bool, err error) {
	props := ev.Props
	if props == nil {
		props = map[string]any{}
	}
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return false, fmt.Errorf("failed to marshal event props: %w", err)
	}

	tag, err := db.pool.Exec(ctx,
		`INSERT INTO analytics_events (client_event_id, name, props, user_id, anon_id, path, ip, ua)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (client_event_id) DO NOTHING`,
		ev.ClientEventID, ev.Name, propsJSON, ev.UserID, ev.AnonID, ev.Path, ev.IP, ev.UserAgent,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert analytics event: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
