package storage

import (
	"context"
	"time"
)

// AlertLogEntry is one dispatched notification kept for audit. Delivery is
// best effort; the log records what the agent attempted to raise.
type AlertLogEntry struct {
	ID        int64     `json:"id"`
	Channel   string    `json:"channel"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *Repository) AppendAlert(ctx context.Context, channel, title, message string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO alert_log (channel, title, message, created_at)
		VALUES (?, ?, ?, ?)`,
		channel, title, message, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func (r *Repository) RecentAlerts(ctx context.Context, limit int) ([]AlertLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, channel, title, message, created_at
		FROM alert_log
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]AlertLogEntry, 0, limit)
	for rows.Next() {
		var entry AlertLogEntry
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.Channel, &entry.Title, &entry.Message, &createdAt); err != nil {
			return nil, err
		}
		if ts := toTimePtr(createdAt); ts != nil {
			entry.CreatedAt = *ts
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
