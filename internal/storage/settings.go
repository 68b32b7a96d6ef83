package storage

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/alertify/agent/internal/model"
)

const (
	keySmokeBaseURL       = "smoke_base_url"
	keySecurityBaseURL    = "security_base_url"
	keySmokeMonitoring    = "smoke_monitoring"
	keySecurityMonitoring = "security_monitoring"
	keyLastSmokeCheckAt   = "last_smoke_check_at"
	keyLastCameraCheckAt  = "last_camera_check_at"
	keySmokeAlertCount    = "smoke_alert_count"
	keyCameraAlertCount   = "camera_alert_count"
)

// LoadSettings reads the full settings record, substituting zero values for
// keys never written.
func (r *Repository) LoadSettings(ctx context.Context) (model.Settings, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return model.Settings{}, err
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return model.Settings{}, err
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return model.Settings{}, err
	}

	settings := model.Settings{
		SmokeBaseURL:       values[keySmokeBaseURL],
		SecurityBaseURL:    values[keySecurityBaseURL],
		SmokeMonitoring:    values[keySmokeMonitoring] == "true",
		SecurityMonitoring: values[keySecurityMonitoring] == "true",
		LastSmokeCheckAt:   toTimePtr(values[keyLastSmokeCheckAt]),
		LastCameraCheckAt:  toTimePtr(values[keyLastCameraCheckAt]),
	}
	settings.SmokeAlertCount, _ = strconv.Atoi(values[keySmokeAlertCount])
	settings.CameraAlertCount, _ = strconv.Atoi(values[keyCameraAlertCount])
	return settings, nil
}

// SaveSettings writes the full settings record in one transaction.
func (r *Repository) SaveSettings(ctx context.Context, settings model.Settings) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return upsertAll(ctx, tx, map[string]string{
			keySmokeBaseURL:       settings.SmokeBaseURL,
			keySecurityBaseURL:    settings.SecurityBaseURL,
			keySmokeMonitoring:    strconv.FormatBool(settings.SmokeMonitoring),
			keySecurityMonitoring: strconv.FormatBool(settings.SecurityMonitoring),
			keyLastSmokeCheckAt:   fromTimePtr(settings.LastSmokeCheckAt),
			keyLastCameraCheckAt:  fromTimePtr(settings.LastCameraCheckAt),
			keySmokeAlertCount:    strconv.Itoa(settings.SmokeAlertCount),
			keyCameraAlertCount:   strconv.Itoa(settings.CameraAlertCount),
		})
	})
}

// PatchSettings applies the non-nil fields of the patch atomically and
// returns the resulting record.
func (r *Repository) PatchSettings(ctx context.Context, patch model.SettingsPatch) (model.Settings, error) {
	settings, err := r.LoadSettings(ctx)
	if err != nil {
		return model.Settings{}, err
	}
	if patch.SmokeBaseURL != nil {
		settings.SmokeBaseURL = *patch.SmokeBaseURL
	}
	if patch.SecurityBaseURL != nil {
		settings.SecurityBaseURL = *patch.SecurityBaseURL
	}
	if patch.SmokeMonitoring != nil {
		settings.SmokeMonitoring = *patch.SmokeMonitoring
	}
	if patch.SecurityMonitoring != nil {
		settings.SecurityMonitoring = *patch.SecurityMonitoring
	}
	if err := r.SaveSettings(ctx, settings); err != nil {
		return model.Settings{}, err
	}
	return settings, nil
}

// TouchSmokeCheck records a completed smoke poll, bumping the alert counter
// when the poll raised one.
func (r *Repository) TouchSmokeCheck(ctx context.Context, at time.Time, alerted bool) error {
	return r.touchCheck(ctx, keyLastSmokeCheckAt, keySmokeAlertCount, at, alerted)
}

// TouchCameraCheck records a completed camera poll.
func (r *Repository) TouchCameraCheck(ctx context.Context, at time.Time, alerted bool) error {
	return r.touchCheck(ctx, keyLastCameraCheckAt, keyCameraAlertCount, at, alerted)
}

func (r *Repository) touchCheck(ctx context.Context, checkKey, countKey string, at time.Time, alerted bool) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		ts := at
		values := map[string]string{checkKey: fromTimePtr(&ts)}
		if alerted {
			var raw string
			err := tx.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, countKey).Scan(&raw)
			if err != nil && err != sql.ErrNoRows {
				return err
			}
			count, _ := strconv.Atoi(raw)
			values[countKey] = strconv.Itoa(count + 1)
		}
		return upsertAll(ctx, tx, values)
	})
}

// ResetAlertCounts zeroes both alert counters.
func (r *Repository) ResetAlertCounts(ctx context.Context) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return upsertAll(ctx, tx, map[string]string{
			keySmokeAlertCount:  "0",
			keyCameraAlertCount: "0",
		})
	})
}

func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertAll(ctx context.Context, tx *sql.Tx, values map[string]string) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for key, value := range values {
		if _, err := stmt.ExecContext(ctx, key, value, now); err != nil {
			return err
		}
	}
	return nil
}
