package recommend

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PGRecorder stores events in the recommendation_events table.
type PGRecorder struct {
	DB *sql.DB
}

// Record inserts ev. Redelivered events with a known id are ignored.
func (r *PGRecorder) Record(ctx context.Context, ev Event) error {
	const query = `
INSERT INTO recommendation_events (
    id,
    request_id,
    current_product_title,
    user_query,
    ai_handles,
    served_handles,
    source,
    error_kind,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO NOTHING`

	aiHandles, err := encodeHandles(ev.AIHandles)
	if err != nil {
		return err
	}
	servedHandles, err := encodeHandles(ev.ServedHandles)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		ev.ID,
		nullString(ev.RequestID),
		nullString(ev.CurrentProductTitle),
		nullString(ev.UserQuery),
		aiHandles,
		servedHandles,
		ev.Source,
		nullString(ev.ErrorKind),
		ev.CreatedAt,
	)
	return err
}

// Recent lists events newest first.
func (r *PGRecorder) Recent(ctx context.Context, limit int) ([]Event, error) {
	const query = `
SELECT id, request_id, current_product_title, user_query, ai_handles, served_handles, source, error_kind, created_at
FROM recommendation_events
ORDER BY created_at DESC
LIMIT $1`

	rows, err := r.DB.QueryContext(ctx, query, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var ev Event
		var requestID, title, userQuery, errorKind sql.NullString
		var aiHandles, servedHandles []byte
		if err := rows.Scan(
			&ev.ID,
			&requestID,
			&title,
			&userQuery,
			&aiHandles,
			&servedHandles,
			&ev.Source,
			&errorKind,
			&ev.CreatedAt,
		); err != nil {
			return nil, err
		}
		ev.RequestID = requestID.String
		ev.CurrentProductTitle = title.String
		ev.UserQuery = userQuery.String
		ev.ErrorKind = errorKind.String
		if ev.AIHandles, err = decodeHandles(aiHandles); err != nil {
			return nil, err
		}
		if ev.ServedHandles, err = decodeHandles(servedHandles); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func encodeHandles(handles []string) (string, error) {
	if handles == nil {
		handles = []string{}
	}
	data, err := json.Marshal(handles)
	if err != nil {
		return "", fmt.Errorf("encode handles: %w", err)
	}
	return string(data), nil
}

func decodeHandles(raw []byte) ([]string, error) {
	handles := []string{}
	if len(raw) == 0 {
		return handles, nil
	}
	if err := json.Unmarshal(raw, &handles); err != nil {
		return nil, fmt.Errorf("decode handles: %w", err)
	}
	return handles, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var (
	_ Recorder    = (*PGRecorder)(nil)
	_ EventLister = (*PGRecorder)(nil)
)
