package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const entryColumns = "id, path, kind, status, fields_json, missing, error_message, parsed_at, updated_at"

// Upsert records the outcome of a parse, replacing any previous entry for the
// same path while keeping its identifier.
func (s *Store) Upsert(ctx context.Context, entry *Entry) (*Entry, error) {
	if entry == nil {
		return nil, errors.New("entry is nil")
	}
	path := strings.TrimSpace(entry.Path)
	if path == "" {
		return nil, errors.New("entry path required")
	}
	if _, ok := statusSet[entry.Status]; !ok {
		return nil, fmt.Errorf("unknown status %q", entry.Status)
	}

	fields := entry.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}

	now := time.Now().UTC()
	parsedAt := entry.ParsedAt
	if parsedAt.IsZero() {
		parsedAt = now
	}

	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO recordings (
            id, path, kind, status, experiment, participant, session, list_id, recording,
            fields_json, missing, error_message, parsed_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(path) DO UPDATE SET
            kind = excluded.kind,
            status = excluded.status,
            experiment = excluded.experiment,
            participant = excluded.participant,
            session = excluded.session,
            list_id = excluded.list_id,
            recording = excluded.recording,
            fields_json = excluded.fields_json,
            missing = excluded.missing,
            error_message = excluded.error_message,
            parsed_at = excluded.parsed_at,
            updated_at = excluded.updated_at`,
		s.newID(),
		path,
		entry.Kind,
		entry.Status,
		nullableString(fields[keyExperiment]),
		nullableString(fields[keyParticipant]),
		nullableString(fields[keySession]),
		nullableString(fields[keyList]),
		nullableString(fields[keyRecording]),
		string(fieldsJSON),
		nullableString(strings.Join(entry.Missing, ",")),
		nullableString(entry.Error),
		parsedAt.UTC().Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	); err != nil {
		return nil, fmt.Errorf("upsert recording: %w", err)
	}

	return s.Get(ctx, path)
}

// Get fetches the entry for path, returning nil when it is not indexed.
func (s *Store) Get(ctx context.Context, path string) (*Entry, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+entryColumns+` FROM recordings WHERE path = ?`, path)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recording: %w", err)
	}
	return entry, nil
}

// List returns entries filtered by status set (or all entries when no status is provided).
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Entry, error) {
	ctx = ensureContext(ctx)
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + entryColumns + ` FROM recordings`
	orderClause := ` ORDER BY path`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// FindByExperiment returns entries whose experiment field matches name.
func (s *Store) FindByExperiment(ctx context.Context, name string) ([]*Entry, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+entryColumns+` FROM recordings WHERE experiment = ? ORDER BY participant, path`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("find by experiment: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Remove deletes the entry for path.
func (s *Store) Remove(ctx context.Context, path string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM recordings WHERE path = ?`, path)
	if err != nil {
		return false, fmt.Errorf("delete recording: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Clear removes all entries from the index.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM recordings`)
	if err != nil {
		return 0, fmt.Errorf("clear index: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns a count of entries grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM recordings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("index stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		id           string
		path         string
		kind         string
		statusStr    string
		fieldsJSON   sql.NullString
		missing      sql.NullString
		errorMessage sql.NullString
		parsedRaw    string
		updatedRaw   string
	)
	if err := scanner.Scan(
		&id,
		&path,
		&kind,
		&statusStr,
		&fieldsJSON,
		&missing,
		&errorMessage,
		&parsedRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:     id,
		Path:   path,
		Kind:   kind,
		Status: Status(statusStr),
		Fields: map[string]string{},
		Error:  errorMessage.String,
	}
	if fieldsJSON.Valid && fieldsJSON.String != "" {
		if err := json.Unmarshal([]byte(fieldsJSON.String), &entry.Fields); err != nil {
			return nil, fmt.Errorf("decode fields for %s: %w", path, err)
		}
	}
	if missing.Valid && missing.String != "" {
		entry.Missing = strings.Split(missing.String, ",")
	}
	entry.ParsedAt = parseTime(parsedRaw)
	entry.UpdatedAt = parseTime(updatedRaw)
	return entry, nil
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts
	}
	return time.Time{}
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func makePlaceholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
