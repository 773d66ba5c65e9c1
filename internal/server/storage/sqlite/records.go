package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/server/storage"
)

// InsertRecord stores a new document
func (s *Storage) InsertRecord(ctx context.Context, rec *storage.Record) error {
	query := `
		INSERT INTO records (tbl, id, data, version, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.Table,
		rec.ID,
		[]byte(rec.Data),
		rec.Version,
		rec.IsActive,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrRecordExists
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}

	return nil
}

// GetRecord retrieves a document by table and id
func (s *Storage) GetRecord(ctx context.Context, table, id string) (*storage.Record, error) {
	query := `
		SELECT tbl, id, data, version, is_active, created_at, updated_at
		FROM records
		WHERE tbl = ? AND id = ?
	`

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, table, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return rec, nil
}

// ListRecords returns a page of a table, oldest first
func (s *Storage) ListRecords(ctx context.Context, table string, opts storage.ListOptions) ([]*storage.Record, int, error) {
	where := `WHERE tbl = ?`
	args := []any{table}
	if opts.ActiveOnly {
		where += ` AND is_active = 1`
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count records: %w", err)
	}

	query := `
		SELECT tbl, id, data, version, is_active, created_at, updated_at
		FROM records ` + where + `
		ORDER BY created_at, id
		LIMIT ? OFFSET ?
	`
	rows, err := s.db.QueryContext(ctx, query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []*storage.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, total, nil
}

// UpdateRecord заменяет документ, только если версия в базе равна expected
func (s *Storage) UpdateRecord(ctx context.Context, rec *storage.Record, expected int64) error {
	query := `
		UPDATE records
		SET data = ?, version = ?, is_active = ?, updated_at = ?
		WHERE tbl = ? AND id = ? AND version = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		[]byte(rec.Data),
		rec.Version,
		rec.IsActive,
		rec.UpdatedAt,
		rec.Table,
		rec.ID,
		expected,
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	// Ничего не обновили: записи нет или версия ушла вперед
	if _, err := s.GetRecord(ctx, rec.Table, rec.ID); err != nil {
		return err
	}
	return storage.ErrVersionMismatch
}

// DeleteRecord removes a document
func (s *Storage) DeleteRecord(ctx context.Context, table, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE tbl = ? AND id = ?`, table, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrRecordNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*storage.Record, error) {
	rec := &storage.Record{}
	var data []byte
	err := row.Scan(
		&rec.Table,
		&rec.ID,
		&data,
		&rec.Version,
		&rec.IsActive,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Data = data
	return rec, nil
}
