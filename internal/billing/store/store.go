package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/prasetyadi/biltrack/internal/billing"
)

// Table selects which billing table a Store instance operates on. The two
// tables share the record shape; they differ in the rate column name and in
// whether a service kind is stored.
type Table string

const (
	UnitKerja Table = "unit_kerja"
	EDC       Table = "edc_cctv"
)

func (t Table) rateColumn() string {
	if t == EDC {
		return "tagihan"
	}

	return "tarif"
}

func (t Table) hasKind() bool {
	return t == EDC
}

type Store struct {
	db    *sql.DB
	table Table
}

func New(db *sql.DB, table Table) *Store {
	return &Store{db: db, table: table}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

var monthColumns = strings.Join(billing.MonthKeys[:], ", ")

// selectColumns lists the read column order expected by scanRecord:
// id, nama_lokasi, year, [jenis,] rate, jan..des, total, version, created_at, updated_at
func (s *Store) selectColumns() string {
	cols := "id, nama_lokasi, year, "
	if s.table.hasKind() {
		cols += "jenis, "
	}

	return cols + s.table.rateColumn() + ", " + monthColumns + ", total, version, created_at, updated_at"
}

func (s *Store) scanRecord(sc scanner) (*billing.Record, error) {
	var rec billing.Record

	dest := []any{&rec.ID, &rec.LocationName, &rec.Year}

	var kindStr string
	if s.table.hasKind() {
		dest = append(dest, &kindStr)
	}

	dest = append(dest, &rec.Rate)
	for i := range rec.Months {
		dest = append(dest, &rec.Months[i])
	}

	dest = append(dest, &rec.Total, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt)

	if err := sc.Scan(dest...); err != nil {
		return nil, err
	}

	rec.Kind = billing.Kind(kindStr)

	return &rec, nil
}

func (s *Store) CreateRecord(ctx context.Context, rec *billing.Record) error {
	cols := []string{"nama_lokasi", "year"}
	args := []any{rec.LocationName, rec.Year}

	if s.table.hasKind() {
		cols = append(cols, "jenis")
		args = append(args, string(rec.Kind))
	}

	cols = append(cols, s.table.rateColumn())
	args = append(args, rec.Rate)

	for i := range rec.Months {
		cols = append(cols, billing.MonthKeys[i])
		args = append(args, rec.Months[i])
	}

	cols = append(cols, "total")
	args = append(args, rec.Total)

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id, version, created_at",
		s.table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &rec.Version, &rec.CreatedAt); err != nil {
		return fmt.Errorf("creating %s record: %w", s.table, err)
	}

	return nil
}

func (s *Store) GetRecord(ctx context.Context, id int64) (*billing.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", s.selectColumns(), s.table)

	rec, err := s.scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, billing.ErrNotFound
		}

		return nil, fmt.Errorf("getting %s record: %w", s.table, err)
	}

	return rec, nil
}

func (s *Store) ListRecords(ctx context.Context, filter billing.ListFilter) ([]*billing.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE year = $1", s.selectColumns(), s.table)
	args := []any{filter.Year}
	argIdx := 2

	if filter.Search != "" {
		query += fmt.Sprintf(" AND nama_lokasi ILIKE $%d", argIdx)

		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	if filter.Kind != nil && s.table.hasKind() {
		query += fmt.Sprintf(" AND jenis = $%d", argIdx)

		args = append(args, string(*filter.Kind))
	}

	query += " ORDER BY nama_lokasi ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s records: %w", s.table, err)
	}
	defer rows.Close()

	var recs []*billing.Record

	for rows.Next() {
		rec, err := s.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s record: %w", s.table, err)
		}

		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", s.table, err)
	}

	return recs, nil
}

// UpdateRecord writes the full record guarded by the version it was read at.
// Zero affected rows means either the row vanished or another writer bumped
// the version; the two cases map to ErrNotFound and ErrConflict.
func (s *Store) UpdateRecord(ctx context.Context, rec *billing.Record) error {
	sets := []string{"nama_lokasi = $1"}
	args := []any{rec.LocationName}
	argIdx := 2

	if s.table.hasKind() {
		sets = append(sets, fmt.Sprintf("jenis = $%d", argIdx))
		args = append(args, string(rec.Kind))
		argIdx++
	}

	sets = append(sets, fmt.Sprintf("%s = $%d", s.table.rateColumn(), argIdx))
	args = append(args, rec.Rate)
	argIdx++

	for i := range rec.Months {
		sets = append(sets, fmt.Sprintf("%s = $%d", billing.MonthKeys[i], argIdx))
		args = append(args, rec.Months[i])
		argIdx++
	}

	sets = append(sets, fmt.Sprintf("total = $%d", argIdx))
	args = append(args, rec.Total)
	argIdx++

	sets = append(sets, "version = version + 1", "updated_at = NOW()")

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d AND version = $%d",
		s.table, strings.Join(sets, ", "), argIdx, argIdx+1,
	)
	args = append(args, rec.ID, rec.Version)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating %s record: %w", s.table, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating %s record: %w", s.table, err)
	}

	if affected == 0 {
		var exists bool

		check := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", s.table)
		if err := s.db.QueryRowContext(ctx, check, rec.ID).Scan(&exists); err != nil {
			return fmt.Errorf("checking %s record: %w", s.table, err)
		}

		if !exists {
			return billing.ErrNotFound
		}

		return billing.ErrConflict
	}

	rec.Version++

	return nil
}

func (s *Store) DeleteRecord(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.table)

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting %s record: %w", s.table, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting %s record: %w", s.table, err)
	}

	if affected == 0 {
		return billing.ErrNotFound
	}

	return nil
}
