package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsForeignKeyViolation(t *testing.T) {
	fkErr := &pgconn.PgError{Code: "23503", ConstraintName: "inventory_items_category_id_fkey"}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "foreign key violation", err: fkErr, want: true},
		{name: "wrapped foreign key violation", err: fmt.Errorf("deleting category: %w", fkErr), want: true},
		{name: "other sqlstate", err: &pgconn.PgError{Code: "23505"}, want: false},
		{name: "plain error", err: errors.New("connection reset"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isForeignKeyViolation(tt.err))
		})
	}
}
