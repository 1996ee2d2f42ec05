package records_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prasetyadi/biltrack/internal/billing"
	"github.com/prasetyadi/biltrack/internal/http/records"
)

func boolPtr(b bool) *bool { return &b }

func TestMonthFields_Flags(t *testing.T) {
	m := records.MonthFields{
		Jan: boolPtr(true),
		Feb: boolPtr(false),
		Des: boolPtr(true),
	}

	flags := m.Flags()

	assert.True(t, flags[0])
	assert.False(t, flags[1])
	assert.False(t, flags[2], "absent month defaults to unpaid")
	assert.True(t, flags[11])
}

func TestMonthFields_Patch(t *testing.T) {
	m := records.MonthFields{
		Mei: boolPtr(true),
		Agu: boolPtr(false),
	}

	patch := m.Patch()

	assert.Equal(t, map[string]bool{"mei": true, "agu": false}, patch)
}

func TestMonthFields_Patch_Empty(t *testing.T) {
	assert.Empty(t, records.MonthFields{}.Patch())
}

func TestValuesFrom(t *testing.T) {
	var flags billing.MonthFlags
	flags[2] = true
	flags[11] = true

	v := records.ValuesFrom(flags)

	assert.True(t, v.Mar)
	assert.True(t, v.Des)
	assert.False(t, v.Jan)
}

func TestRequireID(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantID      int64
		wantOK      bool
		wantMessage string
	}{
		{name: "valid id", target: "/?id=42", wantID: 42, wantOK: true},
		{name: "missing id", target: "/", wantMessage: "ID tidak ditemukan"},
		{name: "non-numeric id", target: "/?id=abc", wantMessage: "ID tidak valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodDelete, tt.target, nil)

			id, ok := records.RequireID(rr, req)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, id)
				return
			}

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"status":"error","message":%q}`, tt.wantMessage), rr.Body.String())
		})
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "not found",
			err:         fmt.Errorf("getting record: %w", billing.ErrNotFound),
			wantStatus:  http.StatusNotFound,
			wantMessage: "Data tidak ditemukan",
		},
		{
			name:        "conflict",
			err:         billing.ErrConflict,
			wantStatus:  http.StatusConflict,
			wantMessage: "Data sedang diubah pengguna lain, silakan coba lagi",
		},
		{
			name:        "unexpected",
			err:         errors.New("connection reset"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			records.WriteError(rr, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"status":"error","message":%q}`, tt.wantMessage), rr.Body.String())
		})
	}
}
