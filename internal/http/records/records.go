// Package records holds the request and response plumbing shared by the
// unit kerja and EDC billing handlers: the twelve month fields, query-string
// id parsing, and the error-to-status mapping.
package records

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/prasetyadi/biltrack/internal/billing"
	"github.com/prasetyadi/biltrack/internal/http/respond"
)

// MonthFields is embedded in create and update request bodies. Pointers
// distinguish an absent month from an explicit false.
type MonthFields struct {
	Jan *bool `json:"jan"`
	Feb *bool `json:"feb"`
	Mar *bool `json:"mar"`
	Apr *bool `json:"apr"`
	Mei *bool `json:"mei"`
	Jun *bool `json:"jun"`
	Jul *bool `json:"jul"`
	Agu *bool `json:"agu"`
	Sep *bool `json:"sep"`
	Okt *bool `json:"okt"`
	Nov *bool `json:"nov"`
	Des *bool `json:"des"`
}

func (m MonthFields) ordered() [12]*bool {
	return [12]*bool{m.Jan, m.Feb, m.Mar, m.Apr, m.Mei, m.Jun, m.Jul, m.Agu, m.Sep, m.Okt, m.Nov, m.Des}
}

// Flags treats absent months as unpaid, for creation.
func (m MonthFields) Flags() billing.MonthFlags {
	var flags billing.MonthFlags

	for i, v := range m.ordered() {
		if v != nil {
			flags[i] = *v
		}
	}

	return flags
}

// Patch keeps only the months present in the request, for partial updates.
func (m MonthFields) Patch() map[string]bool {
	patch := make(map[string]bool)

	for i, v := range m.ordered() {
		if v != nil {
			patch[billing.MonthKeys[i]] = *v
		}
	}

	return patch
}

// MonthValues is embedded in record responses.
type MonthValues struct {
	Jan bool `json:"jan"`
	Feb bool `json:"feb"`
	Mar bool `json:"mar"`
	Apr bool `json:"apr"`
	Mei bool `json:"mei"`
	Jun bool `json:"jun"`
	Jul bool `json:"jul"`
	Agu bool `json:"agu"`
	Sep bool `json:"sep"`
	Okt bool `json:"okt"`
	Nov bool `json:"nov"`
	Des bool `json:"des"`
}

func ValuesFrom(f billing.MonthFlags) MonthValues {
	return MonthValues{
		Jan: f[0],
		Feb: f[1],
		Mar: f[2],
		Apr: f[3],
		Mei: f[4],
		Jun: f[5],
		Jul: f[6],
		Agu: f[7],
		Sep: f[8],
		Okt: f[9],
		Nov: f[10],
		Des: f[11],
	}
}

// RequireID reads the ?id= query parameter; the dashboard client addresses
// records that way rather than with path params. On failure it writes the
// 400 response itself and returns false.
func RequireID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	s := r.URL.Query().Get("id")
	if s == "" {
		respond.Error(w, http.StatusBadRequest, "ID tidak ditemukan")
		return 0, false
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "ID tidak valid")
		return 0, false
	}

	return id, true
}

func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, billing.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Data tidak ditemukan")
	case errors.Is(err, billing.ErrConflict):
		respond.Error(w, http.StatusConflict, "Data sedang diubah pengguna lain, silakan coba lagi")
	default:
		respond.Error(w, http.StatusInternalServerError, err.Error())
	}
}
