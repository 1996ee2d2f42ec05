package billing

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record was modified concurrently")
)

// Kind is the EDC/CCTV service tier. Unit Kerja records carry no kind.
type Kind string

const (
	KindEDC     Kind = "EDC"
	KindEDCCCTV Kind = "EDC + CCTV"
)

// DefaultRate returns the canonical monthly rate for the kind. The rate is
// only a creation-time default; edits may move a record's rate off it.
func (k Kind) DefaultRate() int64 {
	switch k {
	case KindEDCCCTV:
		return 135000
	case KindEDC:
		return 35000
	default:
		return 0
	}
}

func (k Kind) Valid() bool {
	return k == KindEDC || k == KindEDCCCTV
}

// MonthKeys are the fixed wire labels of the twelve paid-month flags, in
// calendar order. The dashboard and the database columns share them.
var MonthKeys = [12]string{
	"jan", "feb", "mar", "apr", "mei", "jun",
	"jul", "agu", "sep", "okt", "nov", "des",
}

// MonthNames maps each month key to its display label.
var MonthNames = map[string]string{
	"jan": "Januari",
	"feb": "Februari",
	"mar": "Maret",
	"apr": "April",
	"mei": "Mei",
	"jun": "Juni",
	"jul": "Juli",
	"agu": "Agustus",
	"sep": "September",
	"okt": "Oktober",
	"nov": "November",
	"des": "Desember",
}

// MonthFlags holds the twelve paid-month booleans in calendar order.
type MonthFlags [12]bool

// Checked counts the months marked paid.
func (f MonthFlags) Checked() int {
	n := 0
	for _, set := range f {
		if set {
			n++
		}
	}

	return n
}

// Recompute derives a record's total from its full flag set. Every write
// path goes through it; a month is either fully billed or not billed at all,
// so there is no proration and no incremental adjustment.
func Recompute(rate int64, flags MonthFlags) int64 {
	return rate * int64(flags.Checked())
}

// Record is one billed location for one calendar year. Total is derived and
// must always equal Recompute(Rate, Months); it is never set by a caller.
type Record struct {
	ID           int64
	LocationName string
	Year         int
	Kind         Kind // empty for Unit Kerja records
	Rate         int64
	Months       MonthFlags
	Total        int64
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
