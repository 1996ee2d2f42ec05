package summary

import (
	"context"
	"fmt"

	"github.com/prasetyadi/biltrack/internal/billing"
)

// RecordSource is the read side of a billing service. The aggregator pulls
// full record lists at call time; nothing is cached between requests.
//
//go:generate mockgen -source=service.go -destination=source_mock.go -package=summary
type RecordSource interface {
	List(ctx context.Context, filter billing.ListFilter) ([]*billing.Record, error)
}

// MonthBucket is one month's revenue breakdown across both sources.
type MonthBucket struct {
	Month          string
	MonthName      string
	Year           int
	UnitKerjaTotal int64
	EDCTotal       int64
	Combined       int64
}

type YearSummary struct {
	Year        int
	Months      [12]MonthBucket
	YearlyTotal int64
}

// Aggregate folds both record sets into the fixed 12-bucket breakdown. A
// record contributes its rate to every month whose flag is set; absent
// records simply contribute nothing, so an empty year yields all zeros.
func Aggregate(year int, unitKerja, edc []*billing.Record) *YearSummary {
	sum := &YearSummary{Year: year}

	for i, key := range billing.MonthKeys {
		sum.Months[i] = MonthBucket{
			Month:     key,
			MonthName: billing.MonthNames[key],
			Year:      year,
		}
	}

	for _, rec := range unitKerja {
		for i, paid := range rec.Months {
			if paid {
				sum.Months[i].UnitKerjaTotal += rec.Rate
			}
		}
	}

	for _, rec := range edc {
		for i, paid := range rec.Months {
			if paid {
				sum.Months[i].EDCTotal += rec.Rate
			}
		}
	}

	for i := range sum.Months {
		sum.Months[i].Combined = sum.Months[i].UnitKerjaTotal + sum.Months[i].EDCTotal
		sum.YearlyTotal += sum.Months[i].Combined
	}

	return sum
}

type Service struct {
	unitKerja RecordSource
	edc       RecordSource
}

func NewService(unitKerja, edc RecordSource) *Service {
	return &Service{unitKerja: unitKerja, edc: edc}
}

// Yearly recomputes the summary for the year from the current rows of both
// tables. The two reads are separate statements, so a writer landing between
// them can skew one source by a moment; each call is a fresh snapshot.
func (s *Service) Yearly(ctx context.Context, year int) (*YearSummary, error) {
	unitKerja, err := s.unitKerja.List(ctx, billing.ListFilter{Year: year})
	if err != nil {
		return nil, fmt.Errorf("listing unit kerja records: %w", err)
	}

	edc, err := s.edc.List(ctx, billing.ListFilter{Year: year})
	if err != nil {
		return nil, fmt.Errorf("listing edc records: %w", err)
	}

	return Aggregate(year, unitKerja, edc), nil
}
