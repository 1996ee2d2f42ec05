package billing

import (
	"context"
	"errors"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=billing
type Repository interface {
	CreateRecord(ctx context.Context, rec *Record) error
	GetRecord(ctx context.Context, id int64) (*Record, error)

	// UpdateRecord persists the record guarded by the version it was read
	// at, returning ErrConflict when another writer got there first.
	UpdateRecord(ctx context.Context, rec *Record) error

	ListRecords(ctx context.Context, filter ListFilter) ([]*Record, error)
	DeleteRecord(ctx context.Context, id int64) error
}

// maxUpdateAttempts bounds the read-merge-write retry loop on version
// conflicts before the conflict is surfaced to the caller.
const maxUpdateAttempts = 3

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	LocationName string
	Year         int
	Kind         Kind
	Rate         *int64 // nil picks the kind's default rate
	Months       MonthFlags
}

type ListFilter struct {
	Year   int
	Search string // substring match on location name
	Kind   *Kind
}

// UpdateParams carries a partial edit. Nil fields are left untouched; the
// total is always recomputed from the merged flag set, never from the delta.
type UpdateParams struct {
	LocationName *string
	Kind         *Kind
	Rate         *int64
	Months       map[string]bool // keyed by MonthKeys entries
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Record, error) {
	rate := params.Kind.DefaultRate()
	if params.Rate != nil {
		rate = *params.Rate
	}

	rec := &Record{
		LocationName: params.LocationName,
		Year:         params.Year,
		Kind:         params.Kind,
		Rate:         rate,
		Months:       params.Months,
		Total:        Recompute(rate, params.Months),
	}
	if err := s.repo.CreateRecord(ctx, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Record, error) {
	return s.repo.ListRecords(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*Record, error) {
	return s.repo.GetRecord(ctx, id)
}

// Update applies a partial edit with a read-merge-recompute-write loop.
// A version conflict restarts the loop from a fresh read so the recomputed
// total always reflects every committed flag; after maxUpdateAttempts the
// conflict is returned for the caller to retry.
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Record, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		rec, err := s.repo.GetRecord(ctx, id)
		if err != nil {
			return nil, err
		}

		applyUpdate(rec, params)
		rec.Total = Recompute(rec.Rate, rec.Months)

		err = s.repo.UpdateRecord(ctx, rec)
		if errors.Is(err, ErrConflict) {
			continue
		}

		if err != nil {
			return nil, err
		}

		return rec, nil
	}

	return nil, ErrConflict
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteRecord(ctx, id)
}

func applyUpdate(rec *Record, params UpdateParams) {
	if params.LocationName != nil {
		rec.LocationName = *params.LocationName
	}

	if params.Kind != nil {
		rec.Kind = *params.Kind
	}

	if params.Rate != nil {
		rec.Rate = *params.Rate
	}

	for i, key := range MonthKeys {
		if paid, ok := params.Months[key]; ok {
			rec.Months[i] = paid
		}
	}
}
