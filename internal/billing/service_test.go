package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/prasetyadi/biltrack/internal/billing"
)

func int64Ptr(v int64) *int64 { return &v }

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    billing.CreateParams
		setupMock func(m *billing.MockRepository)
		wantRate  int64
		wantTotal int64
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "AllFlagsFalse",
			params: billing.CreateParams{
				LocationName: "Kantor Pusat",
				Year:         2024,
				Rate:         int64Ptr(100000),
			},
			setupMock: func(m *billing.MockRepository) {
				m.EXPECT().
					CreateRecord(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rec *billing.Record) error {
						rec.ID = 1
						rec.Version = 1
						return nil
					})
			},
			wantRate:  100000,
			wantTotal: 0,
		},
		{
			name: "PreSeededFlags",
			params: billing.CreateParams{
				LocationName: "Cabang Timur",
				Year:         2024,
				Rate:         int64Ptr(50000),
				Months:       billing.MonthFlags{true, true, true},
			},
			setupMock: func(m *billing.MockRepository) {
				m.EXPECT().
					CreateRecord(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rec *billing.Record) error {
						rec.ID = 2
						return nil
					})
			},
			wantRate:  50000,
			wantTotal: 150000,
		},
		{
			name: "RateDefaultedFromKind",
			params: billing.CreateParams{
				LocationName: "ATM Center",
				Year:         2024,
				Kind:         billing.KindEDCCCTV,
				Months:       billing.MonthFlags{true},
			},
			setupMock: func(m *billing.MockRepository) {
				m.EXPECT().
					CreateRecord(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, rec *billing.Record) error {
						rec.ID = 3
						return nil
					})
			},
			wantRate:  135000,
			wantTotal: 135000,
		},
		{
			name: "ExplicitRateBeatsKindDefault",
			params: billing.CreateParams{
				LocationName: "ATM Center",
				Year:         2024,
				Kind:         billing.KindEDC,
				Rate:         int64Ptr(40000),
				Months:       billing.MonthFlags{true, true},
			},
			setupMock: func(m *billing.MockRepository) {
				m.EXPECT().
					CreateRecord(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantRate:  40000,
			wantTotal: 80000,
		},
		{
			name: "RepoError",
			params: billing.CreateParams{
				LocationName: "Kantor Pusat",
				Year:         2024,
				Rate:         int64Ptr(100000),
			},
			setupMock: func(m *billing.MockRepository) {
				m.EXPECT().
					CreateRecord(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := billing.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := billing.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRate, got.Rate)
			assert.Equal(t, tt.wantTotal, got.Total)
		})
	}
}

func TestService_Update_RecomputesTotal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := billing.NewMockRepository(ctrl)
	svc := billing.NewService(repo)

	existing := &billing.Record{
		ID:           7,
		LocationName: "Kantor Pusat",
		Year:         2024,
		Rate:         100000,
		Months:       billing.MonthFlags{true}, // jan paid
		Total:        100000,
		Version:      3,
	}

	repo.EXPECT().GetRecord(gomock.Any(), int64(7)).Return(existing, nil)
	repo.EXPECT().
		UpdateRecord(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec *billing.Record) error {
			rec.Version++
			return nil
		})

	got, err := svc.Update(context.Background(), 7, billing.UpdateParams{
		Months: map[string]bool{"feb": true},
	})
	require.NoError(t, err)

	assert.True(t, got.Months[0])
	assert.True(t, got.Months[1])
	assert.Equal(t, int64(200000), got.Total)
}

func TestService_Update_RateChangeRecomputesAgainstExistingFlags(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := billing.NewMockRepository(ctrl)
	svc := billing.NewService(repo)

	existing := &billing.Record{
		ID:      9,
		Rate:    35000,
		Months:  billing.MonthFlags{true, true, true, true},
		Total:   140000,
		Version: 1,
	}

	repo.EXPECT().GetRecord(gomock.Any(), int64(9)).Return(existing, nil)
	repo.EXPECT().UpdateRecord(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.Update(context.Background(), 9, billing.UpdateParams{
		Rate: int64Ptr(135000),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4*135000), got.Total)
}

func TestService_Update_RetriesOnConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := billing.NewMockRepository(ctrl)
	svc := billing.NewService(repo)

	// First read sees version 1 and loses the race; the retry reads the
	// committed state (feb already set by the other writer) and wins, so
	// both flags end up reflected in the total.
	first := &billing.Record{ID: 4, Rate: 100000, Version: 1}
	second := &billing.Record{ID: 4, Rate: 100000, Months: billing.MonthFlags{false, true}, Total: 100000, Version: 2}

	gomock.InOrder(
		repo.EXPECT().GetRecord(gomock.Any(), int64(4)).Return(first, nil),
		repo.EXPECT().UpdateRecord(gomock.Any(), gomock.Any()).Return(billing.ErrConflict),
		repo.EXPECT().GetRecord(gomock.Any(), int64(4)).Return(second, nil),
		repo.EXPECT().UpdateRecord(gomock.Any(), gomock.Any()).Return(nil),
	)

	got, err := svc.Update(context.Background(), 4, billing.UpdateParams{
		Months: map[string]bool{"jan": true},
	})
	require.NoError(t, err)

	assert.True(t, got.Months[0])
	assert.True(t, got.Months[1])
	assert.Equal(t, int64(200000), got.Total)
}

func TestService_Update_ConflictAfterRetriesExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := billing.NewMockRepository(ctrl)
	svc := billing.NewService(repo)

	repo.EXPECT().
		GetRecord(gomock.Any(), int64(4)).
		Return(&billing.Record{ID: 4, Rate: 100000, Version: 1}, nil).
		Times(3)
	repo.EXPECT().
		UpdateRecord(gomock.Any(), gomock.Any()).
		Return(billing.ErrConflict).
		Times(3)

	got, err := svc.Update(context.Background(), 4, billing.UpdateParams{
		Months: map[string]bool{"jan": true},
	})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, billing.ErrConflict)
}

func TestService_Update_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := billing.NewMockRepository(ctrl)
	svc := billing.NewService(repo)

	repo.EXPECT().GetRecord(gomock.Any(), int64(99)).Return(nil, billing.ErrNotFound)

	got, err := svc.Update(context.Background(), 99, billing.UpdateParams{})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, billing.ErrNotFound)
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := billing.NewMockRepository(ctrl)
	svc := billing.NewService(repo)

	kind := billing.KindEDC
	filter := billing.ListFilter{Year: 2024, Search: "kantor", Kind: &kind}

	repo.EXPECT().
		ListRecords(gomock.Any(), filter).
		Return([]*billing.Record{{ID: 1}, {ID: 2}}, nil)

	got, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := billing.NewMockRepository(ctrl)
	svc := billing.NewService(repo)

	repo.EXPECT().DeleteRecord(gomock.Any(), int64(5)).Return(billing.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), 5), billing.ErrNotFound)
}
