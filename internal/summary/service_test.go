package summary_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/prasetyadi/biltrack/internal/billing"
	"github.com/prasetyadi/biltrack/internal/summary"
)

func TestAggregate_EmptyYear(t *testing.T) {
	sum := summary.Aggregate(2024, nil, nil)

	assert.Equal(t, 2024, sum.Year)
	assert.Equal(t, int64(0), sum.YearlyTotal)

	for i, bucket := range sum.Months {
		assert.Equal(t, billing.MonthKeys[i], bucket.Month)
		assert.Equal(t, billing.MonthNames[bucket.Month], bucket.MonthName)
		assert.Equal(t, 2024, bucket.Year)
		assert.Zero(t, bucket.UnitKerjaTotal)
		assert.Zero(t, bucket.EDCTotal)
		assert.Zero(t, bucket.Combined)
	}
}

func TestAggregate_TwoSourcesSameMonth(t *testing.T) {
	unitKerja := []*billing.Record{
		{Rate: 100000, Months: billing.MonthFlags{false, false, true}}, // mar
	}
	edc := []*billing.Record{
		{Rate: 35000, Months: billing.MonthFlags{false, false, true}}, // mar
	}

	sum := summary.Aggregate(2024, unitKerja, edc)

	mar := sum.Months[2]
	assert.Equal(t, "mar", mar.Month)
	assert.Equal(t, int64(100000), mar.UnitKerjaTotal)
	assert.Equal(t, int64(35000), mar.EDCTotal)
	assert.Equal(t, int64(135000), mar.Combined)

	for i, bucket := range sum.Months {
		if i == 2 {
			continue
		}

		assert.Zero(t, bucket.Combined, "month %s should be empty", bucket.Month)
	}

	assert.Equal(t, int64(135000), sum.YearlyTotal)
}

func TestAggregate_SumsAcrossRecords(t *testing.T) {
	unitKerja := []*billing.Record{
		{Rate: 100000, Months: billing.MonthFlags{true, true}},
		{Rate: 250000, Months: billing.MonthFlags{true}},
	}
	edc := []*billing.Record{
		{Rate: 35000, Months: billing.MonthFlags{true, true, true}},
		{Rate: 135000, Months: billing.MonthFlags{false, true}},
	}

	sum := summary.Aggregate(2024, unitKerja, edc)

	assert.Equal(t, int64(350000), sum.Months[0].UnitKerjaTotal)
	assert.Equal(t, int64(35000), sum.Months[0].EDCTotal)
	assert.Equal(t, int64(385000), sum.Months[0].Combined)

	assert.Equal(t, int64(100000), sum.Months[1].UnitKerjaTotal)
	assert.Equal(t, int64(170000), sum.Months[1].EDCTotal)

	assert.Equal(t, int64(35000), sum.Months[2].Combined)

	want := int64(385000 + 270000 + 35000)
	assert.Equal(t, want, sum.YearlyTotal)
}

func TestService_Yearly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	unitKerja := summary.NewMockRecordSource(ctrl)
	edc := summary.NewMockRecordSource(ctrl)
	svc := summary.NewService(unitKerja, edc)

	filter := billing.ListFilter{Year: 2023}

	unitKerja.EXPECT().List(gomock.Any(), filter).Return([]*billing.Record{
		{Rate: 100000, Months: billing.MonthFlags{true}},
	}, nil)
	edc.EXPECT().List(gomock.Any(), filter).Return(nil, nil)

	sum, err := svc.Yearly(context.Background(), 2023)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), sum.YearlyTotal)
	assert.Equal(t, int64(100000), sum.Months[0].UnitKerjaTotal)
}

func TestService_Yearly_SourceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	unitKerja := summary.NewMockRecordSource(ctrl)
	edc := summary.NewMockRecordSource(ctrl)
	svc := summary.NewService(unitKerja, edc)

	unitKerja.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	sum, err := svc.Yearly(context.Background(), 2023)
	assert.Error(t, err)
	assert.Nil(t, sum)
}
