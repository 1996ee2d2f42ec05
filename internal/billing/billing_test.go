package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prasetyadi/biltrack/internal/billing"
)

func TestRecompute(t *testing.T) {
	type testCase struct {
		name  string
		rate  int64
		flags billing.MonthFlags
		want  int64
	}

	tests := []testCase{
		{
			name: "NoMonthsPaid",
			rate: 100000,
			want: 0,
		},
		{
			name:  "SingleMonth",
			rate:  100000,
			flags: billing.MonthFlags{true},
			want:  100000,
		},
		{
			name:  "ThreeMonths",
			rate:  35000,
			flags: billing.MonthFlags{true, false, true, false, false, false, false, false, false, false, true},
			want:  105000,
		},
		{
			name: "FullYear",
			rate: 135000,
			flags: billing.MonthFlags{
				true, true, true, true, true, true,
				true, true, true, true, true, true,
			},
			want: 12 * 135000,
		},
		{
			name:  "ZeroRate",
			rate:  0,
			flags: billing.MonthFlags{true, true, true},
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, billing.Recompute(tt.rate, tt.flags))
		})
	}
}

func TestRecompute_ToggleSequence(t *testing.T) {
	const rate = 100000

	var flags billing.MonthFlags

	assert.Equal(t, int64(0), billing.Recompute(rate, flags))

	flags[0] = true // jan
	assert.Equal(t, int64(100000), billing.Recompute(rate, flags))

	flags[1] = true // feb
	assert.Equal(t, int64(200000), billing.Recompute(rate, flags))

	flags[0] = false
	assert.Equal(t, int64(100000), billing.Recompute(rate, flags))
}

func TestKind_DefaultRate(t *testing.T) {
	assert.Equal(t, int64(35000), billing.KindEDC.DefaultRate())
	assert.Equal(t, int64(135000), billing.KindEDCCCTV.DefaultRate())
	assert.Equal(t, int64(0), billing.Kind("").DefaultRate())
}

func TestKind_Valid(t *testing.T) {
	assert.True(t, billing.KindEDC.Valid())
	assert.True(t, billing.KindEDCCCTV.Valid())
	assert.False(t, billing.Kind("CCTV").Valid())
	assert.False(t, billing.Kind("").Valid())
}

func TestMonthFlags_Checked(t *testing.T) {
	assert.Equal(t, 0, billing.MonthFlags{}.Checked())
	assert.Equal(t, 2, billing.MonthFlags{true, false, false, true}.Checked())
}
