package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prasetyadi/biltrack/internal/inventory"
)

func TestClassifyStock(t *testing.T) {
	type testCase struct {
		name     string
		quantity int
		minLevel int
		want     inventory.StockStatus
	}

	tests := []testCase{
		{name: "ZeroQuantityZeroLevel", quantity: 0, minLevel: 0, want: inventory.StockOutOfStock},
		{name: "ZeroQuantity", quantity: 0, minLevel: 5, want: inventory.StockOutOfStock},
		{name: "AtThreshold", quantity: 5, minLevel: 5, want: inventory.StockLow},
		{name: "BelowThreshold", quantity: 4, minLevel: 5, want: inventory.StockLow},
		{name: "JustAboveThreshold", quantity: 6, minLevel: 5, want: inventory.StockAvailable},
		{name: "NonzeroQuantityZeroLevel", quantity: 1, minLevel: 0, want: inventory.StockAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inventory.ClassifyStock(tt.quantity, tt.minLevel))
		})
	}
}

func TestMovementType_Valid(t *testing.T) {
	assert.True(t, inventory.MovementIn.Valid())
	assert.True(t, inventory.MovementOut.Valid())
	assert.False(t, inventory.MovementType("transfer").Valid())
}

func TestStockStatus_Valid(t *testing.T) {
	assert.True(t, inventory.StockOutOfStock.Valid())
	assert.False(t, inventory.StockStatus("empty").Valid())
}
