package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid currency", func(t *testing.T) {
		m, err := NewMoney(4999, USD)
		require.NoError(t, err)
		assert.Equal(t, int64(4999), m.MinorUnits())
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(100, "")
		assert.Error(t, err)
	})

	t.Run("rejects unsupported currency", func(t *testing.T) {
		_, err := NewMoney(100, "XXX")
		assert.Error(t, err)
	})
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		currency Currency
		want     int64
		wantErr  bool
	}{
		{"two decimal places", "49.99", USD, 4999, false},
		{"whole amount", "100", USD, 10000, false},
		{"one decimal place", "0.5", USD, 50, false},
		{"zero", "0", USD, 0, false},
		{"zero-decimal currency", "1200", JPY, 1200, false},
		{"too many decimal places", "1.999", USD, 0, true},
		{"fractional yen", "10.5", JPY, 0, true},
		{"garbage", "abc", USD, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMoney(tt.input, tt.currency)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.MinorUnits())
		})
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("add same currency", func(t *testing.T) {
		a := MustMoney(4000, USD)
		b := MustMoney(6000, USD)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, int64(10000), sum.MinorUnits())
	})

	t.Run("add currency mismatch", func(t *testing.T) {
		a := MustMoney(100, USD)
		b := MustMoney(100, EUR)
		_, err := a.Add(b)
		assert.Error(t, err)
	})

	t.Run("sub same currency", func(t *testing.T) {
		a := MustMoney(10000, USD)
		b := MustMoney(4000, USD)
		diff, err := a.Sub(b)
		require.NoError(t, err)
		assert.Equal(t, int64(6000), diff.MinorUnits())
	})

	t.Run("mul int", func(t *testing.T) {
		m := MustMoney(4999, USD).MulInt(3)
		assert.Equal(t, int64(14997), m.MinorUnits())
	})
}

func TestMoney_Comparisons(t *testing.T) {
	a := MustMoney(100, USD)
	b := MustMoney(200, USD)
	c := MustMoney(100, EUR)

	assert.True(t, b.GreaterThan(a))
	assert.True(t, a.LessThan(b))
	assert.False(t, a.GreaterThan(c))
	assert.False(t, a.Equals(c))
	assert.True(t, a.Equals(MustMoney(100, USD)))
	assert.True(t, Zero(USD).IsZero())
	assert.True(t, a.IsPositive())
	assert.True(t, MustMoney(-1, USD).IsNegative())
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "49.99 USD", MustMoney(4999, USD).String())
	assert.Equal(t, "1200 JPY", MustMoney(1200, JPY).String())
	assert.Equal(t, "0.05 USD", MustMoney(5, USD).String())
}

func TestMoney_Decimal(t *testing.T) {
	d := MustMoney(4999, USD).Decimal()
	assert.Equal(t, "49.99", d.String())
}
