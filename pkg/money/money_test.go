package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]Amount{
		"100":    10000,
		"12.5":   1250,
		"0.015":  2,
		"190.00": 19000,
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Parse("abc")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	for _, in := range []string{"1e30", "-1e30", "92233720368547758.08"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
	}
	largest, err := Parse("92233720368547758.07")
	require.NoError(t, err)
	assert.Equal(t, Amount(math.MaxInt64), largest)
}

func TestJSONRejectsOutOfRange(t *testing.T) {
	var body struct {
		Price Amount `json:"price"`
	}
	err := json.Unmarshal([]byte(`{"price": 1e30}`), &body)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, Amount(0), body.Price)
}

func TestCheckedArithmetic(t *testing.T) {
	product, ok := Amount(100_000_000).MulChecked(1 << 40)
	assert.False(t, ok)
	assert.Zero(t, product)

	product, ok = Amount(5000).MulChecked(3)
	assert.True(t, ok)
	assert.Equal(t, Amount(15000), product)

	_, ok = Amount(math.MinInt64).MulChecked(-1)
	assert.False(t, ok)

	sum, ok := AddChecked(Amount(math.MaxInt64-1), 1)
	assert.True(t, ok)
	assert.Equal(t, Amount(math.MaxInt64), sum)

	_, ok = AddChecked(Amount(math.MaxInt64), 1)
	assert.False(t, ok)
	_, ok = AddChecked(Amount(math.MinInt64), -1)
	assert.False(t, ok)
}

func TestJSONAcceptsNumberOrString(t *testing.T) {
	var body struct {
		Price    Amount `json:"price"`
		Discount Amount `json:"discount"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price": 49.9, "discount": "10"}`), &body))
	assert.Equal(t, Amount(4990), body.Price)
	assert.Equal(t, Amount(1000), body.Discount)

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price": 49.90, "discount": 10.00}`, string(raw))
}

func TestArithmeticStaysInCents(t *testing.T) {
	unit, _ := Parse("0.10")
	assert.Equal(t, "0.30", unit.Mul(3).String())
	assert.Equal(t, Amount(60), Sum(unit, unit.Mul(5)))
}

func TestScan(t *testing.T) {
	var a Amount
	require.NoError(t, a.Scan(int64(19000)))
	assert.Equal(t, Amount(19000), a)

	require.NoError(t, a.Scan([]byte("25000")))
	assert.Equal(t, Amount(25000), a)

	require.NoError(t, a.Scan(nil))
	assert.Equal(t, Amount(0), a)

	assert.Error(t, a.Scan(true))
}
