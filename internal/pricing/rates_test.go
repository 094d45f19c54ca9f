package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateTable_RejectsNegativeFees(t *testing.T) {
	rates := DefaultRates()
	rates.Photography = -1

	_, err := NewRateTable(rates, nil)
	assert.ErrorIs(t, err, ErrInvalidRate)

	_, err = NewRateTable(DefaultRates(), map[EventType]int64{Prom: -500})
	assert.ErrorIs(t, err, ErrInvalidRate)

	rates = DefaultRates()
	rates.AdditionalHour = MaxFee + 1
	_, err = NewRateTable(rates, nil)
	assert.ErrorIs(t, err, ErrInvalidRate)

	_, err = NewRateTable(DefaultRates(), map[EventType]int64{Prom: MaxFee + 1})
	assert.ErrorIs(t, err, ErrInvalidRate)

	rates = DefaultRates()
	rates.BaselineHours = 0
	_, err = NewRateTable(rates, nil)
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestRateTable_IsolatedFromCallerMaps(t *testing.T) {
	packages := map[EventType]int64{Prom: 500}
	table, err := NewRateTable(DefaultRates(), packages)
	require.NoError(t, err)

	packages[Prom] = 9999
	price, ok := table.PackagePrice(Prom)
	require.True(t, ok)
	assert.EqualValues(t, 500, price)

	copied := table.Packages()
	copied[Prom] = 1
	price, _ = table.PackagePrice(Prom)
	assert.EqualValues(t, 500, price)
}

func TestRateTable_WithPackages(t *testing.T) {
	base := DefaultRateTable()

	updated, err := base.WithPackages(map[EventType]int64{AnniversaryParty: 1000})
	require.NoError(t, err)

	price, _ := updated.PackagePrice(AnniversaryParty)
	assert.EqualValues(t, 1000, price)

	price, _ = base.PackagePrice(AnniversaryParty)
	assert.EqualValues(t, 500, price)
}

func TestParseEventType(t *testing.T) {
	et, ok := ParseEventType("  wedding   ceremony & RECEPTION ")
	require.True(t, ok)
	assert.Equal(t, WeddingCeremonyAndReception, et)

	et, ok = ParseEventType("bachelor/bachelorette party")
	require.True(t, ok)
	assert.Equal(t, BachelorParty, et)

	_, ok = ParseEventType("Bar Mitzvah")
	assert.False(t, ok)

	assert.True(t, Prom.Known())
	assert.False(t, EventType("prom").Known())
	assert.Len(t, EventTypes(), 15)
}

func TestMoney(t *testing.T) {
	assert.EqualValues(t, 75000, ToMinorUnits(750))
	assert.EqualValues(t, 0, ToMinorUnits(0))
	assert.Equal(t, "$1,500", FormatDollars(1500))
	assert.Equal(t, "$400", FormatDollars(400))
	assert.Equal(t, "$1,234,567", FormatDollars(1234567))
	assert.Equal(t, "-$75", FormatDollars(-75))
}
