package pricing

import (
	"errors"
	"fmt"
)

// Rates holds the additive fees in whole dollars.
type Rates struct {
	BaseFee        int64
	Lighting       int64
	Photography    int64
	VideoVisuals   int64
	AdditionalHour int64
	BaselineHours  int
}

func DefaultRates() Rates {
	return Rates{
		BaseFee:        400,
		Lighting:       100,
		Photography:    150,
		VideoVisuals:   100,
		AdditionalHour: 75,
		BaselineHours:  3,
	}
}

// DefaultPackages is the bundled price list. Anniversary Party and Vow
// Renewal are product decisions and can be overridden from config.
func DefaultPackages() map[EventType]int64 {
	return map[EventType]int64{
		WeddingCeremonyAndReception: 1500,
		WeddingCeremony:             1000,
		WeddingReception:            1000,
		BridalShower:                1000,
		AnniversaryParty:            500,
		VowRenewal:                  500,
		EngagementParty:             500,
		BachelorParty:               500,
		CompanyHolidayParty:         500,
		Prom:                        500,
		Homecoming:                  500,
	}
}

var ErrInvalidRate = errors.New("invalid rate")

// MaxFee bounds every configured fee and package price so that totals and
// their minor-unit form stay well inside int64.
const MaxFee int64 = 1_000_000

// RateTable is an immutable snapshot of rates and package prices.
// The zero value is not usable; build one with NewRateTable.
type RateTable struct {
	rates    Rates
	packages map[EventType]int64
}

func NewRateTable(rates Rates, packages map[EventType]int64) (RateTable, error) {
	const operation = "pricing.NewRateTable"

	fees := map[string]int64{
		"base fee":        rates.BaseFee,
		"lighting":        rates.Lighting,
		"photography":     rates.Photography,
		"video/visuals":   rates.VideoVisuals,
		"additional hour": rates.AdditionalHour,
	}
	for name, fee := range fees {
		if fee < 0 || fee > MaxFee {
			return RateTable{}, fmt.Errorf("%s: %s %d: %w", operation, name, fee, ErrInvalidRate)
		}
	}
	if rates.BaselineHours <= 0 {
		return RateTable{}, fmt.Errorf("%s: baseline hours %d: %w", operation, rates.BaselineHours, ErrInvalidRate)
	}

	copied := make(map[EventType]int64, len(packages))
	for et, price := range packages {
		if price < 0 || price > MaxFee {
			return RateTable{}, fmt.Errorf("%s: package %q price %d: %w", operation, et, price, ErrInvalidRate)
		}
		copied[et] = price
	}

	return RateTable{rates: rates, packages: copied}, nil
}

// DefaultRateTable returns the standard price list.
func DefaultRateTable() RateTable {
	table, err := NewRateTable(DefaultRates(), DefaultPackages())
	if err != nil {
		panic(err)
	}
	return table
}

func (t RateTable) Rates() Rates {
	return t.rates
}

// PackagePrice returns the bundled price for an exact event type match.
func (t RateTable) PackagePrice(et EventType) (int64, bool) {
	price, ok := t.packages[et]
	return price, ok
}

// Packages returns a copy of the package price list.
func (t RateTable) Packages() map[EventType]int64 {
	out := make(map[EventType]int64, len(t.packages))
	for et, price := range t.packages {
		out[et] = price
	}
	return out
}

// WithPackages returns a new table with the given package prices layered
// over the current ones. The receiver is not modified.
func (t RateTable) WithPackages(overrides map[EventType]int64) (RateTable, error) {
	merged := t.Packages()
	for et, price := range overrides {
		merged[et] = price
	}
	return NewRateTable(t.rates, merged)
}
