package bot

import (
	"testing"
	"time"

	"dj-booking/internal/pricing"
	"dj-booking/internal/storage"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"5551234567", "+15551234567"},
		{"(555) 123-4567", "+15551234567"},
		{"1 555 123 4567", "+15551234567"},
		{"+1 555-123-4567", "+15551234567"},
		{"+44 20 7946 0958", "+442079460958"},
		{"  +15551234567 ", "+15551234567"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePhoneNumber(tt.input))
		})
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	valid := []string{"+15551234567", "555-123-4567", "(555) 123-4567", "+442079460958"}
	for _, phone := range valid {
		assert.True(t, IsValidPhoneNumber(phone), phone)
	}

	invalid := []string{"", "12345", "call me", "1234567890", "+1 111 111 1111", "+1234567890123456"}
	for _, phone := range invalid {
		assert.False(t, IsValidPhoneNumber(phone), phone)
	}
}

func TestParseTimeInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"18:00", "18:00", true},
		{"9:30", "09:30", true},
		{"6pm", "18:00", true},
		{"6 PM", "18:00", true},
		{"11:30pm", "23:30", true},
		{"12am", "00:00", true},
		{"7 p.m.", "19:00", true},
		{"25:00", "", false},
		{"evening", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseTimeInput(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEventDate(t *testing.T) {
	now := time.Date(2026, 6, 1, 15, 0, 0, 0, time.UTC)

	got, ok := ParseEventDate("2026-07-04", now)
	assert.True(t, ok)
	assert.Equal(t, "2026-07-04", got)

	got, ok = ParseEventDate("7/4/2026", now)
	assert.True(t, ok)
	assert.Equal(t, "2026-07-04", got)

	got, ok = ParseEventDate("2026-06-01", now)
	assert.True(t, ok)
	assert.Equal(t, "2026-06-01", got)

	_, ok = ParseEventDate("2026-05-31", now)
	assert.False(t, ok)

	_, ok = ParseEventDate("next friday", now)
	assert.False(t, ok)
}

func TestFormatPhoneNumber(t *testing.T) {
	assert.Equal(t, "+1 (555) 123-4567", FormatPhoneNumber("+15551234567"))
	assert.Equal(t, "+442079460958", FormatPhoneNumber("+442079460958"))
}

func TestFormatQuote(t *testing.T) {
	calc := pricing.NewCalculator(pricing.DefaultRateTable())

	text := FormatQuote(calc.Quote(pricing.Request{
		EventType: pricing.BirthdayParty,
		AddOns:    pricing.AddOns{Lighting: true},
		StartTime: "18:00",
		EndTime:   "23:00",
	}))
	assert.Contains(t, text, "Birthday Party")
	assert.Contains(t, text, "Base fee: $400")
	assert.Contains(t, text, "Additional hours: $150")
	assert.Contains(t, text, "Total: $650")
	assert.Contains(t, text, "$325")
	assert.NotContains(t, text, "package price")

	text = FormatQuote(calc.Quote(pricing.Request{EventType: pricing.WeddingCeremonyAndReception}))
	assert.Contains(t, text, "Total: $1,500")
	assert.Contains(t, text, "package price")
}

func TestFormatPrices(t *testing.T) {
	text := FormatPrices(pricing.DefaultRateTable())
	assert.Contains(t, text, "Wedding Ceremony & Reception: $1,500")
	assert.Contains(t, text, "Prom: $500")
	assert.Contains(t, text, "start at $400 for 3 hours")
	assert.Contains(t, text, "Each additional hour: +$75")
	assert.NotContains(t, text, "Birthday Party:")
}

func TestFormatInquiryNotification(t *testing.T) {
	text := FormatInquiryNotification(storage.Inquiry{
		ID:          9,
		Source:      storage.SourceTelegram,
		Username:    "dj_fan",
		EventType:   "Prom",
		EventDate:   "2026-05-02",
		StartTime:   "19:00",
		EndTime:     "23:00",
		Photography: true,
		Total:       500,
		Deposit:     250,
		Contact:     "+15551234567",
		CreatedAt:   time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
	})
	assert.Contains(t, text, "New inquiry #9")
	assert.Contains(t, text, "Time: 19:00 - 23:00")
	assert.Contains(t, text, "Add-ons: Photography")
	assert.Contains(t, text, "Deposit: $250")
	assert.Contains(t, text, "+1 (555) 123-4567")
	assert.Contains(t, text, "@dj_fan")
}
