package bot

import (
	"strings"
	"time"
	"unicode"
)

var badNumbers = map[string]bool{
	"0000000000": true,
	"1111111111": true,
	"1234567890": true,
	"5555555555": true,
	"9999999999": true,
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// NormalizePhoneNumber returns the number in +<country><number> form.
// Ten-digit numbers are treated as North American.
func NormalizePhoneNumber(phone string) string {
	phone = strings.TrimSpace(phone)
	cleaned := digitsOnly(phone)

	if strings.HasPrefix(phone, "+") {
		return "+" + cleaned
	}
	if len(cleaned) == 10 {
		return "+1" + cleaned
	}
	if len(cleaned) == 11 && strings.HasPrefix(cleaned, "1") {
		return "+" + cleaned
	}
	return cleaned
}

func IsValidPhoneNumber(phone string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return false
	}
	if !strings.HasPrefix(phone, "+") && !unicode.IsDigit(rune(phone[0])) && phone[0] != '(' {
		return false
	}

	cleaned := digitsOnly(phone)
	if len(cleaned) < 10 || len(cleaned) > 15 {
		return false
	}
	if badNumbers[cleaned] || badNumbers[strings.TrimPrefix(cleaned, "1")] {
		return false
	}
	return true
}

var clockLayouts = []string{
	"15:04",
	"15.04",
	"3:04pm",
	"3:04 pm",
	"3pm",
	"3 pm",
}

// ParseTimeInput accepts 24-hour or am/pm input and returns "HH:MM".
func ParseTimeInput(text string) (string, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.NewReplacer("a.m.", "am", "p.m.", "pm").Replace(text)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.Format("15:04"), true
		}
	}
	return "", false
}

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
}

// ParseEventDate parses a calendar date and rejects dates before today.
func ParseEventDate(text string, now time.Time) (string, bool) {
	text = strings.TrimSpace(text)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for _, layout := range dateLayouts {
		d, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		if d.Before(today) {
			return "", false
		}
		return d.Format("2006-01-02"), true
	}
	return "", false
}
