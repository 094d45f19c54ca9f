package pricing

import (
	"strings"
	"time"
)

var timeLayouts = []string{"15:04", "15:04:05"}

// MaxAdditionalHours caps overtime. Longer explicit values are clamped.
const MaxAdditionalHours = 24

type AddOns struct {
	Lighting     bool `json:"lighting"`
	Photography  bool `json:"photography"`
	VideoVisuals bool `json:"video_visuals"`
}

// Request is a single quote request as submitted by a customer.
// StartTime and EndTime are wall-clock "HH:MM" on the same day.
// AdditionalHours, when set, replaces the overtime derived from the times.
type Request struct {
	EventType       EventType
	AddOns          AddOns
	StartTime       string
	EndTime         string
	AdditionalHours *int
}

type Line struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

type Quote struct {
	EventType     EventType `json:"event_type"`
	Package       bool      `json:"package"`
	OvertimeHours int       `json:"overtime_hours"`
	Lines         []Line    `json:"lines"`
	Total         int64     `json:"total"`
	Deposit       int64     `json:"deposit"`
}

// Calculator prices requests against a fixed rate table. It holds no mutable
// state and is safe for concurrent use.
type Calculator struct {
	table RateTable
}

func NewCalculator(table RateTable) *Calculator {
	return &Calculator{table: table}
}

func (c *Calculator) Table() RateTable {
	return c.table
}

// Total returns the price of the request in whole dollars.
func (c *Calculator) Total(req Request) int64 {
	return c.Quote(req).Total
}

// Quote prices the request and returns the breakdown with the deposit.
func (c *Calculator) Quote(req Request) Quote {
	q := Quote{EventType: req.EventType}

	if price, ok := c.table.PackagePrice(req.EventType); ok {
		q.Package = true
		q.Lines = []Line{{Label: string(req.EventType) + " package", Amount: price}}
		q.Total = price
		q.Deposit = ComputeDeposit(price)
		return q
	}

	rates := c.table.Rates()
	q.Lines = append(q.Lines, Line{Label: "Base fee", Amount: rates.BaseFee})

	if req.AddOns.Lighting {
		q.Lines = append(q.Lines, Line{Label: "Lighting", Amount: rates.Lighting})
	}
	if req.AddOns.Photography {
		q.Lines = append(q.Lines, Line{Label: "Photography", Amount: rates.Photography})
	}
	if req.AddOns.VideoVisuals {
		q.Lines = append(q.Lines, Line{Label: "Video/Visuals", Amount: rates.VideoVisuals})
	}

	q.OvertimeHours = c.overtimeHours(req)
	if q.OvertimeHours > 0 {
		q.Lines = append(q.Lines, Line{
			Label:  "Additional hours",
			Amount: int64(q.OvertimeHours) * rates.AdditionalHour,
		})
	}

	for _, line := range q.Lines {
		q.Total += line.Amount
	}
	q.Deposit = ComputeDeposit(q.Total)
	return q
}

func (c *Calculator) overtimeHours(req Request) int {
	if req.AdditionalHours != nil {
		return min(max(*req.AdditionalHours, 0), MaxAdditionalHours)
	}

	duration, ok := EventDuration(req.StartTime, req.EndTime)
	if !ok {
		return 0
	}

	over := duration - time.Duration(c.table.Rates().BaselineHours)*time.Hour
	if over <= 0 {
		return 0
	}
	hours := over / time.Hour
	if over%time.Hour != 0 {
		hours++
	}
	return int(hours)
}

// EventDuration returns end minus start for same-day wall-clock times.
// ok is false when either time is missing or malformed. A non-positive
// duration is reported as zero.
func EventDuration(start, end string) (time.Duration, bool) {
	startAt, ok := ParseClock(start)
	if !ok {
		return 0, false
	}
	endAt, ok := ParseClock(end)
	if !ok {
		return 0, false
	}
	return max(endAt.Sub(startAt), 0), true
}

// ParseClock parses "HH:MM" (or "HH:MM:SS") onto a fixed reference date.
func ParseClock(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ComputeDeposit returns half of total rounded half up.
func ComputeDeposit(total int64) int64 {
	return (total + 1) / 2
}
