package bot

import (
	"fmt"
	"strings"

	"dj-booking/internal/pricing"
	"dj-booking/internal/storage"
)

var statusLabels = map[string]string{
	storage.StatusNew:       "New",
	storage.StatusContacted: "Contacted",
	storage.StatusBooked:    "Booked",
	storage.StatusCancelled: "Cancelled",
}

func FormatQuote(q pricing.Quote) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🎧 Your quote for %s\n\n", q.EventType)
	for _, line := range q.Lines {
		fmt.Fprintf(&sb, "• %s: %s\n", line.Label, pricing.FormatDollars(line.Amount))
	}
	sb.WriteString("──────────────────\n")
	fmt.Fprintf(&sb, "💵 Total: %s\n", pricing.FormatDollars(q.Total))
	fmt.Fprintf(&sb, "📌 Deposit to reserve the date: %s", pricing.FormatDollars(q.Deposit))
	if q.Package {
		sb.WriteString("\n\nThis event has a package price. Add-ons and extra time are included.")
	}
	return sb.String()
}

func FormatPrices(table pricing.RateTable) string {
	rates := table.Rates()
	packages := table.Packages()

	var sb strings.Builder
	sb.WriteString("💰 Prices\n\nPackages:\n")
	for _, et := range pricing.EventTypes() {
		if price, ok := packages[et]; ok {
			fmt.Fprintf(&sb, "• %s: %s\n", et, pricing.FormatDollars(price))
		}
	}
	fmt.Fprintf(&sb, "\nOther events start at %s for %d hours.\n", pricing.FormatDollars(rates.BaseFee), rates.BaselineHours)
	fmt.Fprintf(&sb, "• Lighting: +%s\n", pricing.FormatDollars(rates.Lighting))
	fmt.Fprintf(&sb, "• Photography: +%s\n", pricing.FormatDollars(rates.Photography))
	fmt.Fprintf(&sb, "• Video/Visuals: +%s\n", pricing.FormatDollars(rates.VideoVisuals))
	fmt.Fprintf(&sb, "• Each additional hour: +%s", pricing.FormatDollars(rates.AdditionalHour))
	return sb.String()
}

func FormatInquiryNotification(inquiry storage.Inquiry) string {
	username := "-"
	if inquiry.Username != "" {
		username = "@" + inquiry.Username
	}
	return fmt.Sprintf(
		"📦 New inquiry #%d\n\n"+
			"Event: %s\n"+
			"Date: %s\n"+
			"Time: %s\n"+
			"Add-ons: %s\n"+
			"──────────────────\n"+
			"Total: %s\n"+
			"Deposit: %s\n"+
			"──────────────────\n"+
			"Contact: %s\n"+
			"TG: %s\n"+
			"Source: %s\n"+
			"Created: %s",
		inquiry.ID,
		inquiry.EventType,
		orDash(inquiry.EventDate),
		timeRange(inquiry.StartTime, inquiry.EndTime),
		addOnList(inquiry.Request().AddOns),
		pricing.FormatDollars(inquiry.Total),
		pricing.FormatDollars(inquiry.Deposit),
		FormatPhoneNumber(inquiry.Contact),
		username,
		inquiry.Source,
		inquiry.CreatedAt.Format("2006-01-02 15:04"),
	)
}

func FormatStats(stats *storage.InquiryStatistics) string {
	return fmt.Sprintf(
		"📊 Inquiry statistics\n\n"+
			"📌 Total: %d (%s quoted)\n"+
			"📅 Today: %d (%s)\n"+
			"📅 Last 7 days: %d (%s)\n"+
			"📅 Last 30 days: %d (%s)\n\n"+
			"By status:\n"+
			"🆕 New: %d\n"+
			"📞 Contacted: %d\n"+
			"🎉 Booked: %d\n"+
			"❌ Cancelled: %d",
		stats.TotalInquiries, pricing.FormatDollars(stats.TotalQuoted),
		stats.TodayInquiries, pricing.FormatDollars(stats.TodayQuoted),
		stats.WeekInquiries, pricing.FormatDollars(stats.WeekQuoted),
		stats.MonthInquiries, pricing.FormatDollars(stats.MonthQuoted),
		stats.StatusCounts[storage.StatusNew],
		stats.StatusCounts[storage.StatusContacted],
		stats.StatusCounts[storage.StatusBooked],
		stats.StatusCounts[storage.StatusCancelled],
	)
}

// FormatPhoneNumber renders +1 numbers as +1 (555) 123-4567.
func FormatPhoneNumber(phone string) string {
	if strings.HasPrefix(phone, "+1") && len(phone) == 12 {
		return fmt.Sprintf("+1 (%s) %s-%s", phone[2:5], phone[5:8], phone[8:12])
	}
	return phone
}

func addOnList(a pricing.AddOns) string {
	var names []string
	if a.Lighting {
		names = append(names, "Lighting")
	}
	if a.Photography {
		names = append(names, "Photography")
	}
	if a.VideoVisuals {
		names = append(names, "Video/Visuals")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func timeRange(start, end string) string {
	if start == "" || end == "" {
		return "-"
	}
	return start + " - " + end
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
