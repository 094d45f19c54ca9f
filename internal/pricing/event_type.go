package pricing

import "strings"

// EventType is the canonical label of an event. Package prices are keyed by it.
type EventType string

const (
	WeddingCeremonyAndReception EventType = "Wedding Ceremony & Reception"
	WeddingCeremony             EventType = "Wedding Ceremony"
	WeddingReception            EventType = "Wedding Reception"
	BridalShower                EventType = "Bridal Shower"
	AnniversaryParty            EventType = "Anniversary Party"
	VowRenewal                  EventType = "Vow Renewal"
	EngagementParty             EventType = "Engagement Party"
	BachelorParty               EventType = "Bachelor/Bachelorette Party"
	CompanyHolidayParty         EventType = "Company Holiday Party"
	Prom                        EventType = "Prom"
	Homecoming                  EventType = "Homecoming"
	BirthdayParty               EventType = "Birthday Party"
	CorporateEvent              EventType = "Corporate Event"
	SchoolDance                 EventType = "School Dance"
	Other                       EventType = "Other"
)

var eventTypes = []EventType{
	WeddingCeremonyAndReception,
	WeddingCeremony,
	WeddingReception,
	BridalShower,
	AnniversaryParty,
	VowRenewal,
	EngagementParty,
	BachelorParty,
	CompanyHolidayParty,
	Prom,
	Homecoming,
	BirthdayParty,
	CorporateEvent,
	SchoolDance,
	Other,
}

var eventTypeIndex = func() map[string]EventType {
	idx := make(map[string]EventType, len(eventTypes))
	for _, et := range eventTypes {
		idx[normalizeLabel(string(et))] = et
	}
	return idx
}()

// EventTypes returns the known event types in display order.
func EventTypes() []EventType {
	out := make([]EventType, len(eventTypes))
	copy(out, eventTypes)
	return out
}

// ParseEventType maps user input onto a known event type. Case, surrounding
// whitespace and repeated inner spaces are ignored.
func ParseEventType(label string) (EventType, bool) {
	et, ok := eventTypeIndex[normalizeLabel(label)]
	return et, ok
}

// Known reports whether et is one of the enumerated event types.
func (et EventType) Known() bool {
	canonical, ok := eventTypeIndex[normalizeLabel(string(et))]
	return ok && canonical == et
}

func (et EventType) String() string {
	return string(et)
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
