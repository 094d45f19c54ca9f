package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"dj-booking/internal/pricing"
	"dj-booking/internal/storage"
	"dj-booking/pkg/payment"

	"go.uber.org/zap"
)

type QuoteRequestDTO struct {
	EventType       string `json:"event_type"`
	Lighting        bool   `json:"lighting"`
	Photography     bool   `json:"photography"`
	VideoVisuals    bool   `json:"video_visuals"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	AdditionalHours *int   `json:"additional_hours"`
	EventDate       string `json:"event_date"`
	Contact         string `json:"contact"`
}

type QuoteResponseDTO struct {
	InquiryID      int64          `json:"inquiry_id,omitempty"`
	EventType      string         `json:"event_type"`
	KnownEventType bool           `json:"known_event_type"`
	Package        bool           `json:"package"`
	OvertimeHours  int            `json:"overtime_hours"`
	Lines          []pricing.Line `json:"lines"`
	Total          int64          `json:"total"`
	Deposit        int64          `json:"deposit"`
	TotalCents     int64          `json:"total_cents"`
	DepositCents   int64          `json:"deposit_cents"`
	Currency       string         `json:"currency"`
}

type DepositResponseDTO struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	Total        int64  `json:"total"`
	Deposit      int64  `json:"deposit"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
}

type RatesResponseDTO struct {
	BaseFee        int64            `json:"base_fee"`
	Lighting       int64            `json:"lighting"`
	Photography    int64            `json:"photography"`
	VideoVisuals   int64            `json:"video_visuals"`
	AdditionalHour int64            `json:"additional_hour"`
	BaselineHours  int              `json:"baseline_hours"`
	Packages       map[string]int64 `json:"packages"`
	EventTypes     []string         `json:"event_types"`
	Currency       string           `json:"currency"`
}

// GET /api/v1/rates
func (s *Server) GetRates(w http.ResponseWriter, r *http.Request) {
	table := s.calc.Table()
	rates := table.Rates()

	packages := make(map[string]int64)
	for et, price := range table.Packages() {
		packages[string(et)] = price
	}
	eventTypes := make([]string, 0, len(pricing.EventTypes()))
	for _, et := range pricing.EventTypes() {
		eventTypes = append(eventTypes, string(et))
	}

	respondJSON(w, http.StatusOK, RatesResponseDTO{
		BaseFee:        rates.BaseFee,
		Lighting:       rates.Lighting,
		Photography:    rates.Photography,
		VideoVisuals:   rates.VideoVisuals,
		AdditionalHour: rates.AdditionalHour,
		BaselineHours:  rates.BaselineHours,
		Packages:       packages,
		EventTypes:     eventTypes,
		Currency:       s.opts.Currency,
	})
}

// POST /api/v1/quotes
func (s *Server) CreateQuote(w http.ResponseWriter, r *http.Request) {
	dto, req, ok := s.decodeQuoteRequest(w, r)
	if !ok {
		return
	}

	quote := s.calc.Quote(req)
	s.metrics.ObserveQuote(eventTypeLabel(req.EventType), quote.Package, quote.Total)
	resp := s.quoteResponse(req, quote)

	if dto.Contact != "" {
		inquiry := storage.NewInquiry(storage.SourceWeb, req, quote, dto.Contact, s.now())
		inquiry.EventDate = dto.EventDate

		id, err := s.store.SaveInquiry(r.Context(), inquiry)
		if err != nil {
			s.logger.Error("Failed to save inquiry",
				zap.String("event_type", inquiry.EventType),
				zap.Error(err))
			s.metrics.ErrorsTotal.WithLabelValues("http").Inc()
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to save inquiry")
			return
		}
		s.metrics.InquiriesSaved.WithLabelValues(storage.SourceWeb).Inc()
		resp.InquiryID = id

		s.logger.Info("Inquiry saved",
			zap.Int64("inquiry_id", id),
			zap.String("event_type", inquiry.EventType),
			zap.Int64("total", quote.Total))
		respondJSON(w, http.StatusCreated, resp)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// POST /api/v1/quotes/deposit
func (s *Server) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	if s.payments == nil || !s.payments.Enabled() {
		respondError(w, http.StatusServiceUnavailable, "payments_disabled", "deposit payments are not configured")
		return
	}

	dto, req, ok := s.decodeQuoteRequest(w, r)
	if !ok {
		return
	}

	quote := s.calc.Quote(req)
	if quote.Deposit <= 0 {
		respondError(w, http.StatusUnprocessableEntity, "nothing_to_collect", "quote has no deposit to collect")
		return
	}
	amount := pricing.ToMinorUnits(quote.Deposit)

	metadata := map[string]string{
		"event_type": string(req.EventType),
		"total":      fmt.Sprint(quote.Total),
		"deposit":    fmt.Sprint(quote.Deposit),
	}
	if dto.EventDate != "" {
		metadata["event_date"] = dto.EventDate
	}
	if dto.Contact != "" {
		metadata["contact"] = dto.Contact
	}

	intent, err := s.payments.CreateIntent(r.Context(), payment.IntentRequest{
		Amount:      amount,
		Currency:    s.opts.Currency,
		Description: fmt.Sprintf("Deposit for %s", req.EventType),
		Metadata:    metadata,
	})
	if err != nil {
		s.logger.Error("Failed to create deposit intent",
			zap.String("event_type", string(req.EventType)),
			zap.Int64("amount_cents", amount),
			zap.Error(err))
		s.metrics.DepositIntents.WithLabelValues("error").Inc()
		respondError(w, http.StatusBadGateway, "payment_failed", "failed to create payment intent")
		return
	}
	s.metrics.DepositIntents.WithLabelValues("created").Inc()

	respondJSON(w, http.StatusCreated, DepositResponseDTO{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Total:        quote.Total,
		Deposit:      quote.Deposit,
		AmountCents:  amount,
		Currency:     s.opts.Currency,
	})
}

func (s *Server) decodeQuoteRequest(w http.ResponseWriter, r *http.Request) (QuoteRequestDTO, pricing.Request, bool) {
	var dto QuoteRequestDTO

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return dto, pricing.Request{}, false
	}

	req, err := toPricingRequest(dto)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return dto, pricing.Request{}, false
	}
	return dto, req, true
}

var errEventTypeRequired = errors.New("event_type is required")

// toPricingRequest validates form input. Unknown event types are accepted
// and priced additively.
func toPricingRequest(dto QuoteRequestDTO) (pricing.Request, error) {
	label := strings.TrimSpace(dto.EventType)
	if label == "" {
		return pricing.Request{}, errEventTypeRequired
	}

	et, ok := pricing.ParseEventType(label)
	if !ok {
		et = pricing.EventType(label)
	}

	start, end := strings.TrimSpace(dto.StartTime), strings.TrimSpace(dto.EndTime)
	if start != "" {
		if _, ok := pricing.ParseClock(start); !ok {
			return pricing.Request{}, errors.New("start_time must be HH:MM")
		}
	}
	if end != "" {
		if _, ok := pricing.ParseClock(end); !ok {
			return pricing.Request{}, errors.New("end_time must be HH:MM")
		}
	}
	if dto.AdditionalHours != nil {
		if *dto.AdditionalHours < 0 {
			return pricing.Request{}, errors.New("additional_hours must not be negative")
		}
		if *dto.AdditionalHours > pricing.MaxAdditionalHours {
			return pricing.Request{}, fmt.Errorf("additional_hours must not exceed %d", pricing.MaxAdditionalHours)
		}
	}

	return pricing.Request{
		EventType: et,
		AddOns: pricing.AddOns{
			Lighting:     dto.Lighting,
			Photography:  dto.Photography,
			VideoVisuals: dto.VideoVisuals,
		},
		StartTime:       start,
		EndTime:         end,
		AdditionalHours: dto.AdditionalHours,
	}, nil
}

// eventTypeLabel keeps free-text event types out of metric labels.
func eventTypeLabel(et pricing.EventType) string {
	if et.Known() {
		return string(et)
	}
	return "unlisted"
}

func (s *Server) quoteResponse(req pricing.Request, quote pricing.Quote) QuoteResponseDTO {
	return QuoteResponseDTO{
		EventType:      string(req.EventType),
		KnownEventType: req.EventType.Known(),
		Package:        quote.Package,
		OvertimeHours:  quote.OvertimeHours,
		Lines:          quote.Lines,
		Total:          quote.Total,
		Deposit:        quote.Deposit,
		TotalCents:     pricing.ToMinorUnits(quote.Total),
		DepositCents:   pricing.ToMinorUnits(quote.Deposit),
		Currency:       s.opts.Currency,
	}
}
