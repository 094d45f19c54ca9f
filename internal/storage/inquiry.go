package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dj-booking/internal/pricing"

	"go.uber.org/zap"
)

const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusBooked    = "booked"
	StatusCancelled = "cancelled"

	SourceTelegram = "telegram"
	SourceWeb      = "web"
)

var (
	ErrInquiryNotFound = errors.New("inquiry not found")
	ErrInvalidStatus   = errors.New("invalid inquiry status")
)

var validStatuses = map[string]bool{
	StatusNew:       true,
	StatusContacted: true,
	StatusBooked:    true,
	StatusCancelled: true,
}

func ValidStatus(status string) bool {
	return validStatuses[status]
}

// Inquiry is a quote a customer asked to be contacted about.
type Inquiry struct {
	ID              int64     `db:"id" json:"id"`
	Source          string    `db:"source" json:"source"`
	ChatID          int64     `db:"chat_id" json:"chat_id,omitempty"`
	Username        string    `db:"username" json:"username,omitempty"`
	EventType       string    `db:"event_type" json:"event_type"`
	EventDate       string    `db:"event_date" json:"event_date,omitempty"`
	StartTime       string    `db:"start_time" json:"start_time,omitempty"`
	EndTime         string    `db:"end_time" json:"end_time,omitempty"`
	Lighting        bool      `db:"lighting" json:"lighting"`
	Photography     bool      `db:"photography" json:"photography"`
	VideoVisuals    bool      `db:"video_visuals" json:"video_visuals"`
	AdditionalHours *int      `db:"additional_hours" json:"additional_hours,omitempty"`
	Total           int64     `db:"total" json:"total"`
	Deposit         int64     `db:"deposit" json:"deposit"`
	Contact         string    `db:"contact" json:"contact"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// NewInquiry fills the request and quote fields of an inquiry.
func NewInquiry(source string, req pricing.Request, quote pricing.Quote, contact string, createdAt time.Time) Inquiry {
	return Inquiry{
		Source:          source,
		EventType:       string(req.EventType),
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Lighting:        req.AddOns.Lighting,
		Photography:     req.AddOns.Photography,
		VideoVisuals:    req.AddOns.VideoVisuals,
		AdditionalHours: req.AdditionalHours,
		Total:           quote.Total,
		Deposit:         quote.Deposit,
		Contact:         contact,
		Status:          StatusNew,
		CreatedAt:       createdAt,
	}
}

// Request rebuilds the pricing request the inquiry was quoted from.
func (i Inquiry) Request() pricing.Request {
	return pricing.Request{
		EventType: pricing.EventType(i.EventType),
		AddOns: pricing.AddOns{
			Lighting:     i.Lighting,
			Photography:  i.Photography,
			VideoVisuals: i.VideoVisuals,
		},
		StartTime:       i.StartTime,
		EndTime:         i.EndTime,
		AdditionalHours: i.AdditionalHours,
	}
}

const inquiryColumns = `id, source, chat_id, username, event_type, event_date,
        start_time, end_time, lighting, photography, video_visuals,
        additional_hours, total, deposit, contact, status, created_at`

func (s *PostgresStorage) SaveInquiry(ctx context.Context, inquiry Inquiry) (int64, error) {
	const query = `
        INSERT INTO inquiries (
            source, chat_id, username, event_type, event_date, start_time,
            end_time, lighting, photography, video_visuals, additional_hours,
            total, deposit, contact, status, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
        RETURNING id
    `

	if inquiry.Status == "" {
		inquiry.Status = StatusNew
	}
	if inquiry.CreatedAt.IsZero() {
		inquiry.CreatedAt = s.now()
	}

	var inquiryID int64
	err := s.db.QueryRowContext(ctx, query,
		inquiry.Source,
		inquiry.ChatID,
		inquiry.Username,
		inquiry.EventType,
		inquiry.EventDate,
		inquiry.StartTime,
		inquiry.EndTime,
		inquiry.Lighting,
		inquiry.Photography,
		inquiry.VideoVisuals,
		inquiry.AdditionalHours,
		inquiry.Total,
		inquiry.Deposit,
		inquiry.Contact,
		inquiry.Status,
		inquiry.CreatedAt,
	).Scan(&inquiryID)
	if err != nil {
		return 0, fmt.Errorf("failed to save inquiry: %w", err)
	}

	s.invalidateStats(ctx)
	return inquiryID, nil
}

func (s *PostgresStorage) GetInquiryByID(ctx context.Context, inquiryID int64) (*Inquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM inquiries WHERE id = $1`

	var inquiry Inquiry
	if err := s.db.GetContext(ctx, &inquiry, query, inquiryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("inquiry %d: %w", inquiryID, ErrInquiryNotFound)
		}
		return nil, fmt.Errorf("failed to get inquiry: %w", err)
	}
	return &inquiry, nil
}

// ListInquiries returns the newest inquiries first. limit <= 0 means all.
func (s *PostgresStorage) ListInquiries(ctx context.Context, limit int) ([]Inquiry, error) {
	query := `SELECT ` + inquiryColumns + ` FROM inquiries ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var inquiries []Inquiry
	if err := s.db.SelectContext(ctx, &inquiries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list inquiries: %w", err)
	}
	return inquiries, nil
}

func (s *PostgresStorage) UpdateInquiryStatus(ctx context.Context, inquiryID int64, status string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("%q: %w", status, ErrInvalidStatus)
	}

	const query = `UPDATE inquiries SET status = $1 WHERE id = $2`
	res, err := s.db.ExecContext(ctx, query, status, inquiryID)
	if err != nil {
		return fmt.Errorf("failed to update inquiry status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("inquiry %d: %w", inquiryID, ErrInquiryNotFound)
	}

	s.invalidateStats(ctx)
	return nil
}

// LoadPackagePrices reads the bundled package list. It is called once at
// startup; the result feeds an immutable rate table.
func (s *PostgresStorage) LoadPackagePrices(ctx context.Context) (map[pricing.EventType]int64, error) {
	const query = `SELECT event_type, price FROM event_packages`

	var rows []struct {
		EventType string `db:"event_type"`
		Price     int64  `db:"price"`
	}
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load package prices: %w", err)
	}

	packages := make(map[pricing.EventType]int64, len(rows))
	for _, row := range rows {
		et, ok := pricing.ParseEventType(row.EventType)
		if !ok {
			s.logger.Warn("Unknown event type in package list",
				zap.String("event_type", row.EventType))
			et = pricing.EventType(row.EventType)
		}
		packages[et] = row.Price
	}
	return packages, nil
}
