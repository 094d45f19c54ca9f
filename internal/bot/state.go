package bot

import (
	"context"
	"errors"
	"fmt"

	"dj-booking/internal/pricing"
	"dj-booking/pkg/redis"
)

const (
	StepEventType    = "event_type"
	StepAddOns       = "add_ons"
	StepStartTime    = "start_time"
	StepEndTime      = "end_time"
	StepQuoteConfirm = "quote_confirm"
	StepEventDate    = "event_date"
	StepContact      = "contact"
)

// UserState is the in-progress quote of one chat.
type UserState struct {
	Step      string         `json:"step"`
	EventType string         `json:"event_type"`
	AddOns    pricing.AddOns `json:"add_ons"`
	StartTime string         `json:"start_time"`
	EndTime   string         `json:"end_time"`
	EventDate string         `json:"event_date"`
}

func (s UserState) Request() pricing.Request {
	return pricing.Request{
		EventType: pricing.EventType(s.EventType),
		AddOns:    s.AddOns,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	}
}

type StateStorage struct {
	redis *redis.Client
}

func NewStateStorage(client *redis.Client) *StateStorage {
	return &StateStorage{redis: client}
}

// Get returns the chat state. A chat with no saved state gets the zero state.
func (s *StateStorage) Get(ctx context.Context, chatID int64) (UserState, error) {
	var state UserState
	err := s.redis.GetState(ctx, chatID, &state)
	if errors.Is(err, redis.ErrNil) {
		return UserState{}, nil
	}
	if err != nil {
		return UserState{}, fmt.Errorf("failed to get state: %w", err)
	}
	return state, nil
}

func (s *StateStorage) Save(ctx context.Context, chatID int64, state UserState) error {
	if err := s.redis.SaveState(ctx, chatID, state); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

func (s *StateStorage) Clear(ctx context.Context, chatID int64) error {
	if err := s.redis.ClearState(ctx, chatID); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}

// Update loads the state, applies fn and saves the result.
func (s *StateStorage) Update(ctx context.Context, chatID int64, fn func(*UserState)) (UserState, error) {
	state, err := s.Get(ctx, chatID)
	if err != nil {
		return UserState{}, err
	}
	fn(&state)
	if err := s.Save(ctx, chatID, state); err != nil {
		return UserState{}, err
	}
	return state, nil
}

func (s *StateStorage) SetStep(ctx context.Context, chatID int64, step string) error {
	_, err := s.Update(ctx, chatID, func(st *UserState) {
		st.Step = step
	})
	return err
}
