package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dj-booking/internal/metrics"
	"dj-booking/internal/pricing"
	"dj-booking/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the part of the Telegram API the bot talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type InquiryStore interface {
	SaveInquiry(ctx context.Context, inquiry storage.Inquiry) (int64, error)
	GetInquiryByID(ctx context.Context, inquiryID int64) (*storage.Inquiry, error)
	UpdateInquiryStatus(ctx context.Context, inquiryID int64, status string) error
	GetInquiryStatistics(ctx context.Context) (*storage.InquiryStatistics, error)
	ExportInquiryToExcel(ctx context.Context, inquiry storage.Inquiry) (string, error)
	ExportAllInquiriesToExcel(ctx context.Context, name string) (string, error)
}

type Options struct {
	AdminIDs  []int64
	ChannelID int64
	Debug     bool
}

type Bot struct {
	api      *tgbotapi.BotAPI
	sender   Sender
	logger   *zap.Logger
	state    *StateStorage
	store    InquiryStore
	calc     *pricing.Calculator
	metrics  *metrics.Metrics
	opts     Options
	mu       sync.Mutex
	handlers map[string]func(context.Context, *tgbotapi.Message)
	now      func() time.Time
}

func New(
	token string,
	state *StateStorage,
	store InquiryStore,
	calc *pricing.Calculator,
	m *metrics.Metrics,
	opts Options,
	logger *zap.Logger,
) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	botAPI.Debug = opts.Debug

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	b := newBot(botAPI, state, store, calc, m, opts, logger)
	b.api = botAPI
	return b, nil
}

func newBot(
	sender Sender,
	state *StateStorage,
	store InquiryStore,
	calc *pricing.Calculator,
	m *metrics.Metrics,
	opts Options,
	logger *zap.Logger,
) *Bot {
	b := &Bot{
		sender:  sender,
		logger:  logger,
		state:   state,
		store:   store,
		calc:    calc,
		metrics: m,
		opts:    opts,
		now:     time.Now,
	}
	b.registerHandlers()
	return b
}

func (b *Bot) registerHandlers() {
	b.handlers = map[string]func(context.Context, *tgbotapi.Message){
		StepEventType:    b.handleEventType,
		StepAddOns:       b.handleAddOnsText,
		StepStartTime:    b.handleStartTime,
		StepEndTime:      b.handleEndTime,
		StepQuoteConfirm: b.handleQuoteConfirm,
		StepEventDate:    b.handleEventDate,
		StepContact:      b.handleContact,
	}
}

// Start polls Telegram until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return fmt.Errorf("bot API is not initialized")
	}
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.processUpdate(ctx, update)
		}
	}
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.metrics.BotUpdates.Inc()

	switch {
	case update.Message != nil:
		b.processMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.processCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get user state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.metrics.ErrorsTotal.WithLabelValues("bot").Inc()
		b.sendError(chatID, "Something went wrong, please try /quote again.")
		return
	}

	if handler, exists := b.handlers[state.Step]; exists {
		handler(ctx, msg)
	} else {
		b.handleDefault(chatID)
	}
}

func (b *Bot) processCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	b.logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", callback.Data))

	if _, err := b.sender.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Warn("Failed to answer callback",
			zap.String("callback_id", callback.ID),
			zap.Error(err))
	}

	switch {
	case isAddOnCallback(callback.Data):
		b.handleAddOnCallback(ctx, callback)
	case isStatusCallback(callback.Data):
		b.handleStatusCallback(ctx, callback)
	default:
		b.logger.Warn("Unknown callback data",
			zap.Int64("chat_id", chatID),
			zap.String("data", callback.Data))
	}
}

func (b *Bot) isAdmin(chatID int64) bool {
	for _, id := range b.opts.AdminIDs {
		if id == chatID {
			return true
		}
	}
	return false
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.String("text", msg.Text),
			zap.Error(err))
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendError(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, "❌ "+text))
}

func (b *Bot) setStep(ctx context.Context, chatID int64, step string) {
	if err := b.state.SetStep(ctx, chatID, step); err != nil {
		b.logger.Error("Failed to set step",
			zap.Int64("chat_id", chatID),
			zap.String("step", step),
			zap.Error(err))
	}
}
