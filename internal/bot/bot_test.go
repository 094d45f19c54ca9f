package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"dj-booking/internal/metrics"
	"dj-booking/internal/pricing"
	"dj-booking/internal/storage"
	cache "dj-booking/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	customerChat = int64(42)
	adminChat    = int64(7)
)

type fakeSender struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) texts(chatID int64) []string {
	var out []string
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok && msg.ChatID == chatID {
			out = append(out, msg.Text)
		}
	}
	return out
}

func (f *fakeSender) lastText(chatID int64) string {
	texts := f.texts(chatID)
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func (f *fakeSender) documents(chatID int64) []tgbotapi.DocumentConfig {
	var out []tgbotapi.DocumentConfig
	for _, c := range f.sent {
		if doc, ok := c.(tgbotapi.DocumentConfig); ok && doc.ChatID == chatID {
			out = append(out, doc)
		}
	}
	return out
}

type fakeStore struct {
	saved       []storage.Inquiry
	inquiries   map[int64]storage.Inquiry
	statusCalls []string
	exported    []int64
}

func (f *fakeStore) SaveInquiry(_ context.Context, inquiry storage.Inquiry) (int64, error) {
	f.saved = append(f.saved, inquiry)
	return int64(len(f.saved)), nil
}

func (f *fakeStore) GetInquiryByID(_ context.Context, inquiryID int64) (*storage.Inquiry, error) {
	inquiry, ok := f.inquiries[inquiryID]
	if !ok {
		return nil, storage.ErrInquiryNotFound
	}
	return &inquiry, nil
}

func (f *fakeStore) UpdateInquiryStatus(_ context.Context, inquiryID int64, status string) error {
	if !storage.ValidStatus(status) {
		return storage.ErrInvalidStatus
	}
	if _, ok := f.inquiries[inquiryID]; !ok {
		return storage.ErrInquiryNotFound
	}
	f.statusCalls = append(f.statusCalls, status)
	return nil
}

func (f *fakeStore) GetInquiryStatistics(_ context.Context) (*storage.InquiryStatistics, error) {
	return &storage.InquiryStatistics{
		TotalInquiries: 3,
		TotalQuoted:    2000,
		StatusCounts:   map[string]int{storage.StatusBooked: 1},
	}, nil
}

func (f *fakeStore) ExportInquiryToExcel(_ context.Context, inquiry storage.Inquiry) (string, error) {
	f.exported = append(f.exported, inquiry.ID)
	return "reports/inquiry.xlsx", nil
}

func (f *fakeStore) ExportAllInquiriesToExcel(_ context.Context, name string) (string, error) {
	return "reports/" + name + ".xlsx", nil
}

type testBot struct {
	bot     *Bot
	sender  *fakeSender
	store   *fakeStore
	mr      *miniredis.Miniredis
	metrics *metrics.Metrics
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()

	mr := miniredis.RunT(t)
	client := cache.NewFromClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), time.Hour)
	t.Cleanup(client.Close)

	sender := &fakeSender{}
	store := &fakeStore{inquiries: map[int64]storage.Inquiry{}}
	m := metrics.New(prometheus.NewRegistry())

	b := newBot(
		sender,
		NewStateStorage(client),
		store,
		pricing.NewCalculator(pricing.DefaultRateTable()),
		m,
		Options{AdminIDs: []int64{adminChat}},
		zap.NewNop(),
	)
	b.now = func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }

	return &testBot{bot: b, sender: sender, store: store, mr: mr, metrics: m}
}

func (tb *testBot) command(chatID int64, text string) {
	name := strings.Fields(text)[0]
	tb.bot.processUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		From:     &tgbotapi.User{ID: chatID, UserName: "dj_fan"},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}})
}

func (tb *testBot) text(chatID int64, text string) {
	tb.bot.processUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Text: text,
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{ID: chatID, UserName: "dj_fan"},
	}})
}

func (tb *testBot) callback(chatID int64, data string) {
	tb.bot.processUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: chatID},
		Message: &tgbotapi.Message{MessageID: 5, Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}})
}

func (tb *testBot) state(t *testing.T, chatID int64) UserState {
	t.Helper()
	state, err := tb.bot.state.Get(context.Background(), chatID)
	require.NoError(t, err)
	return state
}

func TestQuoteDialog_FullFlow(t *testing.T) {
	tb := newTestBot(t)

	tb.command(customerChat, "/start")
	assert.Equal(t, StepEventType, tb.state(t, customerChat).Step)

	tb.text(customerChat, "birthday party")
	state := tb.state(t, customerChat)
	assert.Equal(t, StepAddOns, state.Step)
	assert.Equal(t, string(pricing.BirthdayParty), state.EventType)

	tb.callback(customerChat, "addon:lighting")
	assert.True(t, tb.state(t, customerChat).AddOns.Lighting)
	tb.callback(customerChat, "addon:photography")
	tb.callback(customerChat, "addon:photography")
	assert.False(t, tb.state(t, customerChat).AddOns.Photography)

	tb.callback(customerChat, "addon:done")
	assert.Equal(t, StepStartTime, tb.state(t, customerChat).Step)

	tb.text(customerChat, "6pm")
	assert.Equal(t, "18:00", tb.state(t, customerChat).StartTime)

	tb.text(customerChat, "23:00")
	state = tb.state(t, customerChat)
	assert.Equal(t, StepQuoteConfirm, state.Step)
	assert.Contains(t, tb.sender.lastText(customerChat), "Total: $650")

	tb.text(customerChat, btnRequestBooking)
	assert.Equal(t, StepEventDate, tb.state(t, customerChat).Step)

	tb.text(customerChat, "2026-07-04")
	assert.Equal(t, StepContact, tb.state(t, customerChat).Step)

	tb.bot.processUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:    &tgbotapi.Chat{ID: customerChat},
		From:    &tgbotapi.User{ID: customerChat, UserName: "dj_fan"},
		Contact: &tgbotapi.Contact{PhoneNumber: "5551234567"},
	}})

	require.Len(t, tb.store.saved, 1)
	saved := tb.store.saved[0]
	assert.Equal(t, storage.SourceTelegram, saved.Source)
	assert.Equal(t, customerChat, saved.ChatID)
	assert.Equal(t, "dj_fan", saved.Username)
	assert.Equal(t, "Birthday Party", saved.EventType)
	assert.Equal(t, "2026-07-04", saved.EventDate)
	assert.Equal(t, "18:00", saved.StartTime)
	assert.Equal(t, "23:00", saved.EndTime)
	assert.True(t, saved.Lighting)
	assert.EqualValues(t, 650, saved.Total)
	assert.EqualValues(t, 325, saved.Deposit)
	assert.Equal(t, "+15551234567", saved.Contact)

	assert.False(t, tb.mr.Exists("dialog:42"))

	docs := tb.sender.documents(customerChat)
	require.Len(t, docs, 1)
	pdf, ok := docs[0].File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "QUOTE_Q-1.pdf", pdf.Name)
	assert.True(t, strings.HasPrefix(string(pdf.Bytes), "%PDF"))

	assert.Contains(t, tb.sender.lastText(adminChat), "New inquiry #1")
	assert.Len(t, tb.sender.documents(adminChat), 1)
	assert.Equal(t, []int64{1}, tb.store.exported)

	assert.Equal(t, 1.0, testutil.ToFloat64(tb.metrics.InquiriesSaved.WithLabelValues(storage.SourceTelegram)))
	assert.Equal(t, 1.0, testutil.ToFloat64(tb.metrics.QuotesTotal.WithLabelValues("Birthday Party", "additive")))
}

func TestQuoteDialog_RejectsBadInput(t *testing.T) {
	tb := newTestBot(t)

	tb.command(customerChat, "/quote")
	tb.text(customerChat, "Silent Disco")
	assert.Equal(t, StepEventType, tb.state(t, customerChat).Step)
	assert.Contains(t, tb.sender.lastText(customerChat), "pick an event type")

	tb.text(customerChat, "Prom")
	tb.callback(customerChat, "addon:done")
	tb.text(customerChat, "sunset")
	assert.Equal(t, StepStartTime, tb.state(t, customerChat).Step)

	tb.text(customerChat, "19:00")
	tb.text(customerChat, "23:00")
	assert.Contains(t, tb.sender.lastText(customerChat), "Total: $500")

	tb.text(customerChat, btnRequestBooking)
	tb.text(customerChat, "2020-01-01")
	assert.Equal(t, StepEventDate, tb.state(t, customerChat).Step)

	tb.text(customerChat, "2026-09-12")
	tb.text(customerChat, "call me maybe")
	assert.Equal(t, StepContact, tb.state(t, customerChat).Step)
	assert.Empty(t, tb.store.saved)
}

func TestQuoteDialog_StartOverAndCancel(t *testing.T) {
	tb := newTestBot(t)

	tb.command(customerChat, "/quote")
	tb.text(customerChat, "Other")
	tb.callback(customerChat, "addon:video")
	tb.callback(customerChat, "addon:done")
	tb.text(customerChat, "18:00")
	tb.text(customerChat, "20:00")

	tb.text(customerChat, btnStartOver)
	state := tb.state(t, customerChat)
	assert.Equal(t, StepEventType, state.Step)
	assert.Empty(t, state.EventType)
	assert.False(t, state.AddOns.VideoVisuals)

	tb.command(customerChat, "/cancel")
	assert.False(t, tb.mr.Exists("dialog:42"))
}

func TestAddOnCallback_IgnoredOutsideAddOnStep(t *testing.T) {
	tb := newTestBot(t)

	tb.callback(customerChat, "addon:lighting")
	assert.False(t, tb.state(t, customerChat).AddOns.Lighting)
}

func TestPricesCommand(t *testing.T) {
	tb := newTestBot(t)

	tb.command(customerChat, "/prices")
	assert.Contains(t, tb.sender.lastText(customerChat), "Wedding Ceremony & Reception: $1,500")
}

func TestAdminCommands(t *testing.T) {
	tb := newTestBot(t)
	tb.store.inquiries[3] = storage.Inquiry{ID: 3, ChatID: customerChat, EventType: "Prom"}

	tb.command(customerChat, "/stats")
	assert.Contains(t, tb.sender.lastText(customerChat), "Unknown command")

	tb.command(adminChat, "/stats")
	assert.Contains(t, tb.sender.lastText(adminChat), "Total: 3 ($2,000 quoted)")

	tb.command(adminChat, "/status 3 booked")
	assert.Equal(t, []string{storage.StatusBooked}, tb.store.statusCalls)
	assert.Contains(t, tb.sender.lastText(adminChat), "Inquiry #3 is now: Booked")
	assert.Contains(t, tb.sender.lastText(customerChat), "#3 status changed to: Booked")

	tb.command(adminChat, "/status 3 lost")
	assert.Contains(t, tb.sender.lastText(adminChat), "Invalid status")

	tb.command(adminChat, "/status 99 booked")
	assert.Contains(t, tb.sender.lastText(adminChat), "#99 not found")

	tb.command(adminChat, "/export")
	docs := tb.sender.documents(adminChat)
	require.Len(t, docs, 1)
	assert.Equal(t, tgbotapi.FilePath("reports/inquiries_report_20260601.xlsx"), docs[0].File)

	tb.command(adminChat, "/export 3")
	assert.Len(t, tb.sender.documents(adminChat), 2)
	assert.Equal(t, []int64{3}, tb.store.exported)
}

func TestStatusCallback(t *testing.T) {
	tb := newTestBot(t)
	tb.store.inquiries[5] = storage.Inquiry{ID: 5}

	tb.callback(customerChat, statusCallbackData(5, storage.StatusContacted))
	assert.Empty(t, tb.store.statusCalls)

	tb.callback(adminChat, statusCallbackData(5, storage.StatusContacted))
	assert.Equal(t, []string{storage.StatusContacted}, tb.store.statusCalls)
}
