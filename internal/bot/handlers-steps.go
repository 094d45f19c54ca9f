package bot

import (
	"context"
	"fmt"
	"strings"

	"dj-booking/internal/docs"
	"dj-booking/internal/pricing"
	"dj-booking/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) handleEventType(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	et, ok := pricing.ParseEventType(msg.Text)
	if !ok {
		b.sendError(chatID, "Please pick an event type from the keyboard.")
		return
	}

	state, err := b.state.Update(ctx, chatID, func(st *UserState) {
		st.EventType = string(et)
		st.AddOns = pricing.AddOns{}
		st.Step = StepAddOns
	})
	if err != nil {
		b.logger.Error("Failed to save event type",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Failed to save your event type.")
		return
	}

	if price, isPackage := b.calc.Table().PackagePrice(et); isPackage {
		b.sendText(chatID, fmt.Sprintf("%s is a package event at %s, add-ons included.", et, pricing.FormatDollars(price)))
	}

	reply := tgbotapi.NewMessage(chatID, "Would you like any add-ons? Tap to toggle, then Continue.")
	reply.ReplyMarkup = createAddOnsKeyboard(state.AddOns, b.calc.Table().Rates())
	b.sendMessage(reply)
}

func (b *Bot) handleAddOnsText(ctx context.Context, msg *tgbotapi.Message) {
	b.sendError(msg.Chat.ID, "Use the buttons above to choose add-ons, then tap Continue.")
}

func (b *Bot) handleAddOnCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	option := strings.TrimPrefix(callback.Data, addOnPrefix)

	current, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get user state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return
	}
	if current.Step != StepAddOns {
		return
	}

	if option == addOnDone {
		b.setStep(ctx, chatID, StepStartTime)
		b.sendText(chatID, "What time does the event start? (e.g. 18:00 or 6pm)")
		return
	}

	state, err := b.state.Update(ctx, chatID, func(st *UserState) {
		switch option {
		case addOnLighting:
			st.AddOns.Lighting = !st.AddOns.Lighting
		case addOnPhoto:
			st.AddOns.Photography = !st.AddOns.Photography
		case addOnVideo:
			st.AddOns.VideoVisuals = !st.AddOns.VideoVisuals
		}
	})
	if err != nil {
		b.logger.Error("Failed to toggle add-on",
			zap.Int64("chat_id", chatID),
			zap.String("add_on", option),
			zap.Error(err))
		return
	}

	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, callback.Message.MessageID,
		createAddOnsKeyboard(state.AddOns, b.calc.Table().Rates()))
	if _, err := b.sender.Request(edit); err != nil {
		b.logger.Warn("Failed to update add-ons keyboard",
			zap.Int("message_id", callback.Message.MessageID),
			zap.Error(err))
	}
}

func (b *Bot) handleStartTime(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	start, ok := ParseTimeInput(msg.Text)
	if !ok {
		b.sendError(chatID, "Please enter the start time like 18:00 or 6pm.")
		return
	}

	if _, err := b.state.Update(ctx, chatID, func(st *UserState) {
		st.StartTime = start
		st.Step = StepEndTime
	}); err != nil {
		b.logger.Error("Failed to save start time",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Failed to save the start time.")
		return
	}

	b.sendText(chatID, "And what time does it end? (same day, e.g. 23:00 or 11pm)")
}

func (b *Bot) handleEndTime(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	end, ok := ParseTimeInput(msg.Text)
	if !ok {
		b.sendError(chatID, "Please enter the end time like 23:00 or 11pm.")
		return
	}

	state, err := b.state.Update(ctx, chatID, func(st *UserState) {
		st.EndTime = end
		st.Step = StepQuoteConfirm
	})
	if err != nil {
		b.logger.Error("Failed to save end time",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Failed to save the end time.")
		return
	}

	quote := b.calc.Quote(state.Request())
	b.metrics.ObserveQuote(state.EventType, quote.Package, quote.Total)

	b.logger.Info("Quote computed",
		zap.Int64("chat_id", chatID),
		zap.String("event_type", state.EventType),
		zap.Int64("total", quote.Total))

	reply := tgbotapi.NewMessage(chatID, FormatQuote(quote))
	reply.ReplyMarkup = createQuoteConfirmKeyboard()
	b.sendMessage(reply)
}

func (b *Bot) handleQuoteConfirm(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Text {
	case btnRequestBooking:
		b.setStep(ctx, chatID, StepEventDate)
		reply := tgbotapi.NewMessage(chatID, "Great! What's the event date? (YYYY-MM-DD or MM/DD/YYYY)")
		reply.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		b.sendMessage(reply)
	case btnStartOver:
		b.startQuote(ctx, chatID)
	default:
		b.sendError(chatID, "Please choose one of the options below.")
	}
}

func (b *Bot) handleEventDate(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	date, ok := ParseEventDate(msg.Text, b.now())
	if !ok {
		b.sendError(chatID, "Please enter a future date as YYYY-MM-DD or MM/DD/YYYY.")
		return
	}

	if _, err := b.state.Update(ctx, chatID, func(st *UserState) {
		st.EventDate = date
		st.Step = StepContact
	}); err != nil {
		b.logger.Error("Failed to save event date",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Failed to save the event date.")
		return
	}

	reply := tgbotapi.NewMessage(chatID, "How can we reach you? Share your phone number or type it in.")
	reply.ReplyMarkup = createContactRequestKeyboard()
	b.sendMessage(reply)
}

func (b *Bot) handleContact(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	phone := msg.Text
	if msg.Contact != nil {
		phone = msg.Contact.PhoneNumber
	}
	if phone == btnTypeContact {
		b.sendText(chatID, "Type your phone number with country code, e.g. +1 555 123 4567")
		return
	}
	if !IsValidPhoneNumber(phone) {
		b.sendError(chatID, "Please enter a real phone number with country code, e.g. +15551234567")
		return
	}

	username := ""
	if msg.From != nil {
		username = msg.From.UserName
	}
	b.finishInquiry(ctx, chatID, username, NormalizePhoneNumber(phone))
}

func (b *Bot) finishInquiry(ctx context.Context, chatID int64, username, phone string) {
	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get quote state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Failed to process your request.")
		return
	}
	if state.EventType == "" {
		b.sendError(chatID, "Your quote has expired. Send /quote to start again.")
		return
	}

	req := state.Request()
	quote := b.calc.Quote(req)

	inquiry := storage.NewInquiry(storage.SourceTelegram, req, quote, phone, b.now())
	inquiry.ChatID = chatID
	inquiry.Username = username
	inquiry.EventDate = state.EventDate

	inquiryID, err := b.store.SaveInquiry(ctx, inquiry)
	if err != nil {
		b.logger.Error("Failed to save inquiry",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.metrics.ErrorsTotal.WithLabelValues("bot").Inc()
		b.sendError(chatID, "Failed to save your request. Please try again.")
		return
	}
	inquiry.ID = inquiryID
	b.metrics.InquiriesSaved.WithLabelValues(storage.SourceTelegram).Inc()

	b.logger.Info("Inquiry saved",
		zap.Int64("inquiry_id", inquiryID),
		zap.Int64("chat_id", chatID),
		zap.String("event_type", inquiry.EventType),
		zap.Int64("total", quote.Total))

	reply := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"✅ Thanks! Your request #%d is in.\n\nWe'll contact you at %s to confirm the date. "+
			"A %s deposit reserves it.",
		inquiryID, FormatPhoneNumber(phone), pricing.FormatDollars(quote.Deposit)))
	reply.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	b.sendMessage(reply)

	b.sendQuoteDocument(chatID, inquiry, quote)
	b.notifyAdmins(ctx, inquiry)

	if err := b.state.Clear(ctx, chatID); err != nil {
		b.logger.Error("Failed to clear user state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

func (b *Bot) sendQuoteDocument(chatID int64, inquiry storage.Inquiry, quote pricing.Quote) {
	data, filename, err := docs.RenderQuote(docs.QuoteSheet{
		InquiryID: inquiry.ID,
		Contact:   inquiry.Contact,
		EventDate: inquiry.EventDate,
		Request:   inquiry.Request(),
		Quote:     quote,
		IssuedAt:  inquiry.CreatedAt,
	})
	if err != nil {
		b.logger.Error("Failed to render quote PDF",
			zap.Int64("inquiry_id", inquiry.ID),
			zap.Error(err))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = "📄 Your quote"
	if _, err := b.sender.Send(doc); err != nil {
		b.logger.Error("Failed to send quote PDF",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}
