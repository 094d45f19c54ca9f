package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.handleStart(ctx, chatID)
	case "quote":
		b.startQuote(ctx, chatID)
	case "prices":
		b.handlePrices(chatID)
	case "cancel":
		b.handleCancel(ctx, chatID)
	case "help":
		b.handleHelp(chatID)
	case "export", "stats", "status":
		b.handleAdminCommand(ctx, chatID, msg.Command(), strings.Fields(msg.CommandArguments()))
	default:
		b.handleUnknownCommand(chatID)
	}
}

func (b *Bot) handleDefault(chatID int64) {
	b.sendError(chatID, "I didn't get that. Use /quote to price your event.")
}

func (b *Bot) handleUnknownCommand(chatID int64) {
	b.sendError(chatID, "Unknown command. Use /help to see what I can do.")
}

func (b *Bot) handleHelp(chatID int64) {
	helpText := "Available commands:\n" +
		"/quote - Price your event\n" +
		"/prices - Show our prices\n" +
		"/cancel - Cancel the current quote\n" +
		"/help - Show this help"
	if b.isAdmin(chatID) {
		helpText += "\n\nAdmin:\n" +
			"/export [id] - Excel export of all inquiries or one inquiry\n" +
			"/stats - Inquiry statistics\n" +
			"/status <id> <new|contacted|booked|cancelled> - Change inquiry status"
	}
	b.sendText(chatID, helpText)
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	b.sendText(chatID, "Hi! 👋 I can put together a DJ quote for your event in under a minute.\n\n"+
		"Pick your event type below to get started, or send /prices to see the price list.")
	b.startQuote(ctx, chatID)
}

func (b *Bot) startQuote(ctx context.Context, chatID int64) {
	if err := b.state.Save(ctx, chatID, UserState{Step: StepEventType}); err != nil {
		b.logger.Error("Failed to reset quote state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Something went wrong, please try again.")
		return
	}

	msg := tgbotapi.NewMessage(chatID, "What kind of event is it?")
	msg.ReplyMarkup = createEventTypeKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handlePrices(chatID int64) {
	b.sendText(chatID, FormatPrices(b.calc.Table()))
}

func (b *Bot) handleCancel(ctx context.Context, chatID int64) {
	if err := b.state.Clear(ctx, chatID); err != nil {
		b.logger.Error("Failed to clear user state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	msg := tgbotapi.NewMessage(chatID, "Quote cancelled. Send /quote whenever you're ready.")
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	b.sendMessage(msg)
}
