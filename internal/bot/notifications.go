package bot

import (
	"context"
	"fmt"

	"dj-booking/internal/pricing"
	"dj-booking/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// notifyAdmins posts a short note to the channel and sends each admin the
// inquiry details with an Excel export.
func (b *Bot) notifyAdmins(ctx context.Context, inquiry storage.Inquiry) {
	b.notifyChannel(inquiry)

	if len(b.opts.AdminIDs) == 0 {
		return
	}

	path, err := b.store.ExportInquiryToExcel(ctx, inquiry)
	if err != nil {
		b.logger.Error("Failed to create Excel file for inquiry",
			zap.Int64("inquiry_id", inquiry.ID),
			zap.Error(err))
	}

	for _, adminID := range b.opts.AdminIDs {
		if adminID == 0 {
			continue
		}
		b.sendAdminNotification(adminID, inquiry, path)
	}
}

func (b *Bot) notifyChannel(inquiry storage.Inquiry) {
	if b.opts.ChannelID == 0 {
		return
	}

	text := fmt.Sprintf("📦 New inquiry #%d\nEvent: %s\nTotal: %s\nContact: %s",
		inquiry.ID,
		inquiry.EventType,
		pricing.FormatDollars(inquiry.Total),
		FormatPhoneNumber(inquiry.Contact))

	if _, err := b.sender.Send(tgbotapi.NewMessage(b.opts.ChannelID, text)); err != nil {
		b.logger.Error("Failed to send channel notification",
			zap.Int64("channel_id", b.opts.ChannelID),
			zap.Int64("inquiry_id", inquiry.ID),
			zap.Error(err))
	}
}

func (b *Bot) sendAdminNotification(chatID int64, inquiry storage.Inquiry, excelPath string) {
	msg := tgbotapi.NewMessage(chatID, FormatInquiryNotification(inquiry))
	msg.ReplyMarkup = createStatusKeyboard(inquiry.ID)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send admin notification",
			zap.Int64("chat_id", chatID),
			zap.Int64("inquiry_id", inquiry.ID),
			zap.Error(err))
		return
	}

	if excelPath == "" {
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(excelPath))
	doc.Caption = fmt.Sprintf("📊 Inquiry #%d details", inquiry.ID)
	if _, err := b.sender.Send(doc); err != nil {
		b.logger.Error("Failed to send Excel file to admin",
			zap.Int64("chat_id", chatID),
			zap.Int64("inquiry_id", inquiry.ID),
			zap.Error(err))
	}
}
