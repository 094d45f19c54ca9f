package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dj-booking/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) handleAdminCommand(ctx context.Context, chatID int64, cmd string, args []string) {
	if !b.isAdmin(chatID) {
		b.handleUnknownCommand(chatID)
		return
	}

	switch cmd {
	case "export":
		if len(args) == 0 {
			b.handleExportAllInquiries(ctx, chatID)
			return
		}
		inquiryID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			b.sendError(chatID, "Invalid inquiry ID")
			return
		}
		b.handleExportSingleInquiry(ctx, chatID, inquiryID)
	case "stats":
		b.handleInquiryStats(ctx, chatID)
	case "status":
		if len(args) < 2 {
			b.sendError(chatID, "Usage: /status <inquiry_id> <new|contacted|booked|cancelled>")
			return
		}
		inquiryID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			b.sendError(chatID, "Invalid inquiry ID")
			return
		}
		b.handleStatusUpdate(ctx, chatID, inquiryID, strings.ToLower(args[1]))
	default:
		b.sendError(chatID, "Unknown admin command")
	}
}

func (b *Bot) handleStatusCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	if !b.isAdmin(chatID) {
		return
	}

	parts := strings.Split(strings.TrimPrefix(callback.Data, statusPrefix), ":")
	if len(parts) != 2 {
		b.sendError(chatID, "Invalid status action")
		return
	}
	inquiryID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		b.sendError(chatID, "Invalid inquiry ID")
		return
	}
	b.handleStatusUpdate(ctx, chatID, inquiryID, parts[1])
}

func (b *Bot) handleStatusUpdate(ctx context.Context, chatID, inquiryID int64, newStatus string) {
	err := b.store.UpdateInquiryStatus(ctx, inquiryID, newStatus)
	switch {
	case errors.Is(err, storage.ErrInvalidStatus):
		b.sendError(chatID, "Invalid status. Use one of: new, contacted, booked, cancelled")
		return
	case errors.Is(err, storage.ErrInquiryNotFound):
		b.sendError(chatID, fmt.Sprintf("Inquiry #%d not found", inquiryID))
		return
	case err != nil:
		b.logger.Error("Failed to update inquiry status",
			zap.Int64("inquiry_id", inquiryID),
			zap.String("status", newStatus),
			zap.Error(err))
		b.sendError(chatID, "Failed to update status")
		return
	}

	b.sendText(chatID, fmt.Sprintf("✅ Inquiry #%d is now: %s", inquiryID, statusLabels[newStatus]))

	inquiry, err := b.store.GetInquiryByID(ctx, inquiryID)
	if err != nil || inquiry.ChatID == 0 {
		return
	}
	userMsg := tgbotapi.NewMessage(inquiry.ChatID, fmt.Sprintf(
		"ℹ️ Your request #%d status changed to: %s", inquiryID, statusLabels[newStatus]))
	if _, err := b.sender.Send(userMsg); err != nil {
		b.logger.Warn("Failed to notify user about status change",
			zap.Int64("user_id", inquiry.ChatID),
			zap.Error(err))
	}
}

func (b *Bot) handleInquiryStats(ctx context.Context, chatID int64) {
	stats, err := b.store.GetInquiryStatistics(ctx)
	if err != nil {
		b.logger.Error("Failed to get inquiry statistics", zap.Error(err))
		b.sendError(chatID, "Failed to load statistics")
		return
	}
	b.sendText(chatID, FormatStats(stats))
}

func (b *Bot) handleExportAllInquiries(ctx context.Context, chatID int64) {
	name := fmt.Sprintf("inquiries_report_%s", b.now().Format("20060102"))
	path, err := b.store.ExportAllInquiriesToExcel(ctx, name)
	if err != nil {
		b.logger.Error("Failed to export all inquiries", zap.Error(err))
		b.sendError(chatID, "Failed to export inquiries")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = "📊 All inquiries export"
	if _, err := b.sender.Send(doc); err != nil {
		b.logger.Error("Failed to send Excel file", zap.Error(err))
		b.sendError(chatID, "Failed to send exported file")
	}
}

func (b *Bot) handleExportSingleInquiry(ctx context.Context, chatID, inquiryID int64) {
	inquiry, err := b.store.GetInquiryByID(ctx, inquiryID)
	if err != nil {
		b.logger.Error("Failed to get inquiry",
			zap.Int64("inquiry_id", inquiryID),
			zap.Error(err))
		b.sendError(chatID, fmt.Sprintf("Inquiry #%d not found", inquiryID))
		return
	}

	path, err := b.store.ExportInquiryToExcel(ctx, *inquiry)
	if err != nil {
		b.logger.Error("Failed to export inquiry",
			zap.Int64("inquiry_id", inquiryID),
			zap.Error(err))
		b.sendError(chatID, "Failed to export inquiry")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = fmt.Sprintf("📊 Inquiry #%d export", inquiryID)
	if _, err := b.sender.Send(doc); err != nil {
		b.logger.Error("Failed to send Excel file", zap.Error(err))
		b.sendError(chatID, "Failed to send exported file")
	}
}
