package bot

import (
	"fmt"
	"strings"

	"dj-booking/internal/pricing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BOT KEYBOARDS

const (
	btnRequestBooking = "✅ Request booking"
	btnStartOver      = "🔁 Start over"
	btnTypeContact    = "Type it manually"

	addOnPrefix   = "addon:"
	addOnLighting = "lighting"
	addOnPhoto    = "photography"
	addOnVideo    = "video"
	addOnDone     = "done"

	statusPrefix = "status:"
)

func createEventTypeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	types := pricing.EventTypes()
	for i := 0; i < len(types); i += 2 {
		row := []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(string(types[i]))}
		if i+1 < len(types) {
			row = append(row, tgbotapi.NewKeyboardButton(string(types[i+1])))
		}
		rows = append(rows, row)
	}

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.OneTimeKeyboard = true
	return keyboard
}

func createAddOnsKeyboard(addOns pricing.AddOns, rates pricing.Rates) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				toggleLabel(addOns.Lighting, "Lighting", rates.Lighting), addOnPrefix+addOnLighting),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				toggleLabel(addOns.Photography, "Photography", rates.Photography), addOnPrefix+addOnPhoto),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				toggleLabel(addOns.VideoVisuals, "Video/Visuals", rates.VideoVisuals), addOnPrefix+addOnVideo),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➡️ Continue", addOnPrefix+addOnDone),
		),
	)
}

func toggleLabel(on bool, name string, price int64) string {
	mark := "⬜"
	if on {
		mark = "✅"
	}
	return fmt.Sprintf("%s %s (+%s)", mark, name, pricing.FormatDollars(price))
}

func createQuoteConfirmKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnRequestBooking),
			tgbotapi.NewKeyboardButton(btnStartOver),
		),
	)
}

func createContactRequestKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact("📱 Share my phone number"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnTypeContact),
		),
	)
}

func createStatusKeyboard(inquiryID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📞 Contacted", statusCallbackData(inquiryID, "contacted")),
			tgbotapi.NewInlineKeyboardButtonData("🎉 Booked", statusCallbackData(inquiryID, "booked")),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", statusCallbackData(inquiryID, "cancelled")),
		),
	)
}

func statusCallbackData(inquiryID int64, status string) string {
	return fmt.Sprintf("%s%d:%s", statusPrefix, inquiryID, status)
}

func isAddOnCallback(data string) bool {
	return strings.HasPrefix(data, addOnPrefix)
}

func isStatusCallback(data string) bool {
	return strings.HasPrefix(data, statusPrefix)
}
