package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"notoc/bot/common"
	"notoc/models"
)

// Callback data formats. The token ties the button to the exact pending
// transaction it was issued for; a replaced or consumed slot rejects it.
//
//	pick:<token>:<debtorID>  record against an existing debtor
//	new:<token>              create a debtor named after the typed fragment
//	cancel:<token>           drop the pending transaction
//	deld:<debtorID>          confirm debtor deletion (from /xoa)
//	delc                     cancel debtor deletion
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	// Always answer the callback so the client stops its spinner.
	defer func() {
		if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			log.Errorf("Failed to answer callback: %v", err)
		}
	}()

	user, err := b.userService.GetOrCreateUser(ctx, cq.From.ID, senderName(cq.From))
	if err != nil {
		log.Errorf("Failed to get or create user: %v", err)
		return
	}

	parts := strings.Split(cq.Data, ":")
	switch parts[0] {
	case "pick":
		if len(parts) != 3 {
			return
		}
		debtorID, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return
		}
		b.resolvePending(ctx, cq, user.ID, parts[1], &debtorID)
	case "new":
		if len(parts) != 2 {
			return
		}
		b.resolvePending(ctx, cq, user.ID, parts[1], nil)
	case "cancel":
		if len(parts) != 2 {
			return
		}
		if b.pending.Take(user.ID, parts[1]) != nil {
			b.editMessage(cq, "Đã huỷ.")
		} else {
			b.editMessage(cq, staleKeyboardText)
		}
	case "deld":
		if len(parts) != 2 {
			return
		}
		debtorID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return
		}
		b.confirmDeleteDebtor(ctx, cq, user.ID, debtorID)
	case "delc":
		b.editMessage(cq, "Đã huỷ.")
	}
}

const staleKeyboardText = "Lựa chọn này đã hết hiệu lực."

// resolvePending consumes the pending slot and records the parked
// transaction, either against the picked debtor or a freshly created one.
func (b *Bot) resolvePending(ctx context.Context, cq *tgbotapi.CallbackQuery, userID int64, token string, debtorID *int64) {
	pending := b.pending.Take(userID, token)
	if pending == nil {
		b.editMessage(cq, staleKeyboardText)
		return
	}

	var result *models.RecordResult
	var err error
	if debtorID != nil {
		result, err = b.ledgerService.Record(ctx, userID, *debtorID, pending.Type, pending.Amount, pending.Note, pending.DueDate)
	} else {
		result, err = b.ledgerService.RecordNew(ctx, userID, pending.NameQuery, pending.Type, pending.Amount, pending.Note, pending.DueDate)
	}
	if err != nil {
		log.Errorf("Failed to record pending transaction: %v", err)
		b.editMessage(cq, "Không ghi được giao dịch, thử lại sau nhé.")
		return
	}

	b.editMessage(cq, formatRecordResult(result))
}

func (b *Bot) confirmDeleteDebtor(ctx context.Context, cq *tgbotapi.CallbackQuery, userID, debtorID int64) {
	if err := b.ledgerService.DeleteDebtor(ctx, userID, debtorID); err != nil {
		log.Errorf("Failed to delete debtor: %v", err)
		b.editMessage(cq, "Không xoá được, thử lại sau nhé.")
		return
	}
	b.editMessage(cq, "Đã xoá cùng toàn bộ lịch sử giao dịch.")
}

// editMessage replaces the prompt message in place, removing its keyboard.
func (b *Bot) editMessage(cq *tgbotapi.CallbackQuery, text string) {
	if cq.Message == nil {
		return
	}
	edit := tgbotapi.NewEditMessageText(cq.Message.Chat.ID, cq.Message.MessageID, text)
	if _, err := b.api.Send(edit); err != nil {
		log.Errorf("Failed to edit message: %v", err)
	}
}

// pendingPrompt words the disambiguation question.
func pendingPrompt(pending *models.PendingTransaction) string {
	verb := "nợ"
	if pending.Type == models.TransactionTypeCredit {
		verb = "trả"
	}
	if len(pending.Candidates) == 0 {
		return fmt.Sprintf("Chưa có ai tên \"%s\". Tạo mới và ghi %s %s?",
			pending.NameQuery, verb, common.FormatAmount(pending.Amount))
	}
	return fmt.Sprintf("\"%s\" %s %s — ý bạn là ai?",
		pending.NameQuery, verb, common.FormatAmount(pending.Amount))
}

// pendingKeyboard builds the candidate picker, always with a create-new and
// a cancel button.
func pendingKeyboard(token string, pending *models.PendingTransaction) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range pending.Candidates {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				c.Debtor.Name,
				fmt.Sprintf("pick:%s:%d", token, c.Debtor.ID),
			),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("Tạo mới \"%s\"", pending.NameQuery),
			fmt.Sprintf("new:%s", token),
		),
		tgbotapi.NewInlineKeyboardButtonData("Huỷ", fmt.Sprintf("cancel:%s", token)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
