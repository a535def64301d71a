package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"notoc/bot/common"
	"notoc/nlp"
	"notoc/service"
)

const helpText = `Mình ghi sổ nợ giúp bạn. Cứ nhắn tự nhiên:

• "Tuấn nợ 50k tiền cơm" — ghi nợ
• "Tuấn trả 20k" — ghi trả
• "Tuấn nợ bao nhiêu?" — xem số dư
• "lịch sử Tuấn" — xem giao dịch gần đây
• "tổng nợ" — xem tất cả số dư

Số tiền hiểu được "50k", "50.000" hay "100000". Thêm hạn trả vào ghi chú: "Tuấn nợ 50k trong 5 ngày".

Lệnh:
/alias <biệt danh> = <tên> — đặt biệt danh
/xoa <tên> — xoá một người cùng lịch sử
/xoagd <mã giao dịch> — xoá một giao dịch
/han [số ngày] — xem các hạn trả sắp tới
/hangd <mã giao dịch> <hạn> — đặt hạn trả, ví dụ /hangd 12 trong 5 ngày
/help — xem lại hướng dẫn này`

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.userService.GetOrCreateUser(ctx, msg.From.ID, senderName(msg.From))
	if err != nil {
		log.Errorf("Failed to get or create user: %v", err)
		return
	}

	// Commands count as newer messages too: drop any parked disambiguation.
	b.pending.Clear(user.ID)

	switch msg.Command() {
	case "start":
		b.reply(msg.Chat.ID, "Chào bạn! "+helpText)
	case "help":
		b.reply(msg.Chat.ID, helpText)
	case "alias":
		b.handleAliasCommand(ctx, msg, user.ID)
	case "xoa":
		b.handleDeleteDebtorCommand(ctx, msg, user.ID)
	case "xoagd":
		b.handleDeleteTransactionCommand(ctx, msg, user.ID)
	case "han":
		b.handleDeadlinesCommand(ctx, msg, user.ID)
	case "hangd":
		b.handleSetDueDateCommand(ctx, msg, user.ID)
	}
}

// handleAliasCommand binds a nickname: /alias Béo = Nguyễn Văn Tuấn
func (b *Bot) handleAliasCommand(ctx context.Context, msg *tgbotapi.Message, userID int64) {
	args := msg.CommandArguments()
	parts := strings.SplitN(args, "=", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		b.reply(msg.Chat.ID, "Dùng: /alias <biệt danh> = <tên>")
		return
	}
	aliasName := strings.TrimSpace(parts[0])
	debtorName := strings.TrimSpace(parts[1])

	debtor, err := b.resolverService.AddAlias(ctx, userID, aliasName, debtorName)
	switch {
	case err == nil:
		b.reply(msg.Chat.ID, fmt.Sprintf("Đã đặt biệt danh \"%s\" cho %s.", aliasName, debtor.Name))
	case errors.Is(err, service.ErrNotFound):
		b.reply(msg.Chat.ID, fmt.Sprintf("Không tìm thấy ai tên \"%s\".", debtorName))
	case errors.Is(err, service.ErrAliasTaken):
		b.reply(msg.Chat.ID, fmt.Sprintf("Biệt danh \"%s\" đã được dùng rồi.", aliasName))
	default:
		log.Errorf("Failed to add alias: %v", err)
		b.reply(msg.Chat.ID, "Có lỗi xảy ra, thử lại sau nhé.")
	}
}

// handleDeleteDebtorCommand asks for confirmation before a cascading delete.
func (b *Bot) handleDeleteDebtorCommand(ctx context.Context, msg *tgbotapi.Message, userID int64) {
	name := strings.TrimSpace(msg.CommandArguments())
	if name == "" {
		b.reply(msg.Chat.ID, "Dùng: /xoa <tên>")
		return
	}

	debtor, ok := b.resolveForQuery(ctx, msg, userID, name)
	if !ok {
		return
	}

	prompt := tgbotapi.NewMessage(msg.Chat.ID,
		fmt.Sprintf("Xoá %s cùng toàn bộ lịch sử giao dịch?", debtor.Name))
	prompt.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Xoá", fmt.Sprintf("deld:%d", debtor.ID)),
			tgbotapi.NewInlineKeyboardButtonData("Huỷ", "delc"),
		),
	)
	if _, err := b.api.Send(prompt); err != nil {
		log.Errorf("Failed to send delete prompt: %v", err)
	}
}

func (b *Bot) handleDeleteTransactionCommand(ctx context.Context, msg *tgbotapi.Message, userID int64) {
	arg := strings.TrimSpace(msg.CommandArguments())
	transactionID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Dùng: /xoagd <mã giao dịch>")
		return
	}

	err = b.ledgerService.DeleteTransaction(ctx, userID, transactionID)
	switch {
	case err == nil:
		b.reply(msg.Chat.ID, fmt.Sprintf("Đã xoá giao dịch #%d.", transactionID))
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUnauthorized):
		b.reply(msg.Chat.ID, fmt.Sprintf("Không tìm thấy giao dịch #%d của bạn.", transactionID))
	default:
		log.Errorf("Failed to delete transaction: %v", err)
		b.reply(msg.Chat.ID, "Có lỗi xảy ra, thử lại sau nhé.")
	}
}

// handleSetDueDateCommand attaches a due date: /hangd 12 trong 5 ngày
func (b *Bot) handleSetDueDateCommand(ctx context.Context, msg *tgbotapi.Message, userID int64) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		b.reply(msg.Chat.ID, "Dùng: /hangd <mã giao dịch> <hạn>, ví dụ /hangd 12 trong 5 ngày")
		return
	}
	transactionID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Mã giao dịch phải là số.")
		return
	}
	due := nlp.ParseDueDate(strings.Join(args[1:], " "), time.Now())
	if due == nil {
		b.reply(msg.Chat.ID, "Mình chưa hiểu hạn trả. Thử \"trong 5 ngày\", \"25/12\" hay \"ngày mai\".")
		return
	}

	tx, err := b.deadlineService.SetDueDate(ctx, userID, transactionID, due)
	switch {
	case err == nil:
		b.reply(msg.Chat.ID, fmt.Sprintf("Đã đặt hạn trả cho giao dịch #%d: %s (%s).",
			tx.ID, due.Format("02/01/2006"), common.FormatDueDate(*due, time.Now())))
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUnauthorized):
		b.reply(msg.Chat.ID, fmt.Sprintf("Không tìm thấy giao dịch #%d của bạn.", transactionID))
	default:
		log.Errorf("Failed to set due date: %v", err)
		b.reply(msg.Chat.ID, "Có lỗi xảy ra, thử lại sau nhé.")
	}
}

// handleDeadlinesCommand lists upcoming due dates: /han or /han 7
func (b *Bot) handleDeadlinesCommand(ctx context.Context, msg *tgbotapi.Message, userID int64) {
	var withinDays *int
	if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		days, err := strconv.Atoi(arg)
		if err != nil || days < 1 {
			b.reply(msg.Chat.ID, "Dùng: /han hoặc /han <số ngày>")
			return
		}
		withinDays = &days
	}

	upcoming, err := b.deadlineService.ListUpcoming(ctx, userID, b.config.HistoryLimit, withinDays)
	if err != nil {
		log.Errorf("Failed to list deadlines: %v", err)
		return
	}
	if len(upcoming) == 0 {
		b.reply(msg.Chat.ID, "Không có hạn trả nào sắp tới.")
		return
	}

	now := time.Now()
	text := "Hạn trả sắp tới:\n"
	for _, tx := range upcoming {
		text += fmt.Sprintf("• #%d %s — %s (%s)\n",
			tx.ID, common.FormatAmount(tx.Amount),
			tx.DueDate.Format("02/01/2006"), common.FormatDueDate(*tx.DueDate, now))
	}
	b.reply(msg.Chat.ID, text)
}
