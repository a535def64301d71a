package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"notoc/bot/common"
	"notoc/models"
	"notoc/nlp"
)

// handleMessage routes free-form chat text through the intent parser.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !b.limiter.Allow(msg.From.ID) {
		b.reply(msg.Chat.ID, "Bạn nhắn nhanh quá, chờ một chút rồi thử lại nhé.")
		return
	}

	user, err := b.userService.GetOrCreateUser(ctx, msg.From.ID, senderName(msg.From))
	if err != nil {
		log.Errorf("Failed to get or create user: %v", err)
		return
	}

	// Any newer message from the caller supersedes a parked disambiguation,
	// so its inline keyboard can no longer commit.
	b.pending.Clear(user.ID)

	switch intent := nlp.Parse(msg.Text).(type) {
	case nlp.DebtIntent:
		b.handleRecord(ctx, msg, user.ID, intent.Name, models.TransactionTypeDebt, intent.Amount, intent.Note)
	case nlp.CreditIntent:
		b.handleRecord(ctx, msg, user.ID, intent.Name, models.TransactionTypeCredit, intent.Amount, intent.Note)
	case nlp.BalanceQueryIntent:
		b.handleBalanceQuery(ctx, msg, user.ID, intent.Name)
	case nlp.HistoryQueryIntent:
		b.handleHistoryQuery(ctx, msg, user.ID, intent.Name)
	case nlp.SummaryQueryIntent:
		b.handleSummaryQuery(ctx, msg, user.ID)
	case nlp.Unrecognized:
		// Stay silent in group chats; only nudge in private conversations.
		if msg.Chat.IsPrivate() {
			b.reply(msg.Chat.ID, "Mình chưa hiểu. Thử \"Tuấn nợ 50k tiền cơm\" hoặc /help nhé.")
		}
	}
}

// handleRecord resolves the debtor name and either records immediately or
// parks the transaction while the user picks a candidate.
func (b *Bot) handleRecord(ctx context.Context, msg *tgbotapi.Message, userID int64, name string, txType models.TransactionType, amount decimal.Decimal, note *string) {
	var dueDate *time.Time
	if note != nil {
		cleaned, due := nlp.ExtractDueDate(*note, time.Now())
		if due != nil {
			dueDate = due
			if cleaned == "" {
				note = nil
			} else {
				note = &cleaned
			}
		}
	}

	res, err := b.resolverService.Resolve(ctx, userID, name)
	if err != nil {
		log.Errorf("Failed to resolve debtor name: %v", err)
		b.reply(msg.Chat.ID, "Có lỗi xảy ra, thử lại sau nhé.")
		return
	}

	if res.Resolved() {
		result, err := b.ledgerService.Record(ctx, userID, res.Debtor.ID, txType, amount, note, dueDate)
		if err != nil {
			log.Errorf("Failed to record transaction: %v", err)
			b.reply(msg.Chat.ID, "Không ghi được giao dịch, thử lại sau nhé.")
			return
		}
		b.reply(msg.Chat.ID, formatRecordResult(result))
		return
	}

	// Ambiguous or unknown name: park the parsed transaction and ask.
	pending := &models.PendingTransaction{
		UserID:     userID,
		NameQuery:  name,
		Amount:     amount,
		Type:       txType,
		Note:       note,
		DueDate:    dueDate,
		Candidates: res.Candidates,
	}
	token := b.pending.Put(pending)

	reply := tgbotapi.NewMessage(msg.Chat.ID, pendingPrompt(pending))
	reply.ReplyMarkup = pendingKeyboard(token, pending)
	if _, err := b.api.Send(reply); err != nil {
		log.Errorf("Failed to send disambiguation prompt: %v", err)
	}
}

func (b *Bot) handleBalanceQuery(ctx context.Context, msg *tgbotapi.Message, userID int64, name string) {
	debtor, ok := b.resolveForQuery(ctx, msg, userID, name)
	if !ok {
		return
	}
	balance, err := b.ledgerService.Balance(ctx, userID, debtor.ID)
	if err != nil {
		log.Errorf("Failed to get balance: %v", err)
		return
	}
	b.reply(msg.Chat.ID, common.FormatBalance(debtor.Name, balance))
}

func (b *Bot) handleHistoryQuery(ctx context.Context, msg *tgbotapi.Message, userID int64, name string) {
	debtor, ok := b.resolveForQuery(ctx, msg, userID, name)
	if !ok {
		return
	}
	history, err := b.ledgerService.History(ctx, userID, debtor.ID, b.config.HistoryLimit)
	if err != nil {
		log.Errorf("Failed to get history: %v", err)
		return
	}
	if len(history) == 0 {
		b.reply(msg.Chat.ID, fmt.Sprintf("Chưa có giao dịch nào với %s.", debtor.Name))
		return
	}
	text := fmt.Sprintf("Giao dịch gần đây với %s:\n", debtor.Name)
	for _, tx := range history {
		text += "• " + common.FormatTransactionLine(tx) + "\n"
	}
	b.reply(msg.Chat.ID, text)
}

func (b *Bot) handleSummaryQuery(ctx context.Context, msg *tgbotapi.Message, userID int64) {
	balances, err := b.ledgerService.Summary(ctx, userID)
	if err != nil {
		log.Errorf("Failed to get summary: %v", err)
		return
	}
	b.reply(msg.Chat.ID, common.FormatSummary(balances))
}

// resolveForQuery resolves a name for read-only queries. Queries never create
// debtors, so ambiguity and misses get a plain text answer.
func (b *Bot) resolveForQuery(ctx context.Context, msg *tgbotapi.Message, userID int64, name string) (*models.Debtor, bool) {
	res, err := b.resolverService.Resolve(ctx, userID, name)
	if err != nil {
		log.Errorf("Failed to resolve debtor name: %v", err)
		return nil, false
	}
	if res.Resolved() {
		return res.Debtor, true
	}
	if res.Ambiguous() {
		text := fmt.Sprintf("Có nhiều người giống \"%s\":\n", name)
		for _, c := range res.Candidates {
			text += fmt.Sprintf("• %s\n", c.Debtor.Name)
		}
		text += "Gõ lại với tên đầy đủ hơn nhé."
		b.reply(msg.Chat.ID, text)
		return nil, false
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("Không tìm thấy ai tên \"%s\".", name))
	return nil, false
}

// formatRecordResult confirms a stored transaction and echoes the balance.
func formatRecordResult(result *models.RecordResult) string {
	tx := result.Transaction
	var text string
	if tx.Type == models.TransactionTypeDebt {
		text = fmt.Sprintf("Đã ghi: %s nợ thêm %s.", result.Debtor.Name, common.FormatAmount(tx.Amount))
	} else {
		text = fmt.Sprintf("Đã ghi: %s trả %s.", result.Debtor.Name, common.FormatAmount(tx.Amount))
	}
	if result.DebtorCreated {
		text = fmt.Sprintf("Đã thêm %s vào danh bạ. ", result.Debtor.Name) + text
	}
	if tx.DueDate != nil {
		text += fmt.Sprintf(" Hạn trả: %s (%s).", tx.DueDate.Format("02/01/2006"), common.FormatDueDate(*tx.DueDate, time.Now()))
	}
	text += " " + common.FormatBalance(result.Debtor.Name, result.NewBalance)
	return text
}
