package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"notoc/models"
)

// FormatAmount formats an amount in Vietnamese style with dot thousand
// separators, e.g. 1500000 becomes "1.500.000đ". Fractional parts are kept
// with a comma: 50.5 becomes "50,5đ".
func FormatAmount(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	amount = amount.Abs()

	whole := amount.Truncate(0)
	frac := amount.Sub(whole)

	str := whole.StringFixed(0)
	n := len(str)
	var b strings.Builder
	if neg {
		b.WriteRune('-')
	}
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteRune('.')
		}
		b.WriteRune(digit)
	}

	if !frac.IsZero() {
		fracStr := strings.TrimPrefix(frac.String(), "0.")
		b.WriteRune(',')
		b.WriteString(fracStr)
	}

	b.WriteString("đ")
	return b.String()
}

// FormatBalance renders a debtor's net balance as a full sentence. Positive
// means they owe the user, negative means the user owes them.
func FormatBalance(name string, balance decimal.Decimal) string {
	switch {
	case balance.IsPositive():
		return fmt.Sprintf("%s đang nợ %s", name, FormatAmount(balance))
	case balance.IsNegative():
		return fmt.Sprintf("Bạn đang nợ %s %s", name, FormatAmount(balance.Neg()))
	default:
		return fmt.Sprintf("%s không còn nợ nần gì", name)
	}
}

// FormatTransactionLine renders one history entry.
func FormatTransactionLine(tx *models.Transaction) string {
	sign := "+"
	verb := "nợ"
	if tx.Type == models.TransactionTypeCredit {
		sign = "-"
		verb = "trả"
	}
	line := fmt.Sprintf("%s %s%s (%s)", tx.CreatedAt.Format("02/01"), sign, FormatAmount(tx.Amount), verb)
	if tx.Note != nil && *tx.Note != "" {
		line += " — " + *tx.Note
	}
	if tx.DueDate != nil {
		line += fmt.Sprintf(" [hạn %s]", tx.DueDate.Format("02/01/2006"))
	}
	return line
}

// FormatSummary renders the full non-zero balance list.
func FormatSummary(balances []*models.DebtorBalance) string {
	if len(balances) == 0 {
		return "Không có khoản nợ nào đang mở."
	}
	var b strings.Builder
	b.WriteString("Tổng kết nợ:\n")
	for _, bal := range balances {
		b.WriteString("• ")
		b.WriteString(FormatBalance(bal.DebtorName, bal.Balance))
		b.WriteRune('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatDueDate renders a due date relative to now: "hôm nay", "ngày mai",
// "còn N ngày" or "quá hạn N ngày".
func FormatDueDate(due time.Time, now time.Time) string {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(due.Sub(today).Hours() / 24)
	switch {
	case days < 0:
		return fmt.Sprintf("quá hạn %d ngày", -days)
	case days == 0:
		return "hôm nay"
	case days == 1:
		return "ngày mai"
	default:
		return fmt.Sprintf("còn %d ngày", days)
	}
}
