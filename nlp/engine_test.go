package nlp

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Debt(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		debtor string
		amount int64
		note   string
	}{
		{"simple with k", "Tuấn nợ 50k tiền cơm", "Tuấn", 50000, "tiền cơm"},
		{"plain amount", "Lan vay 100000", "Lan", 100000, ""},
		{"thousands separators", "Hùng mượn 1.500.000 tiền nhà", "Hùng", 1500000, "tiền nhà"},
		{"multi token name", "Nguyễn Văn Tuấn nợ 20k", "Nguyễn Văn Tuấn", 20000, ""},
		{"four token name", "Anh Tuấn Hàng Xóm nợ 5k", "Anh Tuấn Hàng Xóm", 5000, ""},
		{"verb colliding with name", "Trà Vay nợ 50k", "Trà Vay", 50000, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := Parse(tt.text)
			debt, ok := intent.(DebtIntent)
			require.True(t, ok, "expected DebtIntent, got %T", intent)
			assert.Equal(t, tt.debtor, debt.Name)
			assert.True(t, debt.Amount.Equal(decimal.NewFromInt(tt.amount)),
				"amount %s != %d", debt.Amount, tt.amount)
			if tt.note == "" {
				assert.Nil(t, debt.Note)
			} else {
				require.NotNil(t, debt.Note)
				assert.Equal(t, tt.note, *debt.Note)
			}
		})
	}
}

func TestParse_Credit(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		debtor string
		amount int64
		note   string
	}{
		{"tra", "Lan trả 20000", "Lan", 20000, ""},
		{"dua with note", "Tuấn đưa 50k tiền điện", "Tuấn", 50000, "tiền điện"},
		{"two token verb", "Hùng thanh toán 300k", "Hùng", 300000, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := Parse(tt.text)
			credit, ok := intent.(CreditIntent)
			require.True(t, ok, "expected CreditIntent, got %T", intent)
			assert.Equal(t, tt.debtor, credit.Name)
			assert.True(t, credit.Amount.Equal(decimal.NewFromInt(tt.amount)))
			if tt.note == "" {
				assert.Nil(t, credit.Note)
			} else {
				require.NotNil(t, credit.Note)
				assert.Equal(t, tt.note, *credit.Note)
			}
		})
	}
}

func TestParse_NotePreservedVerbatim(t *testing.T) {
	intent := Parse("Tuấn nợ 50k  Tiền CƠM  hôm qua")
	debt, ok := intent.(DebtIntent)
	require.True(t, ok)
	require.NotNil(t, debt.Note)
	assert.Equal(t, "Tiền CƠM  hôm qua", *debt.Note)
}

func TestParse_BalanceQuery(t *testing.T) {
	tests := []struct {
		text   string
		debtor string
	}{
		{"Duy nợ bao nhiêu", "Duy"},
		{"Duy nợ bao nhiêu?", "Duy"},
		{"Khánh Duy còn nợ bao nhiêu", "Khánh Duy"},
		{"xem nợ Tuấn", "Tuấn"},
		{"dư nợ Lan", "Lan"},
		{"Tuấn nợ mấy", "Tuấn"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			intent := Parse(tt.text)
			q, ok := intent.(BalanceQueryIntent)
			require.True(t, ok, "expected BalanceQueryIntent, got %T", intent)
			assert.Equal(t, tt.debtor, q.Name)
		})
	}
}

func TestParse_HistoryQuery(t *testing.T) {
	tests := []struct {
		text   string
		debtor string
	}{
		{"lịch sử Tuấn", "Tuấn"},
		{"xem lại Khánh Duy", "Khánh Duy"},
		{"Tuấn lịch sử", "Tuấn"},
		{"history Lan", "Lan"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			intent := Parse(tt.text)
			q, ok := intent.(HistoryQueryIntent)
			require.True(t, ok, "expected HistoryQueryIntent, got %T", intent)
			assert.Equal(t, tt.debtor, q.Name)
		})
	}
}

func TestParse_SummaryQuery(t *testing.T) {
	for _, text := range []string{
		"tổng nợ",
		"ai đang nợ tôi",
		"ai nợ",
		"danh sách nợ",
		"tổng kết?",
	} {
		t.Run(text, func(t *testing.T) {
			intent := Parse(text)
			_, ok := intent.(SummaryQueryIntent)
			assert.True(t, ok, "expected SummaryQueryIntent, got %T", intent)
		})
	}
}

func TestParse_Unrecognized(t *testing.T) {
	for _, text := range []string{
		"",
		"   ",
		"chào buổi sáng",
		"nợ 50k",                 // no name before the verb
		"Tuấn nợ",                // no amount
		"Tuấn nợ nhiều lắm",      // amount is not a number
		"Một Hai Ba Bốn Năm nợ 50k", // name longer than four tokens
	} {
		t.Run(text, func(t *testing.T) {
			intent := Parse(text)
			_, ok := intent.(Unrecognized)
			assert.True(t, ok, "expected Unrecognized, got %T", intent)
		})
	}
}

func TestParse_QueryBeatsTransaction(t *testing.T) {
	// "bao" must not be parsed as an amount-less debt attempt.
	intent := Parse("Duy nợ bao nhiêu")
	_, ok := intent.(BalanceQueryIntent)
	assert.True(t, ok, "got %T", intent)
}
