package nlp

import (
	"strings"
	"unicode"
)

// maxNameTokens caps a name fragment at four whitespace-separated tokens.
const maxNameTokens = 4

var (
	debtVerbs   = map[string]bool{"no": true, "vay": true, "muon": true}
	creditVerbs = map[string]bool{"tra": true, "dua": true}
	// "thanh toán" is the one two-token credit verb
	creditVerbPair = [2]string{"thanh", "toan"}

	summaryPhrases = [][]string{
		{"tong", "no"}, {"tong", "ket"}, {"tong", "quan"},
		{"ai", "dang", "no", "toi"}, {"ai", "dang", "no"}, {"ai", "no", "toi"},
		{"ai", "no"}, {"ai", "con", "no"},
		{"danh", "sach", "no"}, {"ds", "no"}, {"list", "no"},
		{"summary"},
	}

	historyPrefixes = [][]string{
		{"xem", "lai", "giao", "dich"}, {"lich", "su", "giao", "dich"},
		{"xem", "lich", "su"}, {"xem", "lai"}, {"xem", "log"},
		{"lich", "su", "no"}, {"lich", "su"}, {"history"}, {"log"},
	}
	historySuffixes = [][]string{{"lich", "su"}, {"history"}}

	balancePrefixes = [][]string{{"xem", "no"}, {"du", "no"}, {"no", "cua"}}
)

type token struct {
	orig   string
	folded string
	start  int
}

// Parse converts a raw chat message into exactly one intent. Parsing is pure,
// deterministic and total: unmatched text yields Unrecognized.
func Parse(text string) Intent {
	text = strings.TrimSpace(text)
	toks := tokenize(text)
	if len(toks) == 0 {
		return Unrecognized{}
	}

	// Queries first: "Duy nợ bao nhiêu" must not be read as a debt of "bao".
	query := stripQuestionMarks(toks)
	if name, ok := matchHistory(query); ok {
		return HistoryQueryIntent{Name: name}
	}
	if name, ok := matchBalance(query); ok {
		return BalanceQueryIntent{Name: name}
	}
	if matchSummary(query) {
		return SummaryQueryIntent{}
	}

	return parseTransaction(text, toks)
}

// parseTransaction matches "<name 1-4 tokens> <verb> <amount> [note]".
func parseTransaction(text string, toks []token) Intent {
	for i := 1; i <= maxNameTokens && i < len(toks); i++ {
		verbEnd := 0
		debt := false
		switch {
		case debtVerbs[toks[i].folded]:
			verbEnd = i + 1
			debt = true
		case creditVerbs[toks[i].folded]:
			verbEnd = i + 1
		case i+1 < len(toks) && toks[i].folded == creditVerbPair[0] && toks[i+1].folded == creditVerbPair[1]:
			verbEnd = i + 2
		default:
			continue
		}

		// A verb token not followed by a parsable amount may still be part
		// of the name ("Trà Vay nợ 50k"), so keep scanning.
		if verbEnd >= len(toks) {
			continue
		}
		amount, err := ParseAmount(toks[verbEnd].orig)
		if err != nil {
			continue
		}

		name := joinOrig(toks[:i])
		var note *string
		if verbEnd+1 < len(toks) {
			// Trailing free text is taken verbatim from the raw message.
			trailing := strings.TrimSpace(text[toks[verbEnd+1].start:])
			if trailing != "" {
				note = &trailing
			}
		}

		if debt {
			return DebtIntent{Name: name, Amount: amount, Note: note}
		}
		return CreditIntent{Name: name, Amount: amount, Note: note}
	}
	return Unrecognized{}
}

func matchSummary(toks []token) bool {
	for _, phrase := range summaryPhrases {
		if matchExact(toks, phrase) {
			return true
		}
	}
	return false
}

func matchHistory(toks []token) (string, bool) {
	for _, prefix := range historyPrefixes {
		if rest, ok := matchPrefix(toks, prefix); ok && nameLenOK(len(toks)-rest) {
			return joinOrig(toks[rest:]), true
		}
	}
	for _, suffix := range historySuffixes {
		cut := len(toks) - len(suffix)
		if nameLenOK(cut) && matchExact(toks[cut:], suffix) {
			return joinOrig(toks[:cut]), true
		}
	}
	return "", false
}

func matchBalance(toks []token) (string, bool) {
	for _, prefix := range balancePrefixes {
		if rest, ok := matchPrefix(toks, prefix); ok && nameLenOK(len(toks)-rest) {
			return joinOrig(toks[rest:]), true
		}
	}
	// "<name> [còn] nợ|dư bao nhiêu|mấy"
	for cut := 1; cut <= maxNameTokens && cut < len(toks); cut++ {
		rest := toks[cut:]
		if len(rest) > 0 && rest[0].folded == "con" {
			rest = rest[1:]
		}
		if len(rest) == 0 || (rest[0].folded != "no" && rest[0].folded != "du") {
			continue
		}
		rest = rest[1:]
		if matchExactFolded(rest, "bao", "nhieu") || matchExactFolded(rest, "baonhieu") ||
			matchExactFolded(rest, "may") {
			return joinOrig(toks[:cut]), true
		}
	}
	return "", false
}

func nameLenOK(n int) bool { return n >= 1 && n <= maxNameTokens }

func matchExact(toks []token, phrase []string) bool {
	if len(toks) != len(phrase) {
		return false
	}
	for i, p := range phrase {
		if toks[i].folded != p {
			return false
		}
	}
	return true
}

func matchExactFolded(toks []token, words ...string) bool {
	return matchExact(toks, words)
}

func matchPrefix(toks []token, prefix []string) (int, bool) {
	if len(toks) < len(prefix) {
		return 0, false
	}
	for i, p := range prefix {
		if toks[i].folded != p {
			return 0, false
		}
	}
	return len(prefix), true
}

func joinOrig(toks []token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.orig
	}
	return strings.Join(parts, " ")
}

// stripQuestionMarks removes trailing '?' runes from the final token, so
// "Duy nợ bao nhiêu?" matches the same as without the question mark.
func stripQuestionMarks(toks []token) []token {
	if len(toks) == 0 {
		return toks
	}
	out := make([]token, len(toks))
	copy(out, toks)
	last := &out[len(out)-1]
	last.orig = strings.TrimRight(last.orig, "?")
	last.folded = strings.TrimRight(last.folded, "?")
	if last.orig == "" {
		out = out[:len(out)-1]
	}
	return out
}

func tokenize(text string) []token {
	var toks []token
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				word := text[start:i]
				toks = append(toks, token{orig: word, folded: Fold(word), start: start})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		word := text[start:]
		toks = append(toks, token{orig: word, folded: Fold(word), start: start})
	}
	return toks
}
