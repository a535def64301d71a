package nlp

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Due-date expressions accepted inside a transaction note, with and without
// diacritics: "trong 5 ngày", "3 tuần nữa", "hạn 2 ngày", "25/12/2024",
// "25/12", "ngày mai", "hôm nay".
var (
	relativeDueRe = regexp.MustCompile(`(?i)(?:trong|hạn|han|deadline)\s+(\d+)\s+(ngày|ngay|tuần|tuan|tháng|thang)`)
	suffixDueRe   = regexp.MustCompile(`(?i)(\d+)\s+(ngày|ngay|tuần|tuan)\s+(?:nữa|nua)`)
	bareDueRe     = regexp.MustCompile(`(?i)^(\d+)\s+(ngày|ngay|tuần|tuan)$`)
	fullDateRe    = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{4})`)
	shortDateRe   = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})`)
	tomorrowRe    = regexp.MustCompile(`(?i)\b(?:ngày\s+mai|ngay\s+mai|mai)\b`)
	todayRe       = regexp.MustCompile(`(?i)\b(?:hôm\s+nay|hom\s+nay)\b`)
)

// ParseDueDate parses a standalone Vietnamese date expression. Returns nil
// when nothing matches.
func ParseDueDate(text string, now time.Time) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if todayRe.MatchString(text) {
		return timePtr(midnight(now))
	}
	if m := relativeDueRe.FindStringSubmatch(text); m != nil {
		return addUnit(now, m[1], m[2])
	}
	if m := suffixDueRe.FindStringSubmatch(text); m != nil {
		return addUnit(now, m[1], m[2])
	}
	if m := bareDueRe.FindStringSubmatch(text); m != nil {
		return addUnit(now, m[1], m[2])
	}
	if m := fullDateRe.FindStringSubmatch(text); m != nil {
		return absoluteDate(m[1], m[2], m[3], now)
	}
	if loc := shortDateRe.FindStringSubmatchIndex(text); loc != nil && !partOfFullDate(text, loc) {
		m := shortDateRe.FindStringSubmatch(text)
		return absoluteDate(m[1], m[2], "", now)
	}
	if tomorrowRe.MatchString(text) {
		return timePtr(midnight(now).AddDate(0, 0, 1))
	}
	return nil
}

// ExtractDueDate finds the first due-date expression inside a note, removes
// it and returns the cleaned note together with the parsed date. The cleaned
// note may be empty when the note was only a due date.
func ExtractDueDate(note string, now time.Time) (string, *time.Time) {
	patterns := []*regexp.Regexp{
		relativeDueRe, suffixDueRe, fullDateRe, shortDateRe, tomorrowRe, todayRe,
	}
	for _, re := range patterns {
		loc := re.FindStringIndex(note)
		if loc == nil {
			continue
		}
		if re == shortDateRe && partOfFullDate(note, loc) {
			continue
		}
		due := ParseDueDate(note[loc[0]:loc[1]], now)
		if due == nil {
			continue
		}
		cleaned := strings.TrimSpace(strings.Join(strings.Fields(note[:loc[0]]+" "+note[loc[1]:]), " "))
		return cleaned, due
	}
	return strings.TrimSpace(note), nil
}

// partOfFullDate reports whether a dd/mm match is the head of a dd/mm/yyyy
// expression and should be left to the full-date pattern.
func partOfFullDate(text string, loc []int) bool {
	rest := text[loc[1]:]
	return len(rest) >= 2 && (rest[0] == '/' || rest[0] == '-') && rest[1] >= '0' && rest[1] <= '9'
}

func addUnit(now time.Time, amountStr, unit string) *time.Time {
	amount, err := strconv.Atoi(amountStr)
	if err != nil {
		return nil
	}
	base := midnight(now)
	switch Fold(unit) {
	case "ngay":
		return timePtr(base.AddDate(0, 0, amount))
	case "tuan":
		return timePtr(base.AddDate(0, 0, amount*7))
	case "thang":
		return timePtr(base.AddDate(0, 0, amount*30))
	}
	return nil
}

func absoluteDate(dayStr, monthStr, yearStr string, now time.Time) *time.Time {
	day, _ := strconv.Atoi(dayStr)
	month, _ := strconv.Atoi(monthStr)
	year := now.Year()
	if yearStr != "" {
		year, _ = strconv.Atoi(yearStr)
	}
	if month < 1 || month > 12 || day < 1 {
		return nil
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	if d.Day() != day || d.Month() != time.Month(month) {
		return nil // e.g. 31/02 normalized away by time.Date
	}
	// A short date that already passed this year means next year.
	if yearStr == "" && d.Before(midnight(now)) {
		d = d.AddDate(1, 0, 0)
	}
	return &d
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func timePtr(t time.Time) *time.Time { return &t }
