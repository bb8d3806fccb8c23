package analytics

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/analytics"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ThirteenthRank is the month rank of the 13th salary; it sorts after December.
const ThirteenthRank = 13

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// monthTokens is keyed by folded (lowercase, accent-free) tokens.
var monthTokens = map[string]int{
	"janeiro": 1, "jan": 1, "january": 1,
	"fevereiro": 2, "fev": 2, "february": 2, "feb": 2,
	"marco": 3, "mar": 3, "march": 3,
	"abril": 4, "abr": 4, "april": 4, "apr": 4,
	"maio": 5, "mai": 5, "may": 5,
	"junho": 6, "jun": 6, "june": 6,
	"julho": 7, "jul": 7, "july": 7,
	"agosto": 8, "ago": 8, "august": 8, "aug": 8,
	"setembro": 9, "set": 9, "september": 9, "sep": 9, "sept": 9,
	"outubro": 10, "out": 10, "october": 10, "oct": 10,
	"novembro": 11, "nov": 11, "november": 11,
	"dezembro": 12, "dez": 12, "december": 12, "dec": 12,

	"13": ThirteenthRank, "13o": ThirteenthRank, "13th": ThirteenthRank,
	"13 salario": ThirteenthRank, "13o salario": ThirteenthRank,
	"decimo terceiro": ThirteenthRank, "decimo terceiro salario": ThirteenthRank,
}

var ordinalMarks = strings.NewReplacer("º", "o", "°", "o", "ª", "a")

// foldToken lowercases s, strips diacritics and collapses inner whitespace.
func foldToken(s string) string {
	s = ordinalMarks.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// MonthRank maps a month token to 1-12, 13 for the 13th salary, or 0 when
// the token is not recognized.
func MonthRank(token string) int {
	return monthTokens[foldToken(token)]
}

// ParsePeriod splits "<Month>/<Year>" at the last slash. A missing or
// non-numeric year parses as 0 and an unknown month as rank 0; it never fails.
func ParsePeriod(label string) analytics.Period {
	idx := strings.LastIndex(label, "/")
	if idx < 0 {
		return analytics.Period{MonthRank: MonthRank(label)}
	}

	year, err := strconv.Atoi(strings.TrimSpace(label[idx+1:]))
	if err != nil {
		year = 0
	}
	return analytics.Period{Year: year, MonthRank: MonthRank(label[:idx])}
}

// PeriodLabel builds the canonical label for month (1-13) and year.
func PeriodLabel(month, year int) string {
	if month == ThirteenthRank {
		return fmt.Sprintf("13º/%d", year)
	}
	if month < 1 || month > len(monthNames) {
		return fmt.Sprintf("%d/%d", month, year)
	}
	return fmt.Sprintf("%s/%d", monthNames[month-1], year)
}

// SamePeriod reports whether two labels denote the same period. Labels with
// unrecognized months only match when their folded text is identical.
func SamePeriod(a, b string) bool {
	pa, pb := ParsePeriod(a), ParsePeriod(b)
	if pa.Known() && pb.Known() {
		return pa == pb
	}
	return foldToken(a) == foldToken(b)
}
