package report

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/payroll"
	analyticsService "github.com/cmlabs-hris/payroll-dashboard-go/internal/service/analytics"
)

const promptInstructions = `You are a financial analyst writing for the owner of a small business.
Write a short report in Portuguese about the payroll history below.
Use "# " for the title, "## " for section headings, "- " for bullet points
and "> " for one key takeaway. Do not use tables.
Cover the overall cost trend, the biggest month-over-month changes, the mix
between effective (CLT), contracted (PJ) and commissioned staff, and one
practical recommendation.`

// BuildPrompt renders the payroll history of a company as an instruction
// prompt. Records are described in chronological order.
func BuildPrompt(companyName string, records []payroll.PayrollRecord) string {
	var b strings.Builder

	b.WriteString(promptInstructions)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Company: %s\n", companyName)

	totals := analyticsService.GrandTotal(records)
	fmt.Fprintf(&b, "Periods: %d\n", len(records))
	fmt.Fprintf(&b, "Accumulated headcount: %d\n", totals.TotalHeadcount)
	fmt.Fprintf(&b, "Accumulated cost: %s\n\n", totals.TotalValue.StringFixed(2))

	b.WriteString("Period | Effective (qty/value) | Contracted (qty/value) | Commissioned (qty/value) | Headcount | Total | Var. qty | Var. value\n")
	table := analyticsService.Consolidate(records)
	for _, row := range table.Rows {
		fmt.Fprintf(&b, "%s | %d/%s | %d/%s | %d/%s | %d | %s | %s | %s\n",
			row.PeriodLabel,
			row.Effective.Count, row.Effective.Value.StringFixed(2),
			row.Contracted.Count, row.Contracted.Value.StringFixed(2),
			row.Commissioned.Count, row.Commissioned.Value.StringFixed(2),
			row.Headcount,
			row.TotalValue.StringFixed(2),
			analyticsService.FormatPercent(row.VarQtyPct),
			analyticsService.FormatPercent(row.VarValPct),
		)
	}

	if n := len(table.Rows); n >= 2 {
		first, last := table.Rows[0], table.Rows[n-1]
		change := analyticsService.PercentChange(first.TotalValue, last.TotalValue)
		fmt.Fprintf(&b, "\nChange from %s to %s: %s\n", first.PeriodLabel, last.PeriodLabel, analyticsService.FormatPercent(&change))
	}

	return b.String()
}
