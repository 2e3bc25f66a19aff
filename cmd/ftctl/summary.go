package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/boddenberg/finance-tracker/internal/domain"
	"github.com/boddenberg/finance-tracker/internal/finance"

	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the monthly dashboard for a user",
		Long: `Print income, expenses, savings, the budget split, loans, the fund
portfolio and goals for one month.

Examples:
  ftctl summary --user 6f1c... --month 2024-05
  ftctl summary --user 6f1c... --today 2024-05-15`,
		Args: cobra.NoArgs,
		RunE: runSummary,
	}

	cmd.Flags().String("user", "", "user id (Supabase auth uid)")
	cmd.Flags().String("month", "", "month as YYYY-MM (default: month of --today)")
	cmd.Flags().String("today", "", "evaluate as of this date, YYYY-MM-DD (default: now)")
	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	user, err := requiredUser(cmd)
	if err != nil {
		return err
	}

	var month domain.Month
	if v, _ := cmd.Flags().GetString("month"); v != "" {
		if month, err = domain.ParseMonth(v); err != nil {
			return err
		}
	}

	today, _ := cmd.Flags().GetString("today")
	a, err := openApp(cmd, today)
	if err != nil {
		return err
	}
	defer a.close()

	summary, err := a.svc.Dashboard(cmd.Context(), user, month)
	if err != nil {
		return err
	}
	return printSummary(cmd.OutOrStdout(), summary)
}

func printSummary(out io.Writer, s *domain.MonthlySummary) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Month\t%s\t(%s to %s)\n", s.Month, s.Range.From, s.Range.To)
	fmt.Fprintf(w, "Income\t%s\t\n", s.TotalIncome.StringFixed(2))
	fmt.Fprintf(w, "Expenses\t%s\tfixed %s, variable %s\n", s.TotalExpenses.StringFixed(2), s.FixedExpenses.StringFixed(2), s.VariableExpenses.StringFixed(2))
	fmt.Fprintf(w, "Monthly SIP\t%s\t\n", s.TotalMonthlySIP.StringFixed(2))
	fmt.Fprintf(w, "Savings left\t%s\t%.1f%% of income\n", s.SavingsLeft.StringFixed(2), finance.Round(s.SavingsRatePct, 1))
	fmt.Fprintln(w, "\t\t")

	fmt.Fprintln(w, "Budget\tactual\ttarget")
	for _, b := range []struct {
		name string
		band domain.BudgetBand
	}{
		{"Needs", s.Budget.Needs},
		{"Wants", s.Budget.Wants},
		{"Investments", s.Budget.Investments},
		{"Savings", s.Budget.Savings},
	} {
		mark := ""
		if !b.band.WithinTarget {
			mark = " !"
		}
		fmt.Fprintf(w, "  %s\t%.1f%%%s\t%.0f-%.0f%%\n", b.name, finance.Round(b.band.Pct, 1), mark, b.band.TargetMin, b.band.TargetMax)
	}
	fmt.Fprintln(w, "\t\t")

	if len(s.Expenses.TopCategories) > 0 {
		fmt.Fprintln(w, "Top spending\t\t")
		for _, c := range s.Expenses.TopCategories {
			fmt.Fprintf(w, "  %s\t%s\t\n", c.Key, c.Total.StringFixed(2))
		}
		fmt.Fprintln(w, "\t\t")
	}

	fmt.Fprintf(w, "Loans\tEMI %s\toutstanding %s, debt-to-income %.1f%%\n",
		s.Loans.TotalEMI.StringFixed(2), s.Loans.TotalOutstanding.StringFixed(2), finance.Round(s.Loans.DebtToIncomePct, 1))
	fmt.Fprintf(w, "Portfolio\tvalue %s\tinvested %s, returns %s (%.2f%%)\n",
		s.Portfolio.TotalCurrentValue.StringFixed(2), s.Portfolio.TotalInvested.StringFixed(2),
		s.Portfolio.Returns.StringFixed(2), finance.Round(s.Portfolio.ReturnsPct, 2))
	fmt.Fprintf(w, "Goals\t%d\tsaved %s of %s\n",
		len(s.Goals.Goals), s.Goals.TotalSaved.StringFixed(2), s.Goals.TotalTarget.StringFixed(2))

	return w.Flush()
}
