package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/boddenberg/finance-tracker/internal/domain"
	"github.com/boddenberg/finance-tracker/internal/finance"

	"github.com/spf13/cobra"
)

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Print each goal's projection and status",
		Args:  cobra.NoArgs,
		RunE:  runGoals,
	}

	cmd.Flags().String("user", "", "user id (Supabase auth uid)")
	cmd.Flags().String("today", "", "evaluate as of this date, YYYY-MM-DD (default: now)")
	return cmd
}

func runGoals(cmd *cobra.Command, _ []string) error {
	user, err := requiredUser(cmd)
	if err != nil {
		return err
	}

	today, _ := cmd.Flags().GetString("today")
	a, err := openApp(cmd, today)
	if err != nil {
		return err
	}
	defer a.close()

	book, err := a.svc.Goals(cmd.Context(), user)
	if err != nil {
		return err
	}
	return printGoals(cmd.OutOrStdout(), book)
}

func printGoals(out io.Writer, book *domain.GoalBook) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "GOAL\tTARGET DATE\tSAVED\tTARGET\tPROGRESS\tMONTHS\tREQUIRED/MO\tSTATUS")
	for _, g := range book.Goals {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f%%\t%d\t%s\t%s\n",
			g.GoalName,
			g.TargetDate,
			g.CurrentSaved.StringFixed(2),
			g.TargetAmount.StringFixed(2),
			finance.Round(g.ProgressPct, 1),
			g.MonthsRemaining,
			g.RequiredMonthly.StringFixed(2),
			g.Status,
		)
	}
	fmt.Fprintf(w, "TOTAL\t\t%s\t%s\t\t\t%s\t\n",
		book.TotalSaved.StringFixed(2), book.TotalTarget.StringFixed(2), book.TotalMonthlyContribution.StringFixed(2))

	return w.Flush()
}
