package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/boddenberg/finance-tracker/internal/infra/ofx"

	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx FILE",
		Short: "Import an OFX/QFX statement as income and expenses",
		Long: `Import a bank or credit-card statement exported as OFX or QFX.

Credits become income (source = payee). Debits become Variable/Other
expenses with the payment method taken from the transaction type. Each line
is validated like a record entered through the API. Lines are matched by
account and transaction id, so re-importing a statement skips what is
already stored.

Examples:
  ftctl import-ofx ~/Downloads/hdfc_may.ofx --user 6f1c... --account "HDFC Savings"
  ftctl import-ofx statement.qfx --user 6f1c... --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().String("user", "", "user id (Supabase auth uid)")
	cmd.Flags().String("account", "", "account name for income entries (default: OFX account id)")
	cmd.Flags().BoolP("dry-run", "d", false, "validate without saving")
	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	user, err := requiredUser(cmd)
	if err != nil {
		return err
	}
	account, _ := cmd.Flags().GetString("account")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open statement: %w", err)
	}
	defer f.Close()

	st, err := ofx.Parse(f, ofx.Options{Account: account})
	if err != nil {
		return err
	}

	a, err := openApp(cmd, "")
	if err != nil {
		return err
	}
	defer a.close()

	res, err := a.svc.ImportStatement(cmd.Context(), user, st, dryRun)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	verb := "Imported"
	if dryRun {
		verb = "Would import"
	}
	fmt.Fprintf(out, "%s %d income and %d expense entries from %s (accounts: %s)\n",
		verb, res.Income, res.Expenses, args[0], strings.Join(st.Accounts, ", "))
	if res.Skipped > 0 {
		fmt.Fprintf(out, "Skipped %d zero-amount lines\n", res.Skipped)
	}
	if res.Duplicates > 0 {
		fmt.Fprintf(out, "Skipped %d already imported lines\n", res.Duplicates)
	}
	for _, p := range res.Rejected {
		fmt.Fprintf(out, "Rejected %s: %s\n", p.FITID, p.Reason)
	}
	return nil
}
