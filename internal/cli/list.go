package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the account dashboard",
	RunE:  runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	user, err := a.users.GetOrCreateByEmail(cmd.Context(), flagEmail)
	if err != nil {
		return err
	}

	dash, err := a.svc.Dashboard(cmd.Context(), user.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s plan, %d receipts)\n\n", dash.User.Email, dash.User.Plan, dash.User.ReceiptCount)
	if len(dash.Receipts) == 0 {
		fmt.Println("No receipts yet. Try: receiptly scan <image>")
		return nil
	}
	fmt.Printf("%-12s %-32s %10s %-5s %-14s %8s\n", "DATE", "VENDOR", "AMOUNT", "CUR", "CATEGORY", "TAX")
	for _, r := range dash.Receipts {
		fmt.Printf("%-12s %-32s %10.2f %-5s %-14s %8.2f\n",
			r.Date, truncate(r.Vendor, 32), r.Amount, r.Currency, r.Category, r.Tax)
	}
	fmt.Printf("\nTotal: %.2f  Tax: %.2f\n", dash.TotalAmount, dash.TotalTax)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
