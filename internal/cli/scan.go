package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan <image>",
	Short: "Extract fields from a receipt image and save the record",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	rec, err := a.svc.ProcessUpload(cmd.Context(), flagEmail, filepath.Base(path), data)
	if err != nil {
		return err
	}

	fmt.Printf("Saved receipt %s\n", rec.ID)
	fmt.Printf("  Vendor:   %s\n", rec.Vendor)
	fmt.Printf("  Amount:   %.2f %s\n", rec.Amount, rec.Currency)
	fmt.Printf("  Date:     %s\n", rec.Date)
	fmt.Printf("  Category: %s\n", rec.Category)
	fmt.Printf("  Tax:      %.2f\n", rec.Tax)
	return nil
}
