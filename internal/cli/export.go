package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the expense spreadsheet to a file",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "output", "o", "", "Output path (default <export dir>/expenses_YYYYMM.xlsx)")
}

// defaultExportPath names the workbook by the month it was exported in,
// under the configured export directory.
func defaultExportPath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("expenses_%s.xlsx", now.Format("200601")))
}

func runExport(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	user, err := a.users.GetOrCreateByEmail(cmd.Context(), flagEmail)
	if err != nil {
		return err
	}

	rows, err := a.svc.ExportRows(cmd.Context(), user.ID)
	if err != nil {
		return err
	}

	data, err := a.exporter.BuildWorkbook(rows)
	if err != nil {
		return err
	}

	out := flagExportOut
	if out == "" {
		if err := os.MkdirAll(a.cfg.Upload.ExportDir, 0o750); err != nil {
			return fmt.Errorf("creating export dir: %w", err)
		}
		out = defaultExportPath(a.cfg.Upload.ExportDir, time.Now())
	}
	if err := os.WriteFile(out, data, 0o640); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	fmt.Printf("Wrote %d receipts to %s\n", len(rows), out)
	return nil
}
