package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/refileproj/refile/internal/ledger"
	"github.com/spf13/cobra"
)

var undoLedger string

// undoCmd represents the undo command
var undoCmd = &cobra.Command{
	Use:   "undo <output-dir>",
	Short: "Remove the files a previous organize run placed",
	Long: `Undo reads the placement ledger in the given output directory and
removes every file it recorded, newest first. Source files are never
touched; only copies made by refile are removed.

Example:
  refile undo ./sorted
  refile undo ./sorted --ledger /path/to/refile.db`,
	Args: cobra.ExactArgs(1),
	RunE: runUndo,
}

func init() {
	rootCmd.AddCommand(undoCmd)

	undoCmd.Flags().StringVar(&undoLedger, "ledger", "", "ledger database (default: <output-dir>/refile.db)")
}

func runUndo(cmd *cobra.Command, args []string) error {
	path := undoLedger
	if path == "" {
		path = filepath.Join(args[0], "refile.db")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no ledger at %s: %w", path, err)
	}

	led, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer led.Close()

	ctx := context.Background()
	placements, err := led.Placements(ctx)
	if err != nil {
		return err
	}
	if len(placements) == 0 {
		fmt.Println("Nothing to undo")
		return nil
	}

	fmt.Fprintf(os.Stderr, "Undoing %d placements from %s\n", len(placements), path)
	removed, err := led.Undo(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Removed %d of %d placed files\n", removed, len(placements))
	return nil
}
