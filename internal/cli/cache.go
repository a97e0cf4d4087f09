package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/refileproj/refile/internal/cache"
	"github.com/spf13/cobra"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the text-rendition cache",
	Long: `The rendition cache holds the plain-text conversions produced while
inferring dates and titles. Reusing it across runs (with --cache-dir)
skips the expensive conversion and OCR steps. Files named <key>_ocr.txt
placed there by hand are picked up as pre-computed OCR results.`,
}

var cacheShowCmd = &cobra.Command{
	Use:   "show <dir>",
	Short: "List the renditions in a cache directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("read cache dir: %w", err)
		}

		count := 0
		var total int64
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			count++
			total += info.Size()
			if verbose {
				fmt.Printf("%8d  %s\n", info.Size(), filepath.Join(dir, e.Name()))
			}
		}
		fmt.Printf("%d renditions, %d bytes in %s\n", count, total, dir)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear <dir>",
	Short: "Delete a cache directory created by refile",
	Long: `Delete a rendition cache directory and everything in it.

Only directories created by refile itself are removed; they carry a marker
file stamped at creation. A directory supplied with --cache-dir is owned
by the caller and refused.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("stat cache dir: %w", err)
		}
		if !cache.OwnedDir(dir) {
			return fmt.Errorf("%s was not created by refile; delete it yourself if you are sure", dir)
		}

		store, err := cache.NewStore(dir, true, 0)
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Printf("✓ Removed %s\n", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
