package main

import (
	"fmt"
	"os"

	"github.com/assetcache/assetcache/internal/errutil"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <key>",
	Short: "Evict a single entry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]

		cache, err := openCache()
		if err != nil {
			errutil.ReportError(err, "Failed to open cache")
			os.Exit(1)
		}

		if !cache.Remove(key) {
			if _, err := fmt.Fprintf(os.Stderr, "not cached: %s\n", key); err != nil {
				errutil.LogMsg(err, "Failed to print to stderr")
			}
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
