package main

import (
	"fmt"
	"os"

	"github.com/assetcache/assetcache/internal/errutil"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show entry count, total size and limit",
	Run: func(cmd *cobra.Command, args []string) {
		cache, err := openCache()
		if err != nil {
			errutil.ReportError(err, "Failed to open cache")
			os.Exit(1)
		}

		<-cache.Ready()

		fmt.Printf("dir:     %s\n", cache.Directory())
		fmt.Printf("entries: %d\n", cache.Len())
		fmt.Printf("size:    %s\n", humanize.Bytes(uint64(cache.Size())))
		fmt.Printf("limit:   %s\n", humanize.Bytes(uint64(cache.Limit())))
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
