package main

import (
	"fmt"
	"os"

	"github.com/assetcache/assetcache/internal/errutil"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var gcCmd = &cobra.Command{
	Use:   "gc",
	Short: "Trim the cache back under its size limit",
	Run: func(cmd *cobra.Command, args []string) {
		cache, err := openCache()
		if err != nil {
			errutil.ReportError(err, "Failed to open cache")
			os.Exit(1)
		}

		<-cache.Ready()

		before := cache.Size()
		cache.TrimToLimit()
		freed := before - cache.Size()

		fmt.Printf("freed %s, cache now %s of %s\n",
			humanize.Bytes(uint64(freed)),
			humanize.Bytes(uint64(cache.Size())),
			humanize.Bytes(uint64(cache.Limit())))
	},
}

func init() {
	rootCmd.AddCommand(gcCmd)
}
