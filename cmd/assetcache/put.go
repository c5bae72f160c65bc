package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/assetcache/assetcache/internal/errutil"
	"github.com/assetcache/assetcache/internal/manifest"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var putCmd = &cobra.Command{
	Use:   "put <key> [file]",
	Short: "Store a file (or stdin) under a cache key",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]

		cache, err := openCache()
		if err != nil {
			errutil.ReportError(err, "Failed to open cache")
			os.Exit(1)
		}

		var in io.Reader = os.Stdin
		total := int64(-1)
		if len(args) == 2 {
			file, err := os.Open(args[1])
			if err != nil {
				errutil.ReportError(err, "Failed to open input file")
				os.Exit(1)
			}
			defer func() {
				errutil.LogMsg(file.Close(), "Failed to close input file")
			}()
			if info, err := file.Stat(); err == nil {
				total = info.Size()
			}
			in = file
		}

		bar := progressbar.NewOptions64(
			total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("storing"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(10),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionOnCompletion(func() {
				if _, err := fmt.Fprint(os.Stderr, "\n"); err != nil {
					errutil.LogMsg(err, "Failed to print newline to stderr")
				}
			}),
		)

		if err := cache.Save(key, io.TeeReader(in, bar)); err != nil {
			errutil.ReportError(err, "Failed to store entry", "key", key)
			os.Exit(1)
		}

		uri, err := cmd.Flags().GetString("uri")
		if err != nil {
			errutil.ReportError(err, "Failed to get uri flag")
			os.Exit(1)
		}
		if uri != "" {
			manifestPath := viper.GetString("manifest")
			if manifestPath == "" {
				errutil.ReportError(fmt.Errorf("--uri given but no manifest configured"), "Cannot record source URI")
				os.Exit(1)
			}
			db, err := manifest.Open(manifestPath)
			if err != nil {
				errutil.ReportError(err, "Failed to open manifest")
				os.Exit(1)
			}
			defer func() {
				errutil.LogMsg(db.Close(), "Failed to close manifest")
			}()
			if err := db.Record(cmd.Context(), map[string]string{uri: key}); err != nil {
				errutil.ReportError(err, "Failed to record source URI", "uri", uri)
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
	putCmd.Flags().String("uri", "", "Source URI to record in the manifest")
}
