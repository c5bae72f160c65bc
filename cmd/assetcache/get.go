package main

import (
	"fmt"
	"io"
	"os"

	"github.com/assetcache/assetcache/internal/errutil"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Stream a cached entry to stdout or a file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		key := args[0]

		cache, err := openCache()
		if err != nil {
			errutil.ReportError(err, "Failed to open cache")
			os.Exit(1)
		}

		path, ok := cache.Get(key)
		if !ok {
			if _, err := fmt.Fprintf(os.Stderr, "not cached: %s\n", key); err != nil {
				errutil.LogMsg(err, "Failed to print to stderr")
			}
			os.Exit(1)
		}

		file, err := os.Open(path)
		if err != nil {
			errutil.ReportError(err, "Failed to open cached entry", "path", path)
			os.Exit(1)
		}
		defer func() {
			errutil.LogMsg(file.Close(), "Failed to close cached entry")
		}()

		output, err := cmd.Flags().GetString("output")
		if err != nil {
			errutil.ReportError(err, "Failed to get output flag")
			os.Exit(1)
		}

		var out io.Writer = os.Stdout
		if output != "" {
			dest, err := os.Create(output)
			if err != nil {
				errutil.ReportError(err, "Failed to create output file")
				os.Exit(1)
			}
			defer func() {
				errutil.LogMsg(dest.Close(), "Failed to close output file")
			}()
			out = dest
		}

		if _, err := io.Copy(out, file); err != nil {
			errutil.ReportError(err, "Failed to copy cached entry", "key", key)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
}
