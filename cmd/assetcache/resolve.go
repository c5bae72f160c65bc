package main

import (
	"fmt"
	"os"

	"github.com/assetcache/assetcache/internal/errutil"
	"github.com/assetcache/assetcache/internal/manifest"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <uri>",
	Short: "Look a source URI up in the asset manifest",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		uri := args[0]

		manifestPath := viper.GetString("manifest")
		if manifestPath == "" {
			errutil.ReportError(fmt.Errorf("no manifest configured"), "Cannot resolve URI")
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

		key, found, err := db.Resolve(cmd.Context(), uri)
		if err != nil {
			errutil.ReportError(err, "Failed to resolve URI", "uri", uri)
			os.Exit(1)
		}
		if !found {
			if _, err := fmt.Fprintf(os.Stderr, "not recorded: %s\n", uri); err != nil {
				errutil.LogMsg(err, "Failed to print to stderr")
			}
			os.Exit(1)
		}

		fmt.Println(key)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
