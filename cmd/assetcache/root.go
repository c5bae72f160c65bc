package main

import (
	"fmt"
	"os"

	"github.com/assetcache/assetcache"
	"github.com/assetcache/assetcache/internal/errutil"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "assetcache",
	Short: "A size-bounded persistent file cache",
	Long: `assetcache manages a directory of cached assets, evicting the least
recently used entries once the directory grows past a size limit.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if _, printErr := fmt.Fprintln(os.Stderr, err); printErr != nil {
			errutil.ReportError(printErr, "Failed to print error to stderr")
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("cache-dir", "./cache", "Directory holding cached assets")
	rootCmd.PersistentFlags().String("size-limit", "1GB", "Total size the cache may occupy (e.g. 500MB)")
	rootCmd.PersistentFlags().String("manifest", "", "Path to the sqlite asset manifest (empty disables it)")

	viper.BindPFlag("cache-dir", rootCmd.PersistentFlags().Lookup("cache-dir"))
	viper.BindPFlag("size-limit", rootCmd.PersistentFlags().Lookup("size-limit"))
	viper.BindPFlag("manifest", rootCmd.PersistentFlags().Lookup("manifest"))
}

func initConfig() {
	viper.SetEnvPrefix("ASSETCACHE")
	viper.AutomaticEnv()
}

// openCache builds the limited cache from the global flags.
func openCache() (*assetcache.LimitedCache, error) {
	limitStr := viper.GetString("size-limit")
	limit, err := humanize.ParseBytes(limitStr)
	if err != nil {
		return nil, fmt.Errorf("invalid size limit %q: %w", limitStr, err)
	}
	return assetcache.NewLimitedCache(viper.GetString("cache-dir"), int64(limit))
}
