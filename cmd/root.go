package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/brogergvhs/mangafox/internal/config"

	"github.com/spf13/cobra"
)

var (
	flagIgnoreConfig bool
	flagDebug        bool
	flagBaseURL      string
	flagEnvFile      string

	// headers/auth
	flagCookie     string
	flagCookieFile string
	flagUserAgent  string
	flagCloudflare bool
)

var rootCmd = &cobra.Command{
	Use:           "mangafox",
	Short:         "Search, list and download manga from MangaFox",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagIgnoreConfig, "ignore-config", false, "ignore config files and MANGAFOX_* variables, use only CLI flags")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "load MANGAFOX_* variables from a .env file")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "site root (default "+config.DefaultBaseURL+")")

	rootCmd.PersistentFlags().StringVar(&flagCookie, "cookie", "", "cookie string, e.g. \"key=value; other=123\"")
	rootCmd.PersistentFlags().StringVar(&flagCookieFile, "cookie-file", "", "path to a text file with cookies (one header line)")
	rootCmd.PersistentFlags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
	rootCmd.PersistentFlags().BoolVar(&flagCloudflare, "cloudflare", false, "use a Cloudflare-friendly transport")
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
