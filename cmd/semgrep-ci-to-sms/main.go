package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/r2c-CSE/semgrep-ci-to-sms/internal/output"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfgFile string
	ui      *output.UI

	rootCmd = &cobra.Command{
		Use:   "semgrep-ci-to-sms",
		Short: "Enable Semgrep Managed Scans across a deployment",
		Long: `Enable Semgrep Managed Scans (SMS) for all projects in a deployment
that don't already have SMS enabled.

The tool lists every project in the deployment, checks which ones have
both diff scans and full scans managed by Semgrep, and sends a PATCH to
turn both on for the rest. Projects that already have SMS are skipped.

Run with --dry-run to see what would be changed without sending any
PATCH requests.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runEnable,
	}
)

func init() {
	cobra.OnInitialize(initConfig, initUI)

	rootCmd.Version = version

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/semgrep-ci-to-sms/config.yaml)")
	rootCmd.PersistentFlags().String("api-token", "", "Semgrep API token (defaults to SEMGREP_API_TOKEN env var)")
	rootCmd.PersistentFlags().String("deployment-slug", "", "Deployment slug (e.g. 'acme-corp'); auto-detected from /deployments when omitted")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Do not send PATCH requests, only print what would be done")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	// Bind flags to viper
	viper.BindPFlag("api-token", rootCmd.PersistentFlags().Lookup("api-token"))
	viper.BindPFlag("deployment-slug", rootCmd.PersistentFlags().Lookup("deployment-slug"))
	viper.BindPFlag("dry-run", rootCmd.PersistentFlags().Lookup("dry-run"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Subcommands
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(filepath.Join(home, ".config", "semgrep-ci-to-sms"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Bind environment variables
	viper.SetEnvPrefix("SEMGREP_CI_TO_SMS")
	viper.AutomaticEnv()

	// Also check for SEMGREP_API_TOKEN specifically
	viper.BindEnv("api-token", "SEMGREP_API_TOKEN")

	// Read config file if it exists
	_ = viper.ReadInConfig()
}

func initUI() {
	ui = output.New()
	ui.Verbose = viper.GetBool("verbose")
	ui.DryRun = viper.GetBool("dry-run")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
