package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/r2c-CSE/semgrep-ci-to-sms/internal/output"
	"github.com/r2c-CSE/semgrep-ci-to-sms/internal/semgrep"
	"github.com/r2c-CSE/semgrep-ci-to-sms/internal/sweep"
)

var strict bool

var (
	enableCmd = &cobra.Command{
		Use:   "enable",
		Short: "Enable managed scans on every project missing them",
		Long: `Enable Semgrep Managed Scans on every project in the deployment that
doesn't already have both diff and full scans enabled.

This is the same as running the tool with no subcommand. Individual
project failures are logged and do not stop the run; pass --strict to
exit nonzero when any project could not be enabled.`,
		RunE: runEnable,
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show managed-scan state for every project",
		Long: `Show a table of every project in the deployment with its diff-scan and
full-scan state.

This is a read-only operation - no PATCH requests are sent.`,
		RunE: runStatus,
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Show effective configuration",
		RunE:  runConfigShow,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Exit nonzero if any project failed to enable")
}

// newSemgrepClient builds the API client, or errors when no token is
// available from flags, config, or the environment.
func newSemgrepClient() (*semgrep.Client, error) {
	token := viper.GetString("api-token")
	if token == "" {
		return nil, fmt.Errorf("Semgrep API token not provided. Use --api-token flag or set SEMGREP_API_TOKEN environment variable")
	}
	return semgrep.NewClient(http.DefaultClient, token), nil
}

func runEnable(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, err := newSemgrepClient()
	if err != nil {
		return err
	}

	res, err := sweep.Run(ctx, client, ui, sweep.Options{
		DeploymentSlug: viper.GetString("deployment-slug"),
		DryRun:         viper.GetBool("dry-run"),
	})
	if err != nil {
		return err
	}

	ui.Info("Done: %d enabled, %d already enabled, %d failed, %d without details",
		res.Enabled, res.AlreadyEnabled, res.Failed, res.NoDetails)

	if strict && res.Failed > 0 {
		return fmt.Errorf("failed to enable SMS on %d project(s)", res.Failed)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, err := newSemgrepClient()
	if err != nil {
		return err
	}

	slug, err := sweep.ResolveDeployment(ctx, client, viper.GetString("deployment-slug"), ui)
	if err != nil {
		return err
	}

	projects, err := client.ListProjects(ctx, slug)
	if err != nil {
		return err
	}

	cls := sweep.Classify(ctx, client, slug, projects, ui)

	table := ui.Table([]string{"Project", "Diff scan", "Full scan", "SMS"})
	for _, row := range cls.Rows {
		sms := output.Yellow("missing")
		if row.Enabled() {
			sms = output.Green("enabled")
		}
		table.Append([]string{
			row.Name,
			toggleLabel(row.DiffScan),
			toggleLabel(row.FullScan),
			sms,
		})
	}
	if err := table.Render(); err != nil {
		return err
	}

	if cls.NoDetails > 0 {
		ui.Warning("%d project(s) without details not shown", cls.NoDetails)
	}
	return nil
}

func toggleLabel(on bool) string {
	if on {
		return output.Green("on")
	}
	return output.Red("off")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	settings := viper.AllSettings()

	// Never print the token itself
	if _, ok := settings["api-token"]; ok {
		if viper.GetString("api-token") != "" {
			settings["api-token"] = "<redacted>"
		}
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}

	if viper.ConfigFileUsed() != "" {
		ui.Info("Using config file: %s", viper.ConfigFileUsed())
	}
	fmt.Fprint(ui.Out, string(data))
	return nil
}
