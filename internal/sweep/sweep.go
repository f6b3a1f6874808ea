// Package sweep drives the enable pass: resolve a deployment, list its
// projects, classify each by managed-scan state, and enable managed
// scans on the ones missing it. Strictly sequential, one request at a
// time; per-project failures are logged and the pass continues.
package sweep

import (
	"context"
	"fmt"

	"github.com/r2c-CSE/semgrep-ci-to-sms/internal/output"
	"github.com/r2c-CSE/semgrep-ci-to-sms/internal/semgrep"
)

// API is the slice of the Semgrep client the sweep needs. Satisfied by
// *semgrep.Client; faked in tests.
type API interface {
	ListDeployments(ctx context.Context) ([]semgrep.Deployment, error)
	ListProjects(ctx context.Context, deploymentSlug string) ([]semgrep.Project, error)
	GetProject(ctx context.Context, deploymentSlug, projectName string) (*semgrep.Project, error)
	ManagedScanEndpoint(deploymentSlug, projectName string) string
	EnableManagedScan(ctx context.Context, deploymentSlug, projectName string) error
}

// Options configures a sweep run.
type Options struct {
	// DeploymentSlug, when set, skips deployment auto-resolution.
	DeploymentSlug string
	// DryRun suppresses PATCH calls and logs what would be sent.
	DryRun bool
}

// ProjectStatus is one project's managed-scan state as observed on the
// detail endpoint.
type ProjectStatus struct {
	Name     string
	DiffScan bool
	FullScan bool
}

// Enabled reports whether the project already has managed scans fully
// on (both sub-flags).
func (s ProjectStatus) Enabled() bool {
	return s.DiffScan && s.FullScan
}

// Classification is the outcome of the read-only pass over a
// deployment's projects.
type Classification struct {
	// Rows holds one entry per project whose details could be fetched,
	// in the order the list endpoint returned them.
	Rows []ProjectStatus
	// NoDetails counts projects skipped because the detail fetch
	// failed or the project object carried no usable name.
	NoDetails int
}

// ToEnable returns the names of projects missing managed scans.
func (c *Classification) ToEnable() []string {
	var names []string
	for _, r := range c.Rows {
		if !r.Enabled() {
			names = append(names, r.Name)
		}
	}
	return names
}

// Result summarizes a full sweep run.
type Result struct {
	Deployment     string
	Total          int
	AlreadyEnabled int
	Enabled        int
	Failed         int
	NoDetails      int
}

// ResolveDeployment picks the deployment to operate on. An explicit
// slug is used unchanged; otherwise the first deployment returned by
// the API is selected, with a warning when there are several.
func ResolveDeployment(ctx context.Context, api API, explicitSlug string, ui *output.UI) (string, error) {
	if explicitSlug != "" {
		ui.Info("Using provided deployment slug: %s", explicitSlug)
		return explicitSlug, nil
	}

	deployments, err := api.ListDeployments(ctx)
	if err != nil {
		return "", err
	}
	if len(deployments) == 0 {
		return "", fmt.Errorf("no deployments found for this token")
	}
	if len(deployments) > 1 {
		ui.Warning("Multiple deployments found; using the first one. " +
			"If this is not what you want, pass --deployment-slug explicitly.")
	}

	chosen := deployments[0]
	if chosen.Slug == "" {
		return "", fmt.Errorf("first deployment (id=%d, name=%q) has no slug", chosen.ID, chosen.Name)
	}
	ui.Info("Auto-resolved deployment slug: %s (id=%d, name=%s)", chosen.Slug, chosen.ID, chosen.Name)
	return chosen.Slug, nil
}

// Classify fetches each project's details and records its managed-scan
// state. Detail failures are warnings, not errors: the project is
// counted in NoDetails and the pass moves on.
func Classify(ctx context.Context, api API, deploymentSlug string, projects []semgrep.Project, ui *output.UI) *Classification {
	cls := &Classification{}

	for _, p := range projects {
		name := p.DisplayName()
		if name == "" {
			ui.Warning("Could not determine project name from object (id=%d)", p.ID)
			cls.NoDetails++
			continue
		}

		details, err := api.GetProject(ctx, deploymentSlug, name)
		if err != nil {
			ui.Warning("Failed to get project '%s' details: %v", name, err)
			cls.NoDetails++
			continue
		}

		msc := details.ManagedScanConfig
		row := ProjectStatus{Name: name}
		if msc != nil {
			row.DiffScan = msc.DiffScan.Enabled
			row.FullScan = msc.FullScan.Enabled
		}
		cls.Rows = append(cls.Rows, row)
	}

	return cls
}

// Run performs the full sweep: resolve, list, classify, enable.
// It returns an error only for fatal conditions (deployment or project
// list unavailable); per-project enable failures are logged and
// reflected in Result.Failed.
func Run(ctx context.Context, api API, ui *output.UI, opts Options) (*Result, error) {
	slug, err := ResolveDeployment(ctx, api, opts.DeploymentSlug, ui)
	if err != nil {
		return nil, err
	}

	ui.Info("Listing projects for deployment '%s'...", slug)
	projects, err := api.ListProjects(ctx, slug)
	if err != nil {
		return nil, err
	}
	ui.Info("Found %d projects", len(projects))

	cls := Classify(ctx, api, slug, projects, ui)

	res := &Result{
		Deployment: slug,
		Total:      len(projects),
		NoDetails:  cls.NoDetails,
	}

	for _, row := range cls.Rows {
		if row.Enabled() {
			ui.Skip("Project '%s' already has SMS enabled", row.Name)
			res.AlreadyEnabled++
		} else {
			ui.Todo("Project '%s' does NOT have SMS enabled", row.Name)
		}
	}

	toEnable := cls.ToEnable()
	ui.Info("Projects to enable SMS on: %d", len(toEnable))

	for _, name := range toEnable {
		if opts.DryRun {
			ui.DryRunMsg("Would PATCH %s with body=%s",
				api.ManagedScanEndpoint(slug, name), semgrep.ManagedScanPayload)
			continue
		}

		if err := api.EnableManagedScan(ctx, slug, name); err != nil {
			ui.Error("Failed to enable SMS for '%s': %v", name, err)
			res.Failed++
			continue
		}
		ui.Success("SMS enabled for '%s'", name)
		res.Enabled++
	}

	return res, nil
}
