package semgrep

// Deployment is a Semgrep tenant/organization unit.
type Deployment struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ScanToggle is one managed-scan sub-flag.
type ScanToggle struct {
	Enabled bool `json:"enabled"`
}

// ManagedScanConfig holds the two managed-scan sub-flags. Semgrep
// Managed Scans is only considered "on" when both are enabled.
type ManagedScanConfig struct {
	DiffScan ScanToggle `json:"diff_scan"`
	FullScan ScanToggle `json:"full_scan"`
}

// Project is a scanned repository registered under a deployment.
// Field availability varies between the list and detail endpoints;
// ManagedScanConfig is only populated on the detail endpoint.
type Project struct {
	ID                int                `json:"id,omitempty"`
	Name              string             `json:"name"`
	ProjectName       string             `json:"project_name,omitempty"`
	Slug              string             `json:"slug,omitempty"`
	ManagedScanConfig *ManagedScanConfig `json:"managed_scan_config,omitempty"`
}

// DisplayName returns the identifier used to address the project in
// URLs, preferring name, then project_name, then slug. Empty means the
// project object carries no usable identifier.
func (p *Project) DisplayName() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.ProjectName != "":
		return p.ProjectName
	default:
		return p.Slug
	}
}

// ManagedScanEnabled reports whether both diff and full managed scans
// are enabled. A missing config or missing sub-flag counts as disabled.
func (p *Project) ManagedScanEnabled() bool {
	if p.ManagedScanConfig == nil {
		return false
	}
	return p.ManagedScanConfig.DiffScan.Enabled && p.ManagedScanConfig.FullScan.Enabled
}
