// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PackageStatus is the publishing verdict of a final package.
type PackageStatus string

const (
	StatusApproved      PackageStatus = "APPROVED"
	StatusNeedsRevision PackageStatus = "NEEDS_REVISION"
)

// PackageMetadata records how a package was produced.
type PackageMetadata struct {
	// RunID uniquely identifies the pipeline run.
	RunID string `json:"run_id" yaml:"run_id"`

	// CategoryPath is the selection path, e.g. "GOVERNMENT PLANS - Medicare".
	CategoryPath string `json:"category_path" yaml:"category_path"`

	// ModelID is the model the run was configured with.
	ModelID string `json:"model_id" yaml:"model_id"`

	// DemoMode is true when no live backend was used for the run.
	DemoMode bool `json:"demo_mode" yaml:"demo_mode"`

	// FallbackStages lists stages that fell back to demo synthesis after a
	// live backend failure.
	FallbackStages []StageName `json:"fallback_stages,omitempty" yaml:"fallback_stages,omitempty"`

	// Status is APPROVED when validation passed, NEEDS_REVISION otherwise.
	Status PackageStatus `json:"status" yaml:"status"`
}

// FinalPackage is the terminal artifact of a run. Consumers must treat it
// as read-only.
type FinalPackage struct {
	Draft       ArticleDraft     `json:"draft" yaml:"draft"`
	Validation  ValidationResult `json:"validation" yaml:"validation"`
	Trend       TrendArtifact    `json:"trend" yaml:"trend"`
	GeneratedAt time.Time        `json:"generated_at" yaml:"generated_at"`
	Metadata    PackageMetadata  `json:"metadata" yaml:"metadata"`
}

// WordCount is a convenience for Draft.WordCount.
func (p *FinalPackage) WordCount() int {
	return p.Draft.WordCount()
}
