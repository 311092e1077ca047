package conflict

import "github.com/noah-isme/sched-engine/internal/domain"

// Extension is a detection category that exists as an interface point but
// has no core implementation, per spec.md §9: "Several detector categories
// exist as interfaces but return empty lists in the source (co-requisite,
// prerequisite, graduation); specification treats them as extension
// points, not core contracts." A site integrating this engine can supply
// its own Extension and fold its output into DetectAll's result.
type Extension interface {
	Detect(in Input) []domain.Conflict
}

// CorequisiteExtension always returns no conflicts; a site that tracks
// course co-requisites can replace this with a real implementation.
type CorequisiteExtension struct{}

func (CorequisiteExtension) Detect(Input) []domain.Conflict { return nil }

// PrerequisiteExtension always returns no conflicts.
type PrerequisiteExtension struct{}

func (PrerequisiteExtension) Detect(Input) []domain.Conflict { return nil }

// GraduationRequirementExtension always returns no conflicts.
type GraduationRequirementExtension struct{}

func (GraduationRequirementExtension) Detect(Input) []domain.Conflict { return nil }
