package manager

import (
	"time"

	"github.com/gopak/framepak/internal/frameworks"
)

// BuildKey identifies one dependency built for one platform.
type BuildKey struct {
	Name     string
	Platform frameworks.Platform
}

type BuildResult struct {
	Key        BuildKey
	Skipped    bool
	BuiltAt    time.Time
	Frameworks []string
	Err        error
}

type BuildReporter interface {
	OnPlan(order []string, platforms []frameworks.Platform)
	OnBuildStart(k BuildKey)
	OnBuilt(r BuildResult)
	OnDone(err error)
}
