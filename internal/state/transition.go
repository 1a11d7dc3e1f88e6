package state

import (
	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/pack"
)

// BuildTarget is a named build output.
type BuildTarget string

const (
	TargetMrpack     BuildTarget = "mrpack"
	TargetClient     BuildTarget = "client"
	TargetServer     BuildTarget = "server"
	TargetClientFull BuildTarget = "client-full"
	TargetServerFull BuildTarget = "server-full"
)

// Requires returns the targets that must be built before this one.
// Mrpack has no dependency; Client/Server require Mrpack be built first
// (and reused, not rebuilt); the *Full variants stand alone.
func (t BuildTarget) Requires() []BuildTarget {
	switch t {
	case TargetClient, TargetServer:
		return []BuildTarget{TargetMrpack}
	default:
		return nil
	}
}

// CleanScope is the argument to a Clean transition.
type CleanScope string

const (
	CleanDist CleanScope = "dist"
	CleanAll  CleanScope = "all"
)

// Transition is one of the four kinds of state-changing request a command
// can make. Kind distinguishes the concrete type without a type switch at
// every call site.
type Transition interface {
	Kind() string
}

// InitializeTransition carries the pack identity and loader choice an
// init command collected (from flags or prompts) before Plan was ever
// called; Plan only checks the current state, Apply is what actually
// resolves "latest" and writes pack.toml.
type InitializeTransition struct {
	Name          string
	Version       string
	Authors       []string
	MCVersion     string // may be the "latest" sentinel
	Loader        pack.Loader
	LoaderVersion string // explicit override; empty means resolve via versioncatalog
}

func (InitializeTransition) Kind() string { return "initialize" }

type SynchronizeTransition struct{}

func (SynchronizeTransition) Kind() string { return "synchronize" }

type BuildTransition struct {
	Targets []BuildTarget
}

func (BuildTransition) Kind() string { return "build" }

type CleanTransition struct {
	Scope CleanScope
}

func (CleanTransition) Kind() string { return "clean" }

// Step is one human-readable unit of work a TransitionPlan will perform.
// Build and Synchronize execution lives in internal/build and
// internal/sync, Initialize and Clean execution in Apply; Plan only
// decides the ordered outline and preconditions.
type Step struct {
	Description string
}

// TransitionPlan is the (from, to, steps) triple spec.md §4.3 calls for.
// Producing one performs no side effects; Apply is the separate step
// that does.
type TransitionPlan struct {
	From        ModpackState
	To          ModpackState
	Transition  Transition
	Steps       []Step
}

// Plan is total: every (state, transition) pair either returns a plan
// whose From equals state, or a structured *core.InvalidTransitionError /
// *core.MissingPrerequisiteError. It never partially succeeds.
func Plan(current ModpackState, t Transition) (*TransitionPlan, error) {
	switch tt := t.(type) {
	case InitializeTransition:
		return planInitialize(current, tt)
	case SynchronizeTransition:
		return planSynchronize(current)
	case BuildTransition:
		return planBuild(current, tt)
	case CleanTransition:
		return planClean(current, tt)
	default:
		return nil, core.NewInvalidTransitionError(string(current), t.Kind())
	}
}

func planInitialize(current ModpackState, t InitializeTransition) (*TransitionPlan, error) {
	if current != Uninitialized {
		return nil, core.NewInvalidTransitionError(string(current), "initialize")
	}
	return &TransitionPlan{
		From:       Uninitialized,
		To:         Configured,
		Transition: t,
		Steps: []Step{
			{"create pack/, dist/*/, templates/ directories"},
			{"resolve minecraft and loader versions"},
			{"write pack.toml via packwiz init"},
			{"fetch packwiz-installer-bootstrap.jar"},
		},
	}, nil
}

func planSynchronize(current ModpackState) (*TransitionPlan, error) {
	if current == Uninitialized {
		return nil, core.NewMissingPrerequisiteError("pack must be initialized before synchronize")
	}
	return &TransitionPlan{
		From:       current,
		To:         Configured,
		Transition: SynchronizeTransition{},
		Steps: []Step{
			{"diff manifest against realized pack state"},
			{"emit ordered add/remove operations"},
		},
	}, nil
}

func planBuild(current ModpackState, t BuildTransition) (*TransitionPlan, error) {
	if current == Uninitialized {
		return nil, core.NewInvalidTransitionError(string(current), "build")
	}
	if len(t.Targets) == 0 {
		return nil, core.NewMissingPrerequisiteError("build requires at least one target")
	}
	return &TransitionPlan{
		From:       current,
		To:         Built,
		Transition: t,
		Steps: []Step{
			{"order requested targets topologically"},
			{"refresh pack at most once"},
			{"extract mrpack overrides at most once if client/server requested"},
			{"run per-target pipeline"},
			{"zip artifacts (stored, uncompressed)"},
		},
	}, nil
}

func planClean(current ModpackState, t CleanTransition) (*TransitionPlan, error) {
	if current == Uninitialized && t.Scope == CleanDist {
		return nil, core.NewMissingPrerequisiteError("nothing to clean: pack is uninitialized")
	}
	to := Configured
	if t.Scope == CleanAll {
		to = Uninitialized
	}
	return &TransitionPlan{
		From: current,
		To:   to,
		Transition: t,
		Steps: []Step{
			{"remove dist/* contents, preserving .gitkeep and target subdirectories"},
		},
	}, nil
}
