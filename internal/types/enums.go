package types

type ActivationState string

const (
	StateNotLoaded            ActivationState = "not-loaded"
	StateResolving            ActivationState = "resolving"
	StateLoadingDependencies  ActivationState = "loading-dependencies"
	StateLoadingLibrary       ActivationState = "loading-library"
	StateRegisteringResources ActivationState = "registering-resources"
	StateLoaded               ActivationState = "loaded"
	StateFailed               ActivationState = "failed"
)

type CandidateSource string

const (
	SourceLocal     CandidateSource = "local"
	SourceNamed     CandidateSource = "named"
	SourceDefault   CandidateSource = "default"
	SourceInstalled CandidateSource = "installed"
	SourceSystem    CandidateSource = "system"
)

// Well-known version texts.
const (
	VersionLocal  = "local"
	VersionSystem = "system"
)

// ResourceKind names an optional directory a module may ship.
type ResourceKind string

const (
	ResourceDB      ResourceKind = "db"
	ResourceStartup ResourceKind = "startup"
	ResourceBin     ResourceKind = "bin"
	ResourceMisc    ResourceKind = "misc"
)
