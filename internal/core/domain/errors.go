package domain

import "go.trai.ch/zerr"

var (
	// ErrNoProvides is returned when a target is constructed without a name and without provides.
	ErrNoProvides = zerr.New("target provides nothing")

	// ErrDuplicateProvider is returned when two registered targets provide the same identifier.
	ErrDuplicateProvider = zerr.New("identifier is already provided by another target")

	// ErrUnresolvedDependencies is returned when the resolution loop cannot build every target.
	ErrUnresolvedDependencies = zerr.New("failed to resolve dependencies")

	// ErrTargetBuildFailed is returned when a target's build step fails.
	ErrTargetBuildFailed = zerr.New("target build failed")

	// ErrDeferredResolveFailed is returned when a deferred file value cannot be resolved.
	ErrDeferredResolveFailed = zerr.New("failed to resolve deferred file")

	// ErrUnknownTargetType is returned when a rule references a type tag missing from the registry.
	ErrUnknownTargetType = zerr.New("unknown target type")

	// ErrInvalidRule is returned when a rule lacks fields required by its target type.
	ErrInvalidRule = zerr.New("invalid rule")

	// ErrRuleFileReadFailed is returned when the rule file cannot be read.
	ErrRuleFileReadFailed = zerr.New("failed to read rule file")

	// ErrRuleFileWriteFailed is returned when the rule file cannot be written.
	ErrRuleFileWriteFailed = zerr.New("failed to write rule file")

	// ErrRuleFieldsParseFailed is returned when the field block of a rule stanza is not valid YAML.
	ErrRuleFieldsParseFailed = zerr.New("failed to parse rule fields")

	// ErrConfigReadFailed is returned when the buildfile cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read buildfile")

	// ErrConfigParseFailed is returned when the buildfile cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse buildfile")

	// ErrConfigNotFound is returned when no buildfile is found.
	ErrConfigNotFound = zerr.New("could not find buildfile")

	// ErrStateDirCreateFailed is returned when the build-state directory cannot be created.
	ErrStateDirCreateFailed = zerr.New("failed to create build-state directory")

	// ErrOutputListReadFailed is returned when the persisted output list cannot be read.
	ErrOutputListReadFailed = zerr.New("failed to read output list")

	// ErrOutputListWriteFailed is returned when the persisted output list cannot be written.
	ErrOutputListWriteFailed = zerr.New("failed to write output list")

	// ErrHashCacheReadFailed is returned when a configuration hash cache file cannot be read.
	ErrHashCacheReadFailed = zerr.New("failed to read configuration hash")

	// ErrHashCacheWriteFailed is returned when a configuration hash cache file cannot be written.
	ErrHashCacheWriteFailed = zerr.New("failed to write configuration hash")

	// ErrConfigHashFailed is returned when a target configuration cannot be hashed.
	ErrConfigHashFailed = zerr.New("failed to hash target configuration")

	// ErrFailedToCleanOutput is returned when removing a known output fails.
	ErrFailedToCleanOutput = zerr.New("failed to clean output file")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileCopyFailed is returned when copying a file fails.
	ErrFileCopyFailed = zerr.New("failed to copy file")

	// ErrFileMoveFailed is returned when moving a file fails.
	ErrFileMoveFailed = zerr.New("failed to move file")

	// ErrDirCreateFailed is returned when a directory cannot be created.
	ErrDirCreateFailed = zerr.New("failed to create directory")

	// ErrPathStatFailed is returned when stating a path fails.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrGlobFailed is returned when a glob pattern cannot be expanded.
	ErrGlobFailed = zerr.New("failed to expand glob")

	// ErrCommandFailed is returned when an external command exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrExecutableNotFound is returned when the program of a command target is not on PATH.
	ErrExecutableNotFound = zerr.New("executable not found")

	// ErrEmptyCommand is returned when a command target has nothing to run.
	ErrEmptyCommand = zerr.New("command is empty")

	// ErrUnknownEncoding is returned when a text encoding label is not recognized.
	ErrUnknownEncoding = zerr.New("unknown text encoding")

	// ErrInvalidPattern is returned when a replacement pattern is not a valid regular expression.
	ErrInvalidPattern = zerr.New("invalid replacement pattern")

	// ErrWatchFailed is returned when the file watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to watch for changes")
)
