package domain

import "path/filepath"

const (
	// StateDirName is the default name of the build-state directory.
	StateDirName = ".build"

	// AllTargetsFileName is the name of the persisted list of every known output.
	AllTargetsFileName = ".alltargets.yml"

	// TmpDirName is the name of the scratch directory inside the build-state directory.
	TmpDirName = "tmp"

	// VirtualTargetsDirName holds marker files for targets without real outputs.
	VirtualTargetsDirName = "virtual-targets"

	// BuildFileName is the name of the buildfile.
	BuildFileName = "maestro.yaml"

	// RulesCompanionExt is appended to a rule file path for its YAML companion.
	RulesCompanionExt = ".yml"

	// VirtualTargetPrefix marks a command output as a virtual target.
	VirtualTargetPrefix = "@"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStateDir returns the default build-state directory.
func DefaultStateDir() string {
	return StateDirName
}

// AllTargetsPath returns the path of the persisted output list inside stateDir.
func AllTargetsPath(stateDir string) string {
	return filepath.Join(stateDir, AllTargetsFileName)
}

// HashCachePath returns the path of the configuration hash cache file for key.
func HashCachePath(stateDir, key string) string {
	return filepath.Join(stateDir, key)
}

// VirtualTargetPath returns the marker path of the virtual target id.
// It joins stateDir, tmp, virtual-targets and id.
func VirtualTargetPath(stateDir, id string) string {
	return filepath.Join(stateDir, TmpDirName, VirtualTargetsDirName, id)
}
