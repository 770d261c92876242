package gitversion

import (
	"errors"
	"fmt"
)

const (
	toolNotFoundErrorTemplateConstant        = "%s executable not found"
	versionIncompatibleErrorTemplateConstant = "%s version %s at %s is below the minimum supported version %s"
)

// ErrGateNotPopulated indicates a gate was queried before execution info was loaded.
var ErrGateNotPopulated = errors.New("version gate not populated")

// ToolNotFoundError indicates the gated tool was never resolved to an executable.
type ToolNotFoundError struct {
	ToolName string
}

// Error describes the missing tool.
func (toolError ToolNotFoundError) Error() string {
	return fmt.Sprintf(toolNotFoundErrorTemplateConstant, toolError.ToolName)
}

// VersionIncompatibleError indicates the installed tool version is below a hard-required floor.
type VersionIncompatibleError struct {
	ToolName         string
	ToolPath         string
	InstalledVersion Version
	RequiredVersion  Version
}

// Error describes the incompatible installation.
func (versionError VersionIncompatibleError) Error() string {
	return fmt.Sprintf(
		versionIncompatibleErrorTemplateConstant,
		versionError.ToolName,
		versionError.InstalledVersion.String(),
		versionError.ToolPath,
		versionError.RequiredVersion.String(),
	)
}

// Gate holds the resolved location and probed version for one external tool.
// It is populated exactly once and answers minimum-version queries afterwards.
type Gate struct {
	toolName         string
	toolPath         string
	installedVersion *Version
	populated        bool
}

// NewGate constructs an empty gate for the named tool.
func NewGate(toolName string) *Gate {
	return &Gate{toolName: toolName}
}

// Populate records the resolved tool path and probed version. A nil version or
// empty path records the tool as absent, which is legal for optional tools.
func (gate *Gate) Populate(toolPath string, installedVersion *Version) {
	gate.toolPath = toolPath
	if installedVersion != nil {
		versionCopy := *installedVersion
		gate.installedVersion = &versionCopy
	}
	gate.populated = true
}

// Populated reports whether execution info loading recorded a result for the tool.
func (gate *Gate) Populated() bool {
	return gate.populated
}

// ToolPath returns the resolved executable path, empty when the tool is absent.
func (gate *Gate) ToolPath() string {
	return gate.toolPath
}

// InstalledVersion returns the probed version, failing when the gate was never
// populated or when the tool was recorded as absent.
func (gate *Gate) InstalledVersion() (Version, error) {
	if !gate.populated {
		return Version{}, ErrGateNotPopulated
	}
	if gate.installedVersion == nil {
		return Version{}, ToolNotFoundError{ToolName: gate.toolName}
	}
	return *gate.installedVersion, nil
}

// Ensure reports whether the installed version satisfies the required version.
// With enforceMinimum set, an unsatisfied requirement fails with
// VersionIncompatibleError; without it the comparison result is returned and
// no mismatch failure is possible. Querying an unpopulated gate fails with
// ErrGateNotPopulated and an absent tool fails with ToolNotFoundError
// regardless of enforcement.
func (gate *Gate) Ensure(requiredVersion Version, enforceMinimum bool) (bool, error) {
	installedVersion, versionError := gate.InstalledVersion()
	if versionError != nil {
		return false, versionError
	}

	satisfiesRequirement := installedVersion.AtLeast(requiredVersion)
	if !satisfiesRequirement && enforceMinimum {
		return false, VersionIncompatibleError{
			ToolName:         gate.toolName,
			ToolPath:         gate.toolPath,
			InstalledVersion: installedVersion,
			RequiredVersion:  requiredVersion,
		}
	}

	return satisfiesRequirement, nil
}
