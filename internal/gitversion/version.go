package gitversion

import "fmt"

const (
	versionWithPatchTemplateConstant    = "%d.%d.%d"
	versionWithoutPatchTemplateConstant = "%d.%d"
)

// Version represents an ordered major/minor/patch tool version. A missing
// patch component compares as zero.
type Version struct {
	Major    int
	Minor    int
	Patch    int
	HasPatch bool
}

// NewVersion constructs a Version carrying all three components.
func NewVersion(majorComponent int, minorComponent int, patchComponent int) Version {
	return Version{Major: majorComponent, Minor: minorComponent, Patch: patchComponent, HasPatch: true}
}

// NewMajorMinorVersion constructs a Version without a patch component.
func NewMajorMinorVersion(majorComponent int, minorComponent int) Version {
	return Version{Major: majorComponent, Minor: minorComponent}
}

// Compare orders two versions lexicographically and returns -1, 0, or 1.
func (version Version) Compare(otherVersion Version) int {
	if comparison := compareComponents(version.Major, otherVersion.Major); comparison != 0 {
		return comparison
	}
	if comparison := compareComponents(version.Minor, otherVersion.Minor); comparison != 0 {
		return comparison
	}
	return compareComponents(version.Patch, otherVersion.Patch)
}

// AtLeast reports whether the version is greater than or equal to the required version.
func (version Version) AtLeast(requiredVersion Version) bool {
	return version.Compare(requiredVersion) >= 0
}

// String renders the version in its original two or three component form.
func (version Version) String() string {
	if version.HasPatch {
		return fmt.Sprintf(versionWithPatchTemplateConstant, version.Major, version.Minor, version.Patch)
	}
	return fmt.Sprintf(versionWithoutPatchTemplateConstant, version.Major, version.Minor)
}

func compareComponents(firstComponent int, secondComponent int) int {
	switch {
	case firstComponent < secondComponent:
		return -1
	case firstComponent > secondComponent:
		return 1
	default:
		return 0
	}
}
