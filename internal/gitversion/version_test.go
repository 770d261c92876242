package gitversion_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitgate/internal/gitversion"
)

const (
	testEqualVersionsCaseNameConstant        = "equal_versions"
	testMajorOrderingCaseNameConstant        = "major_ordering"
	testMinorOrderingCaseNameConstant        = "minor_ordering"
	testPatchOrderingCaseNameConstant        = "patch_ordering"
	testMissingPatchAsZeroCaseNameConstant   = "missing_patch_compares_as_zero"
	testMissingPatchOrderingCaseNameConstant = "missing_patch_below_patched"
)

func TestVersionCompare(testInstance *testing.T) {
	testCases := []struct {
		name               string
		firstVersion       gitversion.Version
		secondVersion      gitversion.Version
		expectedComparison int
	}{
		{
			name:               testEqualVersionsCaseNameConstant,
			firstVersion:       gitversion.NewVersion(2, 30, 1),
			secondVersion:      gitversion.NewVersion(2, 30, 1),
			expectedComparison: 0,
		},
		{
			name:               testMajorOrderingCaseNameConstant,
			firstVersion:       gitversion.NewVersion(3, 0, 0),
			secondVersion:      gitversion.NewVersion(2, 99, 99),
			expectedComparison: 1,
		},
		{
			name:               testMinorOrderingCaseNameConstant,
			firstVersion:       gitversion.NewVersion(2, 3, 9),
			secondVersion:      gitversion.NewVersion(2, 4, 0),
			expectedComparison: -1,
		},
		{
			name:               testPatchOrderingCaseNameConstant,
			firstVersion:       gitversion.NewVersion(2, 17, 1),
			secondVersion:      gitversion.NewVersion(2, 17, 0),
			expectedComparison: 1,
		},
		{
			name:               testMissingPatchAsZeroCaseNameConstant,
			firstVersion:       gitversion.NewMajorMinorVersion(2, 17),
			secondVersion:      gitversion.NewVersion(2, 17, 0),
			expectedComparison: 0,
		},
		{
			name:               testMissingPatchOrderingCaseNameConstant,
			firstVersion:       gitversion.NewMajorMinorVersion(2, 17),
			secondVersion:      gitversion.NewVersion(2, 17, 1),
			expectedComparison: -1,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedComparison, testCase.firstVersion.Compare(testCase.secondVersion))
			require.Equal(testInstance, testCase.expectedComparison >= 0, testCase.firstVersion.AtLeast(testCase.secondVersion))
		})
	}
}

func TestVersionString(testInstance *testing.T) {
	require.Equal(testInstance, "2.30.1", gitversion.NewVersion(2, 30, 1).String())
	require.Equal(testInstance, "2.30", gitversion.NewMajorMinorVersion(2, 30).String())
}
