package pathutils_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/gitgate/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/builder"

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name          string
		candidatePath string
		expectedPath  string
	}{
		{name: "bare_tilde", candidatePath: "~", expectedPath: testHomeDirectoryConstant},
		{name: "tilde_with_relative_path", candidatePath: "~/repositories/project", expectedPath: filepath.Join(testHomeDirectoryConstant, "repositories", "project")},
		{name: "absolute_path_untouched", candidatePath: "/var/repositories/project", expectedPath: "/var/repositories/project"},
		{name: "embedded_tilde_untouched", candidatePath: "/var/~backup", expectedPath: "/var/~backup"},
		{name: "empty_path_untouched", candidatePath: "", expectedPath: ""},
	}

	homeExpander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPath, homeExpander.Expand(testCase.candidatePath))
		})
	}
}
