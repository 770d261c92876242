package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testConfigurationFileNameConstant = "config.yaml"
	testConfigurationFileContent      = "common:\n  log_level: warn\n  log_format: console\ngit:\n  repository: /srv/checkout\n  remote: upstream\n  depth: 25\n  disable_prune_tags: true\n  variables:\n    no_proxy: localhost\n"
)

func TestInitializeConfigurationAppliesEmbeddedDefaults(testInstance *testing.T) {
	application := NewApplication()

	require.NoError(testInstance, application.initializeConfiguration(application.rootCommand))

	require.Equal(testInstance, "info", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", application.configuration.Common.LogFormat)
	require.Equal(testInstance, ".", application.configuration.Git.Repository)
	require.Equal(testInstance, "origin", application.configuration.Git.Remote)
	require.Zero(testInstance, application.configuration.Git.Depth)
	require.False(testInstance, application.configuration.Git.DisablePruneTags)
	require.NotNil(testInstance, application.logger)
}

func TestInitializeConfigurationReadsConfigurationFile(testInstance *testing.T) {
	configurationFilePath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testConfigurationFileContent), 0o600))

	application := NewApplication()
	application.configurationFilePath = configurationFilePath

	require.NoError(testInstance, application.initializeConfiguration(application.rootCommand))

	require.Equal(testInstance, "warn", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "console", application.configuration.Common.LogFormat)
	require.Equal(testInstance, "/srv/checkout", application.configuration.Git.Repository)
	require.Equal(testInstance, "upstream", application.configuration.Git.Remote)
	require.Equal(testInstance, 25, application.configuration.Git.Depth)
	require.True(testInstance, application.configuration.Git.DisablePruneTags)
	require.Equal(testInstance, "localhost", application.configuration.Git.Variables["no_proxy"])
	require.Equal(testInstance, configurationFilePath, application.configurationMetadata.ConfigFileUsed)
	require.True(testInstance, application.humanReadableLoggingEnabled())
}

func TestInitializeConfigurationHonorsFlagOverrides(testInstance *testing.T) {
	application := NewApplication()

	require.NoError(testInstance, application.rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, "debug"))
	require.NoError(testInstance, application.rootCommand.PersistentFlags().Set(remoteFlagNameConstant, "mirror"))
	require.NoError(testInstance, application.rootCommand.PersistentFlags().Set(depthFlagNameConstant, "15"))
	require.NoError(testInstance, application.rootCommand.PersistentFlags().Set(disablePruneTagsFlagNameConstant, "yes"))

	require.NoError(testInstance, application.initializeConfiguration(application.rootCommand))

	require.Equal(testInstance, "debug", application.configuration.Common.LogLevel)
	require.Equal(testInstance, "mirror", application.configuration.Git.Remote)
	require.Equal(testInstance, 15, application.configuration.Git.Depth)
	require.True(testInstance, application.configuration.Git.DisablePruneTags)
}
