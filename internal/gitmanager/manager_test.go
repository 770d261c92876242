package gitmanager_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/gitgate/internal/execshell"
	"github.com/temirov/gitgate/internal/gitmanager"
	"github.com/temirov/gitgate/internal/gitversion"
)

const (
	testGitPathConstant                 = "/usr/bin/git"
	testGitLFSPathConstant              = "/usr/bin/git-lfs"
	testModernGitVersionLineConstant    = "git version 2.30.1"
	testLegacyGitVersionLineConstant    = "git version 1.9.5"
	testOldAdvisoryGitVersionConstant   = "git version 2.8.1"
	testLFSVersionLineConstant          = "git-lfs/3.4.0 (GitHub; linux amd64; go 1.21.3)"
	testExpectedUserAgentConstant       = "git/2.30.1 (gitgate)"
	testBelowRecommendedMessageFragment = "below the recommended minimum"
)

type scriptedCommandRunner struct {
	mutex    sync.Mutex
	commands []execshell.ShellCommand
	respond  func(command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

func (runner *scriptedCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.mutex.Lock()
	runner.commands = append(runner.commands, command)
	runner.mutex.Unlock()
	return runner.respond(command)
}

func (runner *scriptedCommandRunner) recordedCommands() []execshell.ShellCommand {
	runner.mutex.Lock()
	defer runner.mutex.Unlock()
	return append([]execshell.ShellCommand(nil), runner.commands...)
}

func respondWithVersionLines(gitVersionLine string, lfsVersionLine string) func(execshell.ShellCommand) (execshell.ExecutionResult, error) {
	return func(command execshell.ShellCommand) (execshell.ExecutionResult, error) {
		switch command.Name {
		case execshell.CommandGitLFS:
			if len(lfsVersionLine) == 0 {
				return execshell.ExecutionResult{ExitCode: 1}, nil
			}
			return execshell.ExecutionResult{OutputLines: []string{lfsVersionLine}}, nil
		default:
			return execshell.ExecutionResult{OutputLines: []string{gitVersionLine}}, nil
		}
	}
}

func newTestManager(testInstance *testing.T, logger *zap.Logger, runner *scriptedCommandRunner, options gitmanager.Options) *gitmanager.Manager {
	testInstance.Helper()

	shellExecutor, executorError := execshell.NewShellExecutor(logger, runner)
	require.NoError(testInstance, executorError)

	if len(options.GitPathOverride) == 0 {
		options.GitPathOverride = testGitPathConstant
	}
	if len(options.GitLFSPathOverride) == 0 {
		options.GitLFSPathOverride = testGitLFSPathConstant
	}

	manager, managerError := gitmanager.NewManager(logger, shellExecutor, options)
	require.NoError(testInstance, managerError)
	return manager
}

func TestNewManagerValidation(testInstance *testing.T) {
	runner := &scriptedCommandRunner{respond: respondWithVersionLines(testModernGitVersionLineConstant, testLFSVersionLineConstant)}
	shellExecutor, executorError := execshell.NewShellExecutor(zap.NewNop(), runner)
	require.NoError(testInstance, executorError)

	testCases := []struct {
		name          string
		logger        *zap.Logger
		shellExecutor *execshell.ShellExecutor
		expectedError error
	}{
		{name: "missing_logger", logger: nil, shellExecutor: shellExecutor, expectedError: gitmanager.ErrLoggerNotConfigured},
		{name: "missing_executor", logger: zap.NewNop(), shellExecutor: nil, expectedError: gitmanager.ErrExecutorNotConfigured},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, managerError := gitmanager.NewManager(testCase.logger, testCase.shellExecutor, gitmanager.Options{})
			require.ErrorIs(testInstance, managerError, testCase.expectedError)
		})
	}
}

func TestLoadExecutionInfoPopulatesVersionsAndUserAgent(testInstance *testing.T) {
	runner := &scriptedCommandRunner{respond: respondWithVersionLines(testModernGitVersionLineConstant, testLFSVersionLineConstant)}
	manager := newTestManager(testInstance, zap.NewNop(), runner, gitmanager.Options{RepositoryPath: testInstance.TempDir()})

	require.NoError(testInstance, manager.LoadExecutionInfo(context.Background()))

	gitVersion, gitVersionError := manager.GitVersion()
	require.NoError(testInstance, gitVersionError)
	require.Equal(testInstance, gitversion.NewVersion(2, 30, 1), gitVersion)

	lfsVersion, lfsVersionError := manager.LFSVersion()
	require.NoError(testInstance, lfsVersionError)
	require.Equal(testInstance, gitversion.NewVersion(3, 4, 0), lfsVersion)

	require.Equal(testInstance, testExpectedUserAgentConstant, manager.UserAgent())

	recordedCommands := runner.recordedCommands()
	require.Len(testInstance, recordedCommands, 2)
	require.Equal(testInstance, execshell.CommandGit, recordedCommands[0].Name)
	require.Equal(testInstance, testGitPathConstant, recordedCommands[0].Details.ExecutablePath)
	require.Equal(testInstance, execshell.CommandGitLFS, recordedCommands[1].Name)
	require.Equal(testInstance, testGitLFSPathConstant, recordedCommands[1].Details.ExecutablePath)
}

func TestLoadExecutionInfoRejectsVersionBelowFloor(testInstance *testing.T) {
	runner := &scriptedCommandRunner{respond: respondWithVersionLines(testLegacyGitVersionLineConstant, testLFSVersionLineConstant)}
	manager := newTestManager(testInstance, zap.NewNop(), runner, gitmanager.Options{RepositoryPath: testInstance.TempDir()})

	loadError := manager.LoadExecutionInfo(context.Background())

	var incompatibleError gitversion.VersionIncompatibleError
	require.ErrorAs(testInstance, loadError, &incompatibleError)
	require.Equal(testInstance, "git", incompatibleError.ToolName)
	require.Equal(testInstance, gitversion.NewVersion(1, 9, 5), incompatibleError.InstalledVersion)
	require.Equal(testInstance, gitmanager.MinimumSupportedVersion(), incompatibleError.RequiredVersion)
}

func TestLoadExecutionInfoWarnsBelowRecommendedVersion(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zapcore.WarnLevel)
	runner := &scriptedCommandRunner{respond: respondWithVersionLines(testOldAdvisoryGitVersionConstant, testLFSVersionLineConstant)}
	manager := newTestManager(testInstance, zap.New(observedCore), runner, gitmanager.Options{RepositoryPath: testInstance.TempDir()})

	require.NoError(testInstance, manager.LoadExecutionInfo(context.Background()))

	warningEntries := observedLogs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(testInstance, warningEntries, 1)
	require.Contains(testInstance, warningEntries[0].Message, testBelowRecommendedMessageFragment)
}

func TestLoadExecutionInfoToleratesExtensionProbeFailure(testInstance *testing.T) {
	runner := &scriptedCommandRunner{respond: respondWithVersionLines(testModernGitVersionLineConstant, "")}
	manager := newTestManager(testInstance, zap.NewNop(), runner, gitmanager.Options{RepositoryPath: testInstance.TempDir()})

	require.NoError(testInstance, manager.LoadExecutionInfo(context.Background()))

	_, lfsVersionError := manager.LFSVersion()
	var notFoundError gitversion.ToolNotFoundError
	require.ErrorAs(testInstance, lfsVersionError, &notFoundError)
	require.Equal(testInstance, "git-lfs", notFoundError.ToolName)
}

func TestOperationsFailBeforeLoadExecutionInfo(testInstance *testing.T) {
	runner := &scriptedCommandRunner{respond: respondWithVersionLines(testModernGitVersionLineConstant, testLFSVersionLineConstant)}
	manager := newTestManager(testInstance, zap.NewNop(), runner, gitmanager.Options{RepositoryPath: testInstance.TempDir()})

	require.ErrorIs(testInstance, manager.Fetch(context.Background(), nil), gitversion.ErrGateNotPopulated)
	require.ErrorIs(testInstance, manager.Reset(context.Background()), gitversion.ErrGateNotPopulated)

	_, existsError := manager.ConfigExists(context.Background(), "user.name")
	require.ErrorIs(testInstance, existsError, gitversion.ErrGateNotPopulated)

	require.Empty(testInstance, runner.recordedCommands())
}

func TestEnsureGitVersionAfterLoad(testInstance *testing.T) {
	runner := &scriptedCommandRunner{respond: respondWithVersionLines(testModernGitVersionLineConstant, testLFSVersionLineConstant)}
	manager := newTestManager(testInstance, zap.NewNop(), runner, gitmanager.Options{RepositoryPath: testInstance.TempDir()})
	require.NoError(testInstance, manager.LoadExecutionInfo(context.Background()))

	satisfied, ensureError := manager.EnsureGitVersion(gitversion.NewVersion(2, 17, 0), false)
	require.NoError(testInstance, ensureError)
	require.True(testInstance, satisfied)

	satisfied, ensureError = manager.EnsureGitVersion(gitversion.NewVersion(2, 31, 0), false)
	require.NoError(testInstance, ensureError)
	require.False(testInstance, satisfied)

	_, ensureError = manager.EnsureGitVersion(gitversion.NewVersion(2, 31, 0), true)
	var incompatibleError gitversion.VersionIncompatibleError
	require.ErrorAs(testInstance, ensureError, &incompatibleError)
}
