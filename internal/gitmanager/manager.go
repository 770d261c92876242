package gitmanager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/gitgate/internal/execshell"
	"github.com/temirov/gitgate/internal/gitargs"
	"github.com/temirov/gitgate/internal/gitenv"
	"github.com/temirov/gitgate/internal/gitoutput"
	"github.com/temirov/gitgate/internal/gitversion"
)

const (
	primaryToolNameConstant                = "git"
	extensionToolNameConstant              = "git-lfs"
	defaultRemoteNameConstant              = "origin"
	gitMetadataDirectoryNameConstant       = ".git"
	shallowMarkerFileNameConstant          = "shallow"
	userAgentTemplateConstant              = "git/%s (gitgate)"
	versionProbeFailedTemplateConstant     = "%s version probe failed with exit code %d"
	versionUnparseableTemplateConstant     = "unable to parse %s version output"
	minimumVersionMajorConstant            = 2
	minimumVersionMinorConstant            = 0
	minimumVersionPatchConstant            = 0
	recommendedVersionMajorConstant        = 2
	recommendedVersionMinorConstant        = 9
	recommendedVersionPatchConstant        = 0
	executionInfoLoadedMessageConstant     = "execution info loaded"
	belowRecommendedVersionMessageConstant = "installed git version is below the recommended minimum"
	extensionUnavailableMessageConstant    = "git-lfs not found, large-file operations unavailable"
	extensionProbeFailedMessageConstant    = "git-lfs version probe failed, large-file operations unavailable"
	logFieldToolPathConstant               = "tool_path"
	logFieldToolVersionConstant            = "tool_version"
	logFieldExtensionPathConstant          = "extension_path"
	logFieldExtensionVersionConstant       = "extension_version"
	logFieldRecommendedVersionConstant     = "recommended_version"
)

// Initialization failures represent programming errors, not runtime conditions.
var (
	ErrLoggerNotConfigured   = errors.New("logger not configured")
	ErrExecutorNotConfigured = errors.New("shell executor not configured")
)

// Options carries caller-controlled manager parameters.
type Options struct {
	RepositoryPath         string
	RemoteName             string
	FetchDepth             int
	DisablePruneTags       bool
	GitPathOverride        string
	GitLFSPathOverride     string
	ConfigurationVariables map[string]string
}

// Manager owns tool-location state and the version gates, and exposes the
// public git operation set. It transitions from uninitialized to ready exactly
// once via LoadExecutionInfo; every other operation requires the ready phase.
type Manager struct {
	logger               *zap.Logger
	shellExecutor        *execshell.ShellExecutor
	environmentSanitizer *gitenv.Sanitizer
	options              Options
	primaryGate          *gitversion.Gate
	extensionGate        *gitversion.Gate
	userAgent            string
}

// NewManager validates collaborators and constructs a Manager in the
// uninitialized phase.
func NewManager(logger *zap.Logger, shellExecutor *execshell.ShellExecutor, options Options) (*Manager, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if shellExecutor == nil {
		return nil, ErrExecutorNotConfigured
	}

	if len(options.RemoteName) == 0 {
		options.RemoteName = defaultRemoteNameConstant
	}

	return &Manager{
		logger:               logger,
		shellExecutor:        shellExecutor,
		environmentSanitizer: gitenv.NewSanitizer(),
		options:              options,
		primaryGate:          gitversion.NewGate(primaryToolNameConstant),
		extensionGate:        gitversion.NewGate(extensionToolNameConstant),
	}, nil
}

// MinimumSupportedVersion returns the hard git version floor.
func MinimumSupportedVersion() gitversion.Version {
	return gitversion.NewVersion(minimumVersionMajorConstant, minimumVersionMinorConstant, minimumVersionPatchConstant)
}

// RecommendedVersion returns the advisory git version floor.
func RecommendedVersion() gitversion.Version {
	return gitversion.NewVersion(recommendedVersionMajorConstant, recommendedVersionMinorConstant, recommendedVersionPatchConstant)
}

// LoadExecutionInfo resolves the git executable, probes and gates its
// version, and probes the optional git-lfs extension. Absence of the
// extension is legal; absence of git or a version below the hard floor fails
// initialization.
func (manager *Manager) LoadExecutionInfo(executionContext context.Context) error {
	primaryPath, primaryResolveError := manager.resolveToolPath(manager.options.GitPathOverride, primaryToolNameConstant)
	if primaryResolveError != nil {
		return gitversion.ToolNotFoundError{ToolName: primaryToolNameConstant}
	}

	primaryVersion, primaryProbeError := manager.probeVersion(executionContext, primaryToolNameConstant, func(probeContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
		details.ExecutablePath = primaryPath
		return manager.shellExecutor.ExecuteGit(probeContext, details)
	})
	if primaryProbeError != nil {
		return primaryProbeError
	}

	manager.primaryGate.Populate(primaryPath, primaryVersion)

	if _, ensureError := manager.primaryGate.Ensure(MinimumSupportedVersion(), true); ensureError != nil {
		return ensureError
	}

	meetsRecommended, recommendedError := manager.primaryGate.Ensure(RecommendedVersion(), false)
	if recommendedError != nil {
		return recommendedError
	}
	if !meetsRecommended {
		manager.logger.Warn(
			belowRecommendedVersionMessageConstant,
			zap.String(logFieldToolVersionConstant, primaryVersion.String()),
			zap.String(logFieldRecommendedVersionConstant, RecommendedVersion().String()),
		)
	}

	manager.userAgent = fmt.Sprintf(userAgentTemplateConstant, primaryVersion.String())

	manager.loadExtensionInfo(executionContext)

	manager.logger.Info(
		executionInfoLoadedMessageConstant,
		zap.String(logFieldToolPathConstant, primaryPath),
		zap.String(logFieldToolVersionConstant, primaryVersion.String()),
		zap.String(logFieldExtensionPathConstant, manager.extensionGate.ToolPath()),
	)

	return nil
}

// GitVersion returns the probed git version once execution info is loaded.
func (manager *Manager) GitVersion() (gitversion.Version, error) {
	return manager.primaryGate.InstalledVersion()
}

// LFSVersion returns the probed git-lfs version once execution info is
// loaded, failing with ToolNotFoundError when the extension is absent.
func (manager *Manager) LFSVersion() (gitversion.Version, error) {
	return manager.extensionGate.InstalledVersion()
}

// UserAgent returns the composed HTTP user agent, empty before loading.
func (manager *Manager) UserAgent() string {
	return manager.userAgent
}

// EnsureGitVersion answers whether the installed git satisfies the required
// version, failing hard only when enforceMinimum is set.
func (manager *Manager) EnsureGitVersion(requiredVersion gitversion.Version, enforceMinimum bool) (bool, error) {
	return manager.primaryGate.Ensure(requiredVersion, enforceMinimum)
}

// EnsureLFSVersion answers whether the installed git-lfs satisfies the
// required version, failing hard only when enforceMinimum is set.
func (manager *Manager) EnsureLFSVersion(requiredVersion gitversion.Version, enforceMinimum bool) (bool, error) {
	return manager.extensionGate.Ensure(requiredVersion, enforceMinimum)
}

func (manager *Manager) loadExtensionInfo(executionContext context.Context) {
	extensionPath, extensionResolveError := manager.resolveToolPath(manager.options.GitLFSPathOverride, extensionToolNameConstant)
	if extensionResolveError != nil {
		manager.logger.Debug(extensionUnavailableMessageConstant)
		manager.extensionGate.Populate("", nil)
		return
	}

	extensionVersion, extensionProbeError := manager.probeVersion(executionContext, extensionToolNameConstant, func(probeContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
		details.ExecutablePath = extensionPath
		return manager.shellExecutor.ExecuteGitLFS(probeContext, details)
	})
	if extensionProbeError != nil {
		manager.logger.Warn(extensionProbeFailedMessageConstant, zap.Error(extensionProbeError))
		manager.extensionGate.Populate(extensionPath, nil)
		return
	}

	manager.extensionGate.Populate(extensionPath, extensionVersion)
	manager.logger.Debug(
		executionInfoLoadedMessageConstant,
		zap.String(logFieldExtensionPathConstant, extensionPath),
		zap.String(logFieldExtensionVersionConstant, extensionVersion.String()),
	)
}

func (manager *Manager) resolveToolPath(overridePath string, toolName string) (string, error) {
	if len(overridePath) > 0 {
		return overridePath, nil
	}
	return exec.LookPath(toolName)
}

func (manager *Manager) probeVersion(
	executionContext context.Context,
	toolName string,
	executeProbe func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error),
) (*gitversion.Version, error) {
	probeDetails := execshell.CommandDetails{
		Arguments:            gitargs.VersionArguments(),
		EnvironmentVariables: manager.environmentSanitizer.Build(manager.options.ConfigurationVariables, manager.userAgent),
		CaptureOutput:        true,
	}

	probeResult, probeError := executeProbe(executionContext, probeDetails)
	if probeError != nil {
		return nil, probeError
	}
	if probeResult.ExitCode != 0 {
		return nil, fmt.Errorf(versionProbeFailedTemplateConstant, toolName, probeResult.ExitCode)
	}

	probedVersion := gitoutput.ExtractVersion(probeResult.OutputLines)
	if probedVersion == nil {
		return nil, fmt.Errorf(versionUnparseableTemplateConstant, toolName)
	}

	return probedVersion, nil
}

func (manager *Manager) shallowMarkerPresent() bool {
	shallowMarkerPath := filepath.Join(manager.options.RepositoryPath, gitMetadataDirectoryNameConstant, shallowMarkerFileNameConstant)
	_, statError := os.Stat(shallowMarkerPath)
	return statError == nil
}

func (manager *Manager) gitCommandDetails(arguments []string, captureOutput bool) (execshell.CommandDetails, error) {
	if _, versionError := manager.primaryGate.InstalledVersion(); versionError != nil {
		return execshell.CommandDetails{}, versionError
	}

	return execshell.CommandDetails{
		ExecutablePath:       manager.primaryGate.ToolPath(),
		Arguments:            arguments,
		WorkingDirectory:     manager.options.RepositoryPath,
		EnvironmentVariables: manager.environmentSanitizer.Build(manager.options.ConfigurationVariables, manager.userAgent),
		CaptureOutput:        captureOutput,
	}, nil
}

func (manager *Manager) runGit(executionContext context.Context, arguments []string, captureOutput bool) (execshell.ExecutionResult, error) {
	commandDetails, detailsError := manager.gitCommandDetails(arguments, captureOutput)
	if detailsError != nil {
		return execshell.ExecutionResult{}, detailsError
	}
	return manager.shellExecutor.ExecuteGit(executionContext, commandDetails)
}

// runGitEnforced propagates a non-zero exit as CommandFailedError. Operations
// that treat the exit code as a signal use runGit directly instead.
func (manager *Manager) runGitEnforced(executionContext context.Context, arguments []string, captureOutput bool) (execshell.ExecutionResult, error) {
	commandDetails, detailsError := manager.gitCommandDetails(arguments, captureOutput)
	if detailsError != nil {
		return execshell.ExecutionResult{}, detailsError
	}

	executionResult, executionError := manager.shellExecutor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return execshell.ExecutionResult{}, executionError
	}
	if executionResult.ExitCode != 0 {
		return executionResult, execshell.CommandFailedError{
			Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: commandDetails},
			Result:  executionResult,
		}
	}

	return executionResult, nil
}

func (manager *Manager) requireExtension() error {
	_, versionError := manager.extensionGate.InstalledVersion()
	return versionError
}
