package gitmanager

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitgate/internal/execshell"
	"github.com/temirov/gitgate/internal/gitargs"
	"github.com/temirov/gitgate/internal/gitoutput"
)

const (
	lfsConfigurationFileNameConstant       = ".lfsconfig"
	lfsConfigCheckoutToleratedMessage      = "lfs configuration checkout failed, proceeding with fetch"
	logFieldCheckoutSpecConstant           = "checkout_spec"
	logFieldConfigurationKeyConstant       = "configuration_key"
	configurationValueSuppressedMessage    = "configuration key existence checked"
	logFieldConfigurationKeyExistsConstant = "exists"
)

// Init initializes a repository at the configured repository path. The
// command runs without a working directory because the target may not exist
// yet.
func (manager *Manager) Init(executionContext context.Context) error {
	commandDetails, detailsError := manager.gitCommandDetails(gitargs.InitArguments(manager.options.RepositoryPath), false)
	if detailsError != nil {
		return detailsError
	}
	commandDetails.WorkingDirectory = ""

	executionResult, executionError := manager.shellExecutor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return executionError
	}
	if executionResult.ExitCode != 0 {
		return execshell.CommandFailedError{
			Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: commandDetails},
			Result:  executionResult,
		}
	}
	return nil
}

// Fetch retrieves the supplied ref-specs from the configured remote, applying
// the version-conditional fetch flags and the configured depth. Output is
// streamed.
func (manager *Manager) Fetch(executionContext context.Context, refSpecs []string) error {
	installedVersion, versionError := manager.primaryGate.InstalledVersion()
	if versionError != nil {
		return versionError
	}

	fetchArguments := gitargs.FetchArguments(installedVersion, gitargs.FetchOptions{
		RemoteName:           manager.options.RemoteName,
		RefSpecs:             refSpecs,
		Depth:                manager.options.FetchDepth,
		ShallowMarkerPresent: manager.shallowMarkerPresent(),
		PruneTagsDisabled:    manager.options.DisablePruneTags,
	})

	_, fetchError := manager.runGitEnforced(executionContext, fetchArguments, false)
	return fetchError
}

// LFSFetch retrieves large-file content for the supplied ref. A scoped
// checkout of the repository's lfs configuration file runs first; its failure
// is advisory only and never blocks the fetch.
func (manager *Manager) LFSFetch(executionContext context.Context, refSpec string) error {
	if extensionError := manager.requireExtension(); extensionError != nil {
		return extensionError
	}

	if trimmedRefSpec := strings.TrimSpace(refSpec); len(trimmedRefSpec) > 0 {
		checkoutArguments := gitargs.CheckoutFileArguments(trimmedRefSpec, lfsConfigurationFileNameConstant)
		if _, checkoutError := manager.runGitEnforced(executionContext, checkoutArguments, true); checkoutError != nil {
			manager.logger.Warn(
				lfsConfigCheckoutToleratedMessage,
				zap.String(logFieldCheckoutSpecConstant, trimmedRefSpec),
				zap.Error(checkoutError),
			)
		}
	}

	_, fetchError := manager.runGitEnforced(executionContext, gitargs.LFSFetchArguments(manager.options.RemoteName, refSpec), false)
	return fetchError
}

// Checkout switches the working tree to the supplied commit or branch spec.
func (manager *Manager) Checkout(executionContext context.Context, checkoutSpec string) error {
	installedVersion, versionError := manager.primaryGate.InstalledVersion()
	if versionError != nil {
		return versionError
	}

	_, checkoutError := manager.runGitEnforced(executionContext, gitargs.CheckoutArguments(installedVersion, checkoutSpec), false)
	return checkoutError
}

// Clean removes untracked content from the working tree.
func (manager *Manager) Clean(executionContext context.Context) error {
	installedVersion, versionError := manager.primaryGate.InstalledVersion()
	if versionError != nil {
		return versionError
	}

	_, cleanError := manager.runGitEnforced(executionContext, gitargs.CleanArguments(installedVersion), false)
	return cleanError
}

// Reset hard-resets the working tree to HEAD.
func (manager *Manager) Reset(executionContext context.Context) error {
	_, resetError := manager.runGitEnforced(executionContext, gitargs.ResetArguments(), false)
	return resetError
}

// AddRemote registers a remote under the supplied name.
func (manager *Manager) AddRemote(executionContext context.Context, remoteName string, remoteURL string) error {
	_, addError := manager.runGitEnforced(executionContext, gitargs.AddRemoteArguments(remoteName, remoteURL), false)
	return addError
}

// SetRemoteURL updates the fetch URL of the supplied remote.
func (manager *Manager) SetRemoteURL(executionContext context.Context, remoteName string, remoteURL string) error {
	_, setError := manager.runGitEnforced(executionContext, gitargs.SetRemoteURLArguments(remoteName, remoteURL), false)
	return setError
}

// SetRemotePushURL updates the push URL of the supplied remote.
func (manager *Manager) SetRemotePushURL(executionContext context.Context, remoteName string, remoteURL string) error {
	_, setError := manager.runGitEnforced(executionContext, gitargs.SetRemotePushURLArguments(remoteName, remoteURL), false)
	return setError
}

// GetRemoteURL queries the fetch URL of the supplied remote. Output that does
// not reduce to one absolute URI yields a nil URL, which callers must treat
// as unknown rather than as a failure.
func (manager *Manager) GetRemoteURL(executionContext context.Context, remoteName string) (*url.URL, error) {
	executionResult, queryError := manager.runGitEnforced(executionContext, gitargs.GetRemoteURLArguments(remoteName), true)
	if queryError != nil {
		return nil, queryError
	}
	return gitoutput.ExtractRemoteURL(executionResult.OutputLines), nil
}

// SubmoduleClean removes untracked content from every submodule recursively.
func (manager *Manager) SubmoduleClean(executionContext context.Context) error {
	installedVersion, versionError := manager.primaryGate.InstalledVersion()
	if versionError != nil {
		return versionError
	}

	_, cleanError := manager.runGitEnforced(executionContext, gitargs.SubmoduleCleanArguments(installedVersion), false)
	return cleanError
}

// SubmoduleReset hard-resets every submodule recursively.
func (manager *Manager) SubmoduleReset(executionContext context.Context) error {
	_, resetError := manager.runGitEnforced(executionContext, gitargs.SubmoduleResetArguments(), false)
	return resetError
}

// SubmoduleSync synchronizes submodule remote URLs.
func (manager *Manager) SubmoduleSync(executionContext context.Context, recursive bool) error {
	_, syncError := manager.runGitEnforced(executionContext, gitargs.SubmoduleSyncArguments(recursive), false)
	return syncError
}

// SubmoduleUpdate checks out submodule content at the recorded revisions.
func (manager *Manager) SubmoduleUpdate(executionContext context.Context, depth int, recursive bool) error {
	_, updateError := manager.runGitEnforced(executionContext, gitargs.SubmoduleUpdateArguments(depth, recursive), false)
	return updateError
}

// ConfigGet returns every value recorded for the supplied configuration key.
// An unset key yields no values and no error.
func (manager *Manager) ConfigGet(executionContext context.Context, configurationKey string) ([]string, error) {
	executionResult, queryError := manager.runGit(executionContext, gitargs.ConfigGetArguments(configurationKey), true)
	if queryError != nil {
		return nil, queryError
	}
	if executionResult.ExitCode != 0 {
		return nil, nil
	}
	return executionResult.OutputLines, nil
}

// ConfigSet assigns a configuration value.
func (manager *Manager) ConfigSet(executionContext context.Context, configurationKey string, configurationValue string) error {
	_, setError := manager.runGitEnforced(executionContext, gitargs.ConfigSetArguments(configurationKey, configurationValue), false)
	return setError
}

// ConfigUnset removes every value recorded for the supplied configuration key.
func (manager *Manager) ConfigUnset(executionContext context.Context, configurationKey string) error {
	_, unsetError := manager.runGitEnforced(executionContext, gitargs.ConfigUnsetArguments(configurationKey), false)
	return unsetError
}

// ConfigExists reports whether the supplied configuration key has any value.
// The captured content never reaches a log sink because configuration values
// may be sensitive; any non-zero exit means the key does not exist.
func (manager *Manager) ConfigExists(executionContext context.Context, configurationKey string) (bool, error) {
	executionResult, queryError := manager.runGit(executionContext, gitargs.ConfigGetArguments(configurationKey), true)
	if queryError != nil {
		return false, queryError
	}

	keyExists := executionResult.ExitCode == 0
	manager.logger.Debug(
		configurationValueSuppressedMessage,
		zap.String(logFieldConfigurationKeyConstant, configurationKey),
		zap.Bool(logFieldConfigurationKeyExistsConstant, keyExists),
	)
	return keyExists, nil
}

// DisableAutomaticGarbageCollection turns off automatic repository GC.
func (manager *Manager) DisableAutomaticGarbageCollection(executionContext context.Context) error {
	_, disableError := manager.runGitEnforced(executionContext, gitargs.DisableGarbageCollectionArguments(), false)
	return disableError
}

// Repack compacts the repository object store.
func (manager *Manager) Repack(executionContext context.Context) error {
	_, repackError := manager.runGitEnforced(executionContext, gitargs.RepackArguments(), false)
	return repackError
}

// Prune removes unreachable objects from the repository.
func (manager *Manager) Prune(executionContext context.Context) error {
	_, pruneError := manager.runGitEnforced(executionContext, gitargs.PruneArguments(), false)
	return pruneError
}

// LFSPrune removes retired large-file content from the repository.
func (manager *Manager) LFSPrune(executionContext context.Context) error {
	if extensionError := manager.requireExtension(); extensionError != nil {
		return extensionError
	}

	_, pruneError := manager.runGitEnforced(executionContext, gitargs.LFSPruneArguments(), false)
	return pruneError
}

// CountObjects returns repository object statistics as captured output lines.
func (manager *Manager) CountObjects(executionContext context.Context) ([]string, error) {
	executionResult, countError := manager.runGitEnforced(executionContext, gitargs.CountObjectsArguments(), true)
	if countError != nil {
		return nil, countError
	}
	return executionResult.OutputLines, nil
}

// LFSInstall installs the large-file hooks into the repository.
func (manager *Manager) LFSInstall(executionContext context.Context) error {
	if extensionError := manager.requireExtension(); extensionError != nil {
		return extensionError
	}

	_, installError := manager.runGitEnforced(executionContext, gitargs.LFSInstallArguments(), false)
	return installError
}

// LFSLogs returns the most recent large-file log as captured output lines.
func (manager *Manager) LFSLogs(executionContext context.Context) ([]string, error) {
	if extensionError := manager.requireExtension(); extensionError != nil {
		return nil, extensionError
	}

	executionResult, logsError := manager.runGitEnforced(executionContext, gitargs.LFSLogsArguments(), true)
	if logsError != nil {
		return nil, logsError
	}
	return executionResult.OutputLines, nil
}
