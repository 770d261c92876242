package gitargs

import (
	"fmt"
	"strings"

	"github.com/temirov/gitgate/internal/gitversion"
)

const (
	fetchSubcommandConstant            = "fetch"
	checkoutSubcommandConstant         = "checkout"
	cleanSubcommandConstant            = "clean"
	resetSubcommandConstant            = "reset"
	initSubcommandConstant             = "init"
	remoteSubcommandConstant           = "remote"
	submoduleSubcommandConstant        = "submodule"
	configSubcommandConstant           = "config"
	repackSubcommandConstant           = "repack"
	pruneSubcommandConstant            = "prune"
	countObjectsSubcommandConstant     = "count-objects"
	versionSubcommandConstant          = "version"
	lfsSubcommandConstant              = "lfs"
	forceFlagConstant                  = "--force"
	tagsFlagConstant                   = "--tags"
	pruneFlagConstant                  = "--prune"
	pruneTagsFlagConstant              = "--prune-tags"
	progressFlagConstant               = "--progress"
	noRecurseSubmodulesFlagConstant    = "--no-recurse-submodules"
	unshallowFlagConstant              = "--unshallow"
	depthFlagTemplateConstant          = "--depth=%d"
	doubleForceCleanFlagConstant       = "-ffdx"
	singleForceCleanFlagConstant       = "-fdx"
	hardResetFlagConstant              = "--hard"
	headReferenceConstant              = "HEAD"
	remoteAddSubcommandConstant        = "add"
	remoteGetURLSubcommandConstant     = "get-url"
	remoteSetURLSubcommandConstant     = "set-url"
	pushFlagConstant                   = "--push"
	foreachSubcommandConstant          = "foreach"
	recursiveFlagConstant              = "--recursive"
	submoduleSyncSubcommandConstant    = "sync"
	submoduleUpdateSubcommandConstant  = "update"
	initFlagConstant                   = "--init"
	configGetAllFlagConstant           = "--get-all"
	configUnsetAllFlagConstant         = "--unset-all"
	gcAutoConfigKeyConstant            = "gc.auto"
	gcAutoDisabledValueConstant        = "0"
	repackAggressiveFlagsConstant      = "-adfl"
	countObjectsVerboseFlagConstant    = "-v"
	countObjectsHumanFlagConstant      = "-H"
	lfsInstallSubcommandConstant       = "install"
	lfsInstallLocalFlagConstant        = "--local"
	lfsLogsSubcommandConstant          = "logs"
	lfsLogsLastArgumentConstant        = "last"
	pathspecSeparatorConstant          = "--"
	submoduleForeachCleanScript        = "git clean %s"
	submoduleForeachResetScript        = "git reset --hard HEAD"
	quotedPathTemplateConstant         = "\"%s\""
	embeddedQuoteConstant              = "\""
	escapedEmbeddedQuoteConstant       = "\\\""
	minimumPruneTagsVersionMajor       = 2
	minimumPruneTagsVersionMinor       = 17
	minimumCheckoutProgressMajor       = 2
	minimumCheckoutProgressMinor       = 7
	minimumDoubleForceCleanMajor       = 2
	minimumDoubleForceCleanMinor       = 4
)

// FetchOptions carries the caller-controlled parameters for a fetch.
type FetchOptions struct {
	RemoteName           string
	RefSpecs             []string
	Depth                int
	ShallowMarkerPresent bool
	PruneTagsDisabled    bool
}

// FetchArguments composes the fetch argument vector. The prune-tags flag
// requires git 2.17; a positive depth yields a depth flag while a
// non-positive depth against a shallow clone yields the unshallow flag.
// Blank ref-specs are dropped.
func FetchArguments(installedVersion gitversion.Version, options FetchOptions) []string {
	fetchArguments := []string{fetchSubcommandConstant, forceFlagConstant, tagsFlagConstant, pruneFlagConstant}

	supportsPruneTags := installedVersion.AtLeast(gitversion.NewMajorMinorVersion(minimumPruneTagsVersionMajor, minimumPruneTagsVersionMinor))
	if supportsPruneTags && !options.PruneTagsDisabled {
		fetchArguments = append(fetchArguments, pruneTagsFlagConstant)
	}

	fetchArguments = append(fetchArguments, progressFlagConstant, noRecurseSubmodulesFlagConstant, options.RemoteName)

	switch {
	case options.Depth > 0:
		fetchArguments = append(fetchArguments, fmt.Sprintf(depthFlagTemplateConstant, options.Depth))
	case options.ShallowMarkerPresent:
		fetchArguments = append(fetchArguments, unshallowFlagConstant)
	}

	for _, refSpec := range options.RefSpecs {
		trimmedRefSpec := strings.TrimSpace(refSpec)
		if len(trimmedRefSpec) > 0 {
			fetchArguments = append(fetchArguments, trimmedRefSpec)
		}
	}

	return fetchArguments
}

// CheckoutArguments composes the checkout argument vector, adding the
// progress flag on git 2.7 and above.
func CheckoutArguments(installedVersion gitversion.Version, checkoutSpec string) []string {
	checkoutArguments := []string{checkoutSubcommandConstant}
	if installedVersion.AtLeast(gitversion.NewMajorMinorVersion(minimumCheckoutProgressMajor, minimumCheckoutProgressMinor)) {
		checkoutArguments = append(checkoutArguments, progressFlagConstant)
	}
	return append(checkoutArguments, forceFlagConstant, checkoutSpec)
}

// CheckoutFileArguments composes a scoped checkout of a single file from the
// supplied tree-ish.
func CheckoutFileArguments(checkoutSpec string, filePath string) []string {
	return []string{checkoutSubcommandConstant, checkoutSpec, pathspecSeparatorConstant, filePath}
}

// CleanArguments composes the working-tree clean argument vector. Git 2.4 and
// above selects the double-force variant.
func CleanArguments(installedVersion gitversion.Version) []string {
	return []string{cleanSubcommandConstant, cleanFlag(installedVersion)}
}

// ResetArguments composes a hard reset to HEAD.
func ResetArguments() []string {
	return []string{resetSubcommandConstant, hardResetFlagConstant, headReferenceConstant}
}

// InitArguments composes repository initialization. The repository path is the
// one argument that may legitimately contain spaces; it travels as a single
// argv element, so no shell quoting is required.
func InitArguments(repositoryPath string) []string {
	return []string{initSubcommandConstant, repositoryPath}
}

// QuoteRepositoryPath renders a repository path for display inside composed
// command lines, wrapping it in quotes and escaping embedded quote characters.
func QuoteRepositoryPath(repositoryPath string) string {
	escapedPath := strings.ReplaceAll(repositoryPath, embeddedQuoteConstant, escapedEmbeddedQuoteConstant)
	return fmt.Sprintf(quotedPathTemplateConstant, escapedPath)
}

// AddRemoteArguments composes remote registration.
func AddRemoteArguments(remoteName string, remoteURL string) []string {
	return []string{remoteSubcommandConstant, remoteAddSubcommandConstant, remoteName, remoteURL}
}

// GetRemoteURLArguments composes the remote URL query.
func GetRemoteURLArguments(remoteName string) []string {
	return []string{remoteSubcommandConstant, remoteGetURLSubcommandConstant, remoteName}
}

// SetRemoteURLArguments composes the remote fetch URL update.
func SetRemoteURLArguments(remoteName string, remoteURL string) []string {
	return []string{remoteSubcommandConstant, remoteSetURLSubcommandConstant, remoteName, remoteURL}
}

// SetRemotePushURLArguments composes the remote push URL update.
func SetRemotePushURLArguments(remoteName string, remoteURL string) []string {
	return []string{remoteSubcommandConstant, remoteSetURLSubcommandConstant, pushFlagConstant, remoteName, remoteURL}
}

// SubmoduleCleanArguments composes a recursive clean across submodules using
// the same version-conditional clean flag as the top-level working tree.
func SubmoduleCleanArguments(installedVersion gitversion.Version) []string {
	foreachScript := fmt.Sprintf(submoduleForeachCleanScript, cleanFlag(installedVersion))
	return []string{submoduleSubcommandConstant, foreachSubcommandConstant, recursiveFlagConstant, foreachScript}
}

// SubmoduleResetArguments composes a recursive hard reset across submodules.
func SubmoduleResetArguments() []string {
	return []string{submoduleSubcommandConstant, foreachSubcommandConstant, recursiveFlagConstant, submoduleForeachResetScript}
}

// SubmoduleSyncArguments composes submodule URL synchronization.
func SubmoduleSyncArguments(recursive bool) []string {
	syncArguments := []string{submoduleSubcommandConstant, submoduleSyncSubcommandConstant}
	if recursive {
		syncArguments = append(syncArguments, recursiveFlagConstant)
	}
	return syncArguments
}

// SubmoduleUpdateArguments composes submodule checkout, appending depth and
// recursion flags only when requested.
func SubmoduleUpdateArguments(depth int, recursive bool) []string {
	updateArguments := []string{submoduleSubcommandConstant, submoduleUpdateSubcommandConstant, initFlagConstant, forceFlagConstant}
	if depth > 0 {
		updateArguments = append(updateArguments, fmt.Sprintf(depthFlagTemplateConstant, depth))
	}
	if recursive {
		updateArguments = append(updateArguments, recursiveFlagConstant)
	}
	return updateArguments
}

// ConfigGetArguments composes a configuration value query.
func ConfigGetArguments(configurationKey string) []string {
	return []string{configSubcommandConstant, configGetAllFlagConstant, configurationKey}
}

// ConfigSetArguments composes a configuration value assignment.
func ConfigSetArguments(configurationKey string, configurationValue string) []string {
	return []string{configSubcommandConstant, configurationKey, configurationValue}
}

// ConfigUnsetArguments composes removal of every value for a configuration key.
func ConfigUnsetArguments(configurationKey string) []string {
	return []string{configSubcommandConstant, configUnsetAllFlagConstant, configurationKey}
}

// DisableGarbageCollectionArguments composes the automatic GC opt-out.
func DisableGarbageCollectionArguments() []string {
	return []string{configSubcommandConstant, gcAutoConfigKeyConstant, gcAutoDisabledValueConstant}
}

// RepackArguments composes repository compaction.
func RepackArguments() []string {
	return []string{repackSubcommandConstant, repackAggressiveFlagsConstant}
}

// PruneArguments composes unreachable object pruning.
func PruneArguments() []string {
	return []string{pruneSubcommandConstant}
}

// CountObjectsArguments composes the repository statistics query.
func CountObjectsArguments() []string {
	return []string{countObjectsSubcommandConstant, countObjectsVerboseFlagConstant, countObjectsHumanFlagConstant}
}

// VersionArguments composes the version probe for either tool.
func VersionArguments() []string {
	return []string{versionSubcommandConstant}
}

// LFSFetchArguments composes the large-file fetch for a remote and ref.
func LFSFetchArguments(remoteName string, refSpec string) []string {
	lfsArguments := []string{lfsSubcommandConstant, fetchSubcommandConstant, remoteName}
	trimmedRefSpec := strings.TrimSpace(refSpec)
	if len(trimmedRefSpec) > 0 {
		lfsArguments = append(lfsArguments, trimmedRefSpec)
	}
	return lfsArguments
}

// LFSInstallArguments composes repository-local LFS hook installation.
func LFSInstallArguments() []string {
	return []string{lfsSubcommandConstant, lfsInstallSubcommandConstant, lfsInstallLocalFlagConstant}
}

// LFSPruneArguments composes removal of retired large-file content.
func LFSPruneArguments() []string {
	return []string{lfsSubcommandConstant, pruneSubcommandConstant}
}

// LFSLogsArguments composes retrieval of the most recent LFS log.
func LFSLogsArguments() []string {
	return []string{lfsSubcommandConstant, lfsLogsSubcommandConstant, lfsLogsLastArgumentConstant}
}

func cleanFlag(installedVersion gitversion.Version) string {
	if installedVersion.AtLeast(gitversion.NewMajorMinorVersion(minimumDoubleForceCleanMajor, minimumDoubleForceCleanMinor)) {
		return doubleForceCleanFlagConstant
	}
	return singleForceCleanFlagConstant
}
