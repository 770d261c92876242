package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/gitgate/internal/gitmanager"
	"github.com/temirov/gitgate/internal/gitoutput"
	"github.com/temirov/gitgate/internal/gitversion"
	"github.com/temirov/gitgate/internal/utils/flags"
)

const (
	versionCommandUseConstant             = "version"
	versionCommandShortConstant           = "Report the gated git and git-lfs versions"
	fetchCommandUseConstant               = "fetch [refspec...]"
	fetchCommandShortConstant             = "Fetch refs from the configured remote with version-conditional flags"
	checkoutCommandUseConstant            = "checkout <ref>"
	checkoutCommandShortConstant          = "Force-checkout a commit, branch, or tag"
	cleanCommandUseConstant               = "clean"
	cleanCommandShortConstant             = "Remove untracked content from the working tree"
	resetCommandUseConstant               = "reset"
	resetCommandShortConstant             = "Hard-reset the working tree to HEAD"
	initCommandUseConstant                = "init"
	initCommandShortConstant              = "Initialize a repository at the configured path"
	remoteCommandUseConstant              = "remote"
	remoteCommandShortConstant            = "Inspect and update remote URLs"
	remoteGetCommandUseConstant           = "get [name]"
	remoteGetCommandShortConstant         = "Print the fetch URL of a remote"
	remoteAddCommandUseConstant           = "add <name> <url>"
	remoteAddCommandShortConstant         = "Register a remote"
	remoteSetURLCommandUseConstant        = "set-url <name> <url>"
	remoteSetURLCommandShortConstant      = "Update the fetch URL of a remote"
	remoteSetPushURLCommandUseConstant    = "set-push-url <name> <url>"
	remoteSetPushURLCommandShortConstant  = "Update the push URL of a remote"
	configCommandUseConstant              = "config"
	configCommandShortConstant            = "Read and write repository configuration"
	configGetCommandUseConstant           = "get <key>"
	configGetCommandShortConstant         = "Print every value recorded for a configuration key"
	configSetCommandUseConstant           = "set <key> <value>"
	configSetCommandShortConstant         = "Assign a configuration value"
	configUnsetCommandUseConstant         = "unset <key>"
	configUnsetCommandShortConstant       = "Remove every value recorded for a configuration key"
	configExistsCommandUseConstant        = "exists <key>"
	configExistsCommandShortConstant      = "Report whether a configuration key has any value"
	submoduleCommandUseConstant           = "submodule"
	submoduleCommandShortConstant         = "Operate on submodules recursively"
	submoduleCleanCommandUseConstant      = "clean"
	submoduleCleanCommandShortConstant    = "Remove untracked content from every submodule"
	submoduleResetCommandUseConstant      = "reset"
	submoduleResetCommandShortConstant    = "Hard-reset every submodule"
	submoduleSyncCommandUseConstant       = "sync"
	submoduleSyncCommandShortConstant     = "Synchronize submodule remote URLs"
	submoduleUpdateCommandUseConstant     = "update"
	submoduleUpdateCommandShortConstant   = "Check out submodule content at the recorded revisions"
	gcCommandUseConstant                  = "gc"
	gcCommandShortConstant                = "Repository garbage collection controls"
	gcDisableCommandUseConstant           = "disable"
	gcDisableCommandShortConstant         = "Turn off automatic repository garbage collection"
	repackCommandUseConstant              = "repack"
	repackCommandShortConstant            = "Compact the repository object store"
	pruneCommandUseConstant               = "prune"
	pruneCommandShortConstant             = "Remove unreachable objects from the repository"
	countObjectsCommandUseConstant        = "count-objects"
	countObjectsCommandShortConstant      = "Print repository object statistics"
	lfsCommandUseConstant                 = "lfs"
	lfsCommandShortConstant               = "Large-file extension operations"
	lfsVersionCommandUseConstant          = "version"
	lfsVersionCommandShortConstant        = "Report the installed git-lfs version"
	lfsInstallCommandUseConstant          = "install"
	lfsInstallCommandShortConstant        = "Install the large-file hooks into the repository"
	lfsFetchCommandUseConstant            = "fetch [ref]"
	lfsFetchCommandShortConstant          = "Fetch large-file content for a ref"
	lfsPruneCommandUseConstant            = "prune"
	lfsPruneCommandShortConstant          = "Remove retired large-file content"
	lfsLogsCommandUseConstant             = "logs"
	lfsLogsCommandShortConstant           = "Print the most recent large-file log"
	recursiveFlagNameConstant             = "recursive"
	recursiveFlagUsageConstant            = "Apply the operation to nested submodules."
	gitVersionOutputTemplateConstant      = "git version: %s\n"
	lfsVersionOutputTemplateConstant      = "git-lfs version: %s\n"
	lfsNotInstalledOutputConstant         = "git-lfs: not installed\n"
	userAgentOutputTemplateConstant       = "user agent: %s\n"
	remoteURLUnrecognizedOutputConstant   = "remote URL not recognized\n"
	configExistsTrueOutputConstant        = "true\n"
	configExistsFalseOutputConstant       = "false\n"
	minimumVersionOutputTemplateConstant  = "minimum supported: %s\n"
	versionBelowRequiredTemplateConstant  = "installed git %s is below required %s"
	requiredVersionParseFailureConstant   = "unable to parse required version %q"
	ensureVersionFlagNameConstant         = "require"
	ensureVersionFlagUsageConstant        = "Fail unless the installed git version is at least this version."
)

type managerRunFunction func(command *cobra.Command, manager *gitmanager.Manager, arguments []string) error

// newManagerCommand builds a Cobra command that resolves the command manager
// before delegating to the supplied run function.
func (application *Application) newManagerCommand(use string, short string, argumentPolicy cobra.PositionalArgs, run managerRunFunction) *cobra.Command {
	return &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          argumentPolicy,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			manager, managerError := application.resolveManager(command)
			if managerError != nil {
				return managerError
			}
			return run(command, manager, arguments)
		},
	}
}

func (application *Application) buildOperationCommands() []*cobra.Command {
	return []*cobra.Command{
		application.buildVersionCommand(),
		application.buildFetchCommand(),
		application.buildCheckoutCommand(),
		application.buildCleanCommand(),
		application.buildResetCommand(),
		application.buildInitCommand(),
		application.buildRemoteCommand(),
		application.buildConfigCommand(),
		application.buildSubmoduleCommand(),
		application.buildGarbageCollectionCommand(),
		application.buildRepackCommand(),
		application.buildPruneCommand(),
		application.buildCountObjectsCommand(),
		application.buildLFSCommand(),
	}
}

func (application *Application) buildVersionCommand() *cobra.Command {
	var requiredVersionValue string

	versionCommand := application.newManagerCommand(versionCommandUseConstant, versionCommandShortConstant, cobra.NoArgs, func(command *cobra.Command, manager *gitmanager.Manager, _ []string) error {
		installedVersion, versionError := manager.GitVersion()
		if versionError != nil {
			return versionError
		}

		fmt.Fprintf(command.OutOrStdout(), gitVersionOutputTemplateConstant, installedVersion.String())
		fmt.Fprintf(command.OutOrStdout(), minimumVersionOutputTemplateConstant, gitmanager.MinimumSupportedVersion().String())
		fmt.Fprintf(command.OutOrStdout(), userAgentOutputTemplateConstant, manager.UserAgent())

		extensionVersion, extensionError := manager.LFSVersion()
		if extensionError != nil {
			var notFoundError gitversion.ToolNotFoundError
			if !errors.As(extensionError, &notFoundError) {
				return extensionError
			}
			fmt.Fprint(command.OutOrStdout(), lfsNotInstalledOutputConstant)
		} else {
			fmt.Fprintf(command.OutOrStdout(), lfsVersionOutputTemplateConstant, extensionVersion.String())
		}

		if len(requiredVersionValue) > 0 {
			return enforceRequiredVersion(manager, requiredVersionValue)
		}
		return nil
	})

	versionCommand.Flags().StringVar(&requiredVersionValue, ensureVersionFlagNameConstant, "", ensureVersionFlagUsageConstant)

	return versionCommand
}

func enforceRequiredVersion(manager *gitmanager.Manager, requiredVersionValue string) error {
	requiredVersion := gitoutput.ExtractVersion([]string{requiredVersionValue})
	if requiredVersion == nil {
		return fmt.Errorf(requiredVersionParseFailureConstant, requiredVersionValue)
	}

	satisfied, ensureError := manager.EnsureGitVersion(*requiredVersion, false)
	if ensureError != nil {
		return ensureError
	}
	if !satisfied {
		installedVersion, versionError := manager.GitVersion()
		if versionError != nil {
			return versionError
		}
		return fmt.Errorf(versionBelowRequiredTemplateConstant, installedVersion.String(), requiredVersion.String())
	}
	return nil
}

func (application *Application) buildFetchCommand() *cobra.Command {
	return application.newManagerCommand(fetchCommandUseConstant, fetchCommandShortConstant, cobra.ArbitraryArgs, func(command *cobra.Command, manager *gitmanager.Manager, arguments []string) error {
		return manager.Fetch(command.Context(), arguments)
	})
}

func (application *Application) buildCheckoutCommand() *cobra.Command {
	return application.newManagerCommand(checkoutCommandUseConstant, checkoutCommandShortConstant, cobra.ExactArgs(1), func(command *cobra.Command, manager *gitmanager.Manager, arguments []string) error {
		return manager.Checkout(command.Context(), arguments[0])
	})
}

func (application *Application) buildCleanCommand() *cobra.Command {
	return application.newManagerCommand(cleanCommandUseConstant, cleanCommandShortConstant, cobra.NoArgs, func(command *cobra.Command, manager *gitmanager.Manager, _ []string) error {
		return manager.Clean(command.Context())
	})
}

func (application *Application) buildResetCommand() *cobra.Command {
	return application.newManagerCommand(resetCommandUseConstant, resetCommandShortConstant, cobra.NoArgs, func(command *cobra.Command, manager *gitmanager.Manager, _ []string) error {
		return manager.Reset(command.Context())
	})
}

func (application *Application) buildInitCommand() *cobra.Command {
	return application.newManagerCommand(initCommandUseConstant, initCommandShortConstant, cobra.NoArgs, func(command *cobra.Command, manager *gitmanager.Manager, _ []string) error {
		return manager.Init(command.Context())
	})
}

func (application *Application) buildRemoteCommand() *cobra.Command {
	remoteCommand := &cobra.Command{
		Use:   remoteCommandUseConstant,
		Short: remoteCommandShortConstant,
	}

	remoteCommand.AddCommand(application.newManagerCommand(remoteGetCommandUseConstant, remoteGetCommandShortConstant, cobra.MaximumNArgs(1), func(command *cobra.Command, manager *gitmanager.Manager, arguments []string) error {
		remoteName := application.configuration.Git.Remote
		if len(arguments) > 0 {
			remoteName = arguments[0]
		}

		remoteURL, urlError := manager.GetRemoteURL(command.Context(), remoteName)
		if urlError != nil {
			return urlError
		}
		if remoteURL == nil {
			fmt.Fprint(command.OutOrStdout(), remoteURLUnrecognizedOutputConstant)
			return nil
		}
		fmt.Fprintln(command.OutOrStdout(), remoteURL.String())
		return nil
	}))

	remoteCommand.AddCommand(application.newManagerCommand(remoteAddCommandUseConstant, remoteAddCommandShortConstant, cobra.ExactArgs(2), func(command *cobra.Command, manager *gitmanager.Manager, arguments []string) error {
		return manager.AddRemote(command.Context(), arguments[0], arguments[1])
	}))

	remoteCommand.AddCommand(application.newManagerCommand(remoteSetURLCommandUseConstant, remoteSetURLCommandShortConstant, cobra.ExactArgs(2), func(command *cobra.Command, manager *gitmanager.Manager, arguments []string) error {
		return manager.SetRemoteURL(command.Context(), arguments[0], arguments[1])
	}))

	remoteCommand.AddCommand(application.newManagerCommand(remoteSetPushURLCommandUseConstant, remoteSetPushURLCommandShortConstant, cobra.ExactArgs(2), func(command *cobra.Command, manager *gitmanager.Manager, arguments []string) error {
		return manager.SetRemotePushURL(command.Context(), arguments[0], arguments[1])
	}))

	return remoteCommand
}

func (application *Application) buildConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configCommandUseConstant,
		Short: configCommandShortConstant,
	}

	configCommand.AddCommand(application.newManagerCommand(configGetCommandUseConstant, configGetCommandShortConstant, cobra.ExactArgs(1), func(command *cobra.Command, manager *gitmanager.Manager, arguments []string) error {
		configurationValues, getError := manager.ConfigGet(command.Context(), arguments[0])
		if getError != nil {
			return getError
		}
		for _, configurationValue := range configurationValues {
			fmt.Fprintln(command.OutOrStdout(), configurationValue)
		}
		return nil
	}))

	configCommand.AddCommand(application.newManagerCommand(configSetCommandUseConstant, configSetCommandShortConstant, cobra.ExactArgs(2), func(command *cobra.Command, manager *gitmanager.Manager, arguments []string) error {
		return manager.ConfigSet(command.Context(), arguments[0], arguments[1])
	}))

	configCommand.AddCommand(application.newManagerCommand(configUnsetCommandUseConstant, configUnsetCommandShortConstant, cobra.ExactArgs(1), func(command *cobra.Command, manager *gitmanager.Manager, arguments []string) error {
		return manager.ConfigUnset(command.Context(), arguments[0])
	}))

	configCommand.AddCommand(application.newManagerCommand(configExistsCommandUseConstant, configExistsCommandShortConstant, cobra.ExactArgs(1), func(command *cobra.Command, manager *gitmanager.Manager, arguments []string) error {
		keyExists, existsError := manager.ConfigExists(command.Context(), arguments[0])
		if existsError != nil {
			return existsError
		}
		if keyExists {
			fmt.Fprint(command.OutOrStdout(), configExistsTrueOutputConstant)
		} else {
			fmt.Fprint(command.OutOrStdout(), configExistsFalseOutputConstant)
		}
		return nil
	}))

	return configCommand
}

func (application *Application) buildSubmoduleCommand() *cobra.Command {
	submoduleCommand := &cobra.Command{
		Use:   submoduleCommandUseConstant,
		Short: submoduleCommandShortConstant,
	}

	submoduleCommand.AddCommand(application.newManagerCommand(submoduleCleanCommandUseConstant, submoduleCleanCommandShortConstant, cobra.NoArgs, func(command *cobra.Command, manager *gitmanager.Manager, _ []string) error {
		return manager.SubmoduleClean(command.Context())
	}))

	submoduleCommand.AddCommand(application.newManagerCommand(submoduleResetCommandUseConstant, submoduleResetCommandShortConstant, cobra.NoArgs, func(command *cobra.Command, manager *gitmanager.Manager, _ []string) error {
		return manager.SubmoduleReset(command.Context())
	}))

	var syncRecursively bool
	syncCommand := application.newManagerCommand(submoduleSyncCommandUseConstant, submoduleSyncCommandShortConstant, cobra.NoArgs, func(command *cobra.Command, manager *gitmanager.Manager, _ []string) error {
		return manager.SubmoduleSync(command.Context(), syncRecursively)
	})
	flags.AddToggleFlag(syncCommand.Flags(), &syncRecursively, recursiveFlagNameConstant, "", true, recursiveFlagUsageConstant)
	submoduleCommand.AddCommand(syncCommand)

	var updateRecursively bool
	updateCommand := application.newManagerCommand(submoduleUpdateCommandUseConstant, submoduleUpdateCommandShortConstant, cobra.NoArgs, func(command *cobra.Command, manager *gitmanager.Manager, _ []string) error {
		return manager.SubmoduleUpdate(command.Context(), application.configuration.Git.Depth, updateRecursively)
	})
	flags.AddToggleFlag(updateCommand.Flags(), &updateRecursively, recursiveFlagNameConstant, "", true, recursiveFlagUsageConstant)
	submoduleCommand.AddCommand(updateCommand)

	return submoduleCommand
}

func (application *Application) buildGarbageCollectionCommand() *cobra.Command {
	garbageCollectionCommand := &cobra.Command{
		Use:   gcCommandUseConstant,
		Short: gcCommandShortConstant,
	}

	garbageCollectionCommand.AddCommand(application.newManagerCommand(gcDisableCommandUseConstant, gcDisableCommandShortConstant, cobra.NoArgs, func(command *cobra.Command, manager *gitmanager.Manager, _ []string) error {
		return manager.DisableAutomaticGarbageCollection(command.Context())
	}))

	return garbageCollectionCommand
}

func (application *Application) buildRepackCommand() *cobra.Command {
	return application.newManagerCommand(repackCommandUseConstant, repackCommandShortConstant, cobra.NoArgs, func(command *cobra.Command, manager *gitmanager.Manager, _ []string) error {
		return manager.Repack(command.Context())
	})
}

func (application *Application) buildPruneCommand() *cobra.Command {
	return application.newManagerCommand(pruneCommandUseConstant, pruneCommandShortConstant, cobra.NoArgs, func(command *cobra.Command, manager *gitmanager.Manager, _ []string) error {
		return manager.Prune(command.Context())
	})
}

func (application *Application) buildCountObjectsCommand() *cobra.Command {
	return application.newManagerCommand(countObjectsCommandUseConstant, countObjectsCommandShortConstant, cobra.NoArgs, func(command *cobra.Command, manager *gitmanager.Manager, _ []string) error {
		statisticsLines, countError := manager.CountObjects(command.Context())
		if countError != nil {
			return countError
		}
		for _, statisticsLine := range statisticsLines {
			fmt.Fprintln(command.OutOrStdout(), statisticsLine)
		}
		return nil
	})
}

func (application *Application) buildLFSCommand() *cobra.Command {
	lfsCommand := &cobra.Command{
		Use:   lfsCommandUseConstant,
		Short: lfsCommandShortConstant,
	}

	lfsCommand.AddCommand(application.newManagerCommand(lfsVersionCommandUseConstant, lfsVersionCommandShortConstant, cobra.NoArgs, func(command *cobra.Command, manager *gitmanager.Manager, _ []string) error {
		extensionVersion, extensionError := manager.LFSVersion()
		if extensionError != nil {
			return extensionError
		}
		fmt.Fprintf(command.OutOrStdout(), lfsVersionOutputTemplateConstant, extensionVersion.String())
		return nil
	}))

	lfsCommand.AddCommand(application.newManagerCommand(lfsInstallCommandUseConstant, lfsInstallCommandShortConstant, cobra.NoArgs, func(command *cobra.Command, manager *gitmanager.Manager, _ []string) error {
		return manager.LFSInstall(command.Context())
	}))

	lfsCommand.AddCommand(application.newManagerCommand(lfsFetchCommandUseConstant, lfsFetchCommandShortConstant, cobra.MaximumNArgs(1), func(command *cobra.Command, manager *gitmanager.Manager, arguments []string) error {
		refSpec := ""
		if len(arguments) > 0 {
			refSpec = arguments[0]
		}
		return manager.LFSFetch(command.Context(), refSpec)
	}))

	lfsCommand.AddCommand(application.newManagerCommand(lfsPruneCommandUseConstant, lfsPruneCommandShortConstant, cobra.NoArgs, func(command *cobra.Command, manager *gitmanager.Manager, _ []string) error {
		return manager.LFSPrune(command.Context())
	}))

	lfsCommand.AddCommand(application.newManagerCommand(lfsLogsCommandUseConstant, lfsLogsCommandShortConstant, cobra.NoArgs, func(command *cobra.Command, manager *gitmanager.Manager, _ []string) error {
		logLines, logsError := manager.LFSLogs(command.Context())
		if logsError != nil {
			return logsError
		}
		for _, logLine := range logLines {
			fmt.Fprintln(command.OutOrStdout(), logLine)
		}
		return nil
	}))

	return lfsCommand
}
