package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/gitgate/internal/execshell"
	"github.com/temirov/gitgate/internal/gitmanager"
	"github.com/temirov/gitgate/internal/ui"
	"github.com/temirov/gitgate/internal/utils"
	"github.com/temirov/gitgate/internal/utils/flags"
	pathutils "github.com/temirov/gitgate/internal/utils/path"
)

const (
	applicationNameConstant                 = "gitgate"
	applicationShortDescriptionConstant     = "Version-gated command-line wrapper for git and git-lfs"
	applicationLongDescriptionConstant      = "gitgate resolves the installed git and git-lfs executables, gates their versions, and runs repository operations with sanitized child environments."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagDescriptionConstant         = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagDescriptionConstant        = "Override the configured log format."
	repositoryFlagNameConstant              = "repository"
	repositoryFlagUsageConstant             = "Path to the repository working tree."
	remoteFlagNameConstant                  = "remote"
	remoteFlagUsageConstant                 = "Remote name to target."
	depthFlagNameConstant                   = "depth"
	depthFlagUsageConstant                  = "Fetch depth; zero fetches full history and unshallows shallow clones."
	disablePruneTagsFlagNameConstant        = "disable-prune-tags"
	disablePruneTagsFlagUsageConstant       = "Skip pruning remote tags during fetch."
	gitExecutableFlagNameConstant           = "git-executable"
	gitExecutableFlagUsageConstant          = "Explicit path to the git executable."
	lfsExecutableFlagNameConstant           = "lfs-executable"
	lfsExecutableFlagUsageConstant          = "Explicit path to the git-lfs executable."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	gitConfigurationKeyConstant             = "git"
	gitRepositoryConfigKeyConstant          = gitConfigurationKeyConstant + ".repository"
	gitRemoteConfigKeyConstant              = gitConfigurationKeyConstant + ".remote"
	environmentPrefixConstant               = "GITGATE"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	defaultConfigurationSearchPathConstant  = "."
	defaultRepositoryPathConstant           = "."
	defaultRemoteNameConstant               = "origin"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Git    ApplicationGitConfiguration    `mapstructure:"git"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationGitConfiguration stores repository and tool location settings.
type ApplicationGitConfiguration struct {
	Repository       string            `mapstructure:"repository"`
	Remote           string            `mapstructure:"remote"`
	Depth            int               `mapstructure:"depth"`
	DisablePruneTags bool              `mapstructure:"disable_prune_tags"`
	Executable       string            `mapstructure:"executable"`
	LFSExecutable    string            `mapstructure:"lfs_executable"`
	Variables        map[string]string `mapstructure:"variables"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	homeExpander           *pathutils.HomeExpander
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	repositoryFlagValue    string
	remoteFlagValue        string
	depthFlagValue         int
	disablePruneTagsValue  bool
	gitExecutableFlagValue string
	lfsExecutableFlagValue string
	commandContextAccessor utils.CommandContextAccessor
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)

	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedConfiguration, embeddedConfigurationType)

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		homeExpander:           pathutils.NewHomeExpander(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())

	persistentFlags := cobraCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	persistentFlags.StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", flags.FormatChoiceUsage(
		string(utils.LogLevelInfo),
		[]string{string(utils.LogLevelDebug), string(utils.LogLevelInfo), string(utils.LogLevelWarn), string(utils.LogLevelError)},
		logLevelFlagDescriptionConstant,
	))
	persistentFlags.StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", flags.FormatChoiceUsage(
		string(utils.LogFormatStructured),
		[]string{string(utils.LogFormatStructured), string(utils.LogFormatConsole)},
		logFormatFlagDescriptionConstant,
	))
	persistentFlags.StringVar(&application.repositoryFlagValue, repositoryFlagNameConstant, "", repositoryFlagUsageConstant)
	persistentFlags.StringVar(&application.remoteFlagValue, remoteFlagNameConstant, "", remoteFlagUsageConstant)
	persistentFlags.IntVar(&application.depthFlagValue, depthFlagNameConstant, 0, depthFlagUsageConstant)
	flags.AddToggleFlag(persistentFlags, &application.disablePruneTagsValue, disablePruneTagsFlagNameConstant, "", false, disablePruneTagsFlagUsageConstant)
	persistentFlags.StringVar(&application.gitExecutableFlagValue, gitExecutableFlagNameConstant, "", gitExecutableFlagUsageConstant)
	persistentFlags.StringVar(&application.lfsExecutableFlagValue, lfsExecutableFlagNameConstant, "", lfsExecutableFlagUsageConstant)

	for _, operationCommand := range application.buildOperationCommands() {
		cobraCommand.AddCommand(operationCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy with a signal-cancelled
// context and ensures logger flushing.
func (application *Application) Execute() error {
	executionContext, stopSignalHandling := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignalHandling()

	application.rootCommand.SetContext(executionContext)
	application.rootCommand.SetArgs(flags.NormalizeToggleArguments(os.Args[1:]))
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

// RootCommand exposes the assembled Cobra root command.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
		gitRepositoryConfigKeyConstant:   defaultRepositoryPathConstant,
		gitRemoteConfigKeyConstant:       defaultRemoteNameConstant,
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration
	application.applyFlagOverrides(command)

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) applyFlagOverrides(command *cobra.Command) {
	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}
	if application.persistentFlagChanged(command, repositoryFlagNameConstant) {
		application.configuration.Git.Repository = application.repositoryFlagValue
	}
	if application.persistentFlagChanged(command, remoteFlagNameConstant) {
		application.configuration.Git.Remote = application.remoteFlagValue
	}
	if application.persistentFlagChanged(command, depthFlagNameConstant) {
		application.configuration.Git.Depth = application.depthFlagValue
	}
	if application.persistentFlagChanged(command, disablePruneTagsFlagNameConstant) {
		application.configuration.Git.DisablePruneTags = application.disablePruneTagsValue
	}
	if application.persistentFlagChanged(command, gitExecutableFlagNameConstant) {
		application.configuration.Git.Executable = application.gitExecutableFlagValue
	}
	if application.persistentFlagChanged(command, lfsExecutableFlagNameConstant) {
		application.configuration.Git.LFSExecutable = application.lfsExecutableFlagValue
	}
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

// resolveManager wires the shell executor and command manager from the active
// configuration and loads execution info before any operation runs.
func (application *Application) resolveManager(command *cobra.Command) (*gitmanager.Manager, error) {
	outputPrinter := ui.NewCommandOutputPrinter(utils.NewFlushingWriter(command.OutOrStdout()))
	commandRunner := execshell.NewOSCommandRunner(outputPrinter)

	var eventObservers []execshell.CommandEventObserver
	if application.humanReadableLoggingEnabled() {
		eventObservers = append(eventObservers, ui.NewConsoleCommandEventLogger(application.logger))
	}

	shellExecutor, executorError := execshell.NewShellExecutor(application.logger, commandRunner, eventObservers...)
	if executorError != nil {
		return nil, executorError
	}

	manager, managerError := gitmanager.NewManager(application.logger, shellExecutor, gitmanager.Options{
		RepositoryPath:         application.homeExpander.Expand(application.configuration.Git.Repository),
		RemoteName:             application.configuration.Git.Remote,
		FetchDepth:             application.configuration.Git.Depth,
		DisablePruneTags:       application.configuration.Git.DisablePruneTags,
		GitPathOverride:        application.configuration.Git.Executable,
		GitLFSPathOverride:     application.configuration.Git.LFSExecutable,
		ConfigurationVariables: application.configuration.Git.Variables,
	})
	if managerError != nil {
		return nil, managerError
	}

	if loadError := manager.LoadExecutionInfo(command.Context()); loadError != nil {
		return nil, loadError
	}

	return manager, nil
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
