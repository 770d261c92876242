package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	commandGitNameConstant                 = "git"
	commandGitLFSNameConstant              = "git-lfs"
	commandStartedMessageConstant          = "executing command"
	commandCompletedMessageConstant        = "command completed"
	commandFailedMessageConstant           = "command exited with non-zero code"
	commandExecutionFailedMessageConstant  = "command execution failed"
	logFieldCommandConstant                = "command"
	logFieldWorkingDirectoryConstant       = "working_directory"
	logFieldExitCodeConstant               = "exit_code"
	commandFailedErrorTemplateConstant     = "%s failed with exit code %d"
	commandExecutionErrorTemplateConstant  = "%s failed: %s"
	commandLabelArgumentSeparatorConstant  = " "
	unknownExecutionFailureMessageConstant = "unknown error"
)

// Initialization failures represent programming errors, not runtime conditions.
var (
	ErrLoggerNotConfigured        = errors.New("logger not configured")
	ErrCommandRunnerNotConfigured = errors.New("command runner not configured")
)

// CommandName identifies a supported executable family.
type CommandName string

// Supported command enumerations.
const (
	CommandGit    CommandName = CommandName(commandGitNameConstant)
	CommandGitLFS CommandName = CommandName(commandGitLFSNameConstant)
)

// CommandDetails describes a single tool invocation.
type CommandDetails struct {
	ExecutablePath       string
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	CaptureOutput        bool
}

// ShellCommand combines a CommandName with specific invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable results of executing a command.
// OutputLines is populated only for captured invocations; streamed invocations
// deliver lines to the configured sink instead.
type ExecutionResult struct {
	ExitCode    int
	OutputLines []string
}

// CommandRunner represents the ability to run shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	CommandCompleted(command ShellCommand, result ExecutionResult)
	CommandExecutionFailed(command ShellCommand, failure error)
}

type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand)                    {}
func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}
func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error)     {}

// CommandFailedError indicates a command completed with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command and its exit code.
func (failure CommandFailedError) Error() string {
	return fmt.Sprintf(commandFailedErrorTemplateConstant, FormatCommandLabel(failure.Command), failure.Result.ExitCode)
}

// CommandExecutionError indicates a command could not be executed or was
// canceled before completion. The cause is wrapped so callers distinguish
// cancellation via errors.Is(err, context.Canceled).
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	failureMessage := unknownExecutionFailureMessageConstant
	if failure.Cause != nil {
		failureMessage = failure.Cause.Error()
	}
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, FormatCommandLabel(failure.Command), failureMessage)
}

// Unwrap exposes the underlying cause.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// FormatCommandLabel renders a human-readable label for the invocation.
func FormatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, command.Details.Arguments...)
	}
	return strings.Join(commandParts, commandLabelArgumentSeparatorConstant)
}

// ShellExecutor coordinates command execution with logging and event observation.
type ShellExecutor struct {
	logger        *zap.Logger
	commandRunner CommandRunner
	eventObserver CommandEventObserver
}

// NewShellExecutor validates collaborators and constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, eventObservers ...CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	var eventObserver CommandEventObserver = noopCommandEventObserver{}
	if len(eventObservers) > 0 && eventObservers[0] != nil {
		eventObserver = eventObservers[0]
	}

	return &ShellExecutor{logger: logger, commandRunner: commandRunner, eventObserver: eventObserver}, nil
}

// ExecuteGit runs git with the provided invocation details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// ExecuteGitLFS runs git-lfs with the provided invocation details.
func (executor *ShellExecutor) ExecuteGitLFS(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGitLFS, Details: details})
}

// Execute runs the supplied command, logging lifecycle events and notifying
// the configured observer. A non-zero exit code is returned as data, never as
// an error; execution failures and cancellation are returned as
// CommandExecutionError values wrapping their cause.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.eventObserver.CommandStarted(command)
	executor.logger.Debug(
		commandStartedMessageConstant,
		zap.String(logFieldCommandConstant, FormatCommandLabel(command)),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executionFailure := CommandExecutionError{Command: command, Cause: runError}
		executor.eventObserver.CommandExecutionFailed(command, executionFailure)
		executor.logger.Warn(
			commandExecutionFailedMessageConstant,
			zap.String(logFieldCommandConstant, FormatCommandLabel(command)),
			zap.Error(runError),
		)
		return ExecutionResult{}, executionFailure
	}

	executor.eventObserver.CommandCompleted(command, executionResult)
	if executionResult.ExitCode == 0 {
		executor.logger.Debug(
			commandCompletedMessageConstant,
			zap.String(logFieldCommandConstant, FormatCommandLabel(command)),
			zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
		)
	} else {
		executor.logger.Debug(
			commandFailedMessageConstant,
			zap.String(logFieldCommandConstant, FormatCommandLabel(command)),
			zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
		)
	}

	return executionResult, nil
}
