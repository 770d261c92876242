package execshell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
	scannerBufferInitialSizeConstant       = 64 * 1024
	scannerBufferMaximumSizeConstant       = 1024 * 1024
)

// CommandOutputSink receives streamed output lines from a running command.
// Lines from stdout and stderr arrive from separate reader goroutines; the
// runner serializes deliveries, so implementations need no additional locking.
type CommandOutputSink interface {
	ConsumeOutputLine(outputLine string)
}

// OSCommandRunner executes commands using the operating system facilities.
// Captured invocations collect output lines into the execution result;
// streamed invocations forward each line to the configured sink as it arrives.
type OSCommandRunner struct {
	outputSink CommandOutputSink
}

// NewOSCommandRunner constructs a runner backed by os/exec. A nil sink
// discards streamed output.
func NewOSCommandRunner(outputSink CommandOutputSink) *OSCommandRunner {
	return &OSCommandRunner{outputSink: outputSink}
}

// Run executes the supplied command. Stdout and stderr are drained by
// separate goroutines with per-stream line order preserved; a single mutex
// per invocation guards the shared destination. A non-zero exit code is
// returned as data with a nil error. Cancellation terminates the child
// process and surfaces the context error so callers observe
// errors.Is(err, context.Canceled).
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executablePath := command.Details.ExecutablePath
	if len(executablePath) == 0 {
		executablePath = string(command.Name)
	}

	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, executablePath, commandArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	if len(command.Details.EnvironmentVariables) > 0 {
		mergedEnvironment := append([]string{}, os.Environ()...)
		for environmentKey, environmentValue := range command.Details.EnvironmentVariables {
			mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, environmentValue))
		}
		executable.Env = mergedEnvironment
	}

	standardOutputPipe, standardOutputPipeError := executable.StdoutPipe()
	if standardOutputPipeError != nil {
		return ExecutionResult{}, standardOutputPipeError
	}
	standardErrorPipe, standardErrorPipeError := executable.StderrPipe()
	if standardErrorPipeError != nil {
		return ExecutionResult{}, standardErrorPipeError
	}

	if startError := executable.Start(); startError != nil {
		return ExecutionResult{}, startError
	}

	var destinationMutex sync.Mutex
	var capturedOutputLines []string

	deliverOutputLine := func(outputLine string) {
		destinationMutex.Lock()
		defer destinationMutex.Unlock()

		if executionContext.Err() != nil {
			return
		}
		if command.Details.CaptureOutput {
			capturedOutputLines = append(capturedOutputLines, outputLine)
			return
		}
		if runner.outputSink != nil {
			runner.outputSink.ConsumeOutputLine(outputLine)
		}
	}

	var readerWaitGroup sync.WaitGroup
	readerWaitGroup.Add(2)
	go runner.drainOutputStream(standardOutputPipe, deliverOutputLine, &readerWaitGroup)
	go runner.drainOutputStream(standardErrorPipe, deliverOutputLine, &readerWaitGroup)
	readerWaitGroup.Wait()

	waitError := executable.Wait()

	if contextError := executionContext.Err(); contextError != nil {
		return ExecutionResult{}, contextError
	}

	if waitError != nil {
		exitError := &exec.ExitError{}
		if errors.As(waitError, &exitError) {
			return ExecutionResult{ExitCode: exitError.ExitCode(), OutputLines: capturedOutputLines}, nil
		}
		return ExecutionResult{}, waitError
	}

	return ExecutionResult{ExitCode: 0, OutputLines: capturedOutputLines}, nil
}

// drainOutputStream reads one output stream to completion, delivering each
// line in arrival order. Reader termination is guaranteed because process
// exit, including cancellation kills, closes the stream.
func (runner *OSCommandRunner) drainOutputStream(outputStream io.Reader, deliverOutputLine func(string), readerWaitGroup *sync.WaitGroup) {
	defer readerWaitGroup.Done()

	streamScanner := bufio.NewScanner(outputStream)
	streamScanner.Buffer(make([]byte, scannerBufferInitialSizeConstant), scannerBufferMaximumSizeConstant)
	for streamScanner.Scan() {
		deliverOutputLine(streamScanner.Text())
	}
}
