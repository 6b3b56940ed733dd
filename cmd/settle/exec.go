package settle

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/arthur-debert/settle/pkg/errors"
	"github.com/arthur-debert/settle/pkg/logging"
	"github.com/arthur-debert/settle/pkg/runner"
	"github.com/arthur-debert/settle/pkg/ui"
	"github.com/arthur-debert/settle/pkg/ui/display"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// ExitError carries the process exit code of a failed command. The error
// has already been reported when it is returned.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func newExecCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exec [flags] -- command [args...]",
		Short:   MsgExecShort,
		Long:    MsgExecLong,
		Example: MsgExecExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report := runCommand(cmd.Context(), a, args, cmd.OutOrStdout(), cmd.ErrOrStderr())

			renderer, err := ui.NewRenderer(a.format, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if err := renderer.RenderResult(report); err != nil {
				return err
			}

			if !report.Success {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.SetInterspersed(false)
	flags.IntP("attempts", "n", 0, MsgFlagAttempts)
	flags.Duration("delay", 0, MsgFlagDelay)
	flags.String("backoff", "", MsgFlagBackoff)
	flags.DurationP("timeout", "t", 0, MsgFlagTimeout)
	bindConfigKey(flags, "attempts", "retry.max_attempts")
	bindConfigKey(flags, "delay", "retry.delay")
	bindConfigKey(flags, "backoff", "retry.backoff")
	bindConfigKey(flags, "timeout", "timeout.duration")

	return cmd
}

// runCommand runs argv under the retry executor, each attempt bounded by the
// configured timeout.
func runCommand(ctx context.Context, a *app, argv []string, stdout, stderr io.Writer) *display.Report {
	runID := uuid.NewString()
	logger := logging.WithFields(map[string]interface{}{
		"component": "cmd.exec",
		"run":       runID,
	})
	logging.LogCommand(argv[0], argv[1:])
	done := logging.LogOperationStart(logger, "exec")
	defer done()

	timeout := a.cfg.Timeout.Duration
	opts := append(a.cfg.RunnerOptions(),
		runner.WithLogger(logger),
		// A CLI run always reports instead of panicking
		func(o *runner.Options) { o.Throw = false },
		runner.WithOnRetry(func(err error, attempt int) {
			logger.Info().Int("attempt", attempt).Err(err).Msg("Attempt failed")
		}),
	)

	attempts := 0
	start := time.Now()
	res := runner.RunRetry(ctx, func(s *runner.Scope, attempt int) (int, error) {
		attempts = attempt
		if timeout <= 0 {
			return runProcess(s, argv, stdout, stderr)
		}
		return runner.RunTimeout(s.Context(), func(ts *runner.Scope) (int, error) {
			return runProcess(ts, argv, stdout, stderr)
		}, timeout, runner.WithLogger(logger)).Unwrap()
	}, opts...)

	report := display.FromResult(res)
	report.Command = strings.Join(argv, " ")
	report.RunID = runID
	report.Attempts = attempts
	report.Elapsed = time.Since(start)
	report.Data = nil

	logger.Info().
		Bool("success", report.Success).
		Int("attempts", attempts).
		Dur("elapsed", report.Elapsed).
		Msg("Run settled")
	return &report
}

// runProcess starts argv and waits for it. The process is killed by the
// scope's cleanup when the wait is abandoned.
func runProcess(s *runner.Scope, argv []string, stdout, stderr io.Writer) (int, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return -1, errors.Wrapf(err, errors.ErrCommandExecute, "failed to start %s", argv[0]).
			WithDetail("command", argv[0])
	}

	exited := make(chan struct{})
	s.DeferErr(func() error {
		select {
		case <-exited:
			return nil
		default:
		}
		if err := cmd.Process.Kill(); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
			return err
		}
		return nil
	})

	return runner.Abortable(s, func(ctx context.Context) (int, error) {
		err := cmd.Wait()
		close(exited)
		if err == nil {
			return 0, nil
		}

		code := -1
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return code, errors.Wrapf(err, errors.ErrCommandExecute, "%s failed", argv[0]).
			WithDetail("command", argv[0]).
			WithDetail("exit_code", code)
	})
}
