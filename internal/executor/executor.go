package executor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"nathanbeddoewebdev/dirctl/internal/metrics"
	"nathanbeddoewebdev/dirctl/internal/util"
)

const (
	defaultTimeout        = 20 * time.Second
	defaultMaxConcurrent  = 4
	defaultMaxOutputBytes = 16 << 20
	waitDelay             = 2 * time.Second
	dryRunPrefix          = "DRY_RUN: "
)

// ErrEmptyCommand is returned when a CommandSpec has no arguments.
var ErrEmptyCommand = errors.New("executor: empty command")

// Runner is the interface consumed by tool wrappers and tests.
type Runner interface {
	Execute(ctx context.Context, spec CommandSpec) (Result, error)
}

// Options configures an Executor.
type Options struct {
	// DefaultTimeout applies when a CommandSpec has no timeout.
	DefaultTimeout time.Duration

	// DryRun forces dry-run mode for every command.
	DryRun bool

	// MaxConcurrent caps simultaneously running child processes.
	MaxConcurrent int

	// MaxOutputBytes caps each captured stream.
	MaxOutputBytes int

	Logger *zerolog.Logger
}

// Executor spawns external processes.
type Executor struct {
	timeout   time.Duration
	dryRun    bool
	maxOutput int
	sem       *semaphore.Weighted
	logger    zerolog.Logger
	environ   func() []string
}

// New returns an Executor with opts applied over defaults.
func New(opts Options) *Executor {
	e := &Executor{
		timeout:   opts.DefaultTimeout,
		dryRun:    opts.DryRun,
		maxOutput: opts.MaxOutputBytes,
		logger:    zerolog.Nop(),
		environ:   os.Environ,
	}
	if e.timeout <= 0 {
		e.timeout = defaultTimeout
	}
	if e.maxOutput <= 0 {
		e.maxOutput = defaultMaxOutputBytes
	}
	limit := opts.MaxConcurrent
	if limit <= 0 {
		limit = defaultMaxConcurrent
	}
	e.sem = semaphore.NewWeighted(int64(limit))
	if opts.Logger != nil {
		e.logger = opts.Logger.With().Str("component", "executor").Logger()
	}
	return e
}

// Execute runs spec and classifies the outcome. The returned error is
// non-nil only for an empty command, an argument that fails sanitization
// (no process is spawned) or cancellation of ctx.
func (e *Executor) Execute(ctx context.Context, spec CommandSpec) (Result, error) {
	if len(spec.Args) == 0 {
		return Result{}, ErrEmptyCommand
	}
	if err := Sanitize(spec.Args); err != nil {
		metrics.ExecTotal.WithLabelValues("rejected_input").Inc()
		return Result{}, err
	}

	shown := util.RedactArgs(spec.Args, spec.Secrets...)

	if e.dryRun || spec.DryRun {
		metrics.ExecTotal.WithLabelValues("dry_run").Inc()
		e.logger.Debug().Strs("args", shown).Msg("dry run")
		return Result{
			Outcome: Success,
			Stdout:  dryRunPrefix + strings.Join(shown, " "),
			Args:    shown,
			DryRun:  true,
		}, nil
	}

	if err := e.sem.Acquire(ctx, 1); err != nil {
		return Result{}, fmt.Errorf("executor: waiting for a process slot: %w", err)
	}
	defer e.sem.Release(1)

	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = e.timeout
	}

	res, err := e.run(ctx, spec, timeout)
	res.Args = shown
	if err != nil {
		return Result{}, err
	}

	metrics.ExecTotal.WithLabelValues(res.Outcome.String()).Inc()
	metrics.ExecDuration.Observe(res.Duration.Seconds())

	ev := e.logger.Debug()
	if !res.OK() {
		ev = e.logger.Warn()
	}
	ev.Strs("args", shown).
		Str("outcome", res.Outcome.String()).
		Int("exit_code", res.ExitCode).
		Dur("duration", res.Duration).
		Msg("command finished")

	return res, nil
}

// Output runs spec and returns stdout, converting any unsuccessful outcome
// into an *ExecError.
func (e *Executor) Output(ctx context.Context, spec CommandSpec) (string, error) {
	return Output(ctx, e, spec)
}

// Output is Executor.Output for any Runner.
func Output(ctx context.Context, r Runner, spec CommandSpec) (string, error) {
	res, err := r.Execute(ctx, spec)
	if err != nil {
		return "", err
	}
	if err := res.Err(); err != nil {
		return res.Stdout, err
	}
	return res.Stdout, nil
}

func (e *Executor) run(ctx context.Context, spec CommandSpec, timeout time.Duration) (Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stdout := &limitWriter{limit: e.maxOutput}
	stderr := &limitWriter{limit: e.maxOutput}

	cmd := exec.CommandContext(runCtx, spec.Args[0], spec.Args[1:]...)
	cmd.Env = mergeEnv(e.environ(), spec.Env)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	configureProcess(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(ctxErr, context.DeadlineExceeded) {
			return Result{}, fmt.Errorf("executor: %w", ctxErr)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{Outcome: Timeout, ExitCode: ExitCodeTimeout, Duration: time.Since(start)}, nil
		}
		if isStartFailure(err) {
			return Result{
				Outcome:  NotFound,
				ExitCode: ExitCodeNotFound,
				Stderr:   err.Error(),
				Duration: time.Since(start),
			}, nil
		}
		return Result{}, fmt.Errorf("executor: start %s: %w", spec.Args[0], err)
	}

	metrics.ExecInFlight.Inc()
	waitErr := cmd.Wait()
	metrics.ExecInFlight.Dec()

	res := Result{
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		res.Outcome = Timeout
		res.ExitCode = ExitCodeTimeout
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("executor: %w", err)
	}

	code := 0
	if cmd.ProcessState != nil {
		code = cmd.ProcessState.ExitCode()
	}
	var exitErr *exec.ExitError
	switch {
	case waitErr == nil, errors.Is(waitErr, exec.ErrWaitDelay) && code == 0:
		res.Outcome = Success
	case errors.As(waitErr, &exitErr):
		res.Outcome = NonZeroExit
		res.ExitCode = exitErr.ExitCode()
	case code != 0:
		res.Outcome = NonZeroExit
		res.ExitCode = code
	default:
		return Result{}, fmt.Errorf("executor: wait %s: %w", spec.Args[0], waitErr)
	}
	return res, nil
}

func isStartFailure(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission) ||
		errors.Is(err, exec.ErrDot)
}

// mergeEnv overlays extra on base, replacing existing keys.
func mergeEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}
	out := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := extra[key]; ok {
			continue
		}
		out = append(out, kv)
	}
	for _, key := range slices.Sorted(maps.Keys(extra)) {
		out = append(out, key+"="+extra[key])
	}
	return out
}
