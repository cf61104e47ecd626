package binimg

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/esimov/binimg/utils"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
)

// Ops holds the batch level options of the command line application.
type Ops struct {
	Dir       string `validate:"required"`
	Workers   int    `validate:"gte=0"`
	SentryDSN string `validate:"omitempty,url"`
	Spinner   bool
	// Out receives the status messages. Defaults to os.Stderr.
	Out io.Writer
}

// Execute converts the files of the source directory and prints the status of each conversion.
// A worker count of zero or less defaults to the number of CPUs.
// Per file errors are only reported; the returned error is set when the batch could not run at all.
func (c *Converter) Execute(op *Ops) (*Report, error) {
	if err := validate.Struct(op); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	fs, err := os.Stat(op.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load the source directory: %w", err)
	}
	if !fs.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", op.Dir)
	}

	if op.Workers <= 0 {
		op.Workers = runtime.NumCPU()
	}
	out := op.Out
	if out == nil {
		out = os.Stderr
	}

	batch := uuid.New()
	observers := Observers{}

	spinner := utils.NewSpinner(fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ BINIMG", utils.StatusMessage),
		utils.DecorateText(fmt.Sprintf("⇢ converting files with %d workers...", op.Workers), utils.DefaultMessage),
	), time.Millisecond*80, true)
	spinner.SetWriter(out)

	// The spinner is shown only on a terminal.
	useSpinner := false
	if f, ok := out.(*os.File); ok && op.Spinner {
		useSpinner = utils.IsTerminal(f)
	}
	if useSpinner {
		observers = append(observers, NewSpinnerPrinter(spinner))
	} else {
		observers = append(observers, NewStatusPrinter(out))
	}

	if op.SentryDSN != "" {
		reporter, err := NewSentryReporter(sentry.ClientOptions{Dsn: op.SentryDSN}, batch)
		if err != nil {
			return nil, err
		}
		defer reporter.Flush(2 * time.Second)
		observers = append(observers, reporter)
	}

	if useSpinner {
		stop := restoreOnInterrupt(spinner)
		defer stop()

		spinner.Start()
	}

	sched := &Scheduler{
		Converter: c,
		Observer:  observers,
		ID:        batch,
	}
	report, err := sched.Run(op.Dir, op.Workers)
	spinner.Stop()
	if err != nil {
		return nil, err
	}

	printSummary(out, report)
	return report, nil
}

// restoreOnInterrupt captures the CTRL-C signal and restores back the cursor visibility
// before exiting. The returned function releases the signal handler.
func restoreOnInterrupt(s *utils.Spinner) func() {
	signalChan := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-signalChan:
			s.RestoreCursor()
			os.Exit(1)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(signalChan)
		close(done)
	}
}

// printSummary displays the totals of the finished batch.
func printSummary(w io.Writer, r *Report) {
	status := utils.SuccessMessage
	if r.Failed > 0 {
		status = utils.ErrorMessage
	}
	fmt.Fprintf(w, "\n%s %s\n",
		utils.DecorateText(fmt.Sprintf("Converted %d of %d files", r.Succeeded, r.Total), status),
		utils.DecorateText(fmt.Sprintf("(batch %s)", r.ID), utils.DefaultMessage),
	)
	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, "Skipped %d previously generated files: %s\n",
			len(r.Skipped), utils.DecorateText(strings.Join(r.Skipped, ", "), utils.DefaultMessage))
	}
	fmt.Fprintf(w, "Execution time: %s\n", utils.DecorateText(utils.FormatTime(r.Elapsed), utils.SuccessMessage))
}
