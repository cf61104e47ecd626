package binimg

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/esimov/binimg/utils"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
)

// Observer gets notified about the outcome of every processed work item.
// The scheduler invokes it from a single goroutine.
type Observer interface {
	OnSuccess(res Result)
	OnFailure(res Result)
}

// Observers fans out the notifications to a list of observers.
type Observers []Observer

// OnSuccess notifies every observer about a converted file.
func (o Observers) OnSuccess(res Result) {
	for _, ob := range o {
		ob.OnSuccess(res)
	}
}

// OnFailure notifies every observer about a failed conversion.
func (o Observers) OnFailure(res Result) {
	for _, ob := range o {
		ob.OnFailure(res)
	}
}

// printer is satisfied by *utils.Spinner, which clears its last frame before printing.
type printer interface {
	Print(s string)
}

type writerPrinter struct{ w io.Writer }

func (p writerPrinter) Print(s string) { fmt.Fprint(p.w, s) }

// StatusPrinter displays the relevant information about each conversion in the terminal.
type StatusPrinter struct {
	out printer
}

// NewStatusPrinter returns a printer writing to w.
func NewStatusPrinter(w io.Writer) *StatusPrinter {
	return &StatusPrinter{out: writerPrinter{w}}
}

// NewSpinnerPrinter returns a printer writing through the progress indicator.
func NewSpinnerPrinter(s *utils.Spinner) *StatusPrinter {
	return &StatusPrinter{out: s}
}

// OnSuccess prints the input name, its kind and size and the generated artifacts.
func (p *StatusPrinter) OnSuccess(res Result) {
	p.out.Print(fmt.Sprintf("%s %s %s\n",
		utils.DecorateText("✔", utils.SuccessMessage),
		utils.DecorateText(filepath.Base(res.Input), utils.StatusMessage),
		utils.DecorateText(fmt.Sprintf("(%s, %s) ⇢ %s, %s",
			res.Kind, utils.FormatBytes(int64(res.Size)), filepath.Base(res.Grayscale), filepath.Base(res.RGB)), utils.DefaultMessage),
	))
}

// OnFailure prints the input name and the reason of the failure.
func (p *StatusPrinter) OnFailure(res Result) {
	p.out.Print(fmt.Sprintf("%s %s\n\t%s\n",
		utils.DecorateText("✘", utils.ErrorMessage),
		utils.DecorateText(filepath.Base(res.Input), utils.StatusMessage),
		utils.DecorateText(fmt.Sprintf("Reason: %v", res.Err), utils.ErrorMessage),
	))
}

// SentryReporter sends the failed conversions to Sentry.
type SentryReporter struct {
	hub *sentry.Hub
}

// NewSentryReporter creates a reporter with its own hub, tagging every event with the batch id.
func NewSentryReporter(opts sentry.ClientOptions, batch uuid.UUID) (*SentryReporter, error) {
	client, err := sentry.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("sentry client: %w", err)
	}
	hub := sentry.NewHub(client, sentry.NewScope())
	hub.Scope().SetTag("batch", batch.String())

	return &SentryReporter{hub: hub}, nil
}

// OnSuccess is a no-op, only failures are reported.
func (r *SentryReporter) OnSuccess(Result) {}

// OnFailure captures the conversion error, tagged with the input path and kind.
func (r *SentryReporter) OnFailure(res Result) {
	r.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("file", res.Input)
		if res.Kind != "" {
			scope.SetTag("kind", res.Kind)
		}
		r.hub.CaptureException(res.Err)
	})
}

// Flush waits until the buffered events are sent or the timeout expires.
func (r *SentryReporter) Flush(timeout time.Duration) bool {
	return r.hub.Flush(timeout)
}
