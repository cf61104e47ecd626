package binimg

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/esimov/binimg/utils"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusPrinter_Messages(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	p := NewStatusPrinter(&buf)

	p.OnSuccess(Result{
		Input:     "/tmp/bins/calc.exe",
		Kind:      "application/vnd.microsoft.portable-executable",
		Size:      1024,
		Grayscale: "/tmp/bins/calc_Grayscale.png",
		RGB:       "/tmp/bins/calc_RGB.png",
	})
	assert.Contains(buf.String(), "calc.exe")
	assert.Contains(buf.String(), "calc_Grayscale.png")
	assert.Contains(buf.String(), "calc_RGB.png")
	assert.Contains(buf.String(), "1.00 KiB")

	buf.Reset()
	p.OnFailure(Result{Input: "/tmp/bins/broken", Err: ErrUnreadableFile})
	assert.Contains(buf.String(), "broken")
	assert.Contains(buf.String(), ErrUnreadableFile.Error())
	assert.Contains(buf.String(), utils.ErrorColor)
}

func TestObservers_FanOut(t *testing.T) {
	a, b := &collector{}, &collector{}
	obs := Observers{a, b}

	obs.OnSuccess(Result{Input: "ok"})
	obs.OnFailure(Result{Input: "ko"})

	for _, c := range []*collector{a, b} {
		assert.Equal(t, []string{"ok"}, c.succeeded)
		assert.Equal(t, []string{"ko"}, c.failed)
	}
}

func TestSentryReporter_CapturesFailures(t *testing.T) {
	assert := assert.New(t)

	var (
		mu     sync.Mutex
		events []*sentry.Event
	)
	batch := uuid.New()
	r, err := NewSentryReporter(sentry.ClientOptions{
		SampleRate: 1.0,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			mu.Lock()
			defer mu.Unlock()
			events = append(events, event)
			return nil
		},
	}, batch)
	require.NoError(t, err)

	r.OnSuccess(Result{Input: "fine.bin"})
	r.OnFailure(Result{Input: "bad.bin", Kind: "text/plain", Err: errors.New("write failed")})
	r.Flush(0)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 1)
	assert.Equal("bad.bin", events[0].Tags["file"])
	assert.Equal("text/plain", events[0].Tags["kind"])
	assert.Equal(batch.String(), events[0].Tags["batch"])
}
