package cli

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Spinner shows an indeterminate progress indicator until stopped.
type Spinner struct {
	bar  *progressbar.ProgressBar
	once sync.Once
}

// StartSpinner starts spinning on w with the given description. A nil writer means stderr.
func StartSpinner(w io.Writer, description string) *Spinner {
	if w == nil {
		w = os.Stderr
	}

	// The blank render starts the bar before its animation goroutine runs.
	return &Spinner{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(w),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetSpinnerChangeInterval(100*time.Millisecond),
			progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionClearOnFinish(),
		),
	}
}

// Stop halts the spinner and clears its line. It is safe to call more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		if err := s.bar.Finish(); err != nil {
			slog.Debug("Failed to finish spinner", "error", err)
		}
	})
}

// Finished reports whether the spinner has been stopped.
func (s *Spinner) Finished() bool {
	return s.bar.IsFinished()
}
