package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// spinner animates a short status line on stderr while a render or store
// call runs. It stops on stop() or when its context ends, whichever comes
// first; the status line is cleared either way.
type spinner struct {
	message string
	ctx     context.Context
	cancel  context.CancelFunc
	quit    chan struct{}
	once    sync.Once
	stopped chan struct{}
	mu      sync.Mutex
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// startSpinner begins animating immediately. The caller must stop the
// spinner before printing anything else.
func startSpinner(ctx context.Context, message string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	s := &spinner{
		message: message,
		ctx:     sctx,
		cancel:  cancel,
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(90 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clearLine()
			return
		case <-s.quit:
			return
		case <-ticker.C:
			frame := spinnerFrames[i%len(spinnerFrames)]
			s.mu.Lock()
			fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
			s.mu.Unlock()
		}
	}
}

// stop halts the animation and clears the status line. Safe to call more
// than once.
func (s *spinner) stop() {
	s.cancel()
	s.once.Do(func() { close(s.quit) })
	<-s.stopped
	s.clearLine()
}

func (s *spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// fail stops the spinner and prints an error line in its place.
func (s *spinner) fail(format string, args ...any) {
	s.stop()
	printError(format, args...)
}

// cancelled reports whether the surrounding context ended the spinner.
func (s *spinner) cancelled() bool {
	return s.ctx.Err() != nil
}
