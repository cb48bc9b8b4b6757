// Package spinning provides a spinning symbol followed by a progress message, to display while
// a long simulation runs, and the handling of Ctrl+C.
package spinning

import (
	"fmt"
	"io"
	"k8s.io/klog/v2"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

var (
	ThemeAscii = []rune(`|/-\`)
	ThemeMoon  = []rune("🌑🌒🌓🌔🌕🌖🌗🌘")
	ThemeClock = []rune("🕐🕑🕒🕓🕔🕕🕖🕗🕘🕙🕚🕛")
)

// Spinner writes a spinning symbol and a progress message, rewriting the same line.
type Spinner struct {
	w      io.Writer
	theme  []rune
	period time.Duration

	mu      sync.Mutex
	idx     int
	message string

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates and starts a Spinner writing to w every period, with the given theme (ThemeAscii if nil).
// Call Done to stop it.
func New(w io.Writer, theme []rune, period time.Duration) *Spinner {
	if len(theme) == 0 {
		theme = ThemeAscii
	}
	s := &Spinner{w: w, theme: theme, period: period, done: make(chan struct{})}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		_, _ = fmt.Fprint(w, "\033[?25l") // Hide cursor.
		for {
			s.draw()
			select {
			case <-s.done:
				_, _ = fmt.Fprint(w, "\r\033[0K\033[?25h") // Clear line and restore cursor.
				return
			case <-ticker.C:
			}
		}
	}()
	return s
}

// SetMessage changes the message displayed after the spinning symbol.
func (s *Spinner) SetMessage(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = fmt.Sprintf(format, args...)
}

func (s *Spinner) draw() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.w, "\r%c %s\033[0K", s.theme[s.idx], s.message)
	s.idx = (s.idx + 1) % len(s.theme)
}

// Done stops the spinner and clears its line. It can be called more than once.
func (s *Spinner) Done() {
	s.mu.Lock()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// SafeInterrupt captures SIGINT (Ctrl+C) and SIGTERM and calls onInterrupt.
// If the program hasn't exited after gracePeriod, the terminal is reset and the program exits.
func SafeInterrupt(onInterrupt func(), gracePeriod time.Duration) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		fmt.Println()
		klog.Errorf("Interrupted (signal %q), stopping after the current generation... (%s)", sig, gracePeriod)
		if onInterrupt != nil {
			go onInterrupt()
		}
		time.Sleep(gracePeriod)
		Reset()
		klog.Exitf("Grace period of %s expired, exiting.", gracePeriod)
	}()
}

// Reset terminal: make cursor visible, restore default terminal colors.
func Reset() {
	fmt.Print("\033[?25h\033[39;49;0m\n")
}
