// Package ui holds terminal helpers shared by the commands.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/imgajeed76/pgaccess/internal/ui/styles"
)

// Spinner provides a simple animated spinner while a fetch runs. It draws
// on stderr so piped table output stays clean.
type Spinner struct {
	message string
	out     io.Writer
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewSpinner creates a new spinner with the given message
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		out:     os.Stderr,
		done:    make(chan struct{}),
	}
}

// Interactive reports whether f is a terminal and animations are allowed.
func Interactive(f *os.File) bool {
	return !styles.IsAccessible() && term.IsTerminal(int(f.Fd()))
}

// Start begins the spinner animation in the background. On a non-TTY or
// in accessible mode it does nothing.
func (s *Spinner) Start() {
	if !Interactive(os.Stderr) {
		return
	}
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		style := lipgloss.NewStyle().Foreground(styles.Accent)
		i := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				frame := styles.Render(style, frames[i%len(frames)])
				fmt.Fprintf(s.out, "\r%s %s", frame, s.message)
				i++
			}
		}
	}()
}

// Stop stops the spinner and clears its line
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
}

// Success stops the spinner and shows a success message on stdout
func (s *Spinner) Success(msg string) {
	s.Stop()
	fmt.Println(styles.SuccessMsg(msg))
}

// Error stops the spinner and shows an error message on stderr
func (s *Spinner) Error(msg string) {
	s.Stop()
	fmt.Fprintln(os.Stderr, styles.ErrorMsg(msg))
}

// Skeleton is a placeholder cell for a row that is still loading.
func Skeleton(width int) string {
	return styles.Render(styles.SkeletonStyle, strings.Repeat("░", max(4, width)))
}
