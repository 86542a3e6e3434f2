// Package e2e drives the compiled binary inside a pseudo terminal
package e2e

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// StripANSI removes all ANSI escape codes from a string
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// SessionConfig describes the process to run under the pseudo terminal
type SessionConfig struct {
	Command string
	Args    []string
	WorkDir string
	Env     []string

	Rows uint16
	Cols uint16

	// Timeout for the entire session
	Timeout time.Duration
}

// LiveSession is a running process attached to a pseudo terminal
type LiveSession struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	cancel context.CancelFunc

	mu     sync.RWMutex
	output bytes.Buffer

	done    chan struct{}
	waitErr error
}

// StartSession launches config.Command with a pseudo terminal as its stdio
func StartSession(config *SessionConfig) (*LiveSession, error) {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Rows == 0 {
		config.Rows = 24
	}
	if config.Cols == 0 {
		config.Cols = 100
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)

	cmd := exec.CommandContext(ctx, config.Command, config.Args...)
	cmd.Dir = config.WorkDir
	if len(config.Env) > 0 {
		cmd.Env = append(os.Environ(), config.Env...)
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: config.Rows, Cols: config.Cols})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	s := &LiveSession{
		cmd:    cmd,
		ptmx:   ptmx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.capture()
	go func() {
		s.waitErr = cmd.Wait()
		close(s.done)
	}()
	return s, nil
}

func (s *LiveSession) capture() {
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.mu.Lock()
			s.output.Write(buf[:n])
			s.mu.Unlock()
		}
		if err != nil {
			// EIO once the child closes its side
			return
		}
	}
}

// Output returns everything the process wrote so far, escape codes removed
func (s *LiveSession) Output() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StripANSI(s.output.String())
}

// WaitForText polls the output until text appears
func (s *LiveSession) WaitForText(text string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(s.Output(), text) {
			return nil
		}
		select {
		case <-s.done:
			if strings.Contains(s.Output(), text) {
				return nil
			}
			return fmt.Errorf("process exited before %q appeared: %v", text, s.waitErr)
		case <-time.After(50 * time.Millisecond):
		}
	}
	return fmt.Errorf("timeout waiting for text: %s", text)
}

// Send writes keystrokes to the process
func (s *LiveSession) Send(keys string) error {
	if !s.Running() {
		return fmt.Errorf("session not running")
	}
	_, err := s.ptmx.Write([]byte(keys))
	return err
}

// Running reports whether the process has not exited yet
func (s *LiveSession) Running() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Stop interrupts the process and waits for it to exit, killing it after grace
func (s *LiveSession) Stop(grace time.Duration) error {
	defer s.cancel()
	defer s.ptmx.Close()

	if s.Running() {
		_ = s.cmd.Process.Signal(syscall.SIGINT)
	}

	select {
	case <-s.done:
		return s.waitErr
	case <-time.After(grace):
		_ = s.cmd.Process.Kill()
		<-s.done
		return fmt.Errorf("process did not exit within %v", grace)
	}
}
