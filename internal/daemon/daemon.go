// Package daemon starts the file server as a detached background process
// and stops it again through a PID file.
package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"quicktransfer/internal/config"
	"quicktransfer/internal/errors"
	"quicktransfer/internal/log"
)

var (
	// ErrNotRunning is returned by Stop when there is no PID file.
	ErrNotRunning = errors.New("server is not running or the PID file is missing")
	// ErrStalePID is returned by Stop when the recorded process is gone.
	// The PID file has been removed.
	ErrStalePID = errors.New("no process with the recorded PID")
)

// Control manages a background server through its PID and log files.
type Control struct {
	PIDFile     string
	PIDFilePerm os.FileMode
	LogFile     string
	LogFilePerm os.FileMode
}

// NewControl uses the PID and log file locations of cfg.
func NewControl(cfg *config.Config) *Control {
	return &Control{
		PIDFile:     cfg.Server.PIDFile,
		PIDFilePerm: 0644,
		LogFile:     cfg.Server.LogFile,
		LogFilePerm: 0640,
	}
}

// Start launches name with args in its own process group, appending its
// output to the log file, and records its PID.
func (c *Control) Start(name string, args ...string) (int, error) {
	if pid, running := c.Running(); running {
		return 0, fmt.Errorf("server already running (PID %d)", pid)
	}

	logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, c.LogFilePerm)
	if err != nil {
		return 0, errors.NewFileError("cannot open log file", c.LogFile, errors.FileCreateFailed, err)
	}
	defer logFile.Close()

	cmd := exec.Command(name, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start %s: %w", name, err)
	}
	pid := cmd.Process.Pid
	go cmd.Wait()

	if err := c.WritePID(pid); err != nil {
		cmd.Process.Kill()
		return 0, err
	}

	log.LogWithFields(log.F("pid", pid), log.F("log", c.LogFile)).Debug("background server started")
	return pid, nil
}

// WritePID records pid in the PID file.
func (c *Control) WritePID(pid int) error {
	if err := os.MkdirAll(filepath.Dir(c.PIDFile), 0755); err != nil {
		return errors.NewFileError("cannot create PID directory", c.PIDFile, errors.FileCreateFailed, err)
	}
	if err := os.WriteFile(c.PIDFile, []byte(strconv.Itoa(pid)), c.PIDFilePerm); err != nil {
		return errors.NewFileError("failed to write PID file", c.PIDFile, errors.FileCreateFailed, err)
	}
	return nil
}

// ReadPID returns the PID recorded in the PID file.
func (c *Control) ReadPID() (int, error) {
	data, err := os.ReadFile(c.PIDFile)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNotRunning
		}
		return 0, errors.NewFileError("failed to read PID file", c.PIDFile, errors.FileAccessDenied, err)
	}
	return parsePid(string(data))
}

// Running reports whether the recorded process exists.
func (c *Control) Running() (int, bool) {
	pid, err := c.ReadPID()
	if err != nil {
		return 0, false
	}
	return pid, alive(pid)
}

// Stop sends SIGTERM to the recorded process and removes the PID file.
// A PID file naming a process that no longer exists is removed and
// reported as ErrStalePID. Permission errors leave the file in place.
func (c *Control) Stop() (int, error) {
	pid, err := c.ReadPID()
	if err != nil {
		return 0, err
	}

	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		switch err {
		case syscall.ESRCH:
			c.removePID()
			return pid, fmt.Errorf("PID %d: %w", pid, ErrStalePID)
		case syscall.EPERM:
			return pid, fmt.Errorf("no permission to stop PID %d: %w", pid, err)
		default:
			return pid, fmt.Errorf("failed to send SIGTERM to PID %d: %w", pid, err)
		}
	}

	c.removePID()
	log.LogWithFields(log.F("pid", pid)).Debug("background server stopped")
	return pid, nil
}

func (c *Control) removePID() {
	if err := os.Remove(c.PIDFile); err != nil && !os.IsNotExist(err) {
		log.Warnf("Failed to remove PID file %s: %v", c.PIDFile, err)
	}
}

// alive checks pid with signal 0.
func alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, syscall.Signal(0))
	return err == nil || err == syscall.EPERM
}

// parsePid parses a PID from a string
func parsePid(pidStr string) (int, error) {
	pid, err := strconv.Atoi(strings.TrimSpace(pidStr))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid PID format: %q", strings.TrimSpace(pidStr))
	}
	return pid, nil
}
