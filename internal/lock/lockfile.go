// Package lock implements the pid-file guard that keeps the scanner to one
// instance per host.
package lock

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// ErrAlreadyRunning means another live process holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Acquire claims path for the current process. A lockfile whose recorded pid
// is still alive refuses the claim; a stale file is removed and re-claimed.
func Acquire(path string) error {
	data, err := os.ReadFile(path)
	if err == nil {
		pid, parseErr := strconv.Atoi(strings.TrimSpace(string(data)))
		if parseErr == nil && pid > 0 && pidAlive(pid) {
			return fmt.Errorf("%w (pid %d, lockfile %s)", ErrAlreadyRunning, pid, path)
		}
		log.Printf("removing stale lockfile %s", path)
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			return fmt.Errorf("remove stale lockfile: %w", rmErr)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read lockfile: %w", err)
	}

	pid := os.Getpid()
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("write lockfile: %w", err)
	}
	log.Printf("acquired lockfile %s with pid %d", path, pid)
	return nil
}

// Release removes the lockfile. Safe to call when it is already gone.
func Release(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove lockfile %s: %v", path, err)
		return
	}
	log.Printf("released lockfile %s", path)
}

func pidAlive(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}
