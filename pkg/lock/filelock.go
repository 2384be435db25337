package lock

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

var ErrLocked = errors.New("output is locked")

// FileLock is an advisory flock on <target>.lock that records the holder's
// pid. It guards an output file against concurrent writers.
type FileLock struct {
	file *os.File
	path string
}

func LockPath(target string) string {
	return target + ".lock"
}

func TryLock(target string) (*FileLock, error) {
	path := LockPath(target)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		pid := readPidFromFile(file)
		_ = file.Close()
		if pid > 0 {
			return nil, fmt.Errorf("%w: %s held by process %d", ErrLocked, path, pid)
		}
		return nil, fmt.Errorf("%w: %s held by another process", ErrLocked, path)
	}

	if err := writePid(file); err != nil {
		_ = syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
		_ = file.Close()
		return nil, err
	}

	return &FileLock{file: file, path: path}, nil
}

// Unlock releases the lock. The lock file stays in place so that every
// process contending for target flocks the same inode.
func (fl *FileLock) Unlock() {
	if fl.file == nil {
		return
	}
	_ = fl.file.Truncate(0)
	_ = syscall.Flock(int(fl.file.Fd()), syscall.LOCK_UN)
	_ = fl.file.Close()
	fl.file = nil
}

func (fl *FileLock) Path() string {
	return fl.path
}

func writePid(file *os.File) error {
	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate lock file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to seek lock file: %w", err)
	}
	if _, err := fmt.Fprintf(file, "%d\n", os.Getpid()); err != nil {
		return fmt.Errorf("failed to write pid to lock file: %w", err)
	}
	return nil
}

func readPidFromFile(file *os.File) int {
	if _, err := file.Seek(0, 0); err != nil {
		return 0
	}
	var pid int
	if _, err := fmt.Fscanf(file, "%d", &pid); err != nil {
		return 0
	}
	return pid
}
