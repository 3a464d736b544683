package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var ErrRunInProgress = errors.New("a report run is already in progress")

// a lock older than this is left over from a crashed run
const staleLockAge = 23 * time.Hour

type lockInfo struct {
	RunID   string    `yaml:"run_id"`
	PID     int       `yaml:"pid"`
	Started time.Time `yaml:"started"`
}

// acquireLock creates path exclusively. The returned func removes it again.
func acquireLock(path string, info lockInfo) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	body, err := yaml.Marshal(&info)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if errors.Is(err, os.ErrExist) {
		holder, rerr := readLock(path)
		if rerr != nil {
			return nil, fmt.Errorf("%w: lock file %s: %s", ErrRunInProgress, path, rerr)
		}
		if info.Started.Sub(holder.Started) < staleLockAge {
			return nil, fmt.Errorf("%w: run %s (pid %d) since %s", ErrRunInProgress, holder.RunID, holder.PID, holder.Started.Format(time.RFC3339))
		}
		logrus.Warnf("removing stale lock file %s of run %s from %s", path, holder.RunID, holder.Started.Format(time.RFC3339))
		if err := os.Remove(path); err != nil {
			return nil, err
		}
		f, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	}
	if err != nil {
		return nil, fmt.Errorf("error creating lock file: %w", err)
	}
	_, err = f.Write(body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("error writing lock file: %w", err)
	}

	return func() {
		if err := os.Remove(path); err != nil {
			logrus.Errorf("error removing lock file: %s", err)
		}
	}, nil
}

// readLock returns the holder of the lock at path. A body that cannot be parsed is dated by the
// file's modification time.
func readLock(path string) (*lockInfo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	info := &lockInfo{}
	if err := yaml.Unmarshal(b, info); err != nil || info.Started.IsZero() {
		st, serr := os.Stat(path)
		if serr != nil {
			return nil, serr
		}
		logrus.Warnf("unreadable lock file %s, using its modification time", path)
		return &lockInfo{RunID: "unknown", Started: st.ModTime()}, nil
	}
	return info, nil
}
