// Package backup snapshots the local data directory on a cron schedule and
// prunes snapshots past their retention.
package backup

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const stampLayout = "2006-01-02_15-04-05"

type Backup struct {
	src       string
	dest      string
	retention time.Duration
	log       logrus.FieldLogger
	now       func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

func New(src, dest string, retention time.Duration, log logrus.FieldLogger) *Backup {
	return &Backup{src: src, dest: dest, retention: retention, log: log, now: time.Now}
}

// Start schedules Run with a standard five-field cron spec.
func (b *Backup) Start(schedule string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cron != nil {
		return errors.New("backup already scheduled")
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if _, err := b.Run(); err != nil {
			b.log.WithError(err).Error("❌ Failed to back up data")
		}
	}); err != nil {
		return errors.Wrapf(err, "parse backup schedule %q", schedule)
	}
	c.Start()
	b.cron = c
	b.log.WithFields(logrus.Fields{"schedule": schedule, "dest": b.dest}).Info("⏳ Data backups scheduled")
	return nil
}

// Stop waits for a running backup to finish.
func (b *Backup) Stop() {
	b.mu.Lock()
	c := b.cron
	b.cron = nil
	b.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}

// Run copies the source directory into a timestamped folder under dest,
// then removes old folders. It returns the new folder.
func (b *Backup) Run() (string, error) {
	destDir := filepath.Join(b.dest, b.now().Format(stampLayout))
	if err := copyDir(b.src, destDir); err != nil {
		return "", errors.Wrapf(err, "copy %s", b.src)
	}
	b.log.WithField("dest", destDir).Info("✅ Data backed up")

	b.Cleanup()
	return destDir, nil
}

// Cleanup removes backup folders older than the retention.
func (b *Backup) Cleanup() {
	entries, err := os.ReadDir(b.dest)
	if err != nil {
		b.log.WithError(err).Error("❌ Failed to read backup directory")
		return
	}

	cutoff := b.now().Add(-b.retention)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folderPath := filepath.Join(b.dest, entry.Name())
		info, err := os.Stat(folderPath)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(folderPath); err != nil {
				b.log.WithError(err).WithField("path", folderPath).Error("❌ Failed to remove old backup")
			} else {
				b.log.WithField("path", folderPath).Info("🗑️ Removed old backup")
			}
		}
	}
}

func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			err = copyDir(srcPath, destPath)
		} else {
			err = copyFile(srcPath, destPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
