package jobs

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskTypeUploadSweep removes stale files from the local upload root.
	TaskTypeUploadSweep = "storage:sweep"
)

// UploadSweepPayload names the directory to sweep and the retention window.
type UploadSweepPayload struct {
	Dir    string        `json:"dir"`
	MaxAge time.Duration `json:"max_age"`
}

// NewUploadSweepTask constructs an Asynq task.
func NewUploadSweepTask(dir string, maxAge time.Duration) (*asynq.Task, error) {
	body, err := json.Marshal(UploadSweepPayload{Dir: dir, MaxAge: maxAge})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeUploadSweep, body, asynq.Queue(QueueDefault)), nil
}

// UploadSweeper deletes files in the local upload root older than the
// retention window. Only meaningful for the filesystem backend; bucket
// lifecycle rules cover the object store.
type UploadSweeper struct {
	Logger *slog.Logger
}

// Handle processes TaskTypeUploadSweep tasks.
func (s UploadSweeper) Handle(ctx context.Context, t *asynq.Task) error {
	var payload UploadSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Dir == "" || payload.MaxAge <= 0 {
		return asynq.SkipRetry
	}

	cutoff := time.Now().Add(-payload.MaxAge)
	removed := 0
	err := filepath.WalkDir(payload.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if rmErr := os.Remove(path); rmErr != nil {
				s.Logger.Warn("sweep remove", slog.Any("error", rmErr), slog.String("path", path))
				return nil
			}
			removed++
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	s.Logger.Info("upload sweep complete",
		slog.String("dir", payload.Dir), slog.Int("removed", removed))
	return nil
}
