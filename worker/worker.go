// Package worker implements the clip-extraction pipeline: a stateless
// processor that takes one trim job per invocation through a fixed sequence
// of stages. Every effect past the fetch stage is idempotent, so duplicate
// delivery of the same job converges to the same derived object and clip
// record.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"hooparchives_server/models"
	"hooparchives_server/services"
)

// Stage names the steps of the per-job state machine. Progression is
// strictly linear; a redelivered job restarts from the beginning.
type Stage string

const (
	StageReceived     Stage = "received"
	StageValidated    Stage = "validated"
	StageFetched      Stage = "fetched"
	StageTransformed  Stage = "transformed"
	StageStored       Stage = "stored"
	StagePersisted    Stage = "persisted"
	StageAcknowledged Stage = "acknowledged"
)

// ObjectStore is the narrow object-store surface the pipeline needs.
type ObjectStore interface {
	Head(ctx context.Context, key string) (int64, error)
	Download(ctx context.Context, key, path string) (int64, error)
	Upload(ctx context.Context, path, key string) error
}

// ClipStore persists clip records. PutClip must be an upsert keyed by
// (leagueId, clipId).
type ClipStore interface {
	PutClip(ctx context.Context, clip models.Clip) error
}

// GameStore resolves the game a clip belongs to.
type GameStore interface {
	GetGame(ctx context.Context, leagueID, gameID string) (*models.Game, error)
}

// Transformer produces the derived artifact from the raw source.
type Transformer interface {
	Trim(ctx context.Context, src, dst string, start, end float64) error
}

// Worker processes one trim job per Process call. Instances hold no
// per-job state; concurrent invocations share nothing but the stores.
type Worker struct {
	Objects   ObjectStore
	Clips     ClipStore
	Games     GameStore
	Transform Transformer

	// ScratchDir is the parent for per-invocation scratch directories;
	// ScratchCeiling bounds the bytes one invocation may spill there.
	ScratchDir     string
	ScratchCeiling int64

	Log *logrus.Logger
}

// Process runs one job through the pipeline. A nil return means all effects
// are durably committed and the message may be acknowledged. A permanent
// error (IsPermanent) means retrying is pointless; anything else should be
// left unacknowledged for redelivery.
func (w *Worker) Process(ctx context.Context, body []byte) error {
	// Received -> Validated
	var job models.TrimJob
	if err := json.Unmarshal(body, &job); err != nil {
		return Permanent(fmt.Errorf("%w: malformed payload: %v", models.ErrInvalidJob, err))
	}
	if err := job.Validate(); err != nil {
		return Permanent(err)
	}
	log := w.Log.WithFields(logrus.Fields{
		"leagueId": job.LeagueID,
		"clipId":   job.ClipID,
	})
	log.WithField("stage", StageValidated).Debug("job validated")

	// Each invocation owns its scratch directory and removes it on every
	// exit path.
	scratch, err := os.MkdirTemp(w.ScratchDir, "trim-")
	if err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	// Validated -> Fetched
	size, err := w.Objects.Head(ctx, job.SourceKey)
	if errors.Is(err, services.ErrObjectNotFound) {
		return Permanent(fmt.Errorf("source object missing: %w", err))
	}
	if err != nil {
		return fmt.Errorf("failed to stat source object: %w", err)
	}
	// Source plus derived artifact must fit under the scratch ceiling.
	if 2*size > w.ScratchCeiling {
		return fmt.Errorf("source object %s (%d bytes) exceeds scratch ceiling %d", job.SourceKey, size, w.ScratchCeiling)
	}

	srcPath := filepath.Join(scratch, "source.mp4")
	if _, err := w.Objects.Download(ctx, job.SourceKey, srcPath); err != nil {
		if errors.Is(err, services.ErrObjectNotFound) {
			return Permanent(fmt.Errorf("source object missing: %w", err))
		}
		return fmt.Errorf("failed to fetch source object: %w", err)
	}
	log.WithField("stage", StageFetched).Debug("source fetched")

	// Fetched -> Transformed
	clipPath := filepath.Join(scratch, "clip.mp4")
	if err := w.Transform.Trim(ctx, srcPath, clipPath, job.StartTime, job.EndTime); err != nil {
		return fmt.Errorf("transform failed: %w", err)
	}
	log.WithField("stage", StageTransformed).Debug("clip transformed")

	// Transformed -> Stored: the key is deterministic, so a retry
	// overwrites rather than duplicates.
	derivedKey := models.DerivedClipKey(job.LeagueID, job.ClipID)
	if err := w.Objects.Upload(ctx, clipPath, derivedKey); err != nil {
		return fmt.Errorf("failed to store derived clip: %w", err)
	}
	log.WithField("stage", StageStored).Debug("derived clip stored")

	// Stored -> Persisted
	game, err := w.Games.GetGame(ctx, job.LeagueID, job.GameID)
	if errors.Is(err, services.ErrItemNotFound) {
		return Permanent(fmt.Errorf("game %s/%s does not exist", job.LeagueID, job.GameID))
	}
	if err != nil {
		return fmt.Errorf("failed to resolve game: %w", err)
	}

	clip := models.Clip{
		LeagueID:  job.LeagueID,
		ClipID:    job.ClipID,
		GameID:    job.GameID,
		GameTitle: game.Title,
		Key:       derivedKey,
		StartTime: job.StartTime,
		EndTime:   job.EndTime,
	}
	if err := w.Clips.PutClip(ctx, clip); err != nil {
		return fmt.Errorf("failed to persist clip record: %w", err)
	}
	log.WithField("stage", StagePersisted).Info("clip persisted")

	return nil
}
