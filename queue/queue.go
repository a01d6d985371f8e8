// Package queue implements the durable trim-request queue: at-least-once
// delivery with per-message visibility leases, a bounded delivery-attempt
// count, a dead-letter sink, and bounded retention. Messages are stored in
// a local pebble database; delivery state survives restarts.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"hooparchives_server/access"
)

const (
	mainPrefix = "m/"
	deadPrefix = "d/"
)

var (
	// ErrUnknownMessage is returned for a handle whose message no longer exists.
	ErrUnknownMessage = errors.New("unknown message")
	// ErrStaleHandle is returned when a receipt handle's lease has been
	// superseded; the message was re-leased to another consumer.
	ErrStaleHandle = errors.New("stale receipt handle")
	// ErrInvalidHandle is returned for a malformed receipt handle.
	ErrInvalidHandle = errors.New("invalid receipt handle")
)

// Config holds the queue's redrive and retention settings.
type Config struct {
	VisibilityTimeout   time.Duration
	RetentionPeriod     time.Duration
	MaxDeliveryAttempts int
}

// record is the stored form of a queued message.
type record struct {
	ID             string    `json:"id"`
	Body           []byte    `json:"body"`
	Attempts       int       `json:"attempts"`
	EnqueuedAt     time.Time `json:"enqueuedAt"`
	LeaseExpiresAt time.Time `json:"leaseExpiresAt"`
	LeaseToken     string    `json:"leaseToken"`
}

// Message is a leased message as seen by a consumer. The receipt handle is
// valid only for the current lease.
type Message struct {
	ID            string
	Body          []byte
	Attempts      int
	EnqueuedAt    time.Time
	ReceiptHandle string
}

// DeadLetter is a message that exceeded its delivery attempts or was buried
// explicitly. Dead letters are the only operator-visible failures.
type DeadLetter struct {
	ID         string    `json:"id"`
	Body       []byte    `json:"body"`
	Attempts   int       `json:"attempts"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
	DeadAt     time.Time `json:"deadAt"`
	Reason     string    `json:"reason"`
}

// Queue is a durable message queue with visibility leases and a dead-letter
// sink. All operations identify the calling principal; grants are checked at
// this boundary, never by callers.
type Queue struct {
	db     *pebble.DB
	cfg    Config
	policy *access.Policy
	log    *logrus.Logger

	mu  sync.Mutex
	now func() time.Time
}

// Open opens (or creates) the queue database at dir.
func Open(dir string, cfg Config, policy *access.Policy, log *logrus.Logger) (*Queue, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open queue database at %s: %w", dir, err)
	}
	return &Queue{db: db, cfg: cfg, policy: policy, log: log, now: time.Now}, nil
}

// Close closes the underlying database.
func (q *Queue) Close() error {
	return q.db.Close()
}

// Enqueue appends a durable message and returns its id. No ordering is
// guaranteed relative to other messages.
func (q *Queue) Enqueue(ctx context.Context, as access.Principal, body []byte) (string, error) {
	if err := q.policy.Authorize(as, access.ResourceTrimQueue, access.OpEnqueue); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	rec := record{
		ID:         uuid.NewString(),
		Body:       body,
		EnqueuedAt: q.now().UTC(),
	}
	if err := q.putRecord(mainPrefix, rec.ID, rec); err != nil {
		return "", err
	}
	q.log.WithField("messageId", rec.ID).Debug("message enqueued")
	return rec.ID, nil
}

// Receive leases up to max messages that are not currently leased. Each
// delivery increments the message's attempt counter. Messages that have
// exhausted their attempts are moved to the dead-letter sink instead of
// being delivered again; messages past the retention period are dropped.
func (q *Queue) Receive(ctx context.Context, as access.Principal, max int) ([]Message, error) {
	if err := q.policy.Authorize(as, access.ResourceTrimQueue, access.OpConsume); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now().UTC()
	iter, err := q.db.NewIter(prefixBounds(mainPrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to scan queue: %w", err)
	}
	defer iter.Close()

	batch := q.db.NewBatch()
	defer batch.Close()

	var delivered []Message
	for iter.First(); iter.Valid(); iter.Next() {
		var rec record
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			return nil, fmt.Errorf("corrupt queue record %s: %w", iter.Key(), err)
		}

		if now.Sub(rec.EnqueuedAt) > q.cfg.RetentionPeriod {
			batch.Delete([]byte(mainPrefix+rec.ID), nil)
			q.log.WithField("messageId", rec.ID).Warn("message dropped: retention period elapsed")
			continue
		}
		if rec.LeaseExpiresAt.After(now) {
			continue
		}
		if rec.Attempts >= q.cfg.MaxDeliveryAttempts {
			if err := q.moveToDeadLetters(batch, rec, now, "delivery attempts exhausted"); err != nil {
				return nil, err
			}
			continue
		}
		if len(delivered) >= max {
			continue
		}

		rec.Attempts++
		rec.LeaseToken = uuid.NewString()
		rec.LeaseExpiresAt = now.Add(q.cfg.VisibilityTimeout)
		value, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal queue record: %w", err)
		}
		batch.Set([]byte(mainPrefix+rec.ID), value, nil)

		delivered = append(delivered, Message{
			ID:            rec.ID,
			Body:          rec.Body,
			Attempts:      rec.Attempts,
			EnqueuedAt:    rec.EnqueuedAt,
			ReceiptHandle: rec.ID + ":" + rec.LeaseToken,
		})
	}

	if err := q.db.Apply(batch, pebble.Sync); err != nil {
		return nil, fmt.Errorf("failed to commit queue state: %w", err)
	}
	return delivered, nil
}

// Delete permanently removes a message. It must be called only after the
// job's effects are durably committed. A handle from a superseded lease is
// rejected so a slow duplicate consumer cannot delete a re-leased message.
func (q *Queue) Delete(ctx context.Context, as access.Principal, handle string) error {
	if err := q.policy.Authorize(as, access.ResourceTrimQueue, access.OpConsume); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	rec, err := q.recordForHandle(handle)
	if err != nil {
		return err
	}
	if err := q.db.Delete([]byte(mainPrefix+rec.ID), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", rec.ID, err)
	}
	q.log.WithField("messageId", rec.ID).Debug("message acknowledged")
	return nil
}

// Bury moves a leased message straight to the dead-letter sink. This is the
// fail-fast path for non-retriable jobs: a payload that can never succeed
// should not burn its remaining delivery attempts.
func (q *Queue) Bury(ctx context.Context, as access.Principal, handle, reason string) error {
	if err := q.policy.Authorize(as, access.ResourceTrimQueue, access.OpConsume); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	rec, err := q.recordForHandle(handle)
	if err != nil {
		return err
	}
	batch := q.db.NewBatch()
	defer batch.Close()
	if err := q.moveToDeadLetters(batch, rec, q.now().UTC(), reason); err != nil {
		return err
	}
	if err := q.db.Apply(batch, pebble.Sync); err != nil {
		return fmt.Errorf("failed to bury message %s: %w", rec.ID, err)
	}
	return nil
}

// DeadLetters lists the contents of the dead-letter sink.
func (q *Queue) DeadLetters(ctx context.Context, as access.Principal) ([]DeadLetter, error) {
	if err := q.policy.Authorize(as, access.ResourceDeadLetters, access.OpRead); err != nil {
		return nil, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	iter, err := q.db.NewIter(prefixBounds(deadPrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to scan dead letters: %w", err)
	}
	defer iter.Close()

	var letters []DeadLetter
	for iter.First(); iter.Valid(); iter.Next() {
		var dl DeadLetter
		if err := json.Unmarshal(iter.Value(), &dl); err != nil {
			return nil, fmt.Errorf("corrupt dead letter %s: %w", iter.Key(), err)
		}
		letters = append(letters, dl)
	}
	return letters, nil
}

// Redrive moves a dead letter back onto the main queue with a fresh attempt
// counter. Operator action after the underlying fault is fixed.
func (q *Queue) Redrive(ctx context.Context, as access.Principal, id string) error {
	if err := q.policy.Authorize(as, access.ResourceDeadLetters, access.OpWrite); err != nil {
		return err
	}
	if err := q.policy.Authorize(as, access.ResourceTrimQueue, access.OpEnqueue); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	value, closer, err := q.db.Get([]byte(deadPrefix + id))
	if errors.Is(err, pebble.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrUnknownMessage, id)
	}
	if err != nil {
		return fmt.Errorf("failed to read dead letter %s: %w", id, err)
	}
	var dl DeadLetter
	if err := json.Unmarshal(value, &dl); err != nil {
		closer.Close()
		return fmt.Errorf("corrupt dead letter %s: %w", id, err)
	}
	closer.Close()

	rec := record{
		ID:         dl.ID,
		Body:       dl.Body,
		EnqueuedAt: q.now().UTC(),
	}
	batch := q.db.NewBatch()
	defer batch.Close()
	recValue, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal queue record: %w", err)
	}
	batch.Set([]byte(mainPrefix+rec.ID), recValue, nil)
	batch.Delete([]byte(deadPrefix+id), nil)
	if err := q.db.Apply(batch, pebble.Sync); err != nil {
		return fmt.Errorf("failed to redrive message %s: %w", id, err)
	}
	q.log.WithField("messageId", id).Info("dead letter redriven to main queue")
	return nil
}

func (q *Queue) moveToDeadLetters(batch *pebble.Batch, rec record, now time.Time, reason string) error {
	dl := DeadLetter{
		ID:         rec.ID,
		Body:       rec.Body,
		Attempts:   rec.Attempts,
		EnqueuedAt: rec.EnqueuedAt,
		DeadAt:     now,
		Reason:     reason,
	}
	value, err := json.Marshal(dl)
	if err != nil {
		return fmt.Errorf("failed to marshal dead letter: %w", err)
	}
	batch.Set([]byte(deadPrefix+rec.ID), value, nil)
	batch.Delete([]byte(mainPrefix+rec.ID), nil)
	q.log.WithFields(logrus.Fields{
		"messageId": rec.ID,
		"attempts":  rec.Attempts,
		"reason":    reason,
	}).Warn("message moved to dead-letter sink")
	return nil
}

// recordForHandle resolves a receipt handle to the current record, checking
// that the handle's lease token is still the active one.
func (q *Queue) recordForHandle(handle string) (record, error) {
	id, token, ok := strings.Cut(handle, ":")
	if !ok || id == "" || token == "" {
		return record{}, fmt.Errorf("%w: %q", ErrInvalidHandle, handle)
	}

	value, closer, err := q.db.Get([]byte(mainPrefix + id))
	if errors.Is(err, pebble.ErrNotFound) {
		return record{}, fmt.Errorf("%w: %s", ErrUnknownMessage, id)
	}
	if err != nil {
		return record{}, fmt.Errorf("failed to read message %s: %w", id, err)
	}
	defer closer.Close()

	var rec record
	if err := json.Unmarshal(value, &rec); err != nil {
		return record{}, fmt.Errorf("corrupt queue record %s: %w", id, err)
	}
	if rec.LeaseToken != token {
		return record{}, fmt.Errorf("%w: message %s was re-leased", ErrStaleHandle, id)
	}
	return rec, nil
}

func (q *Queue) putRecord(prefix, id string, rec record) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal queue record: %w", err)
	}
	if err := q.db.Set([]byte(prefix+id), value, pebble.Sync); err != nil {
		return fmt.Errorf("failed to store message %s: %w", id, err)
	}
	return nil
}

func prefixBounds(prefix string) *pebble.IterOptions {
	upper := []byte(prefix)
	upper[len(upper)-1]++
	return &pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: upper,
	}
}
