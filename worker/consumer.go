package worker

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"hooparchives_server/access"
	"hooparchives_server/queue"
)

// Consumer drives the worker from the trim queue. Each leased message gets
// its own invocation: a fresh context deadline, a fresh scratch directory,
// and exactly one job (batch size 1 bounds the blast radius of a failure
// to one video's worth of time and disk).
type Consumer struct {
	Queue  *queue.Queue
	Worker *Worker

	Concurrency  int
	PollInterval time.Duration
	JobTimeout   time.Duration

	Log *logrus.Logger
}

// Run polls the queue until ctx is cancelled. Invocation loops run
// independently and never coordinate; the queue's leases are the only
// shared state.
func (c *Consumer) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < c.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.loop(ctx)
		}()
	}
	wg.Wait()
}

func (c *Consumer) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgs, err := c.Queue.Receive(ctx, access.PrincipalClipWorker, 1)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.Log.WithError(err).Error("failed to receive from trim queue")
			c.sleep(ctx)
			continue
		}
		if len(msgs) == 0 {
			c.sleep(ctx)
			continue
		}

		c.handle(ctx, msgs[0])
	}
}

// handle runs a single invocation and settles the message: acknowledge on
// success, bury on a permanent failure, or leave it leased so a retriable
// failure is redelivered after the visibility window.
func (c *Consumer) handle(ctx context.Context, msg queue.Message) {
	log := c.Log.WithFields(logrus.Fields{
		"messageId": msg.ID,
		"attempt":   msg.Attempts,
	})
	log.Info("processing trim job")

	jobCtx, cancel := context.WithTimeout(ctx, c.JobTimeout)
	err := c.Worker.Process(jobCtx, msg.Body)
	cancel()

	switch {
	case err == nil:
		// Persisted -> Acknowledged. A crash before this delete leaves the
		// message to be redelivered; reprocessing is a no-op in effect.
		if err := c.Queue.Delete(ctx, access.PrincipalClipWorker, msg.ReceiptHandle); err != nil {
			log.WithError(err).Error("failed to acknowledge message")
			return
		}
		log.WithField("stage", StageAcknowledged).Info("trim job complete")

	case IsPermanent(err):
		log.WithError(err).Warn("non-retriable failure, dead-lettering immediately")
		if err := c.Queue.Bury(ctx, access.PrincipalClipWorker, msg.ReceiptHandle, err.Error()); err != nil {
			log.WithError(err).Error("failed to bury message")
		}

	default:
		// Leave the message leased; it becomes visible again when the
		// lease expires and dead-letters once attempts are exhausted.
		log.WithError(err).Error("trim job failed, leaving for redelivery")
	}
}

func (c *Consumer) sleep(ctx context.Context) {
	timer := time.NewTimer(c.PollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
