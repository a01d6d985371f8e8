package worker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hooparchives_server/access"
	"hooparchives_server/models"
	"hooparchives_server/queue"
)

func newConsumerFixture(t *testing.T, transform *fakeTransform, visibility time.Duration) (*Consumer, *queue.Queue, *fakeObjects, *fakeClips) {
	t.Helper()

	q, err := queue.Open(t.TempDir(), queue.Config{
		VisibilityTimeout:   visibility,
		RetentionPeriod:     time.Hour,
		MaxDeliveryAttempts: 3,
	}, access.DefaultPolicy(), testLogger())
	if err != nil {
		t.Fatalf("failed to open queue: %v", err)
	}
	t.Cleanup(func() { q.Close() })

	objects := newFakeObjects()
	objects.objects["raw/game-1.mp4"] = []byte("rawvideo")
	clips := newFakeClips()
	games := &fakeGames{games: map[string]models.Game{
		"league-1/game-1": {LeagueID: "league-1", GameID: "game-1", Title: "Season Opener"},
	}}

	consumer := &Consumer{
		Queue:        q,
		Worker:       newTestWorker(t, objects, clips, games, transform),
		Concurrency:  1,
		PollInterval: 5 * time.Millisecond,
		JobTimeout:   time.Second,
		Log:          testLogger(),
	}
	return consumer, q, objects, clips
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestConsumerAcknowledgesOnSuccess(t *testing.T) {
	consumer, q, objects, clips := newConsumerFixture(t, &fakeTransform{}, 30*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.Run(ctx)
	}()

	if _, err := q.Enqueue(ctx, access.PrincipalProducer, testJobBody(t, testJob)); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if !waitFor(t, 5*time.Second, func() bool {
		clips.mu.Lock()
		defer clips.mu.Unlock()
		return len(clips.clips) == 1
	}) {
		t.Fatalf("clip record never persisted")
	}
	cancel()
	<-done

	if _, ok := objects.get("clips/league-1/clip-1.mp4"); !ok {
		t.Errorf("derived clip not stored")
	}

	// Acknowledged: not redeliverable and not dead-lettered.
	checkCtx := context.Background()
	msgs, err := q.Receive(checkCtx, access.PrincipalClipWorker, 1)
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("acknowledged message still on the queue")
	}
	letters, err := q.DeadLetters(checkCtx, access.PrincipalOperator)
	if err != nil {
		t.Fatalf("dead letters failed: %v", err)
	}
	if len(letters) != 0 {
		t.Errorf("successful job was dead-lettered")
	}
}

func TestConsumerBuriesPermanentFailure(t *testing.T) {
	transform := &fakeTransform{}
	consumer, q, _, _ := newConsumerFixture(t, transform, 30*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.Run(ctx)
	}()

	job := testJob
	job.StartTime, job.EndTime = 25, 10
	if _, err := q.Enqueue(ctx, access.PrincipalProducer, testJobBody(t, job)); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if !waitFor(t, 5*time.Second, func() bool {
		letters, err := q.DeadLetters(context.Background(), access.PrincipalOperator)
		return err == nil && len(letters) == 1
	}) {
		t.Fatalf("permanent failure was not dead-lettered")
	}
	cancel()
	<-done

	letters, err := q.DeadLetters(context.Background(), access.PrincipalOperator)
	if err != nil || len(letters) != 1 {
		t.Fatalf("expected 1 dead letter, got %d (err %v)", len(letters), err)
	}
	// Buried on first delivery, no retries burned.
	if letters[0].Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", letters[0].Attempts)
	}
	if !strings.Contains(letters[0].Reason, "invalid trim job") {
		t.Errorf("unexpected reason %q", letters[0].Reason)
	}
	if transform.callCount() != 0 {
		t.Errorf("transform ran for an invalid job")
	}
}

func TestConsumerExhaustsRetriesThenDeadLetters(t *testing.T) {
	transform := &fakeTransform{err: errors.New("encoder unavailable")}
	consumer, q, _, clips := newConsumerFixture(t, transform, 30*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.Run(ctx)
	}()

	if _, err := q.Enqueue(ctx, access.PrincipalProducer, testJobBody(t, testJob)); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if !waitFor(t, 10*time.Second, func() bool {
		letters, err := q.DeadLetters(context.Background(), access.PrincipalOperator)
		return err == nil && len(letters) == 1
	}) {
		t.Fatalf("exhausted job was not dead-lettered")
	}
	cancel()
	<-done

	if got := transform.callCount(); got != 3 {
		t.Errorf("expected exactly 3 delivery attempts, got %d", got)
	}
	letters, _ := q.DeadLetters(context.Background(), access.PrincipalOperator)
	if letters[0].Attempts != 3 {
		t.Errorf("expected 3 recorded attempts, got %d", letters[0].Attempts)
	}
	if letters[0].Reason != "delivery attempts exhausted" {
		t.Errorf("unexpected reason %q", letters[0].Reason)
	}
	if clips.puts != 0 {
		t.Errorf("clip record persisted despite failing transform")
	}
}
