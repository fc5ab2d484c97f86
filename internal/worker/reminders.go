// Package worker delivers due-date reminders. Handlers enqueue a
// Reminder onto a redis list when a task is created or updated with a
// due date; a small worker pool pops jobs and emits the notification.
package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Reminder struct {
	TaskID    string    `json:"task_id"`
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	DueDate   time.Time `json:"due_date"`
}

type Queue struct {
	client *redis.Client
	key    string
}

func NewQueue(client *redis.Client, key string) *Queue {
	return &Queue{client: client, key: key}
}

func (q *Queue) Enqueue(ctx context.Context, r Reminder) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, q.key, data).Err()
}

func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

type Worker struct {
	queue        *Queue
	log          zerolog.Logger
	pollInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWorker(queue *Queue, log zerolog.Logger, pollInterval time.Duration) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		queue:        queue,
		log:          log,
		pollInterval: pollInterval,
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (w *Worker) Start(concurrency int) {
	w.log.Info().Int("concurrency", concurrency).Msg("starting reminder worker")
	for i := 0; i < concurrency; i++ {
		w.wg.Add(1)
		go w.loop()
	}
}

func (w *Worker) Stop() {
	w.cancel()
	w.wg.Wait()
	w.log.Info().Msg("reminder worker stopped")
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		default:
		}

		res, err := w.queue.client.BLPop(w.ctx, w.pollInterval, w.queue.key).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			if w.ctx.Err() != nil {
				return
			}
			w.log.Warn().Err(err).Msg("reminder queue pop failed")
			time.Sleep(w.pollInterval)
			continue
		}
		// BLPop returns [key, value].
		if len(res) != 2 {
			continue
		}

		var r Reminder
		if err := json.Unmarshal([]byte(res[1]), &r); err != nil {
			w.log.Warn().Err(err).Msg("dropping malformed reminder")
			continue
		}
		w.deliver(r)
	}
}

// deliver is a logging stub; a real channel (email, push) would hang
// off this point.
func (w *Worker) deliver(r Reminder) {
	w.log.Info().
		Str("task_id", r.TaskID).
		Str("project_id", r.ProjectID).
		Str("user_id", r.UserID).
		Str("title", r.Title).
		Time("due_date", r.DueDate).
		Msg("task due-date reminder")
}
