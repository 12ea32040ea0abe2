// Package tasksredisstore stores tasks in Redis.
//
// Layout under the configured prefix:
//
//	<prefix>:tasks:seq     INCR counter handing out ids
//	<prefix>:tasks:index   sorted set of ids, score = id
//	<prefix>:tasks:<id>    JSON encoded task
package tasksredisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jrazmi/tasker/core/repositories/tasksrepo"
	"github.com/jrazmi/tasker/infrastructure/redisdb"
	"github.com/jrazmi/tasker/sdk/logger"
	"github.com/redis/go-redis/v9"
)

var _ tasksrepo.Storer = (*Store)(nil)

// maxUpdateAttempts bounds optimistic-lock retries when a watched task key
// changes between read and write.
const maxUpdateAttempts = 5

type Store struct {
	log    *logger.Logger
	client *redis.Client
	prefix string

	// onWatched runs between the watched read and the MULTI/EXEC of an update.
	onWatched func()
}

func NewStore(log *logger.Logger, client *redis.Client, prefix string) *Store {
	return &Store{
		log:    log,
		client: client,
		prefix: prefix,
	}
}

func (s *Store) seqKey() string   { return s.prefix + ":tasks:seq" }
func (s *Store) indexKey() string { return s.prefix + ":tasks:index" }
func (s *Store) taskKey(id int64) string {
	return s.prefix + ":tasks:" + strconv.FormatInt(id, 10)
}

func (s *Store) FindAll(ctx context.Context) ([]tasksrepo.Task, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read task index: %w", err)
	}
	if len(ids) == 0 {
		return []tasksrepo.Task{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.prefix + ":tasks:" + id
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}

	tasks := make([]tasksrepo.Task, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// Index entry without a body; skip rather than fail the listing.
			s.log.WarnContext(ctx, "task indexed but missing", "key", keys[i])
			continue
		}
		var t tasksrepo.Task
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return nil, fmt.Errorf("decode task %s: %w", keys[i], err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (s *Store) FindByID(ctx context.Context, taskID int64) (tasksrepo.Task, bool, error) {
	raw, err := s.client.Get(ctx, s.taskKey(taskID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return tasksrepo.Task{}, false, nil
		}
		return tasksrepo.Task{}, false, fmt.Errorf("read task: %w", err)
	}

	var t tasksrepo.Task
	if err := json.Unmarshal(raw, &t); err != nil {
		return tasksrepo.Task{}, false, fmt.Errorf("decode task: %w", err)
	}
	return t, true, nil
}

// Save overwrites an existing task under WATCH so CreatedAt survives
// concurrent writers, or inserts a new task under the next INCR id.
func (s *Store) Save(ctx context.Context, task tasksrepo.Task) (tasksrepo.Task, error) {
	if task.IsNew() {
		return s.insert(ctx, task)
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		saved, found, err := s.update(ctx, task)
		switch {
		case errors.Is(err, redis.TxFailedErr):
			s.log.DebugContext(ctx, "task changed while saving, retrying", "task_id", task.TaskID, "attempt", attempt)
			continue
		case err != nil:
			return tasksrepo.Task{}, err
		case found:
			return saved, nil
		default:
			return s.insert(ctx, task)
		}
	}
	return tasksrepo.Task{}, fmt.Errorf("update task %d: %w", task.TaskID, redis.TxFailedErr)
}

func (s *Store) update(ctx context.Context, task tasksrepo.Task) (tasksrepo.Task, bool, error) {
	key := s.taskKey(task.TaskID)
	var found bool

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read task: %w", err)
		}

		var existing tasksrepo.Task
		if err := json.Unmarshal(raw, &existing); err != nil {
			return fmt.Errorf("decode task: %w", err)
		}
		task.CreatedAt = existing.CreatedAt
		task.UpdatedAt = now()

		if s.onWatched != nil {
			s.onWatched()
		}

		body, err := json.Marshal(task)
		if err != nil {
			return fmt.Errorf("encode task: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, body, 0)
			return nil
		})
		if err != nil {
			return err
		}
		found = true
		return nil
	}, key)

	return task, found, err
}

func (s *Store) insert(ctx context.Context, task tasksrepo.Task) (tasksrepo.Task, error) {
	id, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("allocate task id: %w", err)
	}

	task.TaskID = id
	task.CreatedAt = now()
	task.UpdatedAt = task.CreatedAt

	body, err := json.Marshal(task)
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("encode task: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.taskKey(id), body, 0)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(id), Member: strconv.FormatInt(id, 10)})
		return nil
	})
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("write task: %w", err)
	}
	return task, nil
}

// StatusCheck pings the server.
func (s *Store) StatusCheck(ctx context.Context) error {
	return redisdb.StatusCheck(ctx, s.client)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
