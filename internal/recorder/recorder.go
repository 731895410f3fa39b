// internal/recorder/recorder.go
package recorder

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultQueueName is the Redis list holding recorded game events until the
// historian drains them.
var DefaultQueueName = "settlersync_events"

// Direction of a recorded event relative to this client.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// GameEventRecord is one observed snapshot or sent command, queued for
// offline analysis and training-data capture.
type GameEventRecord struct {
	SessionID uuid.UUID              `json:"session_id"`
	GameID    int                    `json:"game_id"`
	PlayerID  int                    `json:"player_id"`
	Direction string                 `json:"direction"`
	Kind      string                 `json:"kind"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp int64                  `json:"timestamp"`
}

// Recorder pushes game events onto a Redis queue. A nil Recorder is valid
// and records nothing, so callers never need to branch on whether recording
// is configured. Recording must never block or fail gameplay: push errors
// are logged and the event is dropped.
type Recorder struct {
	log       *logrus.Logger
	rdb       *redis.Client
	queue     string
	sessionID uuid.UUID
}

// FromEnv creates a Recorder when REDIS_ADDR is set, nil otherwise.
// Optional: REDIS_DB, RECORDER_QUEUE_NAME.
func FromEnv(log *logrus.Logger) *Recorder {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	queue := os.Getenv("RECORDER_QUEUE_NAME")
	if queue == "" {
		queue = DefaultQueueName
	}
	dbIdx := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			dbIdx = n
		}
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: dbIdx})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warnf("recorder disabled: redis at %s unreachable: %v", addr, err)
		return nil
	}

	return &Recorder{
		log:       log,
		rdb:       rdb,
		queue:     queue,
		sessionID: uuid.New(),
	}
}

// Record queues one event. Safe on a nil Recorder.
func (r *Recorder) Record(gameID, playerID int, direction, kind string, payload map[string]interface{}) {
	if r == nil {
		return
	}
	rec := GameEventRecord{
		SessionID: r.sessionID,
		GameID:    gameID,
		PlayerID:  playerID,
		Direction: direction,
		Kind:      kind,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		r.log.Warnf("recorder: marshal failed: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.rdb.RPush(ctx, r.queue, data).Err(); err != nil {
		r.log.Warnf("recorder: rpush failed: %v", err)
	}
}

// Close releases the underlying Redis client. Safe on a nil Recorder.
func (r *Recorder) Close() {
	if r == nil {
		return
	}
	_ = r.rdb.Close()
}
