// cmd/historian/main.go is an asynchronous historian service that pops
// recorded game events from the Redis queue and persists them to PostgreSQL
// in batches, for later replay and training-data extraction.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"settlersync/internal/database"
	"settlersync/internal/recorder"
)

// HistorianService drains the recorder queue into the database.
type HistorianService struct {
	redisClient *redis.Client
	queueName   string
	batchSize   int
	flushDelay  time.Duration

	batchMu  sync.Mutex
	batch    []recorder.GameEventRecord
	ctx      context.Context
	cancelFn context.CancelFunc
}

// NewHistorianService constructs a HistorianService from environment
// variables or defaults.
func NewHistorianService() *HistorianService {
	batchSize := getEnvInt("HISTORIAN_BATCH_SIZE", 20)
	flushMs := getEnvInt("HISTORIAN_FLUSH_MS", 500)

	rdb := redis.NewClient(&redis.Options{
		Addr: getEnv("REDIS_ADDR", "localhost:6379"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &HistorianService{
		redisClient: rdb,
		queueName:   getEnv("RECORDER_QUEUE_NAME", recorder.DefaultQueueName),
		batchSize:   batchSize,
		flushDelay:  time.Duration(flushMs) * time.Millisecond,
		batch:       make([]recorder.GameEventRecord, 0, batchSize),
		ctx:         ctx,
		cancelFn:    cancel,
	}
}

// Run connects the database and processes the queue until Stop is called.
func (hs *HistorianService) Run() {
	database.ConnectDB()
	if err := database.EnsureSchema(hs.ctx); err != nil {
		log.Fatalf("historian: %v", err)
	}

	go hs.readRedisLoop()

	log.Println("settlersync-historian service started.")
	<-hs.ctx.Done()
	hs.flushBatchToDB()
	log.Println("settlersync-historian shutting down.")
}

// Stop signals the service to flush and exit.
func (hs *HistorianService) Stop() {
	hs.cancelFn()
}

// readRedisLoop pulls records off the queue with BLPop and flushes the batch
// when it fills or on the periodic timer.
func (hs *HistorianService) readRedisLoop() {
	ticker := time.NewTicker(hs.flushDelay)
	defer ticker.Stop()

	for {
		select {
		case <-hs.ctx.Done():
			return

		case <-ticker.C:
			hs.flushBatchToDB()

		default:
			res, err := hs.redisClient.BLPop(hs.ctx, time.Second, hs.queueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
					continue
				}
				log.Printf("historian: blpop error: %v", err)
				time.Sleep(time.Second)
				continue
			}
			// res[0] is the queue name, res[1] the payload.
			if len(res) < 2 {
				continue
			}

			var rec recorder.GameEventRecord
			if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
				log.Printf("historian: skipping undecodable record: %v", err)
				continue
			}

			hs.batchMu.Lock()
			hs.batch = append(hs.batch, rec)
			full := len(hs.batch) >= hs.batchSize
			hs.batchMu.Unlock()
			if full {
				hs.flushBatchToDB()
			}
		}
	}
}

// flushBatchToDB writes the accumulated batch in one database round trip.
func (hs *HistorianService) flushBatchToDB() {
	hs.batchMu.Lock()
	if len(hs.batch) == 0 {
		hs.batchMu.Unlock()
		return
	}
	batch := hs.batch
	hs.batch = make([]recorder.GameEventRecord, 0, hs.batchSize)
	hs.batchMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := database.InsertGameEvents(ctx, batch); err != nil {
		log.Printf("historian: flush of %d records failed: %v", len(batch), err)
	}
}

func main() {
	hs := NewHistorianService()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	go func() {
		<-sigs
		hs.Stop()
	}()

	hs.Run()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
