package jobqueue

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/fitrekhq/fitrek/internal/pkg/cache"
	"github.com/fitrekhq/fitrek/internal/pkg/env"
)

const (
	// Runs-once markers so restarts within the same period do not double-send.
	dailyRunMarkerPrefix  = "jobqueue:daily_run:"
	weeklyRunMarkerPrefix = "jobqueue:weekly_run:"
	runMarkerTTL          = 8 * 24 * time.Hour

	scheduleCheckInterval = time.Minute
)

// Manager manages the global job queue and scheduled background tasks
type Manager struct {
	queue          *Queue
	scheduleTicker *time.Ticker
	stopCh         chan struct{}
	wg             sync.WaitGroup
	mu             sync.Mutex
	running        bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global job queue manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		workerCount := 3
		if v, err := strconv.Atoi(env.GetEnv("JOB_WORKERS", "")); err == nil && v > 0 {
			workerCount = v
		}

		globalManager = &Manager{
			queue:  NewQueue(workerCount),
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue and the schedulers
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue and schedulers")

	m.queue.Start()

	m.scheduleTicker = time.NewTicker(scheduleCheckInterval)
	m.wg.Add(1)
	go m.scheduleWorker(m.stopCh, m.scheduleTicker)

	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the job queue and the schedulers
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping job queue and schedulers...")

	if m.scheduleTicker != nil {
		m.scheduleTicker.Stop()
	}

	close(m.stopCh)
	m.running = false

	m.wg.Wait()
	m.queue.Stop()

	log.Info("[JobQueue Manager] Stopped successfully")
}

// scheduleWorker checks once a minute whether the daily or weekly run is due.
// A Redis marker keyed by period makes each run fire once across restarts
// and across multiple app instances. The stop channel and ticker are passed
// in so the worker never reads manager fields that Start replaces on the
// next cycle.
func (m *Manager) scheduleWorker(stopCh <-chan struct{}, ticker *time.Ticker) {
	defer m.wg.Done()

	for {
		select {
		case <-stopCh:
			log.Info("[JobQueue Manager] Schedule worker stopping")
			return
		case <-ticker.C:
			now := time.Now()
			if err := m.maybeEnqueueDailyRun(now); err != nil {
				log.Errorf("[JobQueue Manager] Daily schedule error: %v", err)
			}
			if err := m.maybeEnqueueWeeklyRun(now); err != nil {
				log.Errorf("[JobQueue Manager] Weekly schedule error: %v", err)
			}
		}
	}
}

// maybeEnqueueDailyRun enqueues the inactivity sweep once per day after 08:00.
func (m *Manager) maybeEnqueueDailyRun(now time.Time) error {
	if now.Hour() < 8 {
		return nil
	}
	runDate := now.Format("2006-01-02")
	claimed, err := claimRunMarker(dailyRunMarkerPrefix + runDate)
	if err != nil || !claimed {
		return err
	}

	payload := DailyInactivityCheckPayload{RunDate: runDate}
	_, err = m.queue.EnqueueJob(JobTypeDailyInactivityCheck, payload.ToMap())
	return err
}

// maybeEnqueueWeeklyRun enqueues the summary on Mondays after 09:00, covering
// the previous week.
func (m *Manager) maybeEnqueueWeeklyRun(now time.Time) error {
	if now.Weekday() != time.Monday || now.Hour() < 9 {
		return nil
	}
	weekStart := now.AddDate(0, 0, -7)
	// Normalize to the previous Monday.
	for weekStart.Weekday() != time.Monday {
		weekStart = weekStart.AddDate(0, 0, -1)
	}
	key := weekStart.Format("2006-01-02")

	claimed, err := claimRunMarker(weeklyRunMarkerPrefix + key)
	if err != nil || !claimed {
		return err
	}

	payload := WeeklySummaryPayload{WeekStart: key}
	_, err = m.queue.EnqueueJob(JobTypeWeeklySummary, payload.ToMap())
	return err
}

// claimRunMarker atomically claims a run marker. Returns false when another
// instance already claimed it.
func claimRunMarker(key string) (bool, error) {
	ctx := context.Background()
	return cache.GetClient().SetNX(ctx, key, time.Now().Format(time.RFC3339), runMarkerTTL).Result()
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
