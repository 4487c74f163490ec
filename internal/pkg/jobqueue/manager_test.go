package jobqueue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetManager(t *testing.T) {
	// Reset the singleton for testing
	globalManager = nil
	managerOnce = sync.Once{}

	manager1 := GetManager()
	manager2 := GetManager()

	assert.NotNil(t, manager1)
	assert.Same(t, manager1, manager2, "GetManager should return the same instance")

	assert.NotNil(t, manager1.queue)
	assert.NotNil(t, manager1.stopCh)
	assert.False(t, manager1.running)
}

func TestManager_IsRunning(t *testing.T) {
	manager := &Manager{queue: NewQueue(1), stopCh: make(chan struct{})}

	assert.False(t, manager.IsRunning())

	manager.mu.Lock()
	manager.running = true
	manager.mu.Unlock()
	assert.True(t, manager.IsRunning())
}

func TestManager_StopWithoutStart(t *testing.T) {
	manager := &Manager{queue: NewQueue(1), stopCh: make(chan struct{})}

	// Stop without starting should be safe
	manager.Stop()
	assert.False(t, manager.IsRunning())
}

func TestScheduleWorkerStopsOnChannelClose(t *testing.T) {
	manager := &Manager{queue: NewQueue(1)}

	stopCh := make(chan struct{})
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	manager.wg.Add(1)
	go manager.scheduleWorker(stopCh, ticker)

	// The worker holds its own copies of the stop channel and ticker, so
	// clearing the manager fields (as a later Start cycle does) must not
	// keep it alive.
	manager.mu.Lock()
	manager.stopCh = make(chan struct{})
	manager.scheduleTicker = nil
	manager.mu.Unlock()

	close(stopCh)

	done := make(chan struct{})
	go func() {
		manager.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("schedule worker did not stop after its stop channel was closed")
	}
}
