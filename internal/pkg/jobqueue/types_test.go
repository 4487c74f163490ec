package jobqueue

import (
	"testing"
	"time"
)

func TestJobLifecycleMarks(t *testing.T) {
	job := &Job{
		ID:         "test",
		Type:       JobTypeDailyInactivityCheck,
		Status:     JobStatusPending,
		MaxRetries: DefaultMaxRetries,
	}

	job.MarkAsProcessing()
	if job.Status != JobStatusProcessing || job.ProcessedAt == nil {
		t.Fatalf("expected processing state, got %+v", job)
	}

	job.MarkAsFailed("boom")
	if job.Status != JobStatusFailed || job.RetryCount != 1 || job.ErrorMsg != "boom" {
		t.Fatalf("expected failed state with retry count 1, got %+v", job)
	}
	if !job.IsRetryable() {
		t.Fatalf("expected job to be retryable after first failure")
	}

	for i := 0; i < DefaultMaxRetries-1; i++ {
		job.MarkAsFailed("boom")
	}
	if job.IsRetryable() {
		t.Fatalf("expected job to be exhausted after %d failures", DefaultMaxRetries)
	}

	job.MarkAsCompleted()
	if job.Status != JobStatusCompleted || job.CompletedAt == nil || job.ErrorMsg != "" {
		t.Fatalf("expected completed state, got %+v", job)
	}
}

func TestDailyInactivityCheckPayloadRoundTrip(t *testing.T) {
	payload := DailyInactivityCheckPayload{RunDate: time.Now().Format("2006-01-02")}

	restored, err := DailyInactivityCheckPayloadFromMap(payload.ToMap())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored.RunDate != payload.RunDate {
		t.Fatalf("run_date = %q, want %q", restored.RunDate, payload.RunDate)
	}
}

func TestSendNotificationPayloadRoundTrip(t *testing.T) {
	payload := SendNotificationPayload{
		UserID:  42,
		Type:    "system",
		Message: "maintenance tonight",
	}

	restored, err := SendNotificationPayloadFromMap(payload.ToMap())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored.UserID != 42 || restored.Message != payload.Message {
		t.Fatalf("unexpected payload: %+v", restored)
	}
	if restored.Details != "" {
		t.Fatalf("expected empty details, got %q", restored.Details)
	}
}
