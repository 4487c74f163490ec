package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeDailyInactivityCheck JobType = "daily_inactivity_check"
	JobTypeWeeklySummary        JobType = "weekly_summary"
	JobTypeSendNotification     JobType = "send_notification"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// DailyInactivityCheckPayload contains the payload for the daily inactivity sweep
type DailyInactivityCheckPayload struct {
	// RunDate is the day the sweep covers, formatted 2006-01-02.
	RunDate string `json:"run_date"`
}

// ToMap converts the payload to a map for storage
func (p DailyInactivityCheckPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"run_date": p.RunDate,
	}
}

// FromMap creates a payload from a map
func DailyInactivityCheckPayloadFromMap(data map[string]interface{}) (*DailyInactivityCheckPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload DailyInactivityCheckPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// WeeklySummaryPayload contains the payload for the weekly summary run
type WeeklySummaryPayload struct {
	// WeekStart is the Monday of the summarized week, formatted 2006-01-02.
	WeekStart string `json:"week_start"`
}

// ToMap converts the payload to a map for storage
func (p WeeklySummaryPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"week_start": p.WeekStart,
	}
}

// FromMap creates a payload from a map
func WeeklySummaryPayloadFromMap(data map[string]interface{}) (*WeeklySummaryPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload WeeklySummaryPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// SendNotificationPayload contains the payload for delivering a single notification
type SendNotificationPayload struct {
	UserID  uint   `json:"user_id"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ToMap converts the payload to a map for storage
func (p SendNotificationPayload) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"user_id": p.UserID,
		"type":    p.Type,
		"message": p.Message,
	}
	if p.Details != "" {
		m["details"] = p.Details
	}
	return m
}

// FromMap creates a payload from a map
func SendNotificationPayloadFromMap(data map[string]interface{}) (*SendNotificationPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload SendNotificationPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}
