package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultEventDedupTTL is how long a gateway event id is remembered.
	DefaultEventDedupTTL = 10 * time.Minute

	// ManualReferencePrefix marks reference ids of typed adjustments.
	ManualReferencePrefix = "MAN_"

	// ReminderDayLayout is the ISO day stored as the reminder marker.
	ReminderDayLayout = "2006-01-02"

	// DueDateLayout matches domain due dates.
	DueDateLayout = "02/01"
)
