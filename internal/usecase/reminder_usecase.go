package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Reminder kinds reported to metrics.
const (
	ReminderDueToday    = "due_today"
	ReminderDueTomorrow = "due_tomorrow"
)

// ReminderWindow is the inclusive range of local hours in which reminders are sent.
type ReminderWindow struct {
	Location  *time.Location
	StartHour int
	EndHour   int
}

// Contains reports whether t falls inside the window.
func (w ReminderWindow) Contains(t time.Time) bool {
	h := w.local(t).Hour()
	return h >= w.StartHour && h <= w.EndHour
}

func (w ReminderWindow) local(t time.Time) time.Time {
	if w.Location == nil {
		return t
	}
	return t.In(w.Location)
}

// ReminderUseCase sends due-date reminders. It only touches due-date bookkeeping.
type ReminderUseCase struct {
	ledger    *LedgerUseCase
	messenger Messenger
	business  Business
	window    ReminderWindow
	metrics   MetricsRecorder
	logger    zerolog.Logger
}

// NewReminderUseCase creates a new ReminderUseCase.
func NewReminderUseCase(
	ledger *LedgerUseCase,
	messenger Messenger,
	business Business,
	window ReminderWindow,
	metrics MetricsRecorder,
	logger zerolog.Logger,
) *ReminderUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}

	return &ReminderUseCase{
		ledger:    ledger,
		messenger: messenger,
		business:  business,
		window:    window,
		metrics:   metrics,
		logger:    logger,
	}
}

// Run sends at most one reminder per account per day for debts due today or tomorrow.
// It returns the number of reminders sent.
func (uc *ReminderUseCase) Run(ctx context.Context, now time.Time) (int, error) {
	if !uc.window.Contains(now) {
		return 0, nil
	}

	now = uc.window.local(now)
	today := now.Format(DueDateLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(DueDateLayout)
	todayISO := now.Format(ReminderDayLayout)

	accounts, err := uc.ledger.DueAccounts(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0

	for _, account := range accounts {
		if account.LastReminder == todayISO || account.IsSettled() {
			continue
		}

		var kind, message string

		switch account.DueDate {
		case tomorrow:
			kind, message = ReminderDueTomorrow, uc.business.dueTomorrowReminder(account)
		case today:
			kind, message = ReminderDueToday, uc.business.dueTodayReminder(account)
		default:
			continue
		}

		if err := uc.messenger.SendText(ctx, account.ID, message); err != nil {
			uc.logger.Error().Err(err).Str("account_id", account.ID).Msg("failed to send reminder")
			continue
		}

		if err := uc.ledger.MarkReminderSent(ctx, account.ID, now); err != nil {
			uc.logger.Error().Err(err).Str("account_id", account.ID).Msg("failed to record reminder")
			continue
		}

		sent++
		uc.metrics.ReminderSent(kind)
		uc.logger.Info().Str("account_id", account.ID).Str("kind", kind).Msg("reminder sent")
	}

	return sent, nil
}
