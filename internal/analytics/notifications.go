package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"centralfight/gym-app/internal/domain"
)

// NotificationsFor derives a student's inbox from their payments and
// progress, newest first. Ids are stable so read marks survive a rebuild.
func NotificationsFor(payments []domain.Payment, progress StudentProgress, now time.Time) domain.Notifications {
	out := domain.Notifications{}
	for _, p := range payments {
		switch DisplayStatus(p, now) {
		case DisplayOverdue:
			out = append(out, domain.Notification{
				ID:        "payment-overdue-" + p.ID,
				Title:     "Payment overdue",
				Message:   fmt.Sprintf("Payment %s of %s was due on %s.", p.ID, p.Amount.StringFixed(2), p.DueDate.Format(time.DateOnly)),
				Type:      domain.NotificationPayment,
				Priority:  domain.PriorityHigh,
				CreatedAt: p.DueDate,
			})
		case DisplayPending:
			out = append(out, domain.Notification{
				ID:        "payment-pending-" + p.ID,
				Title:     "Payment due",
				Message:   fmt.Sprintf("Payment %s of %s is due on %s.", p.ID, p.Amount.StringFixed(2), p.DueDate.Format(time.DateOnly)),
				Type:      domain.NotificationPayment,
				Priority:  domain.PriorityMedium,
				CreatedAt: p.DueDate,
			})
		case DisplayPaid:
			out = append(out, domain.Notification{
				ID:        "payment-paid-" + p.ID,
				Title:     "Payment confirmed",
				Message:   fmt.Sprintf("Payment %s of %s was received.", p.ID, p.Amount.StringFixed(2)),
				Type:      domain.NotificationPayment,
				Priority:  domain.PriorityLow,
				CreatedAt: p.EffectiveDate(),
				Read:      true,
			})
		}
	}

	if progress.SessionGoal >= 100 {
		out = append(out, domain.Notification{
			ID:        "goal-sessions-" + now.Format("2006-01"),
			Title:     "Monthly goal reached",
			Message:   fmt.Sprintf("%d sessions this month.", progress.MonthSessions),
			Type:      domain.NotificationProgress,
			Priority:  domain.PriorityMedium,
			CreatedAt: now,
		})
	}
	if progress.LevelKnown && progress.NextLevel != "" && progress.LevelProgress >= 90 {
		out = append(out, domain.Notification{
			ID:        fmt.Sprintf("level-near-%s", progress.NextLevel),
			Title:     "Almost there",
			Message:   fmt.Sprintf("%.0f%% of the way to %s.", progress.LevelProgress, progress.NextLevel),
			Type:      domain.NotificationProgress,
			Priority:  domain.PriorityLow,
			CreatedAt: now,
		})
	}

	slices.SortStableFunc(out, func(a, b domain.Notification) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
