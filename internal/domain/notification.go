package domain

import (
	"slices"
	"time"
)

type NotificationType string

const (
	NotificationPayment  NotificationType = "payment"
	NotificationEvent    NotificationType = "event"
	NotificationCheckIn  NotificationType = "checkin"
	NotificationProgress NotificationType = "achievement"
	NotificationSystem   NotificationType = "system"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Priority  Priority         `json:"priority"`
	CreatedAt time.Time        `json:"createdAt"`
	Read      bool             `json:"read"`
}

// Notifications is a screen-local inbox. Every operation returns a new list.
type Notifications []Notification

func (ns Notifications) MarkRead(id string) Notifications {
	out := slices.Clone(ns)
	for i := range out {
		if out[i].ID == id {
			out[i].Read = true
		}
	}
	return out
}

func (ns Notifications) MarkAllRead() Notifications {
	out := slices.Clone(ns)
	for i := range out {
		out[i].Read = true
	}
	return out
}

func (ns Notifications) Delete(id string) Notifications {
	out := make(Notifications, 0, len(ns))
	for _, n := range ns {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}

// Unread returns only the notifications not yet read.
func (ns Notifications) Unread() Notifications {
	out := make(Notifications, 0, len(ns))
	for _, n := range ns {
		if !n.Read {
			out = append(out, n)
		}
	}
	return out
}

func (ns Notifications) UnreadCount() int {
	return len(ns.Unread())
}
