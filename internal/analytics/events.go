package analytics

import (
	"cmp"
	"slices"

	"centralfight/gym-app/internal/domain"
)

// EventFilter narrows the events screen.
type EventFilter string

const (
	EventsAll        EventFilter = "all"
	EventsUpcoming   EventFilter = "upcoming"
	EventsRegistered EventFilter = "registered"
)

func (f EventFilter) Valid() bool {
	switch f {
	case EventsAll, EventsUpcoming, EventsRegistered:
		return true
	}
	return false
}

// EventView is an event as seen by one student.
type EventView struct {
	domain.Event
	Registered bool `json:"registered"`
	Full       bool `json:"full"`
	// -1 when the event has no participant limit.
	SpotsLeft int `json:"spotsLeft"`
}

func ViewEvent(e domain.Event, studentID string) EventView {
	return EventView{
		Event:      e,
		Registered: e.IsRegistered(studentID),
		Full:       e.Full(),
		SpotsLeft:  e.SpotsLeft(),
	}
}

type EventSummary struct {
	Upcoming   int `json:"upcoming"`
	Registered int `json:"registered"`
	Total      int `json:"total"`
}

func SummarizeEvents(events []domain.Event, studentID string) EventSummary {
	s := EventSummary{Total: len(events)}
	for _, e := range events {
		if e.Status == domain.EventUpcoming {
			s.Upcoming++
		}
		if e.IsRegistered(studentID) {
			s.Registered++
		}
	}
	return s
}

// FilterEvents returns the events matching filter for studentID, soonest
// first. Ties are broken by id.
func FilterEvents(events []domain.Event, studentID string, filter EventFilter) []EventView {
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		switch filter {
		case EventsUpcoming:
			if e.Status != domain.EventUpcoming {
				continue
			}
		case EventsRegistered:
			if !e.IsRegistered(studentID) {
				continue
			}
		}
		out = append(out, ViewEvent(e, studentID))
	}
	slices.SortStableFunc(out, func(a, b EventView) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
