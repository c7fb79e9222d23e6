package analytics

import (
	"cmp"
	"slices"

	"centralfight/gym-app/internal/domain"
)

// Equal keys fall back to ascending student id so rankings are reproducible.
func byIDAsc(a, b domain.Student) int { return cmp.Compare(a.ID, b.ID) }

func limitTo[T any](items []T, limit int) []T {
	if limit > 0 && limit < len(items) {
		return items[:limit]
	}
	return items
}

// Leaderboard orders students by points, highest first, and keeps at most
// limit entries (limit <= 0 keeps all).
func Leaderboard(students []domain.Student, limit int) []domain.Student {
	ranked := slices.Clone(students)
	if ranked == nil {
		ranked = []domain.Student{}
	}
	slices.SortStableFunc(ranked, func(a, b domain.Student) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return byIDAsc(a, b)
	})
	return limitTo(ranked, limit)
}

type AttendanceEntry struct {
	Student  domain.Student `json:"student"`
	CheckIns int            `json:"checkIns"`
	Points   int            `json:"points"`
}

// AttendanceRanking orders students by how many check-ins they have,
// most first. Check-ins of students not in the list are ignored.
func AttendanceRanking(students []domain.Student, checkIns []domain.CheckIn, limit int) []AttendanceEntry {
	counts := make(map[string]int, len(students))
	points := make(map[string]int, len(students))
	for _, c := range checkIns {
		counts[c.StudentID]++
		points[c.StudentID] += c.Points
	}

	out := make([]AttendanceEntry, 0, len(students))
	for _, s := range students {
		out = append(out, AttendanceEntry{Student: s, CheckIns: counts[s.ID], Points: points[s.ID]})
	}
	slices.SortStableFunc(out, func(a, b AttendanceEntry) int {
		if c := cmp.Compare(b.CheckIns, a.CheckIns); c != 0 {
			return c
		}
		return byIDAsc(a.Student, b.Student)
	})
	return limitTo(out, limit)
}

// RecentCheckIns returns check-ins newest first, at most limit of them.
func RecentCheckIns(checkIns []domain.CheckIn, limit int) []domain.CheckIn {
	out := slices.Clone(checkIns)
	if out == nil {
		out = []domain.CheckIn{}
	}
	slices.SortStableFunc(out, func(a, b domain.CheckIn) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return limitTo(out, limit)
}
