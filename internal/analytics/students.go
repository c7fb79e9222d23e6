package analytics

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"centralfight/gym-app/internal/domain"
)

type StatusCounts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Overdue   int `json:"overdue"`
	Suspended int `json:"suspended"`
}

func CountByPaymentStatus(students []domain.Student) StatusCounts {
	c := StatusCounts{Total: len(students)}
	for _, s := range students {
		switch s.PaymentStatus {
		case domain.PaymentStatusActive:
			c.Active++
		case domain.PaymentStatusOverdue:
			c.Overdue++
		case domain.PaymentStatusSuspended:
			c.Suspended++
		}
	}
	return c
}

// LevelDistribution counts students per level. Every defined level is present.
func LevelDistribution(students []domain.Student) map[domain.Level]int {
	out := map[domain.Level]int{
		domain.LevelBeginner:     0,
		domain.LevelIntermediate: 0,
		domain.LevelAdvanced:     0,
	}
	for _, s := range students {
		out[s.Level]++
	}
	return out
}

type StyleCount struct {
	Style    string `json:"style"`
	Students int    `json:"students"`
}

// StyleDistribution counts students per fight style, largest group first,
// then by style name.
func StyleDistribution(students []domain.Student) []StyleCount {
	counts := map[string]int{}
	for _, s := range students {
		counts[s.FightStyle]++
	}
	out := make([]StyleCount, 0, len(counts))
	for style, n := range counts {
		out = append(out, StyleCount{Style: style, Students: n})
	}
	slices.SortFunc(out, func(a, b StyleCount) int {
		if c := cmp.Compare(b.Students, a.Students); c != 0 {
			return c
		}
		return cmp.Compare(a.Style, b.Style)
	})
	return out
}

// AverageAttendance is check-ins per student, 0 when there are no students.
func AverageAttendance(checkIns, students int) float64 {
	if students <= 0 {
		return 0
	}
	return float64(checkIns) / float64(students)
}

// StudentFilter narrows the roster screen.
type StudentFilter string

const (
	FilterAll     StudentFilter = "all"
	FilterActive  StudentFilter = "active"
	FilterOverdue StudentFilter = "overdue"
)

func (f StudentFilter) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterOverdue:
		return true
	}
	return false
}

// FilterStudents keeps students whose name or email contains search
// (case-insensitive) and whose billing standing matches filter.
func FilterStudents(students []domain.Student, search string, filter StudentFilter) []domain.Student {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]domain.Student, 0, len(students))
	for _, s := range students {
		if needle != "" &&
			!strings.Contains(strings.ToLower(s.Name), needle) &&
			!strings.Contains(strings.ToLower(s.Email), needle) {
			continue
		}
		switch filter {
		case FilterActive:
			if s.PaymentStatus != domain.PaymentStatusActive {
				continue
			}
		case FilterOverdue:
			if s.PaymentStatus != domain.PaymentStatusOverdue {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// ownCheckIns keeps the check-ins that belong to one of students.
func ownCheckIns(students []domain.Student, checkIns []domain.CheckIn) []domain.CheckIn {
	ids := make(map[string]bool, len(students))
	for _, s := range students {
		ids[s.ID] = true
	}
	out := make([]domain.CheckIn, 0, len(checkIns))
	for _, c := range checkIns {
		if ids[c.StudentID] {
			out = append(out, c)
		}
	}
	return out
}

type TrainerOverview struct {
	Students          StatusCounts         `json:"students"`
	Revenue           RevenueSummary       `json:"revenue"`
	TodayCheckIns     int                  `json:"todayCheckIns"`
	MonthCheckIns     int                  `json:"monthCheckIns"`
	AverageAttendance float64              `json:"averageAttendance"`
	Levels            map[domain.Level]int `json:"levels"`
	Styles            []StyleCount         `json:"styles"`
	Leaderboard       []domain.Student     `json:"leaderboard"`
	Attendance        []AttendanceEntry    `json:"attendance"`
}

// LeaderboardSize is how many students the reports rank.
const LeaderboardSize = 10

// OverviewFor builds the trainer dashboard/report figures. Only the
// payments and check-ins of the given students are counted.
func OverviewFor(students []domain.Student, payments []domain.Payment, checkIns []domain.CheckIn, period Period) TrainerOverview {
	ids := make(map[string]bool, len(students))
	for _, s := range students {
		ids[s.ID] = true
	}
	own := make([]domain.Payment, 0, len(payments))
	for _, p := range payments {
		if ids[p.StudentID] {
			own = append(own, p)
		}
	}
	visits := ownCheckIns(students, checkIns)
	b := Bucket(visits, func(c domain.CheckIn) time.Time { return c.Date }, period)

	return TrainerOverview{
		Students:          CountByPaymentStatus(students),
		Revenue:           SummarizeRevenue(own, len(students), period),
		TodayCheckIns:     len(b.Day),
		MonthCheckIns:     len(b.Month),
		AverageAttendance: AverageAttendance(len(b.Month), len(students)),
		Levels:            LevelDistribution(students),
		Styles:            StyleDistribution(students),
		Leaderboard:       Leaderboard(students, LeaderboardSize),
		Attendance:        AttendanceRanking(students, visits, 0),
	}
}
