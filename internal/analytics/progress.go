package analytics

import (
	"time"

	"centralfight/gym-app/internal/domain"
)

// Monthly goals shown on the progress screen.
const (
	MonthlySessionGoal = 12
	MonthlyPointsGoal  = 200
)

// LevelRange is the half-open points interval [Min, Max) of a level.
type LevelRange struct {
	Min  int
	Max  int
	Next domain.Level
}

var levelRanges = map[domain.Level]LevelRange{
	domain.LevelBeginner:     {Min: 0, Max: 500, Next: domain.LevelIntermediate},
	domain.LevelIntermediate: {Min: 500, Max: 1000, Next: domain.LevelAdvanced},
	domain.LevelAdvanced:     {Min: 1000, Max: 2000, Next: domain.LevelExpert},
}

// RangeFor returns the threshold entry for level.
func RangeFor(level domain.Level) (LevelRange, bool) {
	r, ok := levelRanges[level]
	return r, ok
}

// NextLevel returns the level a student advances to from level.
func NextLevel(level domain.Level) (domain.Level, bool) {
	r, ok := levelRanges[level]
	return r.Next, ok
}

// clamp keeps v within [0, 100].
func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// LevelProgress is how far points have advanced through level's range, as a
// percentage in [0, 100]. Levels without a threshold entry report ok=false.
func LevelProgress(points int, level domain.Level) (pct float64, ok bool) {
	r, ok := levelRanges[level]
	if !ok {
		return 0, false
	}
	return clamp(float64(points-r.Min) / float64(r.Max-r.Min) * 100), true
}

// GoalProgress is current/target as a percentage in [0, 100].
// A non-positive target yields 0.
func GoalProgress(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return clamp(current / target * 100)
}

// TotalPoints sums the points awarded by checkIns.
func TotalPoints(checkIns []domain.CheckIn) int {
	total := 0
	for _, c := range checkIns {
		total += c.Points
	}
	return total
}

// AveragePointsPerSession is 0 when there are no check-ins.
func AveragePointsPerSession(checkIns []domain.CheckIn) float64 {
	if len(checkIns) == 0 {
		return 0
	}
	return float64(TotalPoints(checkIns)) / float64(len(checkIns))
}

type StudentProgress struct {
	Points         int              `json:"points"`
	Level          domain.Level     `json:"level"`
	NextLevel      domain.Level     `json:"nextLevel,omitempty"`
	LevelProgress  float64          `json:"levelProgress"`
	LevelKnown     bool             `json:"levelKnown"`
	TotalSessions  int              `json:"totalSessions"`
	TotalPoints    int              `json:"totalPoints"`
	AveragePoints  float64          `json:"averagePointsPerSession"`
	WeekSessions   int              `json:"weekSessions"`
	MonthSessions  int              `json:"monthSessions"`
	YearSessions   int              `json:"yearSessions"`
	MonthPoints    int              `json:"monthPoints"`
	SessionGoal    float64          `json:"sessionGoalProgress"`
	PointsGoal     float64          `json:"pointsGoalProgress"`
	RecentCheckIns []domain.CheckIn `json:"recentCheckIns"`
}

// ProgressFor assembles a student's progress page from their own check-ins.
func ProgressFor(s domain.Student, checkIns []domain.CheckIn, period Period, recent int) StudentProgress {
	b := Bucket(checkIns, func(c domain.CheckIn) time.Time { return c.Date }, period)
	pct, known := LevelProgress(s.Points, s.Level)
	next, _ := NextLevel(s.Level)
	monthPoints := TotalPoints(b.Month)

	return StudentProgress{
		Points:         s.Points,
		Level:          s.Level,
		NextLevel:      next,
		LevelProgress:  pct,
		LevelKnown:     known,
		TotalSessions:  len(checkIns),
		TotalPoints:    TotalPoints(checkIns),
		AveragePoints:  AveragePointsPerSession(checkIns),
		WeekSessions:   len(b.Week),
		MonthSessions:  len(b.Month),
		YearSessions:   len(b.Year),
		MonthPoints:    monthPoints,
		SessionGoal:    GoalProgress(float64(len(b.Month)), MonthlySessionGoal),
		PointsGoal:     GoalProgress(float64(monthPoints), MonthlyPointsGoal),
		RecentCheckIns: RecentCheckIns(checkIns, recent),
	}
}
