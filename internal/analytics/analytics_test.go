package analytics

import (
	"math"
	"slices"
	"testing"
	"time"

	"centralfight/gym-app/internal/domain"
	"centralfight/gym-app/internal/seed"

	"github.com/shopspring/decimal"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func studentID(s domain.Student) string { return s.ID }
func checkInID(c domain.CheckIn) string { return c.ID }

func TestRevenueTotals(t *testing.T) {
	snap := seed.Snapshot("")
	period := NewPeriod(at(2024, time.January, 25, 12))

	if got := TotalRevenue(snap.Payments); !got.Equal(decimal.NewFromInt(480)) {
		t.Errorf("TotalRevenue() = %s, want 480", got)
	}
	if got := PendingRevenue(snap.Payments); !got.Equal(decimal.NewFromInt(250)) {
		t.Errorf("PendingRevenue() = %s, want 250", got)
	}
	if got := OverdueRevenue(snap.Payments, period.Now); !got.Equal(decimal.NewFromInt(250)) {
		t.Errorf("OverdueRevenue() = %s, want 250", got)
	}
	if got := MonthRevenue(snap.Payments, period); !got.Equal(decimal.NewFromInt(480)) {
		t.Errorf("MonthRevenue() = %s, want 480", got)
	}
	if got := MonthRevenue(snap.Payments, NewPeriod(at(2024, time.February, 1, 0))); !got.IsZero() {
		t.Errorf("MonthRevenue() in February = %s, want 0", got)
	}

	s := SummarizeRevenue(snap.Payments, len(snap.Students), period)
	if !s.AverageTicket.Equal(decimal.NewFromInt(120)) || s.PaidCount != 3 || s.PendingCount != 1 {
		t.Errorf("SummarizeRevenue() = %+v", s)
	}
}

func TestAverageTicket(t *testing.T) {
	tests := []struct {
		total    int64
		students int
		want     decimal.Decimal
	}{
		{480, 4, decimal.NewFromInt(120)},
		{100, 3, decimal.NewFromInt(100).Div(decimal.NewFromInt(3))},
		{480, 0, decimal.Zero},
		{480, -1, decimal.Zero},
	}
	for _, tt := range tests {
		if got := AverageTicket(decimal.NewFromInt(tt.total), tt.students); !got.Equal(tt.want) {
			t.Errorf("AverageTicket(%d, %d) = %s, want %s", tt.total, tt.students, got, tt.want)
		}
	}
}

func TestOverdueAndDisplayStatus(t *testing.T) {
	now := at(2024, time.January, 15, 12)
	pending := domain.Payment{ID: "p", Status: domain.PaymentPending}
	tests := []struct {
		name string
		p    domain.Payment
		want PaymentDisplayStatus
	}{
		{"pending past due", withDue(pending, now.Add(-time.Hour)), DisplayOverdue},
		{"pending due later", withDue(pending, now.Add(time.Hour)), DisplayPending},
		{"pending due exactly now", withDue(pending, now), DisplayPending},
		{"paid past due", domain.Payment{Status: domain.PaymentPaid, DueDate: now.AddDate(0, -1, 0)}, DisplayPaid},
		{"failed", domain.Payment{Status: domain.PaymentFailed, DueDate: now.AddDate(0, -1, 0)}, DisplayFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayStatus(tt.p, now); got != tt.want {
				t.Errorf("DisplayStatus() = %s, want %s", got, tt.want)
			}
			if got := IsOverdue(tt.p, now); got != (tt.want == DisplayOverdue) {
				t.Errorf("IsOverdue() = %v", got)
			}
		})
	}
}

func withDue(p domain.Payment, due time.Time) domain.Payment {
	p.DueDate = due
	return p
}

func TestLeaderboard(t *testing.T) {
	students := seed.Snapshot("").Students
	before := slices.Clone(students)

	got := ids(Leaderboard(students, 0), studentID)
	want := []string{"student3", "student1", "student2", "student4"}
	if !slices.Equal(got, want) {
		t.Errorf("Leaderboard() = %v, want %v", got, want)
	}
	if top := Leaderboard(students, 2); len(top) != 2 || top[0].Points != 1200 || top[1].Points != 850 {
		t.Errorf("Leaderboard(limit 2) = %v", ids(top, studentID))
	}
	if !slices.EqualFunc(students, before, func(a, b domain.Student) bool { return a.ID == b.ID }) {
		t.Error("Leaderboard() reordered its input")
	}
	if again := ids(Leaderboard(Leaderboard(students, 0), 0), studentID); !slices.Equal(again, want) {
		t.Errorf("Leaderboard() is not idempotent: %v", again)
	}

	tied := []domain.Student{{User: domain.User{ID: "b"}, Points: 10}, {User: domain.User{ID: "a"}, Points: 10}}
	if got := ids(Leaderboard(tied, 0), studentID); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("tie order = %v, want [a b]", got)
	}
	if got := Leaderboard(nil, 5); got == nil || len(got) != 0 {
		t.Errorf("Leaderboard(nil) = %#v", got)
	}
}

func TestAttendanceRanking(t *testing.T) {
	snap := seed.Snapshot("")
	ranking := AttendanceRanking(snap.Students, snap.CheckIns, 0)

	got := ids(ranking, func(e AttendanceEntry) string { return e.Student.ID })
	want := []string{"student1", "student2", "student3", "student4"}
	if !slices.Equal(got, want) {
		t.Fatalf("AttendanceRanking() = %v, want %v", got, want)
	}
	if ranking[0].CheckIns != 2 || ranking[0].Points != 20 {
		t.Errorf("student1 entry = %+v", ranking[0])
	}
	if ranking[2].Points != 15 {
		t.Errorf("student3 points = %d, want 15", ranking[2].Points)
	}
}

func TestLevelProgress(t *testing.T) {
	tests := []struct {
		points int
		level  domain.Level
		want   float64
		ok     bool
	}{
		{850, domain.LevelIntermediate, 70, true},
		{450, domain.LevelBeginner, 90, true},
		{620, domain.LevelBeginner, 100, true},
		{1200, domain.LevelAdvanced, 20, true},
		{400, domain.LevelIntermediate, 0, true},
		{3000, domain.LevelAdvanced, 100, true},
		{100, domain.LevelExpert, 0, false},
		{100, "black belt", 0, false},
	}
	for _, tt := range tests {
		got, ok := LevelProgress(tt.points, tt.level)
		if ok != tt.ok || !approx(got, tt.want) {
			t.Errorf("LevelProgress(%d, %s) = (%v, %v), want (%v, %v)", tt.points, tt.level, got, ok, tt.want, tt.ok)
		}
	}

	if next, ok := NextLevel(domain.LevelAdvanced); !ok || next != domain.LevelExpert {
		t.Errorf("NextLevel(advanced) = %s, %v", next, ok)
	}
}

func TestGoalProgress(t *testing.T) {
	tests := []struct {
		current, target, want float64
	}{
		{8, 12, 200.0 / 3},
		{15, 12, 100},
		{0, 12, 0},
		{5, 0, 0},
		{5, -3, 0},
	}
	for _, tt := range tests {
		if got := GoalProgress(tt.current, tt.target); !approx(got, tt.want) {
			t.Errorf("GoalProgress(%v, %v) = %v, want %v", tt.current, tt.target, got, tt.want)
		}
	}
}

func TestPeriodBuckets(t *testing.T) {
	checkIns := seed.Snapshot("").CheckIns
	// Sunday
	now := at(2024, time.January, 21, 12)

	tests := []struct {
		name      string
		weekStart time.Weekday
		day, week int
	}{
		{"weeks start sunday", time.Sunday, 1, 1},
		{"weeks start monday", time.Monday, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Bucket(checkIns, func(c domain.CheckIn) time.Time { return c.Date }, Period{Now: now, WeekStart: tt.weekStart})
			if len(b.Day) != tt.day || len(b.Week) != tt.week || len(b.Month) != 5 || len(b.Year) != 5 {
				t.Errorf("buckets day=%d week=%d month=%d year=%d", len(b.Day), len(b.Week), len(b.Month), len(b.Year))
			}
		})
	}

	p := NewPeriod(now)
	start, end := p.WeekBounds()
	if !start.Equal(at(2024, time.January, 21, 0)) || !end.Equal(at(2024, time.January, 28, 0)) {
		t.Errorf("WeekBounds() = %v, %v", start, end)
	}
	if p.InWeek(end) {
		t.Error("InWeek() includes the end bound")
	}
	if !p.InWeek(start) {
		t.Error("InWeek() excludes the start bound")
	}

	empty := Bucket([]domain.CheckIn(nil), func(c domain.CheckIn) time.Time { return c.Date }, p)
	if empty.Day == nil || empty.Week == nil || empty.Month == nil || empty.Year == nil {
		t.Error("Bucket() returned nil buckets for empty input")
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Weekday
		wantErr bool
	}{
		{"", time.Sunday, false},
		{"Monday", time.Monday, false},
		{" sat ", time.Saturday, false},
		{"someday", time.Sunday, true},
	}
	for _, tt := range tests {
		got, err := ParseWeekday(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseWeekday(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestRecentCheckIns(t *testing.T) {
	checkIns := seed.Snapshot("").CheckIns
	got := ids(RecentCheckIns(checkIns, 3), checkInID)
	want := []string{"checkin5", "checkin1", "checkin3"}
	if !slices.Equal(got, want) {
		t.Errorf("RecentCheckIns() = %v, want %v", got, want)
	}
	if checkIns[0].ID != "checkin1" {
		t.Error("RecentCheckIns() reordered its input")
	}
}

func TestProgressFor(t *testing.T) {
	snap := seed.Snapshot("")
	student := snap.Students[0]
	var own []domain.CheckIn
	for _, c := range snap.CheckIns {
		if c.StudentID == student.ID {
			own = append(own, c)
		}
	}
	// Thursday; the week began on the 21st
	p := ProgressFor(student, own, NewPeriod(at(2024, time.January, 25, 12)), 5)

	if !approx(p.LevelProgress, 70) || !p.LevelKnown || p.NextLevel != domain.LevelAdvanced {
		t.Errorf("level = %v %v %s", p.LevelProgress, p.LevelKnown, p.NextLevel)
	}
	if p.TotalSessions != 2 || p.TotalPoints != 20 || !approx(p.AveragePoints, 10) {
		t.Errorf("totals = %d sessions, %d points, %v avg", p.TotalSessions, p.TotalPoints, p.AveragePoints)
	}
	if p.WeekSessions != 0 || p.MonthSessions != 2 || p.MonthPoints != 20 {
		t.Errorf("period counts = week %d, month %d, month points %d", p.WeekSessions, p.MonthSessions, p.MonthPoints)
	}
	if !approx(p.SessionGoal, 200.0/12) || !approx(p.PointsGoal, 10) {
		t.Errorf("goals = %v, %v", p.SessionGoal, p.PointsGoal)
	}
	if len(p.RecentCheckIns) != 2 || p.RecentCheckIns[0].ID != "checkin1" {
		t.Errorf("recent = %v", ids(p.RecentCheckIns, checkInID))
	}

	none := ProgressFor(student, nil, NewPeriod(at(2024, time.January, 25, 12)), 5)
	if none.AveragePoints != 0 || none.RecentCheckIns == nil {
		t.Errorf("progress without check-ins = %+v", none)
	}
}

func TestStudentAggregates(t *testing.T) {
	students := seed.Snapshot("").Students

	if c := CountByPaymentStatus(students); c != (StatusCounts{Total: 4, Active: 3, Overdue: 1}) {
		t.Errorf("CountByPaymentStatus() = %+v", c)
	}

	levels := LevelDistribution(students)
	if levels[domain.LevelBeginner] != 2 || levels[domain.LevelIntermediate] != 1 || levels[domain.LevelAdvanced] != 1 {
		t.Errorf("LevelDistribution() = %v", levels)
	}
	if empty := LevelDistribution(nil); len(empty) != 3 {
		t.Errorf("LevelDistribution(nil) = %v", empty)
	}

	styles := StyleDistribution(students)
	wantStyles := []StyleCount{{"Muay Thai", 2}, {"Jiu-Jitsu", 1}, {"MMA", 1}}
	if !slices.Equal(styles, wantStyles) {
		t.Errorf("StyleDistribution() = %v, want %v", styles, wantStyles)
	}

	if got := AverageAttendance(5, 4); !approx(got, 1.25) {
		t.Errorf("AverageAttendance(5, 4) = %v", got)
	}
	if got := AverageAttendance(5, 0); got != 0 {
		t.Errorf("AverageAttendance(5, 0) = %v", got)
	}
}

func TestFilterStudents(t *testing.T) {
	students := seed.Snapshot("").Students
	tests := []struct {
		search string
		filter StudentFilter
		want   []string
	}{
		{"", FilterAll, []string{"student1", "student2", "student3", "student4"}},
		{"SILVA", FilterAll, []string{"student4"}},
		{"maria@", FilterAll, []string{"student2"}},
		{"", FilterOverdue, []string{"student3"}},
		{"", FilterActive, []string{"student1", "student2", "student4"}},
		{"pedro", FilterActive, []string{}},
	}
	for _, tt := range tests {
		got := ids(FilterStudents(students, tt.search, tt.filter), studentID)
		if !slices.Equal(got, tt.want) {
			t.Errorf("FilterStudents(%q, %s) = %v, want %v", tt.search, tt.filter, got, tt.want)
		}
	}
	if StudentFilter("suspended").Valid() || !FilterOverdue.Valid() {
		t.Error("StudentFilter.Valid mismatch")
	}
}

func TestOverviewFor(t *testing.T) {
	snap := seed.Snapshot("")
	stranger := domain.Payment{ID: "x", StudentID: "nobody", Amount: decimal.NewFromInt(999), Status: domain.PaymentPaid}
	payments := append(slices.Clone(snap.Payments), stranger)

	o := OverviewFor(snap.Students, payments, snap.CheckIns, NewPeriod(at(2024, time.January, 21, 12)))

	if !o.Revenue.Total.Equal(decimal.NewFromInt(480)) {
		t.Errorf("revenue total = %s, want 480 (foreign payments excluded)", o.Revenue.Total)
	}
	if o.TodayCheckIns != 1 || o.MonthCheckIns != 5 || !approx(o.AverageAttendance, 1.25) {
		t.Errorf("check-ins today=%d month=%d avg=%v", o.TodayCheckIns, o.MonthCheckIns, o.AverageAttendance)
	}
	if len(o.Leaderboard) != 4 || o.Leaderboard[0].ID != "student3" {
		t.Errorf("leaderboard = %v", ids(o.Leaderboard, studentID))
	}
	if o.Students.Overdue != 1 {
		t.Errorf("students = %+v", o.Students)
	}
}

func TestNotificationsFor(t *testing.T) {
	snap := seed.Snapshot("")
	now := at(2024, time.January, 25, 12)
	payments := func(id string) []domain.Payment {
		var out []domain.Payment
		for _, p := range snap.Payments {
			if p.StudentID == id {
				out = append(out, p)
			}
		}
		return out
	}

	overdue := NotificationsFor(payments("student3"), StudentProgress{LevelKnown: true, LevelProgress: 20}, now)
	if len(overdue) != 1 || overdue[0].ID != "payment-overdue-pay3" || overdue[0].Priority != domain.PriorityHigh || overdue.UnreadCount() != 1 {
		t.Errorf("student3 inbox = %+v", overdue)
	}

	paid := NotificationsFor(payments("student1"), StudentProgress{LevelKnown: true, LevelProgress: 70}, now)
	if len(paid) != 1 || !paid[0].Read || paid.UnreadCount() != 0 {
		t.Errorf("student1 inbox = %+v", paid)
	}

	progress := StudentProgress{SessionGoal: 100, MonthSessions: 12, LevelKnown: true, LevelProgress: 95, NextLevel: domain.LevelAdvanced}
	achievements := NotificationsFor(nil, progress, now)
	if len(achievements) != 2 || achievements.UnreadCount() != 2 {
		t.Errorf("achievement inbox = %+v", achievements)
	}
}

func eventID(v EventView) string { return v.ID }

func TestFilterEvents(t *testing.T) {
	events := seed.Events()
	tests := []struct {
		name      string
		studentID string
		filter    EventFilter
		want      []string
	}{
		{"all by date", "student1", EventsAll, []string{"event4", "event3", "event2", "event1", "event5"}},
		{"upcoming", "student1", EventsUpcoming, []string{"event3", "event2", "event1", "event5"}},
		{"registered", "student1", EventsRegistered, []string{"event4", "event2"}},
		{"registered, none", "student2", EventsRegistered, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterEvents(events, tt.studentID, tt.filter)
			if !slices.Equal(ids(got, eventID), tt.want) {
				t.Errorf("FilterEvents() = %v, want %v", ids(got, eventID), tt.want)
			}
		})
	}

	views := FilterEvents(events, "student1", EventsAll)
	seminar := views[slices.IndexFunc(views, func(v EventView) bool { return v.ID == "event2" })]
	if !seminar.Registered || seminar.Full || seminar.SpotsLeft != 5 {
		t.Errorf("event2 view = %+v", seminar)
	}
	if EventFilter("mine").Valid() || !EventsRegistered.Valid() {
		t.Error("EventFilter.Valid() misclassifies")
	}
}

func TestSummarizeEvents(t *testing.T) {
	events := seed.Events()
	if got := SummarizeEvents(events, "student1"); got != (EventSummary{Upcoming: 4, Registered: 2, Total: 5}) {
		t.Errorf("SummarizeEvents(student1) = %+v", got)
	}
	if got := SummarizeEvents(events, "student3"); got.Registered != 0 || got.Upcoming != 4 {
		t.Errorf("SummarizeEvents(student3) = %+v", got)
	}
	if got := SummarizeEvents(nil, "student1"); got != (EventSummary{}) {
		t.Errorf("SummarizeEvents(nil) = %+v", got)
	}
}

func TestPaymentStanding(t *testing.T) {
	now := at(2024, time.January, 25, 12)
	overdue := domain.Payment{ID: "p1", Status: domain.PaymentPending, DueDate: at(2024, time.January, 10, 0)}
	upcoming := domain.Payment{ID: "p2", Status: domain.PaymentPending, DueDate: at(2024, time.February, 10, 0)}
	settled := overdue.WithPaid(domain.MethodPix, now)

	tests := []struct {
		name     string
		current  domain.PaymentStatus
		payments []domain.Payment
		want     domain.PaymentStatus
	}{
		{"overdue payment", domain.PaymentStatusActive, []domain.Payment{overdue}, domain.PaymentStatusOverdue},
		{"settled", domain.PaymentStatusOverdue, []domain.Payment{settled, upcoming}, domain.PaymentStatusActive},
		{"no payments", domain.PaymentStatusOverdue, nil, domain.PaymentStatusActive},
		{"suspended stays", domain.PaymentStatusSuspended, []domain.Payment{settled}, domain.PaymentStatusSuspended},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PaymentStanding(tt.current, tt.payments, now); got != tt.want {
				t.Errorf("PaymentStanding() = %s, want %s", got, tt.want)
			}
		})
	}
}
