package models

import "time"

// AnalyticsPeriod is the trailing window used by classroom analytics.
type AnalyticsPeriod string

const (
	AnalyticsPeriodWeek  AnalyticsPeriod = "week"
	AnalyticsPeriodMonth AnalyticsPeriod = "month"
)

// Valid reports whether p is a known analytics period.
func (p AnalyticsPeriod) Valid() bool {
	return p == AnalyticsPeriodWeek || p == AnalyticsPeriodMonth
}

// Days returns the number of calendar days covered by the period.
func (p AnalyticsPeriod) Days() int {
	if p == AnalyticsPeriodMonth {
		return 30
	}
	return 7
}

// TrendPoint is one day of a daily series.
type TrendPoint struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
}

// StudentSummary describes a student in the top performer list.
type StudentSummary struct {
	StudentID     string  `json:"studentId"`
	DisplayName   string  `json:"displayName"`
	PhotoURL      *string `json:"photoURL,omitempty"`
	WordsLearned  int     `json:"wordsLearned"`
	TimeSpent     int     `json:"timeSpent"`
	Accuracy      int     `json:"accuracy"`
	CurrentStreak int     `json:"currentStreak"`
}

// AlertType classifies a needs-attention alert.
type AlertType string

const (
	AlertInactive       AlertType = "inactive"
	AlertStreakLost     AlertType = "streak_lost"
	AlertLowPerformance AlertType = "low_performance"
)

// AlertSeverity ranks alert urgency.
type AlertSeverity string

const (
	SeverityLow    AlertSeverity = "low"
	SeverityMedium AlertSeverity = "medium"
	SeverityHigh   AlertSeverity = "high"
)

// StudentAlert flags a student needing teacher attention.
type StudentAlert struct {
	UserID      string        `json:"userId"`
	DisplayName string        `json:"displayName"`
	AlertType   AlertType     `json:"alertType"`
	Message     string        `json:"message"`
	Severity    AlertSeverity `json:"severity"`
}

// ClassAnalytics is the teacher dashboard rollup for one class and period.
type ClassAnalytics struct {
	ClassID         string           `json:"classId"`
	Period          AnalyticsPeriod  `json:"period"`
	TotalStudents   int              `json:"totalStudents"`
	ActiveStudents  int              `json:"activeStudents"`
	AvgWordsLearned int              `json:"avgWordsLearned"`
	AvgAccuracy     int              `json:"avgAccuracy"`
	AvgTimeSpent    int              `json:"avgTimeSpent"`
	CompletionRate  int              `json:"completionRate"`
	TopPerformers   []StudentSummary `json:"topPerformers"`
	NeedsAttention  []StudentAlert   `json:"needsAttention"`
	TrendData       []TrendPoint     `json:"trendData"`
}

// StudentPeriodStats is one student's contribution to a class rollup.
type StudentPeriodStats struct {
	StudentID    string
	DisplayName  string
	WordsLearned int
	TimeSpent    int
	Accuracy     int
	QuizScored   bool
	Active       bool
}

// ClassReport pairs class analytics with the per-student breakdown it was built from.
type ClassReport struct {
	Analytics   ClassAnalytics
	Students    []StudentPeriodStats
	GeneratedAt time.Time
}

// StudentAnalytics is a single student's full rollup.
type StudentAnalytics struct {
	StudentID         string         `json:"studentId"`
	DisplayName       string         `json:"displayName"`
	TotalWordsLearned int            `json:"totalWordsLearned"`
	TotalTimeSpent    int            `json:"totalTimeSpent"`
	AvgAccuracy       int            `json:"avgAccuracy"`
	CurrentStreak     int            `json:"currentStreak"`
	LongestStreak     int            `json:"longestStreak"`
	DaysCompleted     int            `json:"daysCompleted"`
	ActivityTrend     []TrendPoint   `json:"activityTrend"`
	CourseProgress    CourseProgress `json:"courseProgress"`
}

// SystemMetrics represents instrumentation captured for the status endpoint.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	RecordReadsSkipped       uint64    `json:"record_reads_skipped"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
