package models

import "time"

// Metric names a ranked quantity.
type Metric string

const (
	MetricWordsLearned  Metric = "wordsLearned"
	MetricCurrentStreak Metric = "currentStreak"
	MetricAccuracy      Metric = "accuracy"
	MetricTimeSpent     Metric = "timeSpent"
)

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	switch m {
	case MetricWordsLearned, MetricCurrentStreak, MetricAccuracy, MetricTimeSpent:
		return true
	}
	return false
}

// Period names the leaderboard time window.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodAllTime Period = "allTime"
)

// Valid reports whether p is a known period.
func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAllTime:
		return true
	}
	return false
}

// Scope names the ranked population.
type Scope string

const (
	ScopeGlobal  Scope = "global"
	ScopeFriends Scope = "friends"
)

// Valid reports whether s is a known scope.
func (s Scope) Valid() bool {
	return s == ScopeGlobal || s == ScopeFriends
}

// LeaderboardFilter selects a leaderboard. RequestingUserID is optional for population-only views.
type LeaderboardFilter struct {
	Metric           Metric
	Period           Period
	Scope            Scope
	Limit            int
	RequestingUserID string
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank             int     `json:"rank"`
	UserID           string  `json:"userId"`
	DisplayName      string  `json:"displayName"`
	PhotoURL         *string `json:"photoURL,omitempty"`
	Score            float64 `json:"score"`
	IsRequestingUser bool    `json:"isRequestingUser"`
}

// Leaderboard is the computed ranking for a filter.
type Leaderboard struct {
	Metric      Metric             `json:"metric"`
	Period      Period             `json:"period"`
	Scope       Scope              `json:"scope"`
	Entries     []LeaderboardEntry `json:"entries"`
	PeriodStart time.Time          `json:"periodStart"`
	PeriodEnd   time.Time          `json:"periodEnd"`
}

// UserLeaderboardPosition summarises a single user's standing.
type UserLeaderboardPosition struct {
	Rank              int     `json:"rank"`
	Score             float64 `json:"score"`
	TotalParticipants int     `json:"totalParticipants"`
	Percentile        int     `json:"percentile"`
}
