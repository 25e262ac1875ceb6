package models

import "time"

// DayLayout is the calendar-day key format used for activity days and trend points.
const DayLayout = "2006-01-02"

// DayKey formats the calendar day of t using t's own location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// ActivityDay aggregates one user's study activity for a single calendar day.
type ActivityDay struct {
	Date             time.Time `db:"day" json:"date"`
	WordsLearned     int       `db:"words_learned" json:"wordsLearned"`
	CorrectAnswers   int       `db:"correct_answers" json:"correctAnswers"`
	TotalAnswers     int       `db:"total_answers" json:"totalAnswers"`
	TimeSpentMinutes int       `db:"time_spent_minutes" json:"timeSpentMinutes"`
}

// CourseDayProgress tracks completion of a single course day and its quiz.
type CourseDayProgress struct {
	Completed     bool `json:"completed"`
	QuizCompleted bool `json:"quizCompleted"`
	QuizScore     *int `json:"quizScore,omitempty"`
}

// QuizScored reports whether the entry carries a completed, scored quiz.
func (p CourseDayProgress) QuizScored() bool {
	return p.QuizCompleted && p.QuizScore != nil
}

// CourseProgress maps courseId -> dayNumber -> progress.
type CourseProgress map[string]map[int]CourseDayProgress

// Set records progress for a course day, allocating nested maps as needed.
func (c CourseProgress) Set(courseID string, day int, progress CourseDayProgress) {
	days, ok := c[courseID]
	if !ok {
		days = make(map[int]CourseDayProgress)
		c[courseID] = days
	}
	days[day] = progress
}

// QuizScores returns every quiz score across all courses.
func (c CourseProgress) QuizScores() []int {
	var scores []int
	for _, days := range c {
		for _, day := range days {
			if day.QuizScored() {
				scores = append(scores, *day.QuizScore)
			}
		}
	}
	return scores
}

// CompletedDays counts course days marked completed.
func (c CourseProgress) CompletedDays() int {
	count := 0
	for _, days := range c {
		for _, day := range days {
			if day.Completed {
				count++
			}
		}
	}
	return count
}

// UserRecord is the read model of a learner with their activity history.
type UserRecord struct {
	UserID         string         `db:"id" json:"userId"`
	DisplayName    string         `db:"display_name" json:"displayName"`
	PhotoURL       *string        `db:"photo_url" json:"photoURL,omitempty"`
	CurrentStreak  int            `db:"current_streak" json:"currentStreak"`
	LongestStreak  int            `db:"longest_streak" json:"longestStreak"`
	LastActiveDate time.Time      `db:"last_active_at" json:"lastActiveDate"`
	ActivityDays   []ActivityDay  `db:"-" json:"activityDays"`
	CourseProgress CourseProgress `db:"-" json:"courseProgress"`
}

// UserRecordFilter narrows population scans.
type UserRecordFilter struct {
	UserIDs    []string
	ActiveFrom *time.Time
}

// ClassRoster lists the students enrolled in a class.
type ClassRoster struct {
	ClassID    string   `json:"classId"`
	TeacherID  string   `json:"teacherId"`
	StudentIDs []string `json:"studentIds"`
}
