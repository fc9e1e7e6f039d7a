package domain

// DailyStat is one gap-filled entry of the daily star series.
type DailyStat struct {
	Date      string `json:"date"`
	DayName   string `json:"day_name"`
	StarCount int    `json:"star_count"`
}

// TaskRecap is a single task's share of the weekly recap.
type TaskRecap struct {
	TaskID      int64   `json:"task_id"`
	TaskName    string  `json:"task_name"`
	StarCount   int     `json:"star_count"`
	MaxPossible int     `json:"max_possible"`
	Percentage  float64 `json:"percentage"`
}

// WeeklyRecap covers the seven days strictly before a reference date.
type WeeklyRecap struct {
	WeekStart    string      `json:"week_start"`
	WeekEnd      string      `json:"week_end"`
	DaysInPeriod int         `json:"days_in_period"`
	Tasks        []TaskRecap `json:"tasks"`
}

// TodaySnapshot compares active tasks against stars earned today.
type TodaySnapshot struct {
	Date           string `json:"date"`
	TotalTasks     int    `json:"total_tasks"`
	CompletedTasks int    `json:"completed_tasks"`
	StarsToday     int    `json:"stars_today"`
}

// RollingAverage is the mean stars per day over a window ending before the reference date.
type RollingAverage struct {
	Average       float64 `json:"average"`
	TotalStars    int     `json:"total_stars"`
	Days          int     `json:"days"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	ReferenceDate string  `json:"reference_date"`
}
