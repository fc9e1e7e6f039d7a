package stats

import (
	"strconv"
	"time"

	"github.com/lifelogger/backend/domain"
)

const (
	MinSeriesDays     = 7
	MaxSeriesDays     = 90
	DefaultSeriesDays = 30

	DefaultAverageDays = 7

	// WeekLength is also the max_possible stars per task in a recap.
	WeekLength = 7
)

// ClampDays bounds a daily series length to [MinSeriesDays, MaxSeriesDays].
func ClampDays(days int) int {
	return min(max(days, MinSeriesDays), MaxSeriesDays)
}

// SeriesWindow returns the closed range of a daily series ending at ref.
func SeriesWindow(days int, ref time.Time) (start, end time.Time) {
	days = ClampDays(days)
	end = domain.DateOf(ref)
	return domain.AddDays(end, -(days - 1)), end
}

// DailySeries gap-fills grouped counts into one entry per date of the
// series window, oldest first. Dates without rows get a zero count.
func DailySeries(counts []domain.DateCount, days int, ref time.Time) []domain.DailyStat {
	start, end := SeriesWindow(days, ref)

	byDate := make(map[string]int, len(counts))
	for _, c := range counts {
		byDate[domain.FormatDate(c.Date)] += c.Count
	}

	series := make([]domain.DailyStat, 0, ClampDays(days))
	for d := start; !d.After(end); d = domain.AddDays(d, 1) {
		key := domain.FormatDate(d)
		series = append(series, domain.DailyStat{
			Date:      key,
			DayName:   d.Weekday().String()[:3],
			StarCount: byDate[key],
		})
	}
	return series
}

// WeeklyWindow is the seven days strictly before ref.
func WeeklyWindow(ref time.Time) (start, end time.Time) {
	ref = domain.DateOf(ref)
	return domain.AddDays(ref, -WeekLength), domain.AddDays(ref, -1)
}

// WeeklyRecap scores each task against a full week, regardless of when the
// task was created.
func WeeklyRecap(tasks []domain.Task, counts []domain.TaskCount, ref time.Time) domain.WeeklyRecap {
	start, end := WeeklyWindow(ref)

	byTask := make(map[int64]int, len(counts))
	for _, c := range counts {
		byTask[c.TaskID] += c.Count
	}

	recaps := make([]domain.TaskRecap, 0, len(tasks))
	for _, t := range tasks {
		count := byTask[t.ID]
		recaps = append(recaps, domain.TaskRecap{
			TaskID:      t.ID,
			TaskName:    t.Name,
			StarCount:   count,
			MaxPossible: WeekLength,
			Percentage:  Round1(float64(count) / WeekLength * 100),
		})
	}

	return domain.WeeklyRecap{
		WeekStart:    domain.FormatDate(start),
		WeekEnd:      domain.FormatDate(end),
		DaysInPeriod: WeekLength,
		Tasks:        recaps,
	}
}

// RollingWindow is the `days` dates strictly before ref.
func RollingWindow(days int, ref time.Time) (start, end time.Time, err error) {
	if days < 1 {
		return time.Time{}, time.Time{}, domain.NewValidationError("Days must be at least 1")
	}
	ref = domain.DateOf(ref)
	return domain.AddDays(ref, -days), domain.AddDays(ref, -1), nil
}

// RollingAverage divides by the requested days, so an empty history averages to 0.
func RollingAverage(totalStars, days int, ref time.Time) (domain.RollingAverage, error) {
	start, end, err := RollingWindow(days, ref)
	if err != nil {
		return domain.RollingAverage{}, err
	}
	return domain.RollingAverage{
		Average:       Round1(float64(totalStars) / float64(days)),
		TotalStars:    totalStars,
		Days:          days,
		StartDate:     domain.FormatDate(start),
		EndDate:       domain.FormatDate(end),
		ReferenceDate: domain.FormatDate(ref),
	}, nil
}

// Round1 rounds to one decimal place. Ties on the exact binary value go to
// the even digit.
func Round1(x float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 1, 64), 64)
	if err != nil {
		return x
	}
	return rounded
}
