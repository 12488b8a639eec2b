// Package period computes calendar windows for task listings and splits
// them into labeled sub-periods for display.
package period

import (
	"fmt"
	"strings"
	"time"

	"todo-list/internal/model"
)

// Period is a coarse calendar window used to scope and bucket tasks.
type Period string

const (
	All   Period = "all"
	Today Period = "today"
	Week  Period = "week"
	Month Period = "month"
	Year  Period = "year"
)

// Parse maps a query value to a Period. Unknown and empty values fall back to All.
func Parse(raw string) Period {
	switch p := Period(strings.ToLower(strings.TrimSpace(raw))); p {
	case Today, Week, Month, Year:
		return p
	default:
		return All
	}
}

// Range is a half-open [Start, End) window. An unbounded range matches every deadline.
type Range struct {
	Start   time.Time
	End     time.Time
	Bounded bool
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	if !r.Bounded {
		return true
	}
	return !t.Before(r.Start) && t.Before(r.End)
}

// RangeFor returns the window of p around now. Boundaries are midnights in now's location.
func RangeFor(p Period, now time.Time) Range {
	day := StartOfDay(now)
	year, month, _ := day.Date()
	loc := day.Location()

	switch p {
	case Today:
		return Range{Start: day, End: day.AddDate(0, 0, 1), Bounded: true}
	case Week:
		start := day.AddDate(0, 0, -mondayOffset(day.Weekday()))
		return Range{Start: start, End: start.AddDate(0, 0, 7), Bounded: true}
	case Month:
		start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: start.AddDate(0, 1, 0), Bounded: true}
	case Year:
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: start.AddDate(1, 0, 0), Bounded: true}
	default:
		return Range{}
	}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of t's day, the default deadline for new tasks.
func EndOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, 0, t.Location())
}

// mondayOffset converts Go's Sunday-first weekday to days since Monday.
func mondayOffset(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// Bucket is a labeled sub-period and the tasks whose deadline falls in it.
type Bucket struct {
	Label string
	Range Range
	Tasks []model.Task
}

// Partition splits tasks into the sub-periods of p. Buckets are returned in
// calendar order and are never pruned, so an empty bucket is still present.
// Tasks keep their relative input order inside a bucket.
func Partition(p Period, now time.Time, tasks []model.Task) []Bucket {
	loc := now.Location()

	switch p {
	case Today:
		day := RangeFor(Today, now)
		return []Bucket{{
			Label: "Today - " + day.Start.Format("2 Jan"),
			Range: day,
			Tasks: nonNil(tasks),
		}}

	case Week:
		week := RangeFor(Week, now)
		buckets := make([]Bucket, 7)
		for i := range buckets {
			start := week.Start.AddDate(0, 0, i)
			buckets[i] = Bucket{
				Label: start.Format("Monday - 2 Jan"),
				Range: Range{Start: start, End: start.AddDate(0, 0, 1), Bounded: true},
			}
		}
		return fill(buckets, tasks, loc)

	case Month:
		month := RangeFor(Month, now)
		buckets := make([]Bucket, 4)
		for i := range buckets {
			start := month.Start.AddDate(0, 0, i*7)
			end := start.AddDate(0, 0, 7)
			if i == len(buckets)-1 {
				end = month.End
			}
			last := end.AddDate(0, 0, -1)
			buckets[i] = Bucket{
				Label: fmt.Sprintf("%d-%d %s", start.Day(), last.Day(), start.Month()),
				Range: Range{Start: start, End: end, Bounded: true},
			}
		}
		return fill(buckets, tasks, loc)

	case Year:
		buckets := make([]Bucket, 12)
		for i := range buckets {
			m := time.Month(i + 1)
			buckets[i] = Bucket{Label: m.String(), Tasks: []model.Task{}}
		}
		for _, task := range tasks {
			m := task.Deadline.In(loc).Month()
			buckets[m-1].Tasks = append(buckets[m-1].Tasks, task)
		}
		return buckets

	default:
		return []Bucket{{Label: string(All), Tasks: nonNil(tasks)}}
	}
}

// fill places every task into the first bucket whose range holds its deadline.
func fill(buckets []Bucket, tasks []model.Task, loc *time.Location) []Bucket {
	for i := range buckets {
		buckets[i].Tasks = []model.Task{}
	}
	for _, task := range tasks {
		deadline := task.Deadline.In(loc)
		for i := range buckets {
			if buckets[i].Range.Contains(deadline) {
				buckets[i].Tasks = append(buckets[i].Tasks, task)
				break
			}
		}
	}
	return buckets
}

func nonNil(tasks []model.Task) []model.Task {
	if tasks == nil {
		return []model.Task{}
	}
	return tasks
}
