package main

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// dateInputLayout also accepts unpadded month and day, as in 2025-6-7.
const dateInputLayout = "2006-1-2"

const invalidDateMessage = "Invalid date format. Please use YYYY-MM-DD."

// validateDate checks a YYYY-MM-DD calendar date.
func validateDate(date string) (string, error) {
	if _, err := time.Parse(dateInputLayout, date); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return date, nil
}

// dateRange resolves optional start/end arguments against defaults
// relative to now, validating whatever the caller supplied.
func dateRange(now time.Time, start, end *string, startOffsetDays, endOffsetDays int) (string, string, error) {
	oldest := now.AddDate(0, 0, startOffsetDays).Format(dateLayout)
	newest := now.AddDate(0, 0, endOffsetDays).Format(dateLayout)
	if start != nil && *start != "" {
		if _, err := validateDate(*start); err != nil {
			return "", "", err
		}
		oldest = *start
	}
	if end != nil && *end != "" {
		if _, err := validateDate(*end); err != nil {
			return "", "", err
		}
		newest = *end
	}
	return oldest, newest, nil
}

// DateInfo describes a calendar date relative to today.
type DateInfo struct {
	Date          string `json:"date"`
	DayOfWeek     string `json:"day_of_week"`
	DaysFromToday int    `json:"days_from_today"`
	IsWeekend     bool   `json:"is_weekend"`
	WeekNumber    int    `json:"week_number"`
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	Day           int    `json:"day"`
	IsPast        bool   `json:"is_past"`
	IsFuture      bool   `json:"is_future"`
	IsToday       bool   `json:"is_today"`
}

// civilDays counts calendar days between two dates, ignoring clock time
// and DST shifts.
func civilDays(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int((b.Unix() - a.Unix()) / 86400)
}

func isWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

// calculateDateInfo describes date relative to now.
func calculateDateInfo(date string, now time.Time) (DateInfo, error) {
	t, err := time.Parse(dateInputLayout, date)
	if err != nil {
		return DateInfo{}, fmt.Errorf("Invalid date format. Expected YYYY-MM-DD, got: %s. Error: %v", date, err)
	}
	diff := civilDays(now, t)
	_, week := t.ISOWeek()
	return DateInfo{
		Date:          date,
		DayOfWeek:     t.Weekday().String(),
		DaysFromToday: diff,
		IsWeekend:     isWeekend(t.Weekday()),
		WeekNumber:    week,
		Year:          t.Year(),
		Month:         int(t.Month()),
		Day:           t.Day(),
		IsPast:        diff < 0,
		IsFuture:      diff > 0,
		IsToday:       diff == 0,
	}, nil
}

// TimeInfo describes the current moment in the server's local timezone.
type TimeInfo struct {
	CurrentDate           string `json:"current_date"`
	CurrentTime           string `json:"current_time"`
	CurrentDatetime       string `json:"current_datetime"`
	CurrentDatetimeWithTZ string `json:"current_datetime_with_tz"`
	TimezoneName          string `json:"timezone_name"`
	TimezoneOffset        string `json:"timezone_offset"`
	UTCDatetime           string `json:"utc_datetime"`
	DayOfWeek             string `json:"day_of_week"`
	WeekNumber            int    `json:"week_number"`
	DaysUntilWeekend      int    `json:"days_until_weekend"`
	IsWeekend             bool   `json:"is_weekend"`
	Year                  int    `json:"year"`
	Month                 int    `json:"month"`
	Day                   int    `json:"day"`
	Hour                  int    `json:"hour"`
	Minute                int    `json:"minute"`
	Second                int    `json:"second"`
}

func currentTimeInfo(now time.Time) TimeInfo {
	zone, _ := now.Zone()
	_, week := now.ISOWeek()
	return TimeInfo{
		CurrentDate:           now.Format(dateLayout),
		CurrentTime:           now.Format("15:04:05"),
		CurrentDatetime:       now.Format("2006-01-02T15:04:05"),
		CurrentDatetimeWithTZ: now.Format("2006-01-02T15:04:05-0700"),
		TimezoneName:          zone,
		TimezoneOffset:        now.Format("-07:00"),
		UTCDatetime:           now.UTC().Format("2006-01-02T15:04:05Z"),
		DayOfWeek:             now.Weekday().String(),
		WeekNumber:            week,
		DaysUntilWeekend:      (int(time.Saturday) - int(now.Weekday()) + 7) % 7,
		IsWeekend:             isWeekend(now.Weekday()),
		Year:                  now.Year(),
		Month:                 int(now.Month()),
		Day:                   now.Day(),
		Hour:                  now.Hour(),
		Minute:                now.Minute(),
		Second:                now.Second(),
	}
}
