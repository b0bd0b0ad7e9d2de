package main

import (
	"strings"
	"testing"
	"time"
)

func TestCalculateDateInfo(t *testing.T) {
	now := time.Date(2025, 6, 4, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		date      string
		dayOfWeek string
		daysFrom  int
		weekend   bool
		isToday   bool
		isPast    bool
		isFuture  bool
	}{
		{name: "today", date: "2025-06-04", dayOfWeek: "Wednesday", daysFrom: 0, isToday: true},
		{name: "saturday", date: "2025-06-07", dayOfWeek: "Saturday", daysFrom: 3, weekend: true, isFuture: true},
		{name: "monday", date: "2025-06-09", dayOfWeek: "Monday", daysFrom: 5, isFuture: true},
		{name: "past", date: "2025-06-01", dayOfWeek: "Sunday", daysFrom: -3, weekend: true, isPast: true},
		{name: "unpadded", date: "2025-6-7", dayOfWeek: "Saturday", daysFrom: 3, weekend: true, isFuture: true},
		{name: "far future", date: "2500-01-01", dayOfWeek: "Friday", daysFrom: 173336, isFuture: true},
		{name: "far past", date: "1600-01-01", dayOfWeek: "Saturday", daysFrom: -155383, weekend: true, isPast: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := calculateDateInfo(tt.date, now)
			if err != nil {
				t.Fatalf("calculateDateInfo() error = %v", err)
			}
			if info.Date != tt.date || info.DayOfWeek != tt.dayOfWeek {
				t.Errorf("calculateDateInfo() = %s %s, want %s %s", info.Date, info.DayOfWeek, tt.date, tt.dayOfWeek)
			}
			if info.DaysFromToday != tt.daysFrom {
				t.Errorf("DaysFromToday = %d, want %d", info.DaysFromToday, tt.daysFrom)
			}
			if info.IsWeekend != tt.weekend || info.IsToday != tt.isToday || info.IsPast != tt.isPast || info.IsFuture != tt.isFuture {
				t.Errorf("flags = %+v, want weekend=%v today=%v past=%v future=%v", info, tt.weekend, tt.isToday, tt.isPast, tt.isFuture)
			}
		})
	}

	t.Run("calendar fields", func(t *testing.T) {
		info, err := calculateDateInfo("2025-06-07", now)
		if err != nil {
			t.Fatalf("calculateDateInfo() error = %v", err)
		}
		if info.Year != 2025 || info.Month != 6 || info.Day != 7 || info.WeekNumber != 23 {
			t.Errorf("calculateDateInfo() = %+v", info)
		}
	})

	for _, invalid := range []string{"invalid-date", "2025/06/09", "2025-13-40"} {
		t.Run("invalid "+invalid, func(t *testing.T) {
			_, err := calculateDateInfo(invalid, now)
			if err == nil {
				t.Fatal("calculateDateInfo() expected error")
			}
			if !strings.HasPrefix(err.Error(), "Invalid date format. Expected YYYY-MM-DD, got: "+invalid) {
				t.Errorf("error = %q", err)
			}
		})
	}
}

func TestCurrentTimeInfo(t *testing.T) {
	zone := time.FixedZone("CEST", 2*60*60)

	tests := []struct {
		name          string
		now           time.Time
		untilWeekend  int
		weekend       bool
		expectedDay   string
		expectedUTC   string
		expectedLocal string
	}{
		{
			name:          "wednesday",
			now:           time.Date(2025, 6, 4, 9, 5, 7, 0, zone),
			untilWeekend:  3,
			expectedDay:   "Wednesday",
			expectedUTC:   "2025-06-04T07:05:07Z",
			expectedLocal: "2025-06-04T09:05:07+0200",
		},
		{
			name:          "saturday",
			now:           time.Date(2025, 6, 7, 12, 0, 0, 0, zone),
			untilWeekend:  0,
			weekend:       true,
			expectedDay:   "Saturday",
			expectedUTC:   "2025-06-07T10:00:00Z",
			expectedLocal: "2025-06-07T12:00:00+0200",
		},
		{
			name:          "sunday",
			now:           time.Date(2025, 6, 8, 12, 0, 0, 0, zone),
			untilWeekend:  6,
			weekend:       true,
			expectedDay:   "Sunday",
			expectedUTC:   "2025-06-08T10:00:00Z",
			expectedLocal: "2025-06-08T12:00:00+0200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := currentTimeInfo(tt.now)
			if info.DaysUntilWeekend != tt.untilWeekend {
				t.Errorf("DaysUntilWeekend = %d, want %d", info.DaysUntilWeekend, tt.untilWeekend)
			}
			if info.IsWeekend != tt.weekend {
				t.Errorf("IsWeekend = %v, want %v", info.IsWeekend, tt.weekend)
			}
			if info.DayOfWeek != tt.expectedDay {
				t.Errorf("DayOfWeek = %q, want %q", info.DayOfWeek, tt.expectedDay)
			}
			if info.UTCDatetime != tt.expectedUTC {
				t.Errorf("UTCDatetime = %q, want %q", info.UTCDatetime, tt.expectedUTC)
			}
			if info.CurrentDatetimeWithTZ != tt.expectedLocal {
				t.Errorf("CurrentDatetimeWithTZ = %q, want %q", info.CurrentDatetimeWithTZ, tt.expectedLocal)
			}
			if info.TimezoneOffset != "+02:00" || info.TimezoneName != "CEST" {
				t.Errorf("timezone = %q %q", info.TimezoneName, info.TimezoneOffset)
			}
		})
	}
}

func TestDateRange(t *testing.T) {
	now := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	ptr := func(s string) *string { return &s }

	tests := []struct {
		name       string
		start, end *string
		oldest     string
		newest     string
		wantErr    bool
	}{
		{name: "defaults", oldest: "2025-05-05", newest: "2025-06-04"},
		{name: "explicit", start: ptr("2025-01-01"), end: ptr("2025-01-31"), oldest: "2025-01-01", newest: "2025-01-31"},
		{name: "empty strings use defaults", start: ptr(""), end: ptr(""), oldest: "2025-05-05", newest: "2025-06-04"},
		{name: "unpadded kept as given", start: ptr("2025-1-5"), end: ptr("2025-01-31"), oldest: "2025-1-5", newest: "2025-01-31"},
		{name: "invalid start", start: ptr("01/01/2025"), wantErr: true},
		{name: "invalid end", end: ptr("2025-02-30"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldest, newest, err := dateRange(now, tt.start, tt.end, -30, 0)
			if tt.wantErr {
				if err == nil {
					t.Error("dateRange() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("dateRange() error = %v", err)
			}
			if oldest != tt.oldest || newest != tt.newest {
				t.Errorf("dateRange() = %s..%s, want %s..%s", oldest, newest, tt.oldest, tt.newest)
			}
		})
	}
}
