package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Happy hours run daily from 14:00 up to but not including 19:00.
// The last ten minutes of the window count as "ending soon".
const (
	happyHoursStartMinute = 14 * 60 // 840
	happyHoursEndMinute   = 19 * 60 // 1140
	happyHoursWarnMinute  = happyHoursEndMinute - 10
)

// MinuteOfDay parses a "HH:MM" time-of-day string into minutes since
// midnight.
func MinuteOfDay(timeOfDay string) (int, error) {
	hh, mm, ok := strings.Cut(timeOfDay, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q", timeOfDay)
	}

	hours, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", timeOfDay)
	}

	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", timeOfDay)
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("time %q out of range", timeOfDay)
	}

	return hours*60 + minutes, nil
}

// InHappyHours reports whether a booking at the given "HH:MM" time is
// eligible for the happy-hours flag. Unparseable times are not eligible.
func InHappyHours(timeOfDay string) bool {
	m, err := MinuteOfDay(timeOfDay)
	if err != nil {
		return false
	}
	return m >= happyHoursStartMinute && m < happyHoursEndMinute
}

// HappyHoursEndingSoon reports whether the wall clock is inside the last
// ten minutes of the happy-hours window. The caller picks the location;
// the venue clock is what matters, not the server's.
func HappyHoursEndingSoon(now time.Time) bool {
	m := now.Hour()*60 + now.Minute()
	return m >= happyHoursWarnMinute && m < happyHoursEndMinute
}
