package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Calendar is the calendar kind a birth date was recorded in.
type Calendar string

const (
	CalendarSolar     Calendar = "solar"
	CalendarLunar     Calendar = "lunar"
	CalendarLunarLeap Calendar = "lunar_leap"
)

// IsValid reports whether the calendar kind is one of the supported values.
func (c Calendar) IsValid() bool {
	switch c {
	case CalendarSolar, CalendarLunar, CalendarLunarLeap:
		return true
	default:
		return false
	}
}

// ClockTime is a wall-clock time of day without a date. Birth times are
// recorded to the minute.
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseClockTime parses "HH:MM".
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return ClockTime{}, fmt.Errorf("%w: time %q must be HH:MM", ErrValidation, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return ClockTime{}, fmt.Errorf("%w: hour out of range in %q", ErrValidation, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return ClockTime{}, fmt.Errorf("%w: minute out of range in %q", ErrValidation, s)
	}
	return ClockTime{Hour: h, Minute: m}, nil
}

// Minutes returns minutes since midnight.
func (t ClockTime) Minutes() int {
	return t.Hour*60 + t.Minute
}

// AtOrAfter reports whether t >= other.
func (t ClockTime) AtOrAfter(other ClockTime) bool {
	return t.Minutes() >= other.Minutes()
}

// AtOrBefore reports whether t <= other.
func (t ClockTime) AtOrBefore(other ClockTime) bool {
	return t.Minutes() <= other.Minutes()
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// BirthProfile is the calculation input captured at registration. Gender is
// stored but does not participate in the element calculation.
type BirthProfile struct {
	BirthDate time.Time
	BirthTime *ClockTime
	Calendar  Calendar
	Gender    string
}

// User is a registered user with the persisted baseline of the five-element
// analysis. DaySky/DayGround are nil for legacy rows created before the
// baseline was stored; the daily recalibration backfills them once.
type User struct {
	ID           int64     `db:"id"`
	UID          string    `db:"uid"`
	Email        string    `db:"email"`
	Nickname     string    `db:"nickname"`
	Gender       string    `db:"gender"`
	BirthDate    time.Time `db:"birth_date"`
	BirthTime    *string   `db:"birth_time"`
	Calendar     Calendar  `db:"birth_calendar"`
	ProfileImage *string   `db:"profile_image"`
	Baseline     ElementDistribution
	DaySky       *Stem     `db:"day_sky"`
	DayGround    *Branch   `db:"day_ground"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Profile builds the calculation input from the stored columns.
func (u *User) Profile() (BirthProfile, error) {
	p := BirthProfile{
		BirthDate: u.BirthDate,
		Calendar:  u.Calendar,
		Gender:    u.Gender,
	}
	if !p.Calendar.IsValid() {
		return BirthProfile{}, fmt.Errorf("%w: unknown calendar %q", ErrValidation, u.Calendar)
	}
	if u.BirthTime != nil {
		t, err := ParseClockTime(*u.BirthTime)
		if err != nil {
			return BirthProfile{}, err
		}
		p.BirthTime = &t
	}
	return p, nil
}

// HasBaseline reports whether the persisted baseline is usable for the daily
// recalibration without recomputing the chart.
func (u *User) HasBaseline() bool {
	return u.DaySky != nil && u.DayGround != nil && !u.Baseline.IsZero()
}
