package saju

import (
	"context"
	"fmt"
	"time"

	"github.com/bap-pick/bab-back/internal/domain"
)

// dayBoundary is the start of the first hour block. Births at or after it
// belong to the next almanac day.
var dayBoundary = domain.ClockTime{Hour: 23, Minute: 30}

// ResolvePillars turns a birth profile into a four-pillar chart against the
// almanac table. The chart is all-or-nothing: any missing almanac row fails
// the whole resolution with domain.ErrNotFound.
func (s *Service) ResolvePillars(ctx context.Context, profile domain.BirthProfile) (domain.Pillars, error) {
	if !profile.Calendar.IsValid() {
		return domain.Pillars{}, fmt.Errorf("%w: unknown calendar %q", domain.ErrValidation, profile.Calendar)
	}

	lookupDate := truncateToDay(profile.BirthDate)
	if profile.BirthTime != nil && profile.BirthTime.AtOrAfter(dayBoundary) {
		lookupDate = lookupDate.AddDate(0, 0, 1)
	}

	record, err := s.lookupRecord(ctx, lookupDate, profile.Calendar)
	if err != nil {
		return domain.Pillars{}, err
	}

	yearSky, yearGround := record.YearSky, record.YearGround
	monthSky, monthGround := record.MonthSky, record.MonthGround

	// A birth before the solar-term start of its day still belongs to the
	// previous term: year and month pillars come from the record that
	// chronologically precedes the term change. Without a birth time the
	// instant is unknowable and the correction is skipped.
	if record.SeasonStartTime != nil && profile.BirthTime != nil {
		birthInstant := atClock(profile.BirthDate, profile.BirthTime)
		if birthInstant.Before(*record.SeasonStartTime) {
			prev, err := s.AlmanacRepo.GetLatestBefore(ctx, record.SolarDate)
			if err != nil {
				return domain.Pillars{}, fmt.Errorf("almanac record before %s: %w",
					record.SolarDate.Format("2006-01-02"), err)
			}
			yearSky, yearGround = prev.YearSky, prev.YearGround
			monthSky, monthGround = prev.MonthSky, prev.MonthGround
		}
	}

	pillars := domain.Pillars{
		YearSky:     yearSky,
		YearGround:  yearGround,
		MonthSky:    monthSky,
		MonthGround: monthGround,
		DaySky:      record.DaySky,
		DayGround:   record.DayGround,
	}

	if profile.BirthTime != nil {
		sky, ground, err := hourPillar(record.DaySky, *profile.BirthTime)
		if err != nil {
			return domain.Pillars{}, err
		}
		pillars.TimeSky = &sky
		pillars.TimeGround = &ground
	}

	return pillars, nil
}

func (s *Service) lookupRecord(ctx context.Context, date time.Time, calendar domain.Calendar) (*domain.AlmanacRecord, error) {
	switch calendar {
	case domain.CalendarSolar:
		return s.AlmanacRepo.GetBySolarDate(ctx, date)
	case domain.CalendarLunar:
		return s.AlmanacRepo.GetByLunarDate(ctx, date, false)
	case domain.CalendarLunarLeap:
		return s.AlmanacRepo.GetByLunarDate(ctx, date, true)
	default:
		return nil, fmt.Errorf("%w: unknown calendar %q", domain.ErrValidation, calendar)
	}
}

// hourBlockIndex maps a wall-clock time into one of the 12 two-hour blocks.
// Block 0 wraps midnight (23:30-01:29).
func hourBlockIndex(t domain.ClockTime) int {
	const minutesPerDay = 24 * 60
	offset := (t.Minutes() - dayBoundary.Minutes() + minutesPerDay) % minutesPerDay
	return offset / 120
}

// hourPillar resolves the hour stem/branch pair for a day stem and birth time.
func hourPillar(daySky domain.Stem, t domain.ClockTime) (domain.Stem, domain.Branch, error) {
	row, ok := hourPillarTable[daySky]
	if !ok {
		return "", "", fmt.Errorf("%w: unknown day stem %q", domain.ErrConfiguration, daySky)
	}
	pair := row[hourBlockIndex(t)]
	return domain.Stem(pair[0]), domain.Branch(pair[1]), nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// atClock pins a clock time onto a calendar day.
func atClock(day time.Time, t *domain.ClockTime) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}
