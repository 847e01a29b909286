package domain

import "time"

// AlmanacRecord is one day of the manse almanac reference table. Read-only
// data, looked up by solar date (or lunar date plus leap flag for lunar
// birth profiles).
type AlmanacRecord struct {
	SolarDate       time.Time  `db:"solar_date"`
	LunarDate       time.Time  `db:"lunar_date"`
	LeapMonth       bool       `db:"leap_month"`
	Season          string     `db:"season"`
	SeasonStartTime *time.Time `db:"season_start_time"`
	YearSky         Stem       `db:"year_sky"`
	YearGround      Branch     `db:"year_ground"`
	MonthSky        Stem       `db:"month_sky"`
	MonthGround     Branch     `db:"month_ground"`
	DaySky          Stem       `db:"day_sky"`
	DayGround       Branch     `db:"day_ground"`
}

// Iljin is the elemental signature of a single calendar day, taken from the
// almanac day pillar. Cached once per day and shared by all users.
type Iljin struct {
	Date      string `json:"date"`
	DaySky    Stem   `json:"day_sky"`
	DayGround Branch `json:"day_ground"`
}
