package domain

// Stem is a heavenly stem, one of the cyclical 10 terms (hangul, as stored
// in the almanac table).
type Stem string

// Branch is an earthly branch, one of the cyclical 12 terms.
type Branch string

// Pillars is a fully resolved four-pillar chart. The hour pillar is nil when
// the birth time is unknown; all other fields are always set. A Pillars value
// is either fully resolved or the whole calculation fails - callers never see
// a partial chart.
type Pillars struct {
	YearSky     Stem
	YearGround  Branch
	MonthSky    Stem
	MonthGround Branch
	DaySky      Stem
	DayGround   Branch
	TimeSky     *Stem
	TimeGround  *Branch
}
