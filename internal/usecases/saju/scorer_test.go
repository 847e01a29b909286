package saju

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bap-pick/bab-back/internal/domain"
)

func stemPtr(s domain.Stem) *domain.Stem       { return &s }
func branchPtr(b domain.Branch) *domain.Branch { return &b }

func fullChart() domain.Pillars {
	return domain.Pillars{
		YearSky: "을", YearGround: "해",
		MonthSky: "신", MonthGround: "사",
		DaySky: "갑", DayGround: "자",
		TimeSky: stemPtr("경"), TimeGround: branchPtr("오"),
	}
}

func TestScore_SumsToHundred(t *testing.T) {
	dist, err := Score(fullChart())
	require.NoError(t, err)
	// Per-element rounding keeps the total within a few tenths of 100.
	assert.InDelta(t, 100.0, dist.Sum(), 0.3)
	for _, e := range domain.AllElements() {
		assert.GreaterOrEqual(t, dist.Get(e), 0.0)
	}
}

func TestScore_NoHourPillarStillSumsToHundred(t *testing.T) {
	chart := fullChart()
	chart.TimeSky = nil
	chart.TimeGround = nil

	dist, err := Score(chart)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, dist.Sum(), 0.3)
}

func TestScore_MonthBranchCarriesMoreWeight(t *testing.T) {
	// Same four branches, with 오 in the month seat vs the year seat. The
	// month seat's 1.3 boost must push fire higher in the first chart.
	monthSeat := domain.Pillars{
		YearSky: "갑", YearGround: "자",
		MonthSky: "갑", MonthGround: "오",
		DaySky: "갑", DayGround: "진",
	}
	yearSeat := domain.Pillars{
		YearSky: "갑", YearGround: "오",
		MonthSky: "갑", MonthGround: "자",
		DaySky: "갑", DayGround: "진",
	}

	a, err := Score(monthSeat)
	require.NoError(t, err)
	b, err := Score(yearSeat)
	require.NoError(t, err)

	assert.Greater(t, a.Fire, b.Fire)
	assert.Less(t, a.Water, b.Water)
}

func TestScore_HiddenStemsSpreadBranchWeight(t *testing.T) {
	// 인 hides 무(earth), 병(fire) and 갑(wood): a chart full of 인 branches
	// must credit all three elements, not just wood.
	chart := domain.Pillars{
		YearSky: "갑", YearGround: "인",
		MonthSky: "갑", MonthGround: "인",
		DaySky: "갑", DayGround: "인",
	}

	dist, err := Score(chart)
	require.NoError(t, err)
	assert.Greater(t, dist.Earth, 0.0)
	assert.Greater(t, dist.Fire, 0.0)
	assert.Greater(t, dist.Wood, dist.Earth)
}

func TestScore_UnknownStemFails(t *testing.T) {
	chart := fullChart()
	chart.DaySky = "xx"

	_, err := Score(chart)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestNormalize_ZeroSentinelPassesThrough(t *testing.T) {
	var zero domain.ElementDistribution
	assert.True(t, normalize(zero).IsZero())
}

func TestNormalize_RescalesAndRounds(t *testing.T) {
	d := domain.ElementDistribution{Wood: 1, Fire: 1, Earth: 1, Metal: 1, Water: 1}
	out := normalize(d)
	assert.Equal(t, 20.0, out.Wood)
	assert.InDelta(t, 100.0, out.Sum(), 0.3)
}
