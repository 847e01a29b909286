package saju

import (
	"fmt"

	"github.com/bap-pick/bab-back/internal/domain"
)

// Static reference tables of the traditional almanac. Built once at package
// init and treated as immutable afterwards.

// The ten heavenly stems and twelve earthly branches in cyclical order,
// using the hangul terms stored in the almanac table.
var stems = []domain.Stem{"갑", "을", "병", "정", "무", "기", "경", "신", "임", "계"}

var branches = []domain.Branch{"자", "축", "인", "묘", "진", "사", "오", "미", "신", "유", "술", "해"}

// stemElements maps each heavenly stem to its element. Stems alternate
// yang/yin within each element pair.
var stemElements = map[domain.Stem]domain.Element{
	"갑": domain.ElementWood, "을": domain.ElementWood,
	"병": domain.ElementFire, "정": domain.ElementFire,
	"무": domain.ElementEarth, "기": domain.ElementEarth,
	"경": domain.ElementMetal, "신": domain.ElementMetal,
	"임": domain.ElementWater, "계": domain.ElementWater,
}

var branchElements = map[domain.Branch]domain.Element{
	"인": domain.ElementWood, "묘": domain.ElementWood,
	"사": domain.ElementFire, "오": domain.ElementFire,
	"진": domain.ElementEarth, "술": domain.ElementEarth,
	"축": domain.ElementEarth, "미": domain.ElementEarth,
	"신": domain.ElementMetal, "유": domain.ElementMetal,
	"해": domain.ElementWater, "자": domain.ElementWater,
}

// hiddenStem is one sub-element of a branch with its traditional day-count
// ratio. Ratios are normalized per branch by their own sum, which is not
// necessarily 100.
type hiddenStem struct {
	Stem domain.Stem
	Rate float64
}

// hiddenStems is the 지장간 decomposition table.
var hiddenStems = map[domain.Branch][]hiddenStem{
	"자": {{"임", 10}, {"계", 20}},
	"축": {{"계", 9}, {"신", 3}, {"기", 18}},
	"인": {{"무", 7}, {"병", 7}, {"갑", 16}},
	"묘": {{"갑", 10}, {"을", 20}},
	"진": {{"을", 9}, {"계", 3}, {"무", 18}},
	"사": {{"무", 7}, {"경", 7}, {"병", 16}},
	"오": {{"병", 10}, {"기", 9}, {"정", 11}},
	"미": {{"정", 9}, {"을", 3}, {"기", 18}},
	"신": {{"무", 7}, {"임", 7}, {"경", 16}},
	"유": {{"경", 10}, {"신", 20}},
	"술": {{"신", 9}, {"정", 3}, {"무", 18}},
	"해": {{"무", 7}, {"갑", 7}, {"임", 16}},
}

// hourBlock is one of the 12 two-hour divisions of the day. The first block
// wraps past midnight: 23:30-01:29.
type hourBlock struct {
	Start domain.ClockTime
	End   domain.ClockTime
}

var hourBlocks = [12]hourBlock{
	{domain.ClockTime{Hour: 23, Minute: 30}, domain.ClockTime{Hour: 1, Minute: 29}},
	{domain.ClockTime{Hour: 1, Minute: 30}, domain.ClockTime{Hour: 3, Minute: 29}},
	{domain.ClockTime{Hour: 3, Minute: 30}, domain.ClockTime{Hour: 5, Minute: 29}},
	{domain.ClockTime{Hour: 5, Minute: 30}, domain.ClockTime{Hour: 7, Minute: 29}},
	{domain.ClockTime{Hour: 7, Minute: 30}, domain.ClockTime{Hour: 9, Minute: 29}},
	{domain.ClockTime{Hour: 9, Minute: 30}, domain.ClockTime{Hour: 11, Minute: 29}},
	{domain.ClockTime{Hour: 11, Minute: 30}, domain.ClockTime{Hour: 13, Minute: 29}},
	{domain.ClockTime{Hour: 13, Minute: 30}, domain.ClockTime{Hour: 15, Minute: 29}},
	{domain.ClockTime{Hour: 15, Minute: 30}, domain.ClockTime{Hour: 17, Minute: 29}},
	{domain.ClockTime{Hour: 17, Minute: 30}, domain.ClockTime{Hour: 19, Minute: 29}},
	{domain.ClockTime{Hour: 19, Minute: 30}, domain.ClockTime{Hour: 21, Minute: 29}},
	{domain.ClockTime{Hour: 21, Minute: 30}, domain.ClockTime{Hour: 23, Minute: 29}},
}

// hourStemStart gives the hour stem of the first block for each day stem
// (the five-rats rule). Subsequent blocks advance through the stem cycle.
var hourStemStart = map[domain.Stem]int{
	"갑": 0, "기": 0, // 갑자시
	"을": 2, "경": 2, // 병자시
	"병": 4, "신": 4, // 무자시
	"정": 6, "임": 6, // 경자시
	"무": 8, "계": 8, // 임자시
}

// hourPillarTable[dayStem][blockIndex] -> hour stem/branch pair.
var hourPillarTable map[domain.Stem][12][2]string

func init() {
	hourPillarTable = make(map[domain.Stem][12][2]string, len(stems))
	for _, day := range stems {
		start := hourStemStart[day]
		var row [12][2]string
		for block := 0; block < 12; block++ {
			row[block] = [2]string{
				string(stems[(start+block)%len(stems)]),
				string(branches[block]),
			}
		}
		hourPillarTable[day] = row
	}
}

// controlledBy is the canonical destructive-cycle table: controlledBy[x] is
// the element that subdues an excess of x. Total over the five elements with
// no fixed point.
var controlledBy = map[domain.Element]domain.Element{
	domain.ElementWood:  domain.ElementMetal,
	domain.ElementFire:  domain.ElementWater,
	domain.ElementEarth: domain.ElementWood,
	domain.ElementMetal: domain.ElementFire,
	domain.ElementWater: domain.ElementEarth,
}

// produces is the productive cycle, used for the ten-relation lookup.
var produces = map[domain.Element]domain.Element{
	domain.ElementWood:  domain.ElementFire,
	domain.ElementFire:  domain.ElementEarth,
	domain.ElementEarth: domain.ElementMetal,
	domain.ElementMetal: domain.ElementWater,
	domain.ElementWater: domain.ElementWood,
}

var stemIndex = func() map[domain.Stem]int {
	m := make(map[domain.Stem]int, len(stems))
	for i, s := range stems {
		m[s] = i
	}
	return m
}()

// stemIsYang reports the polarity of a stem: even positions in the cycle
// are yang.
func stemIsYang(s domain.Stem) bool {
	return stemIndex[s]%2 == 0
}

// StemElement resolves a stem to its element, failing with a configuration
// error for terms outside the cycle.
func StemElement(s domain.Stem) (domain.Element, error) {
	e, ok := stemElements[s]
	if !ok {
		return "", fmt.Errorf("%w: unknown heavenly stem %q", domain.ErrConfiguration, s)
	}
	return e, nil
}

// BranchElement resolves a branch to its element.
func BranchElement(b domain.Branch) (domain.Element, error) {
	e, ok := branchElements[b]
	if !ok {
		return "", fmt.Errorf("%w: unknown earthly branch %q", domain.ErrConfiguration, b)
	}
	return e, nil
}

// ControlElement returns the destructive-cycle counter of an element.
func ControlElement(e domain.Element) domain.Element {
	return controlledBy[e]
}

// TenRelation returns the traditional relation label between the user's day
// stem and another stem (today's day stem for the daily reading).
func TenRelation(dayStem, other domain.Stem) (string, error) {
	de, err := StemElement(dayStem)
	if err != nil {
		return "", err
	}
	oe, err := StemElement(other)
	if err != nil {
		return "", err
	}

	samePolarity := stemIsYang(dayStem) == stemIsYang(other)

	switch {
	case de == oe:
		if samePolarity {
			return "비견", nil
		}
		return "겁재", nil
	case produces[de] == oe:
		if samePolarity {
			return "식신", nil
		}
		return "상관", nil
	case controlledBy[oe] == de: // the day master subdues the other
		if samePolarity {
			return "편재", nil
		}
		return "정재", nil
	case controlledBy[de] == oe: // the other subdues the day master
		if samePolarity {
			return "편관", nil
		}
		return "정관", nil
	default: // the other produces the day master
		if samePolarity {
			return "편인", nil
		}
		return "정인", nil
	}
}
