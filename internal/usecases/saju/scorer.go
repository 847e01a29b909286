package saju

import (
	"math"

	"github.com/bap-pick/bab-back/internal/domain"
)

// Scoring weights. Stems carry 30 points of the chart, branches 70, with the
// month branch boosted because it dominates the seasonal reading.
const (
	stemWeight       = 7.5
	branchWeight     = 17.5
	monthBranchBoost = 1.3
)

// Score turns a resolved chart into a five-element percentage distribution.
// Each branch's weight is split across its hidden stems by the traditional
// day-count ratios before being credited to elements. The result is
// renormalized to sum to 100 and rounded to one decimal.
func Score(p domain.Pillars) (domain.ElementDistribution, error) {
	var dist domain.ElementDistribution

	stemList := []domain.Stem{p.YearSky, p.MonthSky, p.DaySky}
	if p.TimeSky != nil {
		stemList = append(stemList, *p.TimeSky)
	}
	for _, stem := range stemList {
		e, err := StemElement(stem)
		if err != nil {
			return domain.ElementDistribution{}, err
		}
		dist.Add(e, stemWeight)
	}

	type weighted struct {
		branch domain.Branch
		weight float64
	}
	branchList := []weighted{
		{p.YearGround, branchWeight},
		{p.MonthGround, branchWeight * monthBranchBoost},
		{p.DayGround, branchWeight},
	}
	if p.TimeGround != nil {
		branchList = append(branchList, weighted{*p.TimeGround, branchWeight})
	}
	for _, wb := range branchList {
		if err := addBranch(&dist, wb.branch, wb.weight); err != nil {
			return domain.ElementDistribution{}, err
		}
	}

	return normalize(dist), nil
}

// addBranch distributes a branch's weight across its hidden stems.
func addBranch(dist *domain.ElementDistribution, branch domain.Branch, weight float64) error {
	subs, ok := hiddenStems[branch]
	if !ok {
		// Not decomposable: credit the branch's own element whole.
		e, err := BranchElement(branch)
		if err != nil {
			return err
		}
		dist.Add(e, weight)
		return nil
	}

	var total float64
	for _, sub := range subs {
		total += sub.Rate
	}
	for _, sub := range subs {
		e, err := StemElement(sub.Stem)
		if err != nil {
			return err
		}
		dist.Add(e, weight*sub.Rate/total)
	}
	return nil
}

// normalize rescales a distribution to sum to 100 and rounds each value to
// one decimal. The all-zero sentinel passes through untouched.
func normalize(d domain.ElementDistribution) domain.ElementDistribution {
	sum := d.Sum()
	if sum == 0 {
		return d
	}
	var out domain.ElementDistribution
	for _, e := range domain.AllElements() {
		out.Add(e, round1(d.Get(e)/sum*100))
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
