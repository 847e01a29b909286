package saju

import (
	"github.com/bap-pick/bab-back/internal/domain"
	sajuUsecase "github.com/bap-pick/bab-back/internal/usecases/saju"
)

// AnalysisResponse is the birth-chart analysis view.
type AnalysisResponse struct {
	Scores      map[string]float64 `json:"scores"`
	DaySky      string             `json:"day_sky"`
	Type        string             `json:"type"`
	Headline    string             `json:"headline"`
	Advice      string             `json:"advice"`
	Lacking     []string           `json:"lacking"`
	Strong      []string           `json:"strong"`
	Recommended []FoodGroup        `json:"recommended"`
}

// TodayResponse is the daily-reading view.
type TodayResponse struct {
	Scores      map[string]float64 `json:"scores"`
	DaySky      string             `json:"day_sky"`
	DayGround   string             `json:"day_ground"`
	Relation    string             `json:"relation"`
	Type        string             `json:"type"`
	Headline    string             `json:"headline"`
	Advice      string             `json:"advice"`
	Lacking     []string           `json:"lacking"`
	Strong      []string           `json:"strong"`
	Recommended []FoodGroup        `json:"recommended"`
}

// FoodGroup holds one recommended element with its example dishes.
type FoodGroup struct {
	Element string   `json:"element"`
	Korean  string   `json:"korean"`
	Foods   []string `json:"foods"`
}

func toScores(d domain.ElementDistribution) map[string]float64 {
	scores := make(map[string]float64, 5)
	for _, e := range domain.AllElements() {
		scores[string(e)] = d.Get(e)
	}
	return scores
}

func elementNames(elems []domain.Element) []string {
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		out = append(out, string(e))
	}
	return out
}

func recommendedFoods(cls domain.OhengClassification) []FoodGroup {
	elems := sajuUsecase.RecommendedElements(cls)
	out := make([]FoodGroup, 0, len(elems))
	for _, e := range elems {
		out = append(out, FoodGroup{
			Element: string(e),
			Korean:  e.Korean(),
			Foods:   sajuUsecase.ElementFoods(e),
		})
	}
	return out
}
