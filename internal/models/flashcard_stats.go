package models

// DeckStats summarizes the persisted review state of one material.
type DeckStats struct {
	MaterialID      int64   `json:"material_id"`
	TotalCards      int     `json:"total_cards"`
	CardsDue        int     `json:"cards_due"`
	CardsMastered   int     `json:"cards_mastered"`
	CardsStruggling int     `json:"cards_struggling"`
	TotalReviews    int     `json:"total_reviews"`
	AvgStreak       float64 `json:"avg_streak"`
	OverallAccuracy float64 `json:"overall_accuracy"`
}
