package queries

import (
	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/platform/engine"
)

// Seats turns stored roster rows into engine seats. Unknown AI tiers fall back to medium in the engine.
func Seats(roster []models.Roster) []engine.Seat {
	seats := make([]engine.Seat, 0, len(roster))
	for _, r := range roster {
		seats = append(seats, engine.Seat{
			ID:         r.User_id,
			Name:       r.Username,
			Token:      r.Color,
			IsAI:       r.Is_ai,
			Difficulty: models.Difficulty(r.Ai_difficulty),
		})
	}
	return seats
}

// tokens are handed out in join order.
var tokens = []string{"red", "blue", "green", "yellow", "purple", "orange", "pink", "teal"}

// NextToken picks the first colour not yet taken in roster.
func NextToken(roster []models.Roster) string {
	taken := map[string]bool{}
	for _, r := range roster {
		taken[r.Color] = true
	}
	for _, t := range tokens {
		if !taken[t] {
			return t
		}
	}
	return ""
}
