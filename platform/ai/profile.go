// Package ai drives automated players. Decide is a pure function of a state snapshot that returns at
// most one command; the Scheduler feeds those commands back through the same surface humans use.
package ai

import "github.com/DedS3t/monopoly-engine/app/models"

// Profile holds the knobs that separate the difficulty tiers.
type Profile struct {
	// ReserveFraction of net worth is never spent on buying, bidding, building or trading.
	ReserveFraction float64
	// ROIThreshold is the projected yield a property must reach to be bought on merit.
	ROIThreshold float64
	// Aggression scales the highest auction bid relative to the market price.
	Aggression float64
	// LoanAppetite caps total bank debt as a share of net worth.
	LoanAppetite float64
	// AcceptMargin is how much more a trade must give than it takes.
	AcceptMargin float64
	// Lenient creditors forgive small rents and extend a foreclosure once.
	Lenient bool
	// Counters lets the receiver answer a near-miss trade with its own terms.
	Counters bool
}

var profiles = map[models.Difficulty]Profile{
	models.DifficultyEasy: {
		ReserveFraction: 0.25,
		ROIThreshold:    0.15,
		Aggression:      0.7,
		LoanAppetite:    0.2,
		AcceptMargin:    1.2,
		Lenient:         true,
	},
	models.DifficultyMedium: {
		ReserveFraction: 0.15,
		ROIThreshold:    0.10,
		Aggression:      1.0,
		LoanAppetite:    0.3,
		AcceptMargin:    1.05,
	},
	models.DifficultyHard: {
		ReserveFraction: 0.08,
		ROIThreshold:    0.08,
		Aggression:      1.1,
		LoanAppetite:    0.5,
		AcceptMargin:    0.95,
		Counters:        true,
	},
}

// ProfileFor returns the tier of d, falling back to medium.
func ProfileFor(d models.Difficulty) Profile {
	if p, ok := profiles[d]; ok {
		return p
	}
	return profiles[models.DifficultyMedium]
}
