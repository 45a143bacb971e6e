package training

import "github.com/DhavalSuthar-24/courtside/internal/models"

// catalogue is the starter drill library. The ids are fixed so seeding twice
// is a no-op.
func catalogue() []models.Drill {
	drill := func(id, name, category, difficulty, description string, minutes int) models.Drill {
		return models.Drill{
			BaseModel:          models.BaseModel{ID: id},
			Name:               name,
			Category:           category,
			Difficulty:         difficulty,
			Description:        description,
			DefaultDurationMin: minutes,
		}
	}
	return []models.Drill{
		drill("drill_1", "Wide Serve Targeting", "Serve", "Intermediate",
			"Hit serves into the wide corner of the service box, alternating deuce and ad sides.", 15),
		drill("drill_2", "Cross-Court Forehand", "Forehand", "Intermediate",
			"Sustain a cross-court forehand rally past the service line.", 10),
		drill("drill_3", "Spider Drill", "Footwork", "Advanced",
			"Sprint from the centre mark to each corner of the court and back.", 10),
		drill("drill_4", "Dynamic Warmup", "Warmup", "Beginner",
			"Leg swings, lunges and side shuffles before hitting.", 10),
		drill("drill_5", "Volley Reactions", "Volley", "Advanced",
			"Rapid-fire volleys at the net from a feeder on the baseline.", 5),
	}
}
