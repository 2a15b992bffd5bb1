package engine

import "github.com/wricardo/timeshift-sokoban/game/grid"

// GoalStatus is the result of a goal evaluation.
type GoalStatus struct {
	Covered  int  `json:"covered"`
	Total    int  `json:"total"`
	Complete bool `json:"complete"`
}

// Evaluate counts the boxes standing on goals. The level is complete when
// every goal is covered. Positions are unique per box, so no goal is counted
// twice.
func Evaluate(boxes, goals []grid.Position) GoalStatus {
	goalSet := make(map[grid.Position]struct{}, len(goals))
	for _, g := range goals {
		goalSet[g] = struct{}{}
	}

	covered := 0
	for _, b := range boxes {
		if _, ok := goalSet[b]; ok {
			covered++
		}
	}

	return GoalStatus{
		Covered:  covered,
		Total:    len(goals),
		Complete: covered == len(goals),
	}
}
