package graph

import "github.com/scrypster/caseflow/pkg/types"

// Strength scores a connection from its attributes. It is pure and always
// returns a value in [0.5, 1.0].
//
// Base 0.5, plus:
//   - 0.3 for depends_on / blocks
//   - 0.2 for part_of / assigned_to
//   - 0.1 for related / similar_to
//   - ai_confidence × 0.2 when metadata carries one
//   - 0.2 when the user confirmed the connection
func Strength(c types.EntityConnection) float64 {
	score := 0.5

	switch c.ConnectionType {
	case types.ConnDependsOn, types.ConnBlocks:
		score += 0.3
	case types.ConnPartOf, types.ConnAssignedTo:
		score += 0.2
	case types.ConnRelated, types.ConnSimilarTo:
		score += 0.1
	}

	if md := c.Metadata; md != nil {
		if md.AIConfidence != nil {
			score += types.ClampStrength(*md.AIConfidence) * 0.2
		}
		if md.UserConfirmed {
			score += 0.2
		}
	}

	return min(1.0, score)
}
