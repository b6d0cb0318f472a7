package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scrypster/caseflow/pkg/types"
)

func ptr(v float64) *float64 { return &v }

func TestStrength(t *testing.T) {
	tests := []struct {
		name string
		conn types.EntityConnection
		want float64
	}{
		{"depends_on", types.EntityConnection{ConnectionType: types.ConnDependsOn}, 0.8},
		{"blocks", types.EntityConnection{ConnectionType: types.ConnBlocks}, 0.8},
		{"part_of", types.EntityConnection{ConnectionType: types.ConnPartOf}, 0.7},
		{"assigned_to", types.EntityConnection{ConnectionType: types.ConnAssignedTo}, 0.7},
		{"related", types.EntityConnection{ConnectionType: types.ConnRelated}, 0.6},
		{"similar_to", types.EntityConnection{ConnectionType: types.ConnSimilarTo}, 0.6},
		{"references", types.EntityConnection{ConnectionType: types.ConnReferences}, 0.5},
		{
			"related with confidence",
			types.EntityConnection{
				ConnectionType: types.ConnRelated,
				Metadata:       &types.ConnectionMetadata{AIConfidence: ptr(0.5)},
			},
			0.7,
		},
		{
			"user confirmed part_of",
			types.EntityConnection{
				ConnectionType: types.ConnPartOf,
				Metadata:       &types.ConnectionMetadata{UserConfirmed: true},
			},
			0.9,
		},
		{
			"everything caps at one",
			types.EntityConnection{
				ConnectionType: types.ConnDependsOn,
				Metadata:       &types.ConnectionMetadata{AIConfidence: ptr(1), UserConfirmed: true},
			},
			1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Strength(tt.conn), 1e-9)
		})
	}
}

func TestStrength_Bounds(t *testing.T) {
	confidences := []*float64{nil, ptr(-5), ptr(0), ptr(0.42), ptr(1), ptr(9)}
	connTypes := append([]types.ConnectionType{"bogus"}, types.ValidConnectionTypes...)
	for _, ct := range connTypes {
		for _, conf := range confidences {
			for _, confirmed := range []bool{false, true} {
				c := types.EntityConnection{
					ConnectionType: ct,
					Metadata:       &types.ConnectionMetadata{AIConfidence: conf, UserConfirmed: confirmed},
				}
				s := Strength(c)
				assert.GreaterOrEqual(t, s, 0.5, "%s", ct)
				assert.LessOrEqual(t, s, 1.0, "%s", ct)
			}
		}
	}
}
