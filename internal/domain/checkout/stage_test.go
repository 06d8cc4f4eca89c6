package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStage_Next(t *testing.T) {
	assert.Equal(t, StageShipping, StageInformation.Next())
	assert.Equal(t, StagePayment, StageShipping.Next())
	assert.Equal(t, StageReview, StagePayment.Next())
	assert.Equal(t, StagePlaced, StageReview.Next())
	assert.Equal(t, StagePlaced, StagePlaced.Next())
	assert.Equal(t, Stage("BOGUS"), Stage("BOGUS").Next())
}

func TestStage_CanGoBackTo(t *testing.T) {
	tests := []struct {
		from Stage
		to   Stage
		want bool
	}{
		{StageShipping, StageInformation, true},
		{StageReview, StageInformation, true},
		{StageReview, StagePayment, true},
		{StagePayment, StagePayment, false},
		{StageShipping, StagePayment, false},
		{StagePlaced, StageReview, false},
		{StageReview, StagePlaced, false},
		{StageReview, "BOGUS", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanGoBackTo(tt.to))
		})
	}
}

func TestStage_IsValid(t *testing.T) {
	for _, s := range Stages() {
		assert.True(t, s.IsValid())
	}
	assert.False(t, Stage("DONE").IsValid())
	assert.True(t, StagePlaced.IsTerminal())
	assert.False(t, StageReview.IsTerminal())
}
