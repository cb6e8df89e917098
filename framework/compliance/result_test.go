package compliance

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreLabel(t *testing.T) {
	assert.Equal(t, "12", ScoreLabel(12, 12))
	assert.Equal(t, "0", ScoreLabel(0, 0))
	assert.Equal(t, "7/12", ScoreLabel(7, 12))
	assert.Equal(t, "0/3", ScoreLabel(0, 3))
}

func TestClassifyScore(t *testing.T) {
	for _, p := range []struct {
		score, total int
		class        ScoreClass
	}{
		{0, 0, ScorePerfect},
		{0, 4, ScoreError},
		{1, 4, ScoreLow},
		{2, 4, ScoreLow},
		{3, 4, ScoreHigh},
		{4, 4, ScorePerfect},
	} {
		t.Run(fmt.Sprintf("%d/%d", p.score, p.total), func(t *testing.T) {
			assert.Equal(t, p.class, ClassifyScore(p.score, p.total))
		})
	}
}

func TestTestResultClass(t *testing.T) {
	assert.Equal(t, ScorePerfect, TestResult{}.Class())
	assert.True(t, TestResult{}.Perfect())
	assert.Equal(t, ScoreError, TestResult{FatalErrors: []string{"x"}}.Class())
	assert.Equal(t, ScoreHigh, TestResult{Score: 2, Total: 3}.Class())
}

func TestResultsOK(t *testing.T) {
	perfect := TestResult{Score: 3, Total: 3}
	imperfect := TestResult{Score: 2, Total: 3}
	assert.True(t, Results{}.OK())
	assert.True(t, Results{Tests: []TestResult{perfect, perfect}}.OK())
	assert.False(t, Results{Tests: []TestResult{perfect, imperfect}}.OK())
	assert.Equal(t, []TestResult{imperfect}, Results{Tests: []TestResult{perfect, imperfect}}.Failures())
}

func TestResultsSummary(t *testing.T) {
	assert.Equal(t, "this API scores 7 out of 12 points", Results{Score: 7, Total: 12}.Summary())
}

func TestTestIDString(t *testing.T) {
	assert.Equal(t, "v0.5/Reference Sets", TestID{"v0.5", "Reference Sets"}.String())
	assert.Equal(t, TestID{"a", "b"}, TestID{"a"}.Plus("b"))
}
