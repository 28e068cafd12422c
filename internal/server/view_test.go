package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/scholar/internal/quiz"
)

func TestSnapshot_WithholdsAnswerUntilReveal(t *testing.T) {
	s := quiz.NewSession("Optics", quiz.WithID("s1"))
	require.NoError(t, s.Load(twoQuestions()))
	require.NoError(t, s.Select(1))

	snap := snapshot(s)
	assert.Equal(t, "presenting", snap.State)
	require.NotNil(t, snap.Question)
	require.NotNil(t, snap.Question.Selected)
	assert.Equal(t, 1, *snap.Question.Selected)
	assert.Nil(t, snap.Question.Correct)
	assert.Empty(t, snap.Question.Explanation)

	_, err := s.Advance()
	require.NoError(t, err)
	snap = snapshot(s)
	assert.Equal(t, 0, snap.Index)
	require.NotNil(t, snap.Question.Correct)
	assert.Equal(t, twoQuestions()[0].Correct, *snap.Question.Correct)
	assert.Equal(t, twoQuestions()[0].ID, snap.Question.ID)
}

func TestSnapshot_Finished(t *testing.T) {
	s := quiz.NewSession("Optics", quiz.WithID("s1"))
	require.NoError(t, s.Load(twoQuestions()[:1]))
	require.NoError(t, s.Select(twoQuestions()[0].Correct))
	s.Advance()
	s.Advance()

	snap := snapshot(s)
	assert.Equal(t, "finished", snap.State)
	assert.Nil(t, snap.Question)
	require.NotNil(t, snap.Result)
	assert.Equal(t, 4, snap.Result.Score)
	assert.Equal(t, 100, snap.Result.Accuracy)
	assert.Equal(t, "s1", snap.Result.ID)
}
