package parser

import (
	"testing"

	"ats-agent-go/internal/types"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceScoresFullProfile(t *testing.T) {
	profile := &types.ParsedProfile{
		Name:       "Jane Doe",
		Email:      "jane.doe@acme.io",
		Phone:      "(555) 123-4567",
		Skills:     []string{"Python", "React", "AWS", "Docker", "Git"},
		Experience: "5+ years",
		Education:  "Bachelor of Science",
	}

	scores := calculateConfidenceScores(profile)

	assert.Equal(t, 0.9, scores[types.ScoreName])
	assert.Equal(t, 0.95, scores[types.ScoreEmail])
	assert.Equal(t, 0.85, scores[types.ScorePhone])
	assert.Equal(t, 0.9, scores[types.ScoreSkills])
	assert.Equal(t, 0.8, scores[types.ScoreExperience])
	assert.Equal(t, 0.8, scores[types.ScoreEducation])
	// overall 是六个字段分的平均
	assert.InDelta(t, 5.2/6.0, scores[types.ScoreOverall], 1e-9)
}

func TestConfidenceScoresEmptyProfile(t *testing.T) {
	scores := calculateConfidenceScores(&types.ParsedProfile{})

	assert.Equal(t, 0.1, scores[types.ScoreName])
	assert.Equal(t, 0.0, scores[types.ScoreEmail])
	assert.Equal(t, 0.0, scores[types.ScorePhone])
	assert.Equal(t, 0.1, scores[types.ScoreSkills])
	assert.Equal(t, 0.3, scores[types.ScoreExperience])
	assert.Equal(t, 0.2, scores[types.ScoreEducation])
	assert.InDelta(t, 0.7/6.0, scores[types.ScoreOverall], 1e-9)
}

func TestConfidenceScoreTiers(t *testing.T) {
	t.Run("单词姓名", func(t *testing.T) {
		scores := calculateConfidenceScores(&types.ParsedProfile{Name: "Jane"})
		assert.Equal(t, 0.6, scores[types.ScoreName])
	})

	t.Run("技能数量档位", func(t *testing.T) {
		scores := calculateConfidenceScores(&types.ParsedProfile{Skills: []string{"Python", "Go", "Rust"}})
		assert.Equal(t, 0.7, scores[types.ScoreSkills])

		scores = calculateConfidenceScores(&types.ParsedProfile{Skills: []string{"Python"}})
		assert.Equal(t, 0.5, scores[types.ScoreSkills])
	})
}
