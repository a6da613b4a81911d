package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchScore(t *testing.T) {
	result := Match(
		[]string{"Python", "React", "Docker"},
		[]string{"python", "AWS", "React", "Kubernetes"},
		"5+ years",
		"senior",
	)

	assert.InDelta(t, 50.0, result.Score, 1e-9)
	assert.Equal(t, []string{"React", "python"}, result.MatchedSkills)
	assert.Equal(t, []string{"AWS", "Kubernetes"}, result.MissingSkills)
	assert.True(t, result.ExperienceFit)
}

func TestMatchEmptyJobSkills(t *testing.T) {
	result := Match([]string{"Python"}, nil, "3+ years", "mid")

	assert.Equal(t, 0.0, result.Score)
	assert.Empty(t, result.MatchedSkills)
	assert.Empty(t, result.MissingSkills)
	assert.True(t, result.ExperienceFit)
}

func TestMatchDeduplicatesJobSkills(t *testing.T) {
	result := Match(
		[]string{"Python"},
		[]string{"Python", "python", "PYTHON", "Go"},
		"",
		"",
	)

	// 职位侧重复技能只计一次，分母为去重后的数量
	assert.InDelta(t, 50.0, result.Score, 1e-9)
	assert.Equal(t, []string{"Python"}, result.MatchedSkills)
	assert.Equal(t, []string{"Go"}, result.MissingSkills)
}

func TestExperienceFit(t *testing.T) {
	cases := []struct {
		name       string
		experience string
		level      string
		want       bool
	}{
		{"入门级无门槛", "", "entry", true},
		{"中级要求2年", "3+ years", "mid", true},
		{"高级要求5年不达标", "3+ years", "senior", false},
		{"高级达标", "8+ years", "Senior", true},
		{"lead要求8年", "7+ years", "lead", false},
		{"未知级别不设门槛", "", "architect", true},
		{"年限无法解析只过入门级", "unknown", "junior", true},
		{"年限无法解析且非入门级", "unknown", "senior", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, experienceFit(tc.experience, tc.level))
		})
	}
}
