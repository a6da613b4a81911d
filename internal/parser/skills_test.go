package parser

import (
	"testing"

	"ats-agent-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSkillsFromSection(t *testing.T) {
	matcher := newSkillMatcher(DefaultSkillTaxonomy())

	text := "Jane Doe\n\nSkills: Python, React, AWS\n\nWorked on various projects."
	skills := matcher.extractSkills(text, nil)

	// 区块条目按子串匹配，"React" 连带命中单字母技能 R 和 C
	assert.Equal(t, []string{"AWS", "C", "Python", "R", "React"}, skills)
}

func TestExtractSkillsSectionSubstringContainment(t *testing.T) {
	matcher := newSkillMatcher(DefaultSkillTaxonomy())

	skills := matcher.extractSkills("Skills: Django, JavaScript", nil)

	// 区块内条目是包含匹配而非词边界："Django" 命中 Go，"JavaScript" 命中 Java
	assert.Contains(t, skills, "Django")
	assert.Contains(t, skills, "JavaScript")
	assert.Contains(t, skills, "Go")
	assert.Contains(t, skills, "Java")
}

func TestExtractSkillsFullTextWordBoundary(t *testing.T) {
	matcher := newSkillMatcher(DefaultSkillTaxonomy())

	// "JavaScript" 不应连带命中 "Java"，"React" 不应连带命中 "R"
	skills := matcher.extractSkills("Built frontends with JavaScript and React", nil)

	assert.Contains(t, skills, "JavaScript")
	assert.Contains(t, skills, "React")
	assert.NotContains(t, skills, "Java")
	assert.NotContains(t, skills, "R")
}

func TestExtractSkillsCaseInsensitive(t *testing.T) {
	matcher := newSkillMatcher(DefaultSkillTaxonomy())

	skills := matcher.extractSkills("experienced with python and KUBERNETES", nil)

	// 返回的是分类表里的规范名
	assert.Contains(t, skills, "Python")
	assert.Contains(t, skills, "Kubernetes")
}

func TestExtractSkillsWithNLPEntities(t *testing.T) {
	matcher := newSkillMatcher(DefaultSkillTaxonomy())

	entities := []types.Entity{
		{Text: "tensorflow", Label: "PRODUCT"},
		{Text: "Acme Corp", Label: "ORG"},
		{Text: "Jane Doe", Label: "PERSON"},
	}
	skills := matcher.extractSkills("did machine learning work", entities)

	// 实体与技能名等值比对命中TensorFlow；非技能实体与PERSON实体被忽略
	assert.Equal(t, []string{"TensorFlow"}, skills)
}

func TestExtractSkillsEmptyText(t *testing.T) {
	matcher := newSkillMatcher(DefaultSkillTaxonomy())

	skills := matcher.extractSkills("nothing relevant here", nil)
	require.NotNil(t, skills)
	assert.Empty(t, skills)
}

func TestFlattenTaxonomyDeduplicates(t *testing.T) {
	taxonomy := map[string][]string{
		"a": {"Python", "Go"},
		"b": {"Python", "Rust"},
	}
	all := FlattenTaxonomy(taxonomy)
	assert.Equal(t, []string{"Go", "Python", "Rust"}, all)
}
