package parser

import (
	"regexp"
	"sort"
	"strings"

	"ats-agent-go/internal/types"
)

// 技能区块标题及其后续内容，区块在空行或下一个大写开头的行处截断
var skillsSectionPattern = regexp.MustCompile(
	`(?i)(?:technical\s+skills?|skills?|technologies?|competencies?)\s*:?\s*([\s\S]*?)(?:\n\s*\n|\n[A-Z]|$)`,
)

// 技能区块内的常见分隔符
var skillDelimiterPattern = regexp.MustCompile(`[,;|•\n\-]+`)

// skillMatcher 基于分类表的技能匹配器
// 编译好的词边界模式按技能名缓存，匹配结果统一用规范名
type skillMatcher struct {
	allSkills []string
	patterns  map[string]*regexp.Regexp
}

func newSkillMatcher(taxonomy map[string][]string) *skillMatcher {
	all := FlattenTaxonomy(taxonomy)
	patterns := make(map[string]*regexp.Regexp, len(all))
	for _, skill := range all {
		patterns[skill] = regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(skill)) + `\b`)
	}
	return &skillMatcher{allSkills: all, patterns: patterns}
}

// extractSkills 三路提取：全文词边界匹配、技能区块逐项匹配、NLP实体比对
// 三路结果取并集，返回排序后的规范技能名
func (m *skillMatcher) extractSkills(text string, entities []types.Entity) []string {
	found := make(map[string]struct{})
	textLower := strings.ToLower(text)

	for _, skill := range m.allSkills {
		if m.patterns[skill].MatchString(textLower) {
			found[skill] = struct{}{}
		}
	}

	if match := skillsSectionPattern.FindStringSubmatch(text); match != nil {
		for _, candidate := range skillDelimiterPattern.Split(match[1], -1) {
			candidate = strings.TrimSpace(candidate)
			if candidate == "" || len(candidate) > 30 {
				continue
			}
			// 区块内条目按子串包含匹配，比全文的词边界匹配更宽松
			candidateLower := strings.ToLower(candidate)
			for _, skill := range m.allSkills {
				if strings.Contains(candidateLower, strings.ToLower(skill)) {
					found[skill] = struct{}{}
				}
			}
		}
	}

	// NLP识别出的机构/产品实体与技能名做等值比对
	for _, ent := range entities {
		if ent.Label != "ORG" && ent.Label != "PRODUCT" {
			continue
		}
		if len(ent.Text) >= 30 {
			continue
		}
		entLower := strings.ToLower(ent.Text)
		for _, skill := range m.allSkills {
			if strings.ToLower(skill) == entLower {
				found[skill] = struct{}{}
			}
		}
	}

	result := make([]string, 0, len(found))
	for skill := range found {
		result = append(result, skill)
	}
	sort.Strings(result)
	return result
}
