// Package matching 实现候选人技能与职位要求的匹配打分
package matching

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"ats-agent-go/internal/types"
)

// 职位级别对应的最低年限要求
var levelMinYears = map[string]int{
	"entry":  0,
	"junior": 0,
	"mid":    2,
	"middle": 2,
	"senior": 5,
	"lead":   8,
	"staff":  8,
}

var yearsPattern = regexp.MustCompile(`(\d+)`)

// Match 计算候选人技能与职位要求技能的匹配结果
// 分数 = 命中的职位技能数 / 职位技能总数 * 100，比对不区分大小写
// 返回的命中与缺失列表使用职位侧的原始写法，且均已排序
func Match(candidateSkills, jobSkills []string, candidateExperience, jobLevel string) types.SkillMatchResult {
	result := types.SkillMatchResult{
		MatchedSkills: []string{},
		MissingSkills: []string{},
	}

	if len(jobSkills) == 0 {
		result.ExperienceFit = experienceFit(candidateExperience, jobLevel)
		return result
	}

	candidateSet := make(map[string]struct{}, len(candidateSkills))
	for _, s := range candidateSkills {
		candidateSet[strings.ToLower(s)] = struct{}{}
	}

	// 职位技能去重后再统计，避免重复技能虚增分母
	seen := make(map[string]struct{}, len(jobSkills))
	for _, s := range jobSkills {
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := candidateSet[key]; ok {
			result.MatchedSkills = append(result.MatchedSkills, s)
		} else {
			result.MissingSkills = append(result.MissingSkills, s)
		}
	}

	result.Score = float64(len(result.MatchedSkills)) / float64(len(seen)) * 100
	result.ExperienceFit = experienceFit(candidateExperience, jobLevel)

	sort.Strings(result.MatchedSkills)
	sort.Strings(result.MissingSkills)
	return result
}

// experienceFit 判断候选人年限是否达到职位级别的最低要求
// 候选人年限解析不出来时，只有入门级职位算达标
func experienceFit(candidateExperience, jobLevel string) bool {
	required, ok := levelMinYears[strings.ToLower(strings.TrimSpace(jobLevel))]
	if !ok {
		// 未知级别不设门槛
		return true
	}

	m := yearsPattern.FindStringSubmatch(candidateExperience)
	if m == nil {
		return required == 0
	}
	years, err := strconv.Atoi(m[1])
	if err != nil {
		return required == 0
	}
	return years >= required
}
