package parser

import (
	"strings"

	"ats-agent-go/internal/types"
)

// calculateConfidenceScores 按提取结果打置信分
// 分值是固定档位而不是概率：命中即给高分，未命中给低分或零分
// overall 取六个字段分的算术平均
func calculateConfidenceScores(profile *types.ParsedProfile) map[string]float64 {
	scores := make(map[string]float64, 7)

	switch {
	case profile.Name != "" && len(strings.Fields(profile.Name)) >= 2:
		scores[types.ScoreName] = 0.9
	case profile.Name != "":
		scores[types.ScoreName] = 0.6
	default:
		scores[types.ScoreName] = 0.1
	}

	if profile.Email != "" {
		scores[types.ScoreEmail] = 0.95
	} else {
		scores[types.ScoreEmail] = 0.0
	}

	if profile.Phone != "" {
		scores[types.ScorePhone] = 0.85
	} else {
		scores[types.ScorePhone] = 0.0
	}

	switch {
	case len(profile.Skills) >= 5:
		scores[types.ScoreSkills] = 0.9
	case len(profile.Skills) >= 3:
		scores[types.ScoreSkills] = 0.7
	case len(profile.Skills) >= 1:
		scores[types.ScoreSkills] = 0.5
	default:
		scores[types.ScoreSkills] = 0.1
	}

	if profile.Experience != "" {
		scores[types.ScoreExperience] = 0.8
	} else {
		scores[types.ScoreExperience] = 0.3
	}

	if profile.Education != "" {
		scores[types.ScoreEducation] = 0.8
	} else {
		scores[types.ScoreEducation] = 0.2
	}

	sum := 0.0
	for _, v := range scores {
		sum += v
	}
	scores[types.ScoreOverall] = sum / float64(len(scores))

	return scores
}
