package parser

import (
	"regexp"
	"strings"

	"ats-agent-go/internal/constants"
	"ats-agent-go/internal/types"
)

// 工作经历区块，延伸到下一个已知区块标题或文本末尾
var experienceSectionPattern = regexp.MustCompile(
	`(?i)(?:professional\s+experience|work\s+experience|experience|employment)\s*:?\s*([\s\S]*?)(?:\n\s*(?:education|skills|projects|certifications)|$)`,
)

// 职位行的三种形式：
//   Title | Company | Dates
//   Title, Company Dates
//   Title at Company Dates
var jobHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^([^|]+)\|\s*([^|]+?)\|?\s*(\d{4}\s*-\s*\d{4}|\d{4}\s*-\s*Present)?\s*$`),
	regexp.MustCompile(`^([^,]+),\s*([^,]+?)\s*(\d{4}\s*-\s*\d{4}|\d{4}\s*-\s*Present)?\s*$`),
	regexp.MustCompile(`^((?:[A-Z][a-z]*\s*)+)\s*(?:at|@)\s*([^\d]*?)\s*(\d{4}\s*-\s*\d{4}|\d{4}\s*-\s*Present)?\s*$`),
}

// extractWorkHistory 从工作经历区块解析职位条目
// 职位行之间的项目符号行或较长的叙述行收进当前职位的描述
func extractWorkHistory(text string) []types.JobEntry {
	var history []types.JobEntry

	sectionMatch := experienceSectionPattern.FindStringSubmatch(text)
	if sectionMatch == nil {
		return history
	}

	var current *types.JobEntry
	var descriptions []string

	flush := func() {
		if current == nil {
			return
		}
		if len(descriptions) > 0 {
			limit := len(descriptions)
			if limit > constants.MaxJobDescriptionLines {
				limit = constants.MaxJobDescriptionLines
			}
			current.Description = append([]string(nil), descriptions[:limit]...)
		}
		history = append(history, *current)
		current = nil
		descriptions = nil
	}

	for _, line := range strings.Split(sectionMatch[1], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		matched := false
		for _, pattern := range jobHeaderPatterns {
			m := pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			flush()
			current = &types.JobEntry{
				Title:   strings.TrimSpace(m[1]),
				Company: strings.TrimSpace(m[2]),
				Dates:   strings.TrimSpace(m[3]),
			}
			matched = true
			break
		}
		if matched {
			continue
		}

		if current == nil || len(descriptions) >= 5 {
			continue
		}
		switch {
		case strings.HasPrefix(line, "•"), strings.HasPrefix(line, "-"), strings.HasPrefix(line, "*"):
			r := []rune(line)
			descriptions = append(descriptions, strings.TrimSpace(string(r[1:])))
		case len(line) > 20:
			descriptions = append(descriptions, line)
		}
	}
	flush()

	if len(history) > constants.MaxWorkHistoryEntries {
		history = history[:constants.MaxWorkHistoryEntries]
	}
	return history
}
