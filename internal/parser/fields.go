package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"ats-agent-go/internal/constants"
)

// 姓名匹配模式：独立成行的全名、"Name:" 标注、带中间名缩写的形式
// 只扫描文本前10行
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*([A-Z][a-z]+(?:\s+[A-Z][a-z']+){1,2})\s*$`),
	regexp.MustCompile(`Name:\s*([A-Z][a-z]+(?:\s+[A-Z][a-z']+){0,2})`),
	regexp.MustCompile(`^\s*([A-Z][a-z]+(?:\s+[A-Z]\.?\s*[A-Z][a-z]+))\s*$`),
}

// 简历头部常见的非姓名词，命中则跳过该行
var nameSkipWords = []string{"resume", "cv", "curriculum", "vitae", "professional", "summary", "objective"}

// extractName 从文本头部提取候选人姓名
func extractName(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) < 3 || len(line) > 50 {
			continue
		}

		lineLower := strings.ToLower(line)
		skip := false
		for _, word := range nameSkipWords {
			if strings.Contains(lineLower, word) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		for _, pattern := range namePatterns {
			match := pattern.FindStringSubmatch(line)
			if match == nil {
				continue
			}
			potential := strings.TrimSpace(match[1])
			words := strings.Fields(potential)
			if len(words) < 1 || len(words) > 3 {
				continue
			}
			if looksLikeName(words) {
				return potential
			}
		}
	}

	return ""
}

// looksLikeName 校验每个词首字母大写、其余小写（单字符词不参与校验）
func looksLikeName(words []string) bool {
	for _, word := range words {
		runes := []rune(word)
		if len(runes) <= 1 {
			continue
		}
		if !unicode.IsUpper(runes[0]) {
			return false
		}
		if !isLowerTail(string(runes[1:])) {
			return false
		}
	}
	return true
}

// isLowerTail 要求至少包含一个小写字母且不含大写字母
func isLowerTail(s string) bool {
	hasLower := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			return false
		}
		if unicode.IsLower(r) {
			hasLower = true
		}
	}
	return hasLower
}

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

// extractEmail 提取邮箱地址，过滤占位域名，返回首个有效邮箱的小写形式
func extractEmail(text string, denylist []string) string {
	matches := emailPattern.FindAllString(text, -1)
	for _, email := range matches {
		emailLower := strings.ToLower(email)
		denied := false
		for _, domain := range denylist {
			if strings.Contains(emailLower, domain) {
				denied = true
				break
			}
		}
		if !denied {
			return emailLower
		}
	}
	return ""
}

// 电话匹配模式：国际格式、美式格式、以及带标签的形式
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+?\d{1,3}[-\s]?\(?\d{3}\)?[-\s]?\d{3}[-\s]?\d{4}`),
	regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
	regexp.MustCompile(`(?i)Phone:?\s*([\d\s\-()+.]+)`),
	regexp.MustCompile(`(?i)Mobile:?\s*([\d\s\-()+.]+)`),
	regexp.MustCompile(`(?i)Tel:?\s*([\d\s\-()+.]+)`),
}

var nonPhoneChars = regexp.MustCompile(`[^\d+]`)

// extractPhone 提取电话号码
// 校验规则：去掉格式字符后纯数字长度在10到15位之间，返回原始匹配文本
func extractPhone(text string) string {
	for _, pattern := range phonePatterns {
		matches := pattern.FindAllStringSubmatch(text, -1)
		for _, m := range matches {
			candidate := m[0]
			if len(m) > 1 {
				candidate = m[1]
			}
			digits := nonPhoneChars.ReplaceAllString(candidate, "")
			digitCount := len(strings.ReplaceAll(digits, "+", ""))
			if digitCount >= 10 && digitCount <= 15 {
				return strings.TrimSpace(candidate)
			}
		}
	}
	return ""
}

// 经验年限的直接表述
var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s+(?:of\s+)?experience`),
	regexp.MustCompile(`(?i)experience:?\s*(\d+)\+?\s*years?`),
	regexp.MustCompile(`(?i)(\d+)\+?\s*yrs?\s+(?:of\s+)?experience`),
	regexp.MustCompile(`(?i)over\s+(\d+)\s+years?`),
	regexp.MustCompile(`(?i)more\s+than\s+(\d+)\s+years?`),
}

var yearMentionPattern = regexp.MustCompile(`\b(19\d{2}|20[0-3]\d)\b`)

// extractExperience 提取工作年限
// 优先匹配 "N years experience" 类直接表述，否则从年份跨度推算
func extractExperience(text string, now time.Time) string {
	for _, pattern := range experiencePatterns {
		match := pattern.FindStringSubmatch(text)
		if match != nil {
			years, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}
			return fmt.Sprintf("%d+ years", years)
		}
	}
	return experienceFromYearSpan(text, now)
}

// experienceFromYearSpan 用文中最早和最晚年份的跨度估算经验年限
// 结束年份不超过当前年份，跨度超出 (0, 50] 视为噪声
func experienceFromYearSpan(text string, now time.Time) string {
	years := yearMentionPattern.FindAllString(text, -1)
	if len(years) < 2 {
		return ""
	}

	minYear, maxYear := 10000, 0
	for _, y := range years {
		n, err := strconv.Atoi(y)
		if err != nil {
			continue
		}
		if n < minYear {
			minYear = n
		}
		if n > maxYear {
			maxYear = n
		}
	}

	endYear := maxYear
	if currentYear := now.Year(); endYear > currentYear {
		endYear = currentYear
	}

	span := endYear - minYear
	if span > 0 && span <= 50 {
		return fmt.Sprintf("%d+ years", span)
	}
	return ""
}

// 学历与院校匹配模式
var educationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(Bachelor[\s']?s?(?:\s+of\s+[\w\s]+)?|B\.?[AS]\.?(?:\s+[\w\s]+)?)`),
	regexp.MustCompile(`(?i)(Master[\s']?s?(?:\s+of\s+[\w\s]+)?|M\.?[AS]\.?(?:\s+[\w\s]+)?)`),
	regexp.MustCompile(`(?i)(PhD|Ph\.?D\.?|Doctor(?:ate)?(?:\s+of\s+[\w\s]+)?)`),
	regexp.MustCompile(`(?i)(Associate[\s']?s?(?:\s+[\w\s]+)?)`),
	regexp.MustCompile(`(?i)(Certificate(?:\s+[\w\s]+)?)`),
	regexp.MustCompile(`(?i)(Diploma(?:\s+[\w\s]+)?)`),
}

var universityPattern = regexp.MustCompile(`(?i)(\b(?:University|College|Institute|School)(?:\s+of\s+[\w\s]+)?)\b`)

// extractEducation 提取教育背景，学位在前、院校在后，最多保留3项
func extractEducation(text string) string {
	var items []string

	for _, pattern := range educationPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			items = append(items, m[1])
		}
	}

	universities := universityPattern.FindAllStringSubmatch(text, -1)
	for i, m := range universities {
		if i >= 2 {
			break
		}
		items = append(items, m[1])
	}

	if len(items) == 0 {
		return ""
	}
	if len(items) > constants.MaxEducationItems {
		items = items[:constants.MaxEducationItems]
	}
	return strings.Join(items, "; ")
}

// 地址匹配模式：带标签的地址、"City, ST" 形式、以及常见地区名结尾的形式
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Location:?\s*([A-Za-z\s,]+(?:,\s*[A-Z]{2})?)`),
	regexp.MustCompile(`(?i)Address:?\s*([A-Za-z\s,]+(?:,\s*[A-Z]{2})?)`),
	regexp.MustCompile(`(?i)([A-Za-z\s]+,\s*[A-Z]{2})(?:\s|$)`),
	regexp.MustCompile(`(?i)([A-Za-z\s]+,\s*(?:California|New York|Texas|Florida|India|Canada|UK|USA))\b`),
}

var multiSpacePattern = regexp.MustCompile(`\s+`)

// extractLocation 提取所在地
func extractLocation(text string) string {
	for _, pattern := range locationPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		location := strings.TrimSpace(match[1])
		location = multiSpacePattern.ReplaceAllString(location, " ")
		if len(location) > 3 && len(location) < 100 {
			return location
		}
	}
	return ""
}

// 薪资期望匹配模式
var salaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Salary:?\s*\$?([\d,]+(?:\.\d+)?(?:k|K)?)`),
	regexp.MustCompile(`(?i)Expected\s+Salary:?\s*\$?([\d,]+(?:\.\d+)?(?:k|K)?)`),
	regexp.MustCompile(`(?i)Compensation:?\s*\$?([\d,]+(?:\.\d+)?(?:k|K)?)`),
	regexp.MustCompile(`(?i)\$([\d,]+(?:\.\d+)?(?:k|K)?)\s*(?:per\s+year|annually|yearly)?`),
}

// extractSalaryExpectation 提取薪资期望，返回不带货币符号的数字文本
func extractSalaryExpectation(text string) string {
	for _, pattern := range salaryPatterns {
		match := pattern.FindStringSubmatch(text)
		if match != nil {
			return match[1]
		}
	}
	return ""
}
