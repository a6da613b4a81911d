package handler

import (
	"context"
	"fmt"
	"time"

	"ats-agent-go/internal/matching"
	"ats-agent-go/internal/storage"
	"ats-agent-go/internal/storage/models"
	"ats-agent-go/internal/types"
)

// MatchHandler 候选人与岗位的技能匹配评估
type MatchHandler struct {
	storage *storage.Storage
}

func NewMatchHandler(storage *storage.Storage) *MatchHandler {
	return &MatchHandler{storage: storage}
}

// EvaluateMatch 计算候选人对指定岗位的匹配结果并持久化
func (h *MatchHandler) EvaluateMatch(ctx context.Context, candidateID, jobID string) (*types.SkillMatchResult, error) {
	candidate, err := h.storage.MySQL.GetCandidateByID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("候选人 %s 不存在: %w", candidateID, err)
	}
	job, err := h.storage.MySQL.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("岗位 %s 不存在: %w", jobID, err)
	}

	result := matching.Match(
		models.JSONToStringSlice(candidate.SkillsJSON),
		models.JSONToStringSlice(job.SkillsJSON),
		candidate.Experience,
		job.ExperienceLevel,
	)

	matchedJSON, err := models.SliceToJSON(result.MatchedSkills)
	if err != nil {
		return nil, fmt.Errorf("序列化命中技能失败: %w", err)
	}
	missingJSON, err := models.SliceToJSON(result.MissingSkills)
	if err != nil {
		return nil, fmt.Errorf("序列化缺失技能失败: %w", err)
	}

	match := &models.JobCandidateMatch{
		CandidateID:       candidateID,
		JobID:             jobID,
		MatchScore:        result.Score,
		MatchedSkillsJSON: matchedJSON,
		MissingSkillsJSON: missingJSON,
		ExperienceFit:     result.ExperienceFit,
		CalculatedAt:      time.Now(),
	}
	if err := h.storage.MySQL.SaveMatch(ctx, match); err != nil {
		return nil, fmt.Errorf("保存匹配结果失败: %w", err)
	}

	return &result, nil
}
