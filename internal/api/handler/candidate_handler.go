package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"ats-agent-go/internal/storage"
	"ats-agent-go/internal/storage/models"
	"ats-agent-go/internal/types"
)

// CandidateHandler 候选人查询与状态流转
type CandidateHandler struct {
	storage *storage.Storage
}

func NewCandidateHandler(storage *storage.Storage) *CandidateHandler {
	return &CandidateHandler{storage: storage}
}

// ListCandidates 分页读取候选人列表，status/skill为空表示不过滤
func (h *CandidateHandler) ListCandidates(ctx context.Context, status, skill string, page, pageSize int) (*types.PaginatedCandidates, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	candidates, total, err := h.storage.MySQL.ListCandidates(ctx, status, skill, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("查询候选人列表失败: %w", err)
	}

	summaries := make([]types.CandidateSummary, 0, len(candidates))
	for i := range candidates {
		summaries = append(summaries, candidateToSummary(&candidates[i]))
	}

	return &types.PaginatedCandidates{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		Candidates: summaries,
	}, nil
}

// GetCandidate 按ID读取候选人完整记录
func (h *CandidateHandler) GetCandidate(ctx context.Context, candidateID string) (*models.Candidate, error) {
	return h.storage.MySQL.GetCandidateByID(ctx, candidateID)
}

// UpdateStatus 更新候选人状态，记录不存在时返回gorm.ErrRecordNotFound
func (h *CandidateHandler) UpdateStatus(ctx context.Context, candidateID, status string) error {
	return h.storage.MySQL.UpdateCandidateStatus(ctx, candidateID, status)
}

func candidateToSummary(c *models.Candidate) types.CandidateSummary {
	summary := types.CandidateSummary{
		CandidateID: c.CandidateID,
		Name:        c.PrimaryName,
		Email:       c.PrimaryEmail,
		Location:    c.CurrentLocation,
		Skills:      models.JSONToStringSlice(c.SkillsJSON),
		Experience:  c.Experience,
		Status:      c.Status,
	}

	if len(c.ConfidenceJSON) > 0 {
		var scores map[string]float64
		if err := json.Unmarshal(c.ConfidenceJSON, &scores); err == nil {
			summary.OverallConfidence = scores[types.ScoreOverall]
		}
	}
	return summary
}
