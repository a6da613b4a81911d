package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"ats-agent-go/internal/logger"
	"ats-agent-go/internal/storage"
	"ats-agent-go/internal/types"
)

// DashboardHandler 仪表盘聚合指标，结果带Redis短缓存
type DashboardHandler struct {
	storage *storage.Storage
}

func NewDashboardHandler(storage *storage.Storage) *DashboardHandler {
	return &DashboardHandler{storage: storage}
}

// GetAnalytics 读取仪表盘指标，优先命中缓存
func (h *DashboardHandler) GetAnalytics(ctx context.Context) (*types.DashboardAnalytics, error) {
	cached, err := h.storage.Redis.GetDashboardCache(ctx)
	if err == nil && cached != "" {
		var analytics types.DashboardAnalytics
		if err := json.Unmarshal([]byte(cached), &analytics); err == nil {
			return &analytics, nil
		}
		logger.Warn().Err(err).Msg("仪表盘缓存内容损坏，回源重算")
	} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Warn().Err(err).Msg("读取仪表盘缓存失败，回源重算")
	}

	analytics, err := h.computeAnalytics(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(analytics); err == nil {
		if err := h.storage.Redis.SetDashboardCache(ctx, string(payload)); err != nil {
			logger.Warn().Err(err).Msg("写入仪表盘缓存失败")
		}
	}
	return analytics, nil
}

func (h *DashboardHandler) computeAnalytics(ctx context.Context) (*types.DashboardAnalytics, error) {
	candidatesByStatus, err := h.storage.MySQL.CountCandidatesByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计候选人状态分布失败: %w", err)
	}
	var totalCandidates int64
	for _, count := range candidatesByStatus {
		totalCandidates += count
	}

	totalJobs, err := h.storage.MySQL.CountJobs(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("统计岗位总数失败: %w", err)
	}

	totalInterviews, err := h.storage.MySQL.CountInterviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计面试总数失败: %w", err)
	}
	interviewsByStatus, err := h.storage.MySQL.CountInterviewsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计面试状态分布失败: %w", err)
	}

	avgScore, err := h.storage.MySQL.AverageMatchScore(ctx)
	if err != nil {
		return nil, fmt.Errorf("计算平均匹配分失败: %w", err)
	}

	recent, err := h.storage.MySQL.CountRecentSubmissions(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("统计近7日简历提交失败: %w", err)
	}

	return &types.DashboardAnalytics{
		TotalCandidates:     totalCandidates,
		TotalJobs:           totalJobs,
		TotalInterviews:     totalInterviews,
		CandidatesByStatus:  candidatesByStatus,
		InterviewsByStatus:  interviewsByStatus,
		AverageMatchScore:   math.Round(avgScore*10) / 10,
		RecentSubmissions7d: recent,
	}, nil
}
