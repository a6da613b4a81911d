package handler

import (
	"context"
	"fmt"
	"time"

	"ats-agent-go/internal/constants"
	"ats-agent-go/internal/storage"
	"ats-agent-go/internal/storage/models"
	"ats-agent-go/pkg/utils"

	"github.com/gofrs/uuid/v5"
)

// InterviewHandler 面试安排
type InterviewHandler struct {
	storage *storage.Storage
}

func NewInterviewHandler(storage *storage.Storage) *InterviewHandler {
	return &InterviewHandler{storage: storage}
}

// ScheduleInterviewRequest 预约面试请求体
type ScheduleInterviewRequest struct {
	CandidateID   string `json:"candidate_id"`
	JobID         string `json:"job_id"`
	InterviewerID string `json:"interviewer_id"`
	ScheduledAt   string `json:"scheduled_at"` // RFC3339
	DurationMins  int    `json:"duration_mins"`
	Round         string `json:"round"`
	Notes         string `json:"notes"`
}

// ScheduleInterview 预约面试，先校验候选人和岗位都存在
func (h *InterviewHandler) ScheduleInterview(ctx context.Context, req *ScheduleInterviewRequest) (*models.Interview, error) {
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return nil, fmt.Errorf("scheduled_at 时间格式无效，需要RFC3339: %w", err)
	}

	if _, err := h.storage.MySQL.GetCandidateByID(ctx, req.CandidateID); err != nil {
		return nil, fmt.Errorf("候选人 %s 不存在: %w", req.CandidateID, err)
	}
	if _, err := h.storage.MySQL.GetJobByID(ctx, req.JobID); err != nil {
		return nil, fmt.Errorf("岗位 %s 不存在: %w", req.JobID, err)
	}

	interviewUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成面试ID失败: %w", err)
	}

	durationMins := req.DurationMins
	if durationMins <= 0 {
		durationMins = 60
	}

	interview := &models.Interview{
		InterviewID:   interviewUUID.String(),
		CandidateID:   req.CandidateID,
		JobID:         req.JobID,
		InterviewerID: utils.StringPtrOrNil(req.InterviewerID),
		ScheduledAt:   scheduledAt,
		DurationMins:  durationMins,
		Round:         req.Round,
		Status:        constants.InterviewStatusScheduled,
		Notes:         req.Notes,
	}
	if err := h.storage.MySQL.CreateInterview(ctx, interview); err != nil {
		return nil, fmt.Errorf("创建面试安排失败: %w", err)
	}
	return interview, nil
}

// UpdateStatus 更新面试状态，取消面试即置为 CANCELLED
func (h *InterviewHandler) UpdateStatus(ctx context.Context, interviewID, status string) error {
	switch status {
	case constants.InterviewStatusScheduled,
		constants.InterviewStatusCompleted,
		constants.InterviewStatusCancelled:
	default:
		return fmt.Errorf("无效的面试状态: %s", status)
	}
	return h.storage.MySQL.UpdateInterviewStatus(ctx, interviewID, status)
}

// ListInterviews 读取面试列表，candidateID为空返回全部
func (h *InterviewHandler) ListInterviews(ctx context.Context, candidateID string) ([]models.Interview, error) {
	return h.storage.MySQL.ListInterviews(ctx, candidateID)
}
