package handler

import (
	"context"
	"fmt"
	"strings"

	"ats-agent-go/internal/storage"
	"ats-agent-go/internal/storage/models"

	"github.com/gofrs/uuid/v5"
)

// JobHandler 岗位管理
type JobHandler struct {
	storage *storage.Storage
}

func NewJobHandler(storage *storage.Storage) *JobHandler {
	return &JobHandler{storage: storage}
}

// CreateJobRequest 创建岗位请求体
type CreateJobRequest struct {
	JobTitle           string   `json:"job_title"`
	Department         string   `json:"department"`
	Location           string   `json:"location"`
	JobDescriptionText string   `json:"job_description_text"`
	RequiredSkills     []string `json:"required_skills"`
	ExperienceLevel    string   `json:"experience_level"`
	CreatedByUserID    string   `json:"created_by_user_id"`
}

// CreateJob 创建岗位，返回生成的JobID
func (h *JobHandler) CreateJob(ctx context.Context, req *CreateJobRequest) (*models.Job, error) {
	if strings.TrimSpace(req.JobTitle) == "" {
		return nil, fmt.Errorf("岗位名称不能为空")
	}
	if strings.TrimSpace(req.JobDescriptionText) == "" {
		return nil, fmt.Errorf("岗位描述不能为空")
	}

	jobUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成岗位ID失败: %w", err)
	}

	skillsJSON, err := models.SliceToJSON(req.RequiredSkills)
	if err != nil {
		return nil, fmt.Errorf("序列化岗位技能失败: %w", err)
	}

	job := &models.Job{
		JobID:              jobUUID.String(),
		JobTitle:           strings.TrimSpace(req.JobTitle),
		Department:         req.Department,
		Location:           req.Location,
		JobDescriptionText: req.JobDescriptionText,
		SkillsJSON:         skillsJSON,
		ExperienceLevel:    req.ExperienceLevel,
		Status:             "ACTIVE",
		CreatedByUserID:    req.CreatedByUserID,
	}
	if err := h.storage.MySQL.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("创建岗位失败: %w", err)
	}
	return job, nil
}

// GetJob 按ID读取岗位
func (h *JobHandler) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	return h.storage.MySQL.GetJobByID(ctx, jobID)
}

// ListJobs 读取岗位列表，status为空返回全部
func (h *JobHandler) ListJobs(ctx context.Context, status string) ([]models.Job, error) {
	return h.storage.MySQL.ListJobs(ctx, status)
}
