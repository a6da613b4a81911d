package router

import (
	"context"
	"errors"
	"strconv"

	"ats-agent-go/internal/api/handler"
	"ats-agent-go/internal/config"
	"ats-agent-go/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// Handlers 路由层依赖的全部处理器
type Handlers struct {
	Resume    *handler.ResumeHandler
	Candidate *handler.CandidateHandler
	Job       *handler.JobHandler
	Interview *handler.InterviewHandler
	Match     *handler.MatchHandler
	Dashboard *handler.DashboardHandler
}

// RegisterRoutes 注册 API 路由
// 写操作（建岗位、改状态、约面试）走管理端鉴权，读操作和上传开放
func RegisterRoutes(h *server.Hertz, cfg *config.Config, handlers *Handlers) {
	api := h.Group("/api/v1")

	api.POST("/resumes/upload", func(c context.Context, ctx *app.RequestContext) {
		// 获取上传的文件
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}

		targetJobID := ctx.PostForm("target_job_id")
		sourceChannel := ctx.PostForm("source_channel")
		if sourceChannel == "" {
			sourceChannel = "web_upload" // 默认值
		}

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		resp, err := handlers.Resume.HandleResumeUpload(
			c,
			file,
			fileHeader.Size,
			fileHeader.Filename,
			targetJobID,
			sourceChannel,
		)
		if err != nil {
			tracing.RecordHTTPError(trace.SpanFromContext(c), err, consts.StatusInternalServerError)
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}

		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/resumes/:submission_uuid", func(c context.Context, ctx *app.RequestContext) {
		status, err := handlers.Resume.GetSubmissionStatus(c, ctx.Param("submission_uuid"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "提交记录不存在"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, status)
	})

	api.GET("/candidates", func(c context.Context, ctx *app.RequestContext) {
		page, _ := strconv.Atoi(ctx.Query("page"))
		pageSize, _ := strconv.Atoi(ctx.Query("page_size"))
		result, err := handlers.Candidate.ListCandidates(c, ctx.Query("status"), ctx.Query("skill"), page, pageSize)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, result)
	})

	api.GET("/candidates/:candidate_id", func(c context.Context, ctx *app.RequestContext) {
		candidate, err := handlers.Candidate.GetCandidate(c, ctx.Param("candidate_id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "候选人不存在"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, candidate)
	})

	api.GET("/jobs", func(c context.Context, ctx *app.RequestContext) {
		jobs, err := handlers.Job.ListJobs(c, ctx.Query("status"))
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"jobs": jobs})
	})

	api.GET("/jobs/:job_id", func(c context.Context, ctx *app.RequestContext) {
		job, err := handlers.Job.GetJob(c, ctx.Param("job_id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "岗位不存在"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, job)
	})

	api.GET("/interviews", func(c context.Context, ctx *app.RequestContext) {
		interviews, err := handlers.Interview.ListInterviews(c, ctx.Query("candidate_id"))
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"interviews": interviews})
	})

	api.GET("/analytics/dashboard", func(c context.Context, ctx *app.RequestContext) {
		analytics, err := handlers.Dashboard.GetAnalytics(c)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, analytics)
	})

	// 管理端路由，X-Admin-API-Key 鉴权
	admin := api.Group("")
	admin.Use(keyauth.New(
		keyauth.WithKeyLookUp("header:X-Admin-API-Key", ""),
		keyauth.WithValidator(func(c context.Context, ctx *app.RequestContext, key string) (bool, error) {
			return cfg.Server.AdminAPIKey != "" && key == cfg.Server.AdminAPIKey, nil
		}),
	))

	admin.POST("/jobs", func(c context.Context, ctx *app.RequestContext) {
		var req handler.CreateJobRequest
		if err := ctx.BindJSON(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式无效"})
			return
		}
		job, err := handlers.Job.CreateJob(c, &req)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, job)
	})

	admin.PUT("/candidates/:candidate_id/status", func(c context.Context, ctx *app.RequestContext) {
		var req struct {
			Status string `json:"status"`
		}
		if err := ctx.BindJSON(&req); err != nil || req.Status == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "status 不能为空"})
			return
		}
		if err := handlers.Candidate.UpdateStatus(c, ctx.Param("candidate_id"), req.Status); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "候选人不存在"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"candidate_id": ctx.Param("candidate_id"), "status": req.Status})
	})

	admin.POST("/interviews", func(c context.Context, ctx *app.RequestContext) {
		var req handler.ScheduleInterviewRequest
		if err := ctx.BindJSON(&req); err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "请求体格式无效"})
			return
		}
		interview, err := handlers.Interview.ScheduleInterview(c, &req)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": err.Error()})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, interview)
	})

	admin.GET("/resumes/:submission_uuid/download", func(c context.Context, ctx *app.RequestContext) {
		url, err := handlers.Resume.GetOriginalFileURL(c, ctx.Param("submission_uuid"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "提交记录不存在"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"url": url})
	})

	admin.GET("/resumes/:submission_uuid/text", func(c context.Context, ctx *app.RequestContext) {
		text, err := handlers.Resume.GetParsedText(c, ctx.Param("submission_uuid"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "提交记录不存在"})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{
			"submission_uuid": ctx.Param("submission_uuid"),
			"text":            text,
		})
	})

	admin.PUT("/interviews/:interview_id/status", func(c context.Context, ctx *app.RequestContext) {
		var req struct {
			Status string `json:"status"`
		}
		if err := ctx.BindJSON(&req); err != nil || req.Status == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "status 不能为空"})
			return
		}
		if err := handlers.Interview.UpdateStatus(c, ctx.Param("interview_id"), req.Status); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "面试记录不存在"})
				return
			}
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"interview_id": ctx.Param("interview_id"), "status": req.Status})
	})

	admin.POST("/skill-match", func(c context.Context, ctx *app.RequestContext) {
		var req struct {
			CandidateID string `json:"candidate_id"`
			JobID       string `json:"job_id"`
		}
		if err := ctx.BindJSON(&req); err != nil || req.CandidateID == "" || req.JobID == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "candidate_id 和 job_id 不能为空"})
			return
		}
		result, err := handlers.Match.EvaluateMatch(c, req.CandidateID, req.JobID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": err.Error()})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, result)
	})

	// 添加健康检查
	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}
