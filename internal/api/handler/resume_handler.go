package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ats-agent-go/internal/config"
	"ats-agent-go/internal/constants"
	"ats-agent-go/internal/logger"
	"ats-agent-go/internal/parser"
	"ats-agent-go/internal/storage"
	"ats-agent-go/internal/storage/models"
	"ats-agent-go/internal/types"
	"ats-agent-go/pkg/utils"

	"github.com/gofrs/uuid/v5"
)

// ResumeHandler 简历处理器，负责协调上传入口和解析消费者
type ResumeHandler struct {
	cfg     *config.Config
	storage *storage.Storage
	parser  *parser.ProfileParser
}

// NewResumeHandler 创建简历处理器
func NewResumeHandler(cfg *config.Config, storage *storage.Storage, profileParser *parser.ProfileParser) *ResumeHandler {
	return &ResumeHandler{
		cfg:     cfg,
		storage: storage,
		parser:  profileParser,
	}
}

// ResumeUploadResponse 简历上传响应
type ResumeUploadResponse struct {
	SubmissionUUID string `json:"submission_uuid"`
	Status         string `json:"status"`
}

// HandleResumeUpload 处理简历上传请求
// 去重 -> 上传MinIO -> 发布解析事件，解析本身由消费者异步完成
func (h *ResumeHandler) HandleResumeUpload(ctx context.Context, reader io.Reader, fileSize int64,
	filename string, targetJobID string, sourceChannel string) (*ResumeUploadResponse, error) {

	ext := strings.ToLower(filepath.Ext(filename))
	if !h.extensionAllowed(ext) {
		return nil, fmt.Errorf("不支持的文件类型: %s", ext)
	}
	if maxBytes := int64(h.cfg.Upload.MaxFileSizeMB) * 1024 * 1024; fileSize > maxBytes {
		return nil, fmt.Errorf("文件大小 %d 超过上限 %d 字节", fileSize, maxBytes)
	}

	// reader只能读一次，先落到内存再算MD5
	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}
	fileMD5Hex := utils.CalculateMD5(fileBytes)

	exists, err := h.storage.Redis.CheckAndAddRawFileMD5(ctx, fileMD5Hex)
	if err != nil {
		logger.Error().Err(err).Str("md5", fileMD5Hex).Msg("文件MD5去重检查失败")
		return nil, fmt.Errorf("检查文件MD5重复性时Redis查询失败: %w", err)
	}
	if exists {
		logger.Info().Str("md5", fileMD5Hex).Str("filename", filename).Msg("检测到重复的文件MD5，跳过处理")
		return &ResumeUploadResponse{
			SubmissionUUID: "",
			Status:         "DUPLICATE_FILE_SKIPPED",
		}, nil
	}

	uuidV7, err := uuid.NewV7()
	if err != nil {
		h.rollbackFileMD5(ctx, fileMD5Hex)
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	submissionUUID := uuidV7.String()

	originalObjectKey, err := h.storage.MinIO.UploadResumeFile(ctx, submissionUUID, ext,
		bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		h.rollbackFileMD5(ctx, fileMD5Hex)
		return nil, fmt.Errorf("上传简历到MinIO失败: %w", err)
	}

	message := storage.ResumeUploadMessage{
		SubmissionUUID:      submissionUUID,
		OriginalFilePathOSS: originalObjectKey,
		OriginalFilename:    filename,
		TargetJobID:         targetJobID,
		SourceChannel:       sourceChannel,
		RawFileMD5:          fileMD5Hex,
		SubmissionTimestamp: time.Now().Format(time.RFC3339Nano),
	}

	err = h.storage.RabbitMQ.PublishJSON(
		ctx,
		h.cfg.RabbitMQ.ResumeEventsExchange,
		h.cfg.RabbitMQ.UploadedRoutingKey,
		message,
		true,
	)
	if err != nil {
		h.rollbackUploadedFile(ctx, originalObjectKey)
		h.rollbackFileMD5(ctx, fileMD5Hex)
		return nil, fmt.Errorf("发布消息到RabbitMQ失败: %w", err)
	}

	return &ResumeUploadResponse{
		SubmissionUUID: submissionUUID,
		Status:         "SUBMITTED_FOR_PROCESSING",
	}, nil
}

// rollbackFileMD5 上传流程失败时把MD5移出去重集合，给重试留机会
func (h *ResumeHandler) rollbackFileMD5(ctx context.Context, md5Hex string) {
	if err := h.storage.Redis.RemoveRawFileMD5(ctx, md5Hex); err != nil {
		logger.Warn().Err(err).Str("md5", md5Hex).Msg("回滚文件MD5去重记录失败")
	}
}

// rollbackUploadedFile 事件发布失败时删除已上传的原始文件，不留孤儿对象
func (h *ResumeHandler) rollbackUploadedFile(ctx context.Context, objectKey string) {
	if err := h.storage.MinIO.DeleteResumeFile(ctx, objectKey); err != nil {
		logger.Warn().Err(err).Str("object_key", objectKey).Msg("回滚已上传的原始文件失败")
	}
}

// SubmissionStatusResponse 提交记录处理进度查询响应
type SubmissionStatusResponse struct {
	SubmissionUUID   string  `json:"submission_uuid"`
	ProcessingStatus string  `json:"processing_status"`
	OriginalFilename string  `json:"original_filename"`
	SourceChannel    string  `json:"source_channel"`
	CandidateID      *string `json:"candidate_id,omitempty"`
	TargetJobID      *string `json:"target_job_id,omitempty"`
	SubmittedAt      string  `json:"submitted_at"`
}

// GetSubmissionStatus 查询提交记录的处理进度
func (h *ResumeHandler) GetSubmissionStatus(ctx context.Context, submissionUUID string) (*SubmissionStatusResponse, error) {
	submission, err := h.storage.MySQL.GetResumeSubmission(ctx, submissionUUID)
	if err != nil {
		return nil, err
	}
	return submissionToStatus(submission), nil
}

func submissionToStatus(submission *models.ResumeSubmission) *SubmissionStatusResponse {
	return &SubmissionStatusResponse{
		SubmissionUUID:   submission.SubmissionUUID,
		ProcessingStatus: submission.ProcessingStatus,
		OriginalFilename: submission.OriginalFilename,
		SourceChannel:    submission.SourceChannel,
		CandidateID:      submission.CandidateID,
		TargetJobID:      submission.TargetJobID,
		SubmittedAt:      submission.SubmissionTimestamp.Format(time.RFC3339),
	}
}

// GetOriginalFileURL 生成原始简历文件的预签名下载URL
func (h *ResumeHandler) GetOriginalFileURL(ctx context.Context, submissionUUID string) (string, error) {
	submission, err := h.storage.MySQL.GetResumeSubmission(ctx, submissionUUID)
	if err != nil {
		return "", err
	}
	return h.storage.MinIO.GetPresignedURL(ctx, submission.OriginalFilePathOSS, constants.PresignedURLExpiry)
}

// GetParsedText 读取解析后的纯文本，解析未完成时返回错误
func (h *ResumeHandler) GetParsedText(ctx context.Context, submissionUUID string) (string, error) {
	submission, err := h.storage.MySQL.GetResumeSubmission(ctx, submissionUUID)
	if err != nil {
		return "", err
	}
	if submission.ParsedTextPathOSS == "" {
		return "", fmt.Errorf("提交 %s 尚无解析文本", submissionUUID)
	}
	return h.storage.MinIO.GetParsedText(ctx, submission.ParsedTextPathOSS)
}

func (h *ResumeHandler) extensionAllowed(ext string) bool {
	for _, allowed := range h.cfg.Upload.AllowedExtensions {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}

// StartParseConsumer 启动解析消费者，返回的channel关闭后消费者退出
// 收到上传事件后下载原始文件、跑字段提取流水线、落库候选人画像
func (h *ResumeHandler) StartParseConsumer(ctx context.Context) (chan<- struct{}, error) {
	if err := h.storage.RabbitMQ.EnsureExchange(h.cfg.RabbitMQ.ResumeEventsExchange, "direct", true); err != nil {
		return nil, fmt.Errorf("确保交换机存在失败: %w", err)
	}
	if err := h.storage.RabbitMQ.EnsureQueue(h.cfg.RabbitMQ.RawResumeQueue, true); err != nil {
		return nil, fmt.Errorf("确保队列存在失败: %w", err)
	}
	if err := h.storage.RabbitMQ.BindQueue(
		h.cfg.RabbitMQ.RawResumeQueue,
		h.cfg.RabbitMQ.ResumeEventsExchange,
		h.cfg.RabbitMQ.UploadedRoutingKey,
	); err != nil {
		return nil, fmt.Errorf("绑定队列失败: %w", err)
	}

	stop, err := h.storage.RabbitMQ.StartConsumer(h.cfg.RabbitMQ.RawResumeQueue, h.cfg.RabbitMQ.PrefetchCount, func(data []byte) bool {
		var message storage.ResumeUploadMessage
		if err := json.Unmarshal(data, &message); err != nil {
			logger.Error().Err(err).Msg("解析上传事件消息失败")
			// 消息体坏了，重投也没用
			return true
		}
		return h.handleParseMessage(ctx, message)
	})
	if err != nil {
		return nil, fmt.Errorf("启动消费者失败: %w", err)
	}

	logger.Info().
		Str("queue", h.cfg.RabbitMQ.RawResumeQueue).
		Int("prefetch", h.cfg.RabbitMQ.PrefetchCount).
		Msg("简历解析消费者就绪")
	return stop, nil
}

// handleParseMessage 处理单条上传事件，返回是否Ack
func (h *ResumeHandler) handleParseMessage(ctx context.Context, message storage.ResumeUploadMessage) bool {
	submissionTime, err := time.Parse(time.RFC3339Nano, message.SubmissionTimestamp)
	if err != nil {
		submissionTime = time.Now()
	}

	submission := &models.ResumeSubmission{
		SubmissionUUID:      message.SubmissionUUID,
		OriginalFilePathOSS: message.OriginalFilePathOSS,
		OriginalFilename:    message.OriginalFilename,
		TargetJobID:         utils.StringPtrOrNil(message.TargetJobID),
		SourceChannel:       message.SourceChannel,
		RawFileMD5:          message.RawFileMD5,
		SubmissionTimestamp: submissionTime,
		ProcessingStatus:    constants.StatusPendingParsing,
		ParserVersion:       constants.DefaultParserVersion,
	}
	if err := h.storage.MySQL.CreateResumeSubmission(ctx, submission); err != nil {
		logger.Error().Err(err).Str("submission_uuid", message.SubmissionUUID).Msg("插入简历提交记录失败")
		return false
	}

	if err := h.parseAndPersist(ctx, message); err != nil {
		logger.Error().Err(err).Str("submission_uuid", message.SubmissionUUID).Msg("解析简历失败")
		if statusErr := h.storage.MySQL.UpdateSubmissionStatus(ctx, message.SubmissionUUID, constants.StatusParsingFailed); statusErr != nil {
			logger.Error().Err(statusErr).Str("submission_uuid", message.SubmissionUUID).Msg("更新简历状态为失败态时出错")
		}
		return false
	}
	return true
}

// parseAndPersist 解析流水线主体：下载 -> 提取 -> 文本去重 -> 落库
func (h *ResumeHandler) parseAndPersist(ctx context.Context, message storage.ResumeUploadMessage) error {
	fileBytes, err := h.storage.MinIO.GetResumeFile(ctx, message.OriginalFilePathOSS)
	if err != nil {
		return fmt.Errorf("从MinIO下载原始文件失败: %w", err)
	}

	// 文本提取按文件路径分发，先落临时文件
	tmpFile, err := os.CreateTemp("", "resume-*"+filepath.Ext(message.OriginalFilename))
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(fileBytes); err != nil {
		tmpFile.Close()
		return fmt.Errorf("写入临时文件失败: %w", err)
	}
	tmpFile.Close()

	profile := h.parser.ParseFile(ctx, tmpPath)

	// 空画像说明文本提取失败或内容为空，标记失败便于人工介入
	if profile.RawText == "" {
		return fmt.Errorf("文件 %s 未提取出文本", message.OriginalFilename)
	}

	// 解析文本去重：同一份内容换个文件名再投也会被拦下
	textMD5 := utils.CalculateMD5([]byte(profile.RawText))
	textDup, err := h.storage.Redis.CheckAndAddParsedTextMD5(ctx, textMD5)
	if err != nil {
		logger.Warn().Err(err).Str("submission_uuid", message.SubmissionUUID).Msg("解析文本MD5去重检查失败，继续处理")
	} else if textDup {
		logger.Info().Str("submission_uuid", message.SubmissionUUID).Msg("解析文本命中去重集合，跳过候选人落库")
		return h.storage.MySQL.UpdateSubmissionFields(ctx, message.SubmissionUUID, map[string]interface{}{
			"raw_text_md5":      textMD5,
			"processing_status": constants.StatusDuplicateSkipped,
		})
	}

	parsedTextKey, err := h.storage.MinIO.UploadParsedText(ctx, message.SubmissionUUID, profile.RawText)
	if err != nil {
		return fmt.Errorf("上传解析文本到MinIO失败: %w", err)
	}

	updates := map[string]interface{}{
		"parsed_text_path_oss": parsedTextKey,
		"raw_text_md5":         textMD5,
		"processing_status":    constants.StatusParsingCompleted,
	}

	// 邮箱和电话都没有时无法归并候选人，提交记录仍标记完成
	if profile.Email != "" || profile.Phone != "" {
		candidate, err := h.buildCandidate(profile)
		if err != nil {
			return err
		}
		saved, err := h.storage.MySQL.UpsertCandidate(ctx, candidate)
		if err != nil {
			return fmt.Errorf("落库候选人失败: %w", err)
		}
		updates["candidate_id"] = saved.CandidateID
	} else {
		logger.Warn().Str("submission_uuid", message.SubmissionUUID).Msg("简历缺少邮箱和电话，跳过候选人归并")
	}

	if err := h.storage.MySQL.UpdateSubmissionFields(ctx, message.SubmissionUUID, updates); err != nil {
		return fmt.Errorf("更新简历提交记录失败: %w", err)
	}

	logger.Info().
		Str("submission_uuid", message.SubmissionUUID).
		Float64("overall_confidence", profile.ConfidenceScores[types.ScoreOverall]).
		Msg("简历解析完成")
	return nil
}

// buildCandidate 把解析画像转换成候选人记录
func (h *ResumeHandler) buildCandidate(profile *types.ParsedProfile) (*models.Candidate, error) {
	skillsJSON, err := models.SliceToJSON(profile.Skills)
	if err != nil {
		return nil, fmt.Errorf("序列化技能列表失败: %w", err)
	}
	workHistoryJSON, err := models.SliceToJSON(profile.WorkHistory)
	if err != nil {
		return nil, fmt.Errorf("序列化工作经历失败: %w", err)
	}
	confidenceJSON, err := models.MapToJSON(floatMapToInterface(profile.ConfidenceScores))
	if err != nil {
		return nil, fmt.Errorf("序列化置信分失败: %w", err)
	}

	return &models.Candidate{
		PrimaryName:       profile.Name,
		PrimaryEmail:      profile.Email,
		PrimaryPhone:      profile.Phone,
		SkillsJSON:        skillsJSON,
		Experience:        profile.Experience,
		Education:         profile.Education,
		WorkHistoryJSON:   workHistoryJSON,
		CurrentLocation:   profile.Location,
		SalaryExpectation: profile.SalaryExpectation,
		ConfidenceJSON:    confidenceJSON,
		Status:            constants.CandidateStatusApplied,
	}, nil
}

func floatMapToInterface(in map[string]float64) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
