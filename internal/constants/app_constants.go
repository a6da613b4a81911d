package constants

import "time"

const (
	// DefaultParserVersion 当前解析流水线版本号，写入 resume_submissions.parser_version
	DefaultParserVersion = "heuristic-v1"

	// RawTextLimit 存入候选人记录的原始文本前缀上限（字节），仅用于审计
	RawTextLimit = 2000

	// MaxWorkHistoryEntries 工作经历最多保留条数
	MaxWorkHistoryEntries = 5
	// MaxJobDescriptionLines 每条工作经历最多保留的描述行数
	MaxJobDescriptionLines = 3
	// MaxEducationItems 教育信息最多保留项数
	MaxEducationItems = 3

	// 简历提交处理状态
	StatusPendingParsing   = "PENDING_PARSING"
	StatusParsingCompleted = "PARSING_COMPLETED"
	StatusParsingFailed    = "PARSING_FAILED"
	StatusDuplicateSkipped = "DUPLICATE_FILE_SKIPPED"

	// 候选人状态
	CandidateStatusApplied     = "Applied"
	CandidateStatusScreening   = "Screening"
	CandidateStatusInterviewed = "Interviewed"
	CandidateStatusRejected    = "Rejected"
	CandidateStatusHired       = "Hired"

	// 面试状态
	InterviewStatusScheduled = "SCHEDULED"
	InterviewStatusCompleted = "COMPLETED"
	InterviewStatusCancelled = "CANCELLED"

	// DashboardCacheTTL 仪表盘聚合结果的Redis缓存时长
	DashboardCacheTTL = 5 * time.Minute

	// PresignedURLExpiry 原始文件预签名下载URL的有效期
	PresignedURLExpiry = 15 * time.Minute
)
