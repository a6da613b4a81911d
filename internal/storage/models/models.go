package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Candidate 候选人主表
// 解析流水线产出的结构化字段直接落在这里，技能和工作经历存JSON列
type Candidate struct {
	CandidateID       string         `gorm:"type:char(36);primaryKey"`
	PrimaryName       string         `gorm:"type:varchar(255)"`
	PrimaryPhone      string         `gorm:"type:varchar(50);uniqueIndex:idx_candidates_primary_phone_unique"`
	PrimaryEmail      string         `gorm:"type:varchar(255);uniqueIndex:idx_candidates_primary_email_unique"`
	SkillsJSON        datatypes.JSON `gorm:"type:json"`
	Experience        string         `gorm:"type:varchar(100)"`
	Education         string         `gorm:"type:text"`
	WorkHistoryJSON   datatypes.JSON `gorm:"type:json"`
	CurrentLocation   string         `gorm:"type:varchar(255)"`
	SalaryExpectation string         `gorm:"type:varchar(100)"`
	ConfidenceJSON    datatypes.JSON `gorm:"type:json"`
	Status            string         `gorm:"type:varchar(50);default:'Applied';index:idx_candidates_status"`
	CreatedAt         time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt         time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Candidate) TableName() string {
	return "candidates"
}

// Job 岗位信息表
type Job struct {
	JobID              string         `gorm:"type:char(36);primaryKey"`
	JobTitle           string         `gorm:"type:varchar(255);not null"`
	Department         string         `gorm:"type:varchar(255)"`
	Location           string         `gorm:"type:varchar(255)"`
	JobDescriptionText string         `gorm:"type:text;not null"`
	SkillsJSON         datatypes.JSON `gorm:"type:json"`
	ExperienceLevel    string         `gorm:"type:varchar(50)"`
	Status             string         `gorm:"type:varchar(50);default:'ACTIVE';index:idx_jobs_status"`
	CreatedByUserID    string         `gorm:"type:char(36)"`
	CreatedAt          time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt          time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Job) TableName() string {
	return "jobs"
}

// ResumeSubmission 简历提交/快照表
type ResumeSubmission struct {
	SubmissionUUID      string     `gorm:"type:char(36);primaryKey"`
	CandidateID         *string    `gorm:"type:char(36);index:idx_rs_candidate_id"`
	SubmissionTimestamp time.Time  `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_rs_submission_timestamp"`
	SourceChannel       string     `gorm:"type:varchar(100)"`
	TargetJobID         *string    `gorm:"type:char(36);index:idx_rs_target_job_id"`
	OriginalFilename    string     `gorm:"type:varchar(255)"`
	OriginalFilePathOSS string     `gorm:"type:varchar(1024)"`
	ParsedTextPathOSS   string     `gorm:"type:varchar(1024)"`
	RawFileMD5          string     `gorm:"type:char(32);index:idx_rs_raw_file_md5"`
	RawTextMD5          string     `gorm:"type:char(32);index:idx_rs_raw_text_md5"`
	ProcessingStatus    string     `gorm:"type:varchar(50);default:'PENDING_PARSING';index:idx_rs_processing_status"`
	ParserVersion       string     `gorm:"type:varchar(50)"`
	CreatedAt           time.Time  `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt           time.Time  `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	Candidate *Candidate `gorm:"foreignKey:CandidateID;references:CandidateID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Job       *Job       `gorm:"foreignKey:TargetJobID;references:JobID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (ResumeSubmission) TableName() string {
	return "resume_submissions"
}

// JobCandidateMatch 岗位-候选人匹配评估表
type JobCandidateMatch struct {
	MatchID           uint64         `gorm:"primaryKey;autoIncrement"`
	CandidateID       string         `gorm:"type:char(36);not null;index:idx_jcm_candidate_id;uniqueIndex:idx_jcm_candidate_job_unique,priority:1"`
	JobID             string         `gorm:"type:char(36);not null;index:idx_jcm_job_id_score,priority:1;uniqueIndex:idx_jcm_candidate_job_unique,priority:2"`
	MatchScore        float64        `gorm:"type:float;index:idx_jcm_job_id_score,priority:2"`
	MatchedSkillsJSON datatypes.JSON `gorm:"type:json"`
	MissingSkillsJSON datatypes.JSON `gorm:"type:json"`
	ExperienceFit     bool           `gorm:"default:false"`
	CalculatedAt      time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`

	Candidate *Candidate `gorm:"foreignKey:CandidateID;references:CandidateID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Job       *Job       `gorm:"foreignKey:JobID;references:JobID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (JobCandidateMatch) TableName() string {
	return "job_candidate_matches"
}

// Interview 面试安排表
type Interview struct {
	InterviewID   string     `gorm:"type:char(36);primaryKey"`
	CandidateID   string     `gorm:"type:char(36);not null;index:idx_iv_candidate_id"`
	JobID         string     `gorm:"type:char(36);not null;index:idx_iv_job_id"`
	InterviewerID *string    `gorm:"type:char(36)"`
	ScheduledAt   time.Time  `gorm:"type:datetime(6);not null;index:idx_iv_scheduled_at"`
	DurationMins  int        `gorm:"default:60"`
	Round         string     `gorm:"type:varchar(100)"`
	Status        string     `gorm:"type:varchar(50);default:'SCHEDULED';index:idx_iv_status"`
	Notes         string     `gorm:"type:text"`
	CreatedAt     time.Time  `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt     time.Time  `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	Candidate *Candidate `gorm:"foreignKey:CandidateID;references:CandidateID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Job       *Job       `gorm:"foreignKey:JobID;references:JobID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Interview) TableName() string {
	return "interviews"
}

// StringToJSON Helper function to convert string to datatypes.JSON
func StringToJSON(s string) datatypes.JSON {
	return datatypes.JSON(s)
}

// MapToJSON Helper function to convert map to datatypes.JSON
func MapToJSON(m map[string]interface{}) (datatypes.JSON, error) {
	bytes, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}

// SliceToJSON Helper function to convert a slice to datatypes.JSON
func SliceToJSON(v interface{}) (datatypes.JSON, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}

// JSONToStringSlice 反序列化JSON列为字符串切片，空列返回空切片
func JSONToStringSlice(j datatypes.JSON) []string {
	if len(j) == 0 {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal(j, &out); err != nil {
		return []string{}
	}
	return out
}
