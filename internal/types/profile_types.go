package types

// JobEntry 工作经历条目
type JobEntry struct {
	Title       string   `json:"title"`                 // 职位名称
	Company     string   `json:"company"`               // 公司名称
	Dates       string   `json:"dates"`                 // 原始日期字符串，可能为空
	Description []string `json:"description,omitempty"` // 描述行，最多3条
}

// ParsedProfile 简历解析结果，是整条流水线的唯一输出。
// 一旦装配完成即不再修改，直接交给存储层和HTTP层消费。
type ParsedProfile struct {
	Name              string             `json:"name,omitempty"`               // 候选人姓名，1-3个首字母大写的词
	Email             string             `json:"email,omitempty"`              // 邮箱，小写
	Phone             string             `json:"phone,omitempty"`              // 电话，保留原始匹配文本
	Skills            []string           `json:"skills"`                       // 技能集合，只包含技能分类表中的规范名称
	Experience        string             `json:"experience,omitempty"`         // 工作年限，格式 "N+ years"
	Education         string             `json:"education,omitempty"`          // 教育信息，最多3项以 "; " 连接
	WorkHistory       []JobEntry         `json:"work_history"`                 // 工作经历，最多5条，按文中出现顺序
	Location          string             `json:"location,omitempty"`           // 所在地，4-99字符
	SalaryExpectation string             `json:"salary_expectation,omitempty"` // 期望薪资，原始数字token
	RawText           string             `json:"raw_text"`                     // 提取文本截断后的前缀，仅用于审计
	ConfidenceScores  map[string]float64 `json:"confidence_scores"`            // 各字段置信度，含 "overall"
}

// 置信度map中的字段键名
const (
	ScoreName       = "name"
	ScoreEmail      = "email"
	ScorePhone      = "phone"
	ScoreSkills     = "skills"
	ScoreExperience = "experience"
	ScoreEducation  = "education"
	ScoreOverall    = "overall"
)

// EmptyProfile 返回规范的空结果：所有可选字段缺失，所有置信度严格为0。
// 文本不可读或解析过程整体失败时使用。
func EmptyProfile() *ParsedProfile {
	return &ParsedProfile{
		Skills:      []string{},
		WorkHistory: []JobEntry{},
		ConfidenceScores: map[string]float64{
			ScoreName:       0.0,
			ScoreEmail:      0.0,
			ScorePhone:      0.0,
			ScoreSkills:     0.0,
			ScoreExperience: 0.0,
			ScoreEducation:  0.0,
			ScoreOverall:    0.0,
		},
	}
}

// Entity NLP实体标注结果，(文本, 类型) 二元组
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"` // 例如 ORG, PRODUCT, PERSON
}

// SkillMatchResult 候选人与岗位的技能匹配结果
type SkillMatchResult struct {
	Score         float64  `json:"score"`          // 匹配分数 (0-100)
	MatchedSkills []string `json:"matched_skills"` // 命中的技能
	MissingSkills []string `json:"missing_skills"` // 岗位要求但候选人缺少的技能
	ExperienceFit bool     `json:"experience_fit"` // 工作年限是否满足岗位级别
}

// PaginatedCandidates 候选人分页响应
type PaginatedCandidates struct {
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	Candidates []CandidateSummary `json:"candidates"`
}

// CandidateSummary 候选人列表项
type CandidateSummary struct {
	CandidateID       string   `json:"candidate_id"`
	Name              string   `json:"name"`
	Email             string   `json:"email,omitempty"`
	Location          string   `json:"location,omitempty"`
	Skills            []string `json:"skills"`
	Experience        string   `json:"experience,omitempty"`
	Status            string   `json:"status"`
	OverallConfidence float64  `json:"overall_confidence"`
}

// DashboardAnalytics 仪表盘聚合指标
type DashboardAnalytics struct {
	TotalCandidates     int64            `json:"total_candidates"`
	TotalJobs           int64            `json:"total_jobs"`
	TotalInterviews     int64            `json:"total_interviews"`
	CandidatesByStatus  map[string]int64 `json:"candidates_by_status"`
	InterviewsByStatus  map[string]int64 `json:"interviews_by_status"`
	AverageMatchScore   float64          `json:"average_match_score"`
	RecentSubmissions7d int64            `json:"recent_submissions_7d"`
}
