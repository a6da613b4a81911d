package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ats-agent-go/internal/config"
	"ats-agent-go/internal/storage/models"
	"ats-agent-go/internal/tracing"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

var mysqlTracer = otel.Tracer("ats-agent-go/storage/mysql")

// GormTracingPlugin GORM插件，为数据库操作添加OpenTelemetry追踪点
type GormTracingPlugin struct {
	tracer         trace.Tracer
	dbName         string
	disableErrSkip bool
}

// NewGormTracingPlugin 创建GORM追踪插件
func NewGormTracingPlugin(dbName string) *GormTracingPlugin {
	return &GormTracingPlugin{
		tracer:         mysqlTracer,
		dbName:         dbName,
		disableErrSkip: true,
	}
}

// Name 返回插件名称
func (p *GormTracingPlugin) Name() string {
	return "GormOpenTelemetryPlugin"
}

// Initialize 为各类CRUD操作注册Before/After回调
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	registrations := []struct {
		before    func(name string, fn func(*gorm.DB)) error
		after     func(name string, fn func(*gorm.DB)) error
		gormName  string
		operation string
	}{
		{cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register, "create", "CREATE"},
		{cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register, "query", "SELECT"},
		{cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register, "update", "UPDATE"},
		{cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register, "delete", "DELETE"},
		{cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register, "row", "ROW"},
		{cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register, "raw", "RAW"},
	}

	for _, r := range registrations {
		if err := r.before("otel:before_"+r.gormName, p.before(r.operation)); err != nil {
			return err
		}
		if err := r.after("otel:after_"+r.gormName, p.after()); err != nil {
			return err
		}
	}
	return nil
}

// before 在GORM操作前开启span并存入语句上下文
func (p *GormTracingPlugin) before(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		if p.disableErrSkip && db.Statement.SkipHooks {
			return
		}

		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		tableName := db.Statement.Table
		if tableName == "" {
			tableName = "unknown"
		}

		spanName := fmt.Sprintf("%s %s", operation, tableName)
		opts := []trace.SpanStartOption{
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemMySQL,
				attribute.String("db.name", p.dbName),
				attribute.String("db.operation", operation),
				attribute.String("db.sql.table", tableName),
			),
		}

		if sqlStatement := db.Statement.SQL.String(); sqlStatement != "" {
			opts = append(opts, trace.WithAttributes(
				attribute.String("db.statement", tracing.SafeSQL(sqlStatement)),
			))
		}

		newCtx, span := p.tracer.Start(ctx, spanName, opts...)
		db.Statement.Context = context.WithValue(newCtx, "otel-span", span)
	}
}

// after 在GORM操作后结束span并记录结果
// gorm.ErrRecordNotFound 属于业务正常分支，不当作错误上报
func (p *GormTracingPlugin) after() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		span, ok := db.Statement.Context.Value("otel-span").(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))

		if db.Error != nil {
			if errors.Is(db.Error, gorm.ErrRecordNotFound) {
				span.SetAttributes(attribute.String("error.type", "record_not_found"))
				span.SetStatus(codes.Ok, "record not found")
			} else {
				tracing.RecordError(span, db.Error, tracing.ErrorTypeDB)
			}
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}
}

// MySQL 提供关系数据库功能
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 创建MySQL客户端并完成结构迁移
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		cfg.ConnectTimeoutSeconds, cfg.ReadTimeoutSeconds, cfg.WriteTimeoutSeconds)

	var logLevel gormlogger.LogLevel
	switch cfg.LogLevel {
	case 1:
		logLevel = gormlogger.Silent
	case 2:
		logLevel = gormlogger.Error
	case 3:
		logLevel = gormlogger.Warn
	default:
		logLevel = gormlogger.Info
	}

	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(logLevel),
		PrepareStmt:                              true,
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute)

	m := &MySQL{db: db, cfg: cfg}

	if err := db.Use(NewGormTracingPlugin(cfg.Database)); err != nil {
		return nil, fmt.Errorf("注册追踪插件失败: %w", err)
	}

	if err := m.autoMigrateSchema(); err != nil {
		if underlying, _ := db.DB(); underlying != nil {
			underlying.Close()
		}
		return nil, fmt.Errorf("自动迁移数据库结构失败: %w", err)
	}

	return m, nil
}

// autoMigrateSchema 静默迁移表结构，避免迁移SQL刷屏
func (m *MySQL) autoMigrateSchema() error {
	silentLogger := gormlogger.New(
		log.New(log.Writer(), "", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Silent,
			IgnoreRecordNotFoundError: true,
		},
	)

	silentDB := m.db.Session(&gorm.Session{Logger: silentLogger})
	if err := silentDB.AutoMigrate(
		&models.Candidate{},
		&models.Job{},
		&models.ResumeSubmission{},
		&models.JobCandidateMatch{},
		&models.Interview{},
	); err != nil {
		return fmt.Errorf("GORM自动迁移失败: %w", err)
	}
	return nil
}

// DB 返回GORM数据库连接实例
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close 关闭数据库连接
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	return sqlDB.Close()
}

// CreateResumeSubmission 写入简历提交记录，主键冲突时幂等跳过
func (m *MySQL) CreateResumeSubmission(ctx context.Context, submission *models.ResumeSubmission) error {
	return m.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "submission_uuid"}},
			DoUpdates: clause.AssignmentColumns([]string{"submission_uuid"}),
		}).Create(submission).Error
}

// GetResumeSubmission 读取简历提交记录
func (m *MySQL) GetResumeSubmission(ctx context.Context, submissionUUID string) (*models.ResumeSubmission, error) {
	var submission models.ResumeSubmission
	if err := m.db.WithContext(ctx).Where("submission_uuid = ?", submissionUUID).First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// UpdateSubmissionStatus 更新简历处理状态
func (m *MySQL) UpdateSubmissionStatus(ctx context.Context, submissionUUID string, status string) error {
	return m.db.WithContext(ctx).Model(&models.ResumeSubmission{}).
		Where("submission_uuid = ?", submissionUUID).
		Update("processing_status", status).Error
}

// UpdateSubmissionFields 更新简历提交记录的多个字段
func (m *MySQL) UpdateSubmissionFields(ctx context.Context, submissionUUID string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return m.db.WithContext(ctx).Model(&models.ResumeSubmission{}).
		Where("submission_uuid = ?", submissionUUID).
		Updates(updates).Error
}

// UpsertCandidate 按邮箱或电话查找候选人，找到则更新画像字段，找不到则新建
// 事务内执行，保证查找和写入的原子性
func (m *MySQL) UpsertCandidate(ctx context.Context, candidate *models.Candidate) (*models.Candidate, error) {
	ctx, span := mysqlTracer.Start(ctx, "MySQL.UpsertCandidate", trace.WithAttributes(
		attribute.String("candidate.email",
			tracing.SafeAttributeValue("candidate.email", candidate.PrimaryEmail, tracing.DefaultMaxLength)),
	))
	defer span.End()

	if candidate.PrimaryEmail == "" && candidate.PrimaryPhone == "" {
		err := fmt.Errorf("邮箱和电话至少需要一个")
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}

	var result *models.Candidate
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Candidate

		query := tx.Model(&models.Candidate{})
		switch {
		case candidate.PrimaryEmail != "" && candidate.PrimaryPhone != "":
			query = query.Where("primary_email = ?", candidate.PrimaryEmail).
				Or("primary_phone = ?", candidate.PrimaryPhone)
		case candidate.PrimaryEmail != "":
			query = query.Where("primary_email = ?", candidate.PrimaryEmail)
		default:
			query = query.Where("primary_phone = ?", candidate.PrimaryPhone)
		}

		err := query.First(&existing).Error
		if err == nil {
			updates := map[string]interface{}{
				"primary_name":       candidate.PrimaryName,
				"skills_json":        candidate.SkillsJSON,
				"experience":         candidate.Experience,
				"education":          candidate.Education,
				"work_history_json":  candidate.WorkHistoryJSON,
				"current_location":   candidate.CurrentLocation,
				"salary_expectation": candidate.SalaryExpectation,
				"confidence_json":    candidate.ConfidenceJSON,
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return fmt.Errorf("更新候选人失败: %w", err)
			}
			span.SetAttributes(attribute.Bool("candidate.found", true))
			result = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("查询候选人失败: %w", err)
		}

		span.SetAttributes(attribute.Bool("candidate.found", false))
		newUUID, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("生成UUIDv7失败: %w", err)
		}
		candidate.CandidateID = newUUID.String()
		if err := tx.Create(candidate).Error; err != nil {
			return fmt.Errorf("创建新候选人失败: %w", err)
		}
		result = candidate
		return nil
	})
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return nil, err
	}

	span.SetAttributes(attribute.String("candidate.id", result.CandidateID))
	return result, nil
}

// GetCandidateByID 读取候选人
func (m *MySQL) GetCandidateByID(ctx context.Context, candidateID string) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := m.db.WithContext(ctx).Where("candidate_id = ?", candidateID).First(&candidate).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

// ListCandidates 分页读取候选人，按创建时间倒序
// skill 非空时按技能 JSON 数组做成员过滤
func (m *MySQL) ListCandidates(ctx context.Context, status, skill string, offset, limit int) ([]models.Candidate, int64, error) {
	query := m.db.WithContext(ctx).Model(&models.Candidate{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if skill != "" {
		query = query.Where("JSON_CONTAINS(skills_json, ?)", fmt.Sprintf("%q", skill))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var candidates []models.Candidate
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&candidates).Error; err != nil {
		return nil, 0, err
	}
	return candidates, total, nil
}

// UpdateCandidateStatus 更新候选人招聘流程状态
func (m *MySQL) UpdateCandidateStatus(ctx context.Context, candidateID string, status string) error {
	result := m.db.WithContext(ctx).Model(&models.Candidate{}).
		Where("candidate_id = ?", candidateID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountCandidatesByStatus 按状态统计候选人数量
func (m *MySQL) CountCandidatesByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := m.db.WithContext(ctx).Model(&models.Candidate{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(rows))
	for _, row := range rows {
		stats[row.Status] = row.Count
	}
	return stats, nil
}

// CreateJob 创建岗位
func (m *MySQL) CreateJob(ctx context.Context, job *models.Job) error {
	return m.db.WithContext(ctx).Create(job).Error
}

// GetJobByID 读取岗位
func (m *MySQL) GetJobByID(ctx context.Context, jobID string) (*models.Job, error) {
	var job models.Job
	if err := m.db.WithContext(ctx).Where("job_id = ?", jobID).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// ListJobs 读取岗位列表
func (m *MySQL) ListJobs(ctx context.Context, status string) ([]models.Job, error) {
	query := m.db.WithContext(ctx).Model(&models.Job{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var jobs []models.Job
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// CountJobs 统计岗位数，status为空统计全部
func (m *MySQL) CountJobs(ctx context.Context, status string) (int64, error) {
	query := m.db.WithContext(ctx).Model(&models.Job{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var total int64
	err := query.Count(&total).Error
	return total, err
}

// SaveMatch 保存匹配结果，同一候选人-岗位对只保留最新一条
func (m *MySQL) SaveMatch(ctx context.Context, match *models.JobCandidateMatch) error {
	return m.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "candidate_id"}, {Name: "job_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"match_score", "matched_skills_json", "missing_skills_json", "experience_fit", "calculated_at",
			}),
		}).Create(match).Error
}

// AverageMatchScore 所有匹配记录的平均分，无记录时返回0
func (m *MySQL) AverageMatchScore(ctx context.Context) (float64, error) {
	var avg *float64
	if err := m.db.WithContext(ctx).Model(&models.JobCandidateMatch{}).
		Select("AVG(match_score)").Scan(&avg).Error; err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// CreateInterview 创建面试安排
func (m *MySQL) CreateInterview(ctx context.Context, interview *models.Interview) error {
	return m.db.WithContext(ctx).Create(interview).Error
}

// ListInterviews 读取面试列表，按预约时间升序
func (m *MySQL) ListInterviews(ctx context.Context, candidateID string) ([]models.Interview, error) {
	query := m.db.WithContext(ctx).Model(&models.Interview{})
	if candidateID != "" {
		query = query.Where("candidate_id = ?", candidateID)
	}
	var interviews []models.Interview
	if err := query.Order("scheduled_at ASC").Find(&interviews).Error; err != nil {
		return nil, err
	}
	return interviews, nil
}

// UpdateInterviewStatus 更新面试状态，取消亦走此路径
func (m *MySQL) UpdateInterviewStatus(ctx context.Context, interviewID string, status string) error {
	result := m.db.WithContext(ctx).Model(&models.Interview{}).
		Where("interview_id = ?", interviewID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountInterviews 统计面试总数
func (m *MySQL) CountInterviews(ctx context.Context) (int64, error) {
	var total int64
	err := m.db.WithContext(ctx).Model(&models.Interview{}).Count(&total).Error
	return total, err
}

// CountInterviewsByStatus 按状态统计面试数量
func (m *MySQL) CountInterviewsByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := m.db.WithContext(ctx).Model(&models.Interview{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(rows))
	for _, row := range rows {
		stats[row.Status] = row.Count
	}
	return stats, nil
}

// CountRecentSubmissions 统计since之后的简历提交数
func (m *MySQL) CountRecentSubmissions(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := m.db.WithContext(ctx).Model(&models.ResumeSubmission{}).
		Where("submission_timestamp >= ?", since).
		Count(&total).Error
	return total, err
}
