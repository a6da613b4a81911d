package parser

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"ats-agent-go/internal/constants"
	"ats-agent-go/internal/logger"
	"ats-agent-go/internal/types"
)

// ProfileParser 简历字段提取流水线
// 对外保证：任何输入都返回完整的画像结构，不抛错、不panic
// 提取失败的字段留空并体现在置信分里
type ProfileParser struct {
	extractor    *TextExtractor
	matcher      *skillMatcher
	annotator    EntityAnnotator
	denylist     []string
	rawTextLimit int
	now          func() time.Time

	// 标注服务失败后永久停用NLP增强，避免每份简历都等一次超时
	nlpDisabled atomic.Bool
}

// ParserOption 解析器配置选项
type ParserOption func(*ProfileParser)

// WithEntityAnnotator 启用NLP实体标注增强
func WithEntityAnnotator(annotator EntityAnnotator) ParserOption {
	return func(p *ProfileParser) {
		p.annotator = annotator
	}
}

// WithEmailDenylist 配置邮箱占位域名拒绝列表
func WithEmailDenylist(denylist []string) ParserOption {
	return func(p *ProfileParser) {
		p.denylist = denylist
	}
}

// WithRawTextLimit 配置保留的原始文本前缀长度
func WithRawTextLimit(limit int) ParserOption {
	return func(p *ProfileParser) {
		if limit > 0 {
			p.rawTextLimit = limit
		}
	}
}

// WithSkillTaxonomy 用自定义分类表覆盖内置技能表
func WithSkillTaxonomy(taxonomy map[string][]string) ParserOption {
	return func(p *ProfileParser) {
		if len(taxonomy) > 0 {
			p.matcher = newSkillMatcher(taxonomy)
		}
	}
}

// WithClock 注入时钟，测试用
func WithClock(now func() time.Time) ParserOption {
	return func(p *ProfileParser) {
		p.now = now
	}
}

// NewProfileParser 创建解析流水线
func NewProfileParser(ctx context.Context, options ...ParserOption) (*ProfileParser, error) {
	extractor, err := NewTextExtractor(ctx)
	if err != nil {
		return nil, err
	}

	p := &ProfileParser{
		extractor:    extractor,
		matcher:      newSkillMatcher(DefaultSkillTaxonomy()),
		denylist:     []string{"example.com", "test.com", "placeholder"},
		rawTextLimit: constants.RawTextLimit,
		now:          time.Now,
	}
	for _, option := range options {
		option(p)
	}
	return p, nil
}

// ParseFile 从文件解析简历画像
func (p *ProfileParser) ParseFile(ctx context.Context, filePath string) *types.ParsedProfile {
	text := p.extractor.ExtractFile(ctx, filePath)
	if strings.TrimSpace(text) == "" {
		logger.Warn().Str("file", filePath).Msg("文件未提取出文本，返回空画像")
		return types.EmptyProfile()
	}
	return p.Parse(ctx, text)
}

// Parse 从纯文本解析简历画像
func (p *ProfileParser) Parse(ctx context.Context, text string) (profile *types.ParsedProfile) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("简历解析panic，返回空画像")
			profile = types.EmptyProfile()
		}
	}()

	if strings.TrimSpace(text) == "" {
		return types.EmptyProfile()
	}

	entities := p.annotateEntities(ctx, text)

	profile = &types.ParsedProfile{
		Name:              extractName(text),
		Email:             extractEmail(text, p.denylist),
		Phone:             extractPhone(text),
		Skills:            p.matcher.extractSkills(text, entities),
		Experience:        extractExperience(text, p.now()),
		Education:         extractEducation(text),
		WorkHistory:       extractWorkHistory(text),
		Location:          extractLocation(text),
		SalaryExpectation: extractSalaryExpectation(text),
		RawText:           truncateRunes(text, p.rawTextLimit),
	}
	profile.ConfidenceScores = calculateConfidenceScores(profile)

	logger.Debug().
		Str("name", profile.Name).
		Int("skills", len(profile.Skills)).
		Float64("overall_confidence", profile.ConfidenceScores[types.ScoreOverall]).
		Msg("简历解析完成")
	return profile
}

// annotateEntities 调用NLP标注，失败则停用NLP路径并返回空结果
func (p *ProfileParser) annotateEntities(ctx context.Context, text string) []types.Entity {
	if p.annotator == nil || p.nlpDisabled.Load() {
		return nil
	}

	entities, err := p.annotator.Annotate(ctx, text)
	if err != nil {
		p.nlpDisabled.Store(true)
		logger.Warn().Err(err).Msg("NLP实体标注失败，本进程内停用NLP增强")
		return nil
	}
	return entities
}

// truncateRunes 按字符截断文本前缀
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
