package parser

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ats-agent-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResumeText = `John Smith
Software Engineer
Email: john.smith@acme.io
Phone: (555) 123-4567
Location: San Francisco, CA

Skills: Python, React, AWS, Docker, PostgreSQL

Experience:
Senior Engineer | Acme Corp | 2019 - 2024
` + "• Built the billing platform" + `

Education
Bachelor of Science in Computer Science, Stanford University`

// failingAnnotator 第一次调用就失败的标注器，用于验证NLP停用逻辑
type failingAnnotator struct {
	calls int
}

func (f *failingAnnotator) Annotate(ctx context.Context, text string) ([]types.Entity, error) {
	f.calls++
	return nil, errors.New("annotation service unavailable")
}

func TestParseCompleteResume(t *testing.T) {
	ctx := context.Background()
	p, err := NewProfileParser(ctx,
		clockAt(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	profile := p.Parse(ctx, sampleResumeText)
	require.NotNil(t, profile)

	assert.Equal(t, "John Smith", profile.Name)
	assert.Equal(t, "john.smith@acme.io", profile.Email)
	assert.Equal(t, "(555) 123-4567", profile.Phone)
	assert.Contains(t, profile.Skills, "Python")
	assert.Contains(t, profile.Skills, "AWS")
	assert.Contains(t, profile.Skills, "PostgreSQL")
	assert.Equal(t, "5+ years", profile.Experience)
	assert.Contains(t, profile.Education, "Bachelor of Science")
	assert.Contains(t, profile.Location, "San Francisco, CA")

	require.Len(t, profile.WorkHistory, 1)
	assert.Equal(t, "Senior Engineer", profile.WorkHistory[0].Title)
	assert.Equal(t, "Acme Corp", profile.WorkHistory[0].Company)

	assert.Greater(t, profile.ConfidenceScores[types.ScoreOverall], 0.7)
}

func TestParseDeterministic(t *testing.T) {
	ctx := context.Background()
	p, err := NewProfileParser(ctx,
		clockAt(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	first := p.Parse(ctx, sampleResumeText)
	second := p.Parse(ctx, sampleResumeText)
	assert.Equal(t, first, second)
}

func TestParseWhitespaceReturnsEmptyProfile(t *testing.T) {
	ctx := context.Background()
	p, err := NewProfileParser(ctx)
	require.NoError(t, err)

	profile := p.Parse(ctx, "   \n\t  ")
	require.NotNil(t, profile)

	assert.Empty(t, profile.Name)
	assert.Empty(t, profile.Skills)
	assert.Len(t, profile.ConfidenceScores, 7)
	assert.Equal(t, 0.0, profile.ConfidenceScores[types.ScoreOverall])
}

func TestParseRawTextTruncation(t *testing.T) {
	ctx := context.Background()
	p, err := NewProfileParser(ctx, WithRawTextLimit(10))
	require.NoError(t, err)

	profile := p.Parse(ctx, strings.Repeat("a", 50))
	assert.Len(t, []rune(profile.RawText), 10)
}

func TestParseDisablesNLPAfterFailure(t *testing.T) {
	ctx := context.Background()
	annotator := &failingAnnotator{}
	p, err := NewProfileParser(ctx, WithEntityAnnotator(annotator))
	require.NoError(t, err)

	first := p.Parse(ctx, sampleResumeText)
	second := p.Parse(ctx, sampleResumeText)

	// 标注失败后解析照常完成，且不再重复调用标注服务
	assert.Equal(t, "John Smith", first.Name)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, annotator.calls)
}

func TestParseCustomDenylist(t *testing.T) {
	ctx := context.Background()
	p, err := NewProfileParser(ctx, WithEmailDenylist([]string{"acme.io"}))
	require.NoError(t, err)

	profile := p.Parse(ctx, "reach me at jane@acme.io or jane@other.dev")
	assert.Equal(t, "jane@other.dev", profile.Email)
}

func clockAt(fixed time.Time) ParserOption {
	return WithClock(func() time.Time { return fixed })
}
