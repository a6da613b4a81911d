package handler

import (
	"testing"
	"time"

	"ats-agent-go/internal/config"
	"ats-agent-go/internal/constants"
	"ats-agent-go/internal/storage/models"
	"ats-agent-go/internal/types"
	"ats-agent-go/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtensionAllowed(t *testing.T) {
	cfg := &config.Config{}
	cfg.Upload.AllowedExtensions = []string{".pdf", ".docx", ".txt"}
	h := &ResumeHandler{cfg: cfg}

	assert.True(t, h.extensionAllowed(".pdf"))
	assert.True(t, h.extensionAllowed(".PDF"))
	assert.False(t, h.extensionAllowed(".exe"))
	assert.False(t, h.extensionAllowed(""))
}

func TestBuildCandidate(t *testing.T) {
	h := &ResumeHandler{}
	profile := &types.ParsedProfile{
		Name:       "Jane Doe",
		Email:      "jane.doe@acme.io",
		Phone:      "(555) 123-4567",
		Skills:     []string{"Python", "React"},
		Experience: "5+ years",
		Education:  "Bachelor of Science",
		WorkHistory: []types.JobEntry{
			{Title: "Engineer", Company: "Acme", Dates: "2019 - 2024"},
		},
		ConfidenceScores: map[string]float64{
			types.ScoreName:    0.9,
			types.ScoreOverall: 0.8,
		},
	}

	candidate, err := h.buildCandidate(profile)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", candidate.PrimaryName)
	assert.Equal(t, "jane.doe@acme.io", candidate.PrimaryEmail)
	assert.Equal(t, "(555) 123-4567", candidate.PrimaryPhone)
	assert.Equal(t, constants.CandidateStatusApplied, candidate.Status)
	assert.Equal(t, []string{"Python", "React"}, models.JSONToStringSlice(candidate.SkillsJSON))
	assert.NotEmpty(t, candidate.WorkHistoryJSON)
	assert.NotEmpty(t, candidate.ConfidenceJSON)
}

func TestSubmissionToStatus(t *testing.T) {
	submittedAt := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)
	submission := &models.ResumeSubmission{
		SubmissionUUID:      "0190a-test-uuid",
		ProcessingStatus:    constants.StatusParsingCompleted,
		OriginalFilename:    "resume.pdf",
		SourceChannel:       "web_upload",
		CandidateID:         utils.StringPtr("candidate-1"),
		SubmissionTimestamp: submittedAt,
	}

	status := submissionToStatus(submission)

	assert.Equal(t, "0190a-test-uuid", status.SubmissionUUID)
	assert.Equal(t, constants.StatusParsingCompleted, status.ProcessingStatus)
	assert.Equal(t, "resume.pdf", status.OriginalFilename)
	assert.Equal(t, "web_upload", status.SourceChannel)
	require.NotNil(t, status.CandidateID)
	assert.Equal(t, "candidate-1", *status.CandidateID)
	// 没有指定目标岗位时字段省略
	assert.Nil(t, status.TargetJobID)
	assert.Equal(t, "2026-08-01T10:30:00Z", status.SubmittedAt)
}
