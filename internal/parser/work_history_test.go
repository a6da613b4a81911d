package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractWorkHistoryPipeFormat(t *testing.T) {
	text := strings.Join([]string{
		"Experience:",
		"Software Engineer | Acme Corp | 2019 - 2022",
		"• Built data pipelines",
		"• Led migration work",
	}, "\n")

	history := extractWorkHistory(text)
	require.Len(t, history, 1)
	assert.Equal(t, "Software Engineer", history[0].Title)
	assert.Equal(t, "Acme Corp", history[0].Company)
	assert.Equal(t, "2019 - 2022", history[0].Dates)
	assert.Equal(t, []string{"Built data pipelines", "Led migration work"}, history[0].Description)
}

func TestExtractWorkHistoryCommaAndAtFormats(t *testing.T) {
	text := strings.Join([]string{
		"Work Experience",
		"Senior Engineer, Initech 2022 - Present",
		"Data Analyst at Globex Corporation 2018 - 2020",
	}, "\n")

	history := extractWorkHistory(text)
	require.Len(t, history, 2)

	assert.Equal(t, "Senior Engineer", history[0].Title)
	assert.Equal(t, "Initech", history[0].Company)
	assert.Equal(t, "2022 - Present", history[0].Dates)

	assert.Equal(t, "Data Analyst", history[1].Title)
	assert.Equal(t, "Globex Corporation", history[1].Company)
	assert.Equal(t, "2018 - 2020", history[1].Dates)
}

func TestExtractWorkHistoryDescriptionCap(t *testing.T) {
	text := strings.Join([]string{
		"Experience:",
		"Backend Engineer | Acme Corp | 2019 - 2022",
		"• first bullet line",
		"• second bullet line",
		"• third bullet line",
		"• fourth bullet line",
		"• fifth bullet line",
	}, "\n")

	history := extractWorkHistory(text)
	require.Len(t, history, 1)
	// 描述最多保留3条
	assert.Equal(t, []string{"first bullet line", "second bullet line", "third bullet line"}, history[0].Description)
}

func TestExtractWorkHistoryEntryCap(t *testing.T) {
	lines := []string{"Experience:"}
	titles := []string{"First", "Second", "Third", "Fourth", "Fifth", "Sixth", "Seventh"}
	for _, title := range titles {
		lines = append(lines, title+" Engineer | Acme Corp | 2019 - 2022")
	}

	history := extractWorkHistory(strings.Join(lines, "\n"))
	// 条目最多保留5条
	require.Len(t, history, 5)
	assert.Equal(t, "First Engineer", history[0].Title)
	assert.Equal(t, "Fifth Engineer", history[4].Title)
}

func TestExtractWorkHistoryStopsAtNextSection(t *testing.T) {
	text := strings.Join([]string{
		"Experience:",
		"Platform Engineer | Acme Corp | 2020 - 2023",
		"education",
		"Tester | Globex | 2010 - 2012",
	}, "\n")

	history := extractWorkHistory(text)
	require.Len(t, history, 1)
	assert.Equal(t, "Platform Engineer", history[0].Title)
}

func TestExtractWorkHistoryNoSection(t *testing.T) {
	history := extractWorkHistory("just a plain paragraph with no headings")
	assert.Empty(t, history)
}
