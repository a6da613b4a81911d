package parser

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFilePlainText(t *testing.T) {
	ctx := context.Background()
	extractor, err := NewTextExtractor(ctx)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "resume.txt")
	content := "John Smith\njohn@acme.io"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	assert.Equal(t, content, extractor.ExtractFile(ctx, path))
}

func TestExtractFileMissingFile(t *testing.T) {
	ctx := context.Background()
	extractor, err := NewTextExtractor(ctx)
	require.NoError(t, err)

	// 任何失败都以空文本兜底，不向上抛错
	assert.Equal(t, "", extractor.ExtractFile(ctx, filepath.Join(t.TempDir(), "missing.pdf")))
	assert.Equal(t, "", extractor.ExtractFile(ctx, filepath.Join(t.TempDir(), "missing.txt")))
}

func TestExtractDOCX(t *testing.T) {
	documentXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>John Smith</w:t></w:r></w:p>
    <w:p><w:r><w:t>Software </w:t></w:r><w:r><w:t>Engineer</w:t></w:r></w:p>
    <w:p><w:r><w:t>   </w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>Skill</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>Python</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

	path := filepath.Join(t.TempDir(), "resume.docx")
	writeDOCX(t, path, documentXML)

	text := extractDOCX(path)
	assert.Equal(t, "John Smith\nSoftware Engineer\nSkill | Python", text)
}

func TestExtractDOCXCorruptContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0644))

	assert.Equal(t, "", extractDOCX(path))
}

func TestExtractDOCXMissingDocumentXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	assert.Equal(t, "", extractDOCX(path))
}

func writeDOCX(t *testing.T, path string, documentXML string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}
