package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"

	"ats-agent-go/internal/logger"
)

// TextExtractor 按文件扩展名分发的文本提取器
// 提取失败一律返回空字符串，不向上抛错：上游用空文本走兜底结果
type TextExtractor struct {
	pdfParser *pdf.PDFParser
}

// NewTextExtractor 初始化文本提取器
// PDF解析配置为按页分割，便于跳过空页后再拼接
func NewTextExtractor(ctx context.Context) (*TextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF parser: %w", err)
	}
	return &TextExtractor{pdfParser: p}, nil
}

// ExtractFile 从文件提取纯文本
// 支持 .pdf / .docx / .doc / .txt，其余扩展名按纯文本读取
func (e *TextExtractor) ExtractFile(ctx context.Context, filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".pdf":
		return e.extractPDF(ctx, filePath)
	case ".docx", ".doc":
		// .doc 是旧版二进制格式，不是zip容器，走同一入口会解压失败并返回空文本
		return extractDOCX(filePath)
	default:
		return extractPlainText(filePath)
	}
}

// extractPDF 逐页提取PDF文本，跳过空页
func (e *TextExtractor) extractPDF(ctx context.Context, filePath string) string {
	startTime := time.Now()

	file, err := os.Open(filePath)
	if err != nil {
		logger.Warn().Err(err).Str("file", filePath).Msg("打开PDF文件失败")
		return ""
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	docs, err := e.pdfParser.Parse(ctx, file,
		einoParser.WithURI(filePath),
	)
	if err != nil {
		logger.Warn().Err(err).Str("file", filePath).
			Dur("duration", time.Since(startTime)).
			Msg("PDF文本提取失败")
		return ""
	}

	var pages []string
	for _, doc := range docs {
		if strings.TrimSpace(doc.Content) != "" {
			pages = append(pages, doc.Content)
		}
	}

	text := strings.Join(pages, "\n")
	logger.Debug().Str("file", filePath).
		Int("pages", len(docs)).
		Int("text_length", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("PDF文本提取完成")
	return text
}

// extractPlainText 按UTF-8纯文本读取文件内容
func extractPlainText(filePath string) string {
	data, err := os.ReadFile(filePath)
	if err != nil {
		logger.Warn().Err(err).Str("file", filePath).Msg("读取文本文件失败")
		return ""
	}
	return string(data)
}
