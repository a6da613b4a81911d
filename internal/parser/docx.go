package parser

import (
	"archive/zip"
	"encoding/xml"
	"strings"

	"ats-agent-go/internal/logger"
)

// DOCX本质是zip容器，正文在 word/document.xml
// 解析时只匹配元素本地名，忽略命名空间前缀，以兼容不同生成器的文档

type docxDocument struct {
	XMLName xml.Name `xml:"document"`
	Body    docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxPara  `xml:"p"`
	Tables     []docxTable `xml:"tbl"`
}

type docxPara struct {
	Runs []string `xml:"r>t"`
}

type docxTable struct {
	Rows []docxRow `xml:"tr"`
}

type docxRow struct {
	Cells []docxCell `xml:"tc"`
}

type docxCell struct {
	Paragraphs []docxPara `xml:"p"`
}

func (p docxPara) text() string {
	return strings.Join(p.Runs, "")
}

// extractDOCX 从DOCX文件提取纯文本：先段落，后表格
// 表格每行输出一行，非空单元格用 " | " 连接
func extractDOCX(filePath string) string {
	reader, err := zip.OpenReader(filePath)
	if err != nil {
		logger.Warn().Err(err).Str("file", filePath).Msg("打开DOCX容器失败")
		return ""
	}
	defer reader.Close()

	var docFile *zip.File
	for _, f := range reader.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		logger.Warn().Str("file", filePath).Msg("DOCX缺少 word/document.xml")
		return ""
	}

	rc, err := docFile.Open()
	if err != nil {
		logger.Warn().Err(err).Str("file", filePath).Msg("读取DOCX正文失败")
		return ""
	}
	defer rc.Close()

	var doc docxDocument
	if err := xml.NewDecoder(rc).Decode(&doc); err != nil {
		logger.Warn().Err(err).Str("file", filePath).Msg("解析DOCX正文XML失败")
		return ""
	}

	var lines []string
	for _, p := range doc.Body.Paragraphs {
		if t := p.text(); strings.TrimSpace(t) != "" {
			lines = append(lines, t)
		}
	}

	for _, tbl := range doc.Body.Tables {
		for _, row := range tbl.Rows {
			var cells []string
			for _, cell := range row.Cells {
				var parts []string
				for _, p := range cell.Paragraphs {
					if t := p.text(); strings.TrimSpace(t) != "" {
						parts = append(parts, t)
					}
				}
				if joined := strings.Join(parts, " "); strings.TrimSpace(joined) != "" {
					cells = append(cells, joined)
				}
			}
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, " | "))
			}
		}
	}

	return strings.Join(lines, "\n")
}
