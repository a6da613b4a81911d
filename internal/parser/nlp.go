package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ats-agent-go/internal/types"
)

// EntityAnnotator 命名实体标注接口
// 标注失败不影响解析主流程，调用方把错误降级为跳过NLP增强
type EntityAnnotator interface {
	Annotate(ctx context.Context, text string) ([]types.Entity, error)
}

// HTTPEntityAnnotator 通过旁路NLP服务做实体标注
// 服务接收 {"text": "..."}，返回 {"entities": [{"text": "...", "label": "ORG"}]}
type HTTPEntityAnnotator struct {
	serviceURL string
	client     *http.Client
}

// NewHTTPEntityAnnotator 创建HTTP实体标注器
func NewHTTPEntityAnnotator(serviceURL string, timeout time.Duration) *HTTPEntityAnnotator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPEntityAnnotator{
		serviceURL: serviceURL,
		client:     &http.Client{Timeout: timeout},
	}
}

type annotateRequest struct {
	Text string `json:"text"`
}

type annotateResponse struct {
	Entities []types.Entity `json:"entities"`
}

// Annotate 调用标注服务
func (a *HTTPEntityAnnotator) Annotate(ctx context.Context, text string) ([]types.Entity, error) {
	body, err := json.Marshal(annotateRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal annotate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.serviceURL+"/annotate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create annotate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call NLP service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("NLP service returned status %d", resp.StatusCode)
	}

	var result annotateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode annotate response: %w", err)
	}
	return result.Entities, nil
}
