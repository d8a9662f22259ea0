package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/utils"
)

// DefaultSummaryModel 未配置 GEMINI_MODEL 时使用的模型
const DefaultSummaryModel = "gemini-2.0-flash"

var (
	// ErrEmptyPaper 论文内容为空，提示语直接返回给前端
	ErrEmptyPaper = errors.New("Paper text cannot be empty.")
	// ErrSummarizerDisabled 未配置 GEMINI_API_KEY
	ErrSummarizerDisabled = errors.New("paper summarization is not configured")
)

const summaryPrompt = `You are an expert AI research paper summarizer.

Summarize the following research paper. Be concise and accurate.

Research Paper:
%s`

// Summarizer 论文摘要生成
type Summarizer interface {
	Summarize(ctx context.Context, paperText string) (string, error)
}

// GeminiSummarizer 调用Gemini生成摘要
type GeminiSummarizer struct {
	client *genai.Client
	model  string
}

// NewGeminiSummarizer 创建摘要生成器
func NewGeminiSummarizer(ctx context.Context, apiKey, model string) (*GeminiSummarizer, error) {
	return newGeminiSummarizer(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model)
}

func newGeminiSummarizer(ctx context.Context, cfg *genai.ClientConfig, model string) (*GeminiSummarizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = DefaultSummaryModel
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiSummarizer{client: client, model: model}, nil
}

// Summarize 生成摘要
func (s *GeminiSummarizer) Summarize(ctx context.Context, paperText string) (string, error) {
	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(fmt.Sprintf(summaryPrompt, paperText)), nil)
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	summary := strings.TrimSpace(resp.Text())
	if summary == "" {
		return "", errors.New("model returned an empty summary")
	}
	return summary, nil
}

// SummarizePaper 校验输入后生成摘要。summarizer为nil表示功能未开启
func SummarizePaper(ctx context.Context, summarizer Summarizer, req models.SummarizeRequest) (*models.SummarizeResponse, error) {
	if strings.TrimSpace(req.PaperText) == "" {
		return nil, ErrEmptyPaper
	}
	if summarizer == nil {
		return nil, ErrSummarizerDisabled
	}

	summary, err := summarizer.Summarize(ctx, req.PaperText)
	if err != nil {
		utils.Logger.Error().Err(err).Int("length", len(req.PaperText)).Msg("[论文摘要] 生成失败")
		return nil, err
	}
	utils.Logger.Info().Int("length", len(req.PaperText)).Int("summaryLength", len(summary)).Msg("[论文摘要] 生成完成")
	return &models.SummarizeResponse{Summary: summary}, nil
}
