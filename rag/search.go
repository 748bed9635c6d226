package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"goc-notion-bidsheet/embedding"
	"goc-notion-bidsheet/models"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	generationModel = "gemini-2.5-flash"
	defaultTopK     = 10
	maxRetries      = 3
)

// NoMatchAnswer 관련 항목이 없을 때의 답변
const NoMatchAnswer = "관련된 입찰 항목을 찾을 수 없습니다."

type queryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

type itemIndex interface {
	Search(ctx context.Context, queryVector []float32, topK int) ([]*models.Document, error)
}

type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Asker 입찰 항목을 근거로 질문에 답하는 구조체
type Asker struct {
	embedder   queryEmbedder
	index      itemIndex
	model      generator
	topK       int
	retryDelay time.Duration
	logger     *zap.Logger
	closers    []func() error
}

// Option Asker 설정 함수
type Option func(*Asker)

// WithLogger 재시도 같은 진행 상황을 남길 로거를 지정합니다
func WithLogger(l *zap.Logger) Option {
	return func(a *Asker) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAsker 새로운 Asker를 생성합니다
func NewAsker(ctx context.Context, geminiAPIKey string, index itemIndex, topK int, opts ...Option) (*Asker, error) {
	embedder, err := embedding.NewEmbedder(ctx, geminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("임베딩 생성기 초기화 실패: %w", err)
	}

	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(geminiAPIKey))
	if err != nil {
		embedder.Close()
		return nil, fmt.Errorf("Gemini 클라이언트 생성 실패: %w", err)
	}

	a := newAsker(embedder, index, genaiClient.GenerativeModel(generationModel), topK)
	a.closers = []func() error{embedder.Close, genaiClient.Close}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func newAsker(e queryEmbedder, index itemIndex, model generator, topK int) *Asker {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Asker{
		embedder:   e,
		index:      index,
		model:      model,
		topK:       topK,
		retryDelay: 30 * time.Second,
		logger:     zap.NewNop(),
	}
}

// SearchItems 질문과 유사한 항목 문서를 찾습니다
func (a *Asker) SearchItems(ctx context.Context, query string) ([]*models.Document, error) {
	queryVector, err := a.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("질문 임베딩 실패: %w", err)
	}

	documents, err := a.index.Search(ctx, queryVector, a.topK)
	if err != nil {
		return nil, fmt.Errorf("문서 검색 실패: %w", err)
	}
	return documents, nil
}

// Ask 질문에 대한 답변을 생성합니다
func (a *Asker) Ask(ctx context.Context, question string) (string, error) {
	documents, err := a.SearchItems(ctx, question)
	if err != nil {
		return "", err
	}
	if len(documents) == 0 {
		return NoMatchAnswer, nil
	}

	prompt := buildPrompt(buildContext(documents), question)

	answer, err := a.generateAnswer(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("답변 생성 실패: %w", err)
	}
	return answer, nil
}

// buildContext 검색된 항목들을 컨텍스트 텍스트로 구성합니다
func buildContext(documents []*models.Document) string {
	parts := make([]string, 0, len(documents))
	for i, doc := range documents {
		title := doc.Title
		if title == "" {
			title = "제목 없음"
		}
		parts = append(parts, fmt.Sprintf("[항목 %d: %s]\n%s", i+1, title, doc.Content))
	}
	return strings.Join(parts, "\n\n---\n\n")
}

func buildPrompt(contextText, question string) string {
	return fmt.Sprintf(`당신은 공사 입찰표를 설명하는 도우미입니다. 아래 [Items]에 있는 항목만 근거로 질문에 답하세요.
항목에 없는 수량이나 가격은 지어내지 말고 모른다고 하세요.

[Items]
%s

[Question]
%s

답변:`, contextText, question)
}

// generateAnswer Rate Limit 오류가 나면 retryDelay만큼 기다렸다가 다시 시도합니다
func (a *Asker) generateAnswer(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err := a.model.GenerateContent(ctx, genai.Text(prompt))
		if err == nil {
			return answerText(resp), nil
		}

		lastErr = err
		if !isRateLimit(err) || attempt == maxRetries-1 {
			break
		}

		a.logger.Warn("rate limited, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("delay", a.retryDelay),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(a.retryDelay):
		}
	}

	return "", lastErr
}

func answerText(resp *genai.GenerateContentResponse) string {
	var answerParts []string
	if resp != nil {
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					answerParts = append(answerParts, string(text))
				}
			}
		}
	}
	if len(answerParts) == 0 {
		return "답변을 생성할 수 없습니다."
	}
	return strings.Join(answerParts, "\n")
}

// isRateLimit 429 또는 할당량 관련 오류인지 확인합니다
func isRateLimit(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "resource exhausted")
}

// Close 리소스를 정리합니다
func (a *Asker) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("리소스 정리 중 오류 발생: %v", errs)
	}
	return nil
}
