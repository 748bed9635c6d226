package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const modelName = "text-embedding-004"

// Embedder Gemini API를 사용하여 텍스트를 임베딩으로 변환하는 구조체
type Embedder struct {
	client   *genai.Client
	document *genai.EmbeddingModel
	query    *genai.EmbeddingModel
}

// NewEmbedder 새로운 임베딩 생성기를 생성합니다
func NewEmbedder(ctx context.Context, apiKey string) (*Embedder, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("Gemini 클라이언트 생성 실패: %w", err)
	}

	document := client.EmbeddingModel(modelName)
	document.TaskType = genai.TaskTypeRetrievalDocument

	query := client.EmbeddingModel(modelName)
	query.TaskType = genai.TaskTypeRetrievalQuery

	return &Embedder{
		client:   client,
		document: document,
		query:    query,
	}, nil
}

// EmbedDocument 인덱스에 저장할 문서를 임베딩합니다
func (e *Embedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return embed(ctx, e.document, text)
}

// EmbedQuery 검색 질문을 임베딩합니다
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return embed(ctx, e.query, text)
}

func embed(ctx context.Context, model *genai.EmbeddingModel, text string) ([]float32, error) {
	resp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("임베딩 생성 실패: %w", err)
	}

	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("임베딩 응답이 비어있습니다")
	}

	values := resp.Embedding.Values
	result := make([]float32, len(values))
	for i, v := range values {
		result[i] = float32(v)
	}
	return result, nil
}

// Close 클라이언트를 닫습니다
func (e *Embedder) Close() error {
	return e.client.Close()
}
