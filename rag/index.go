package rag

import (
	"context"
	"fmt"
	"time"

	"goc-notion-bidsheet/models"

	"golang.org/x/time/rate"
)

// 내용이 이보다 짧은 항목은 인덱싱하지 않습니다
const minContentLen = 10

// embedInterval 임베딩 요청 사이의 최소 간격 (Rate limit 방지)
var embedInterval = 100 * time.Millisecond

type documentEmbedder interface {
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
}

type indexWriter interface {
	Replace(ctx context.Context, docs []*models.Document) error
}

// IndexSheet 입찰표 항목을 임베딩하여 인덱스를 교체합니다. 저장한 문서 수를 반환합니다.
// 임베딩에 실패한 항목은 건너뜁니다.
func IndexSheet(ctx context.Context, sheet *models.Sheet, e documentEmbedder, w indexWriter) (int, error) {
	var docs []*models.Document
	limiter := rate.NewLimiter(rate.Every(embedInterval), 1)

	for i, item := range sheet.Items {
		doc := models.DocumentFromItem(item)
		contentLen := len([]rune(doc.Content))
		fmt.Printf("임베딩 생성 중: %d/%d - %s (콘텐츠: %d자)\n", i+1, len(sheet.Items), doc.Title, contentLen)

		if doc.ID == "" || contentLen < minContentLen {
			fmt.Printf("  ⚠️  콘텐츠가 너무 짧아 건너뜁니다\n")
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return 0, err
		}
		vector, err := e.EmbedDocument(ctx, doc.Content)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			fmt.Printf("⚠️  항목 %s 임베딩 실패: %v\n", doc.ID, err)
			continue
		}
		doc.Vector = vector
		docs = append(docs, doc)
	}

	// 하나도 임베딩하지 못했으면 기존 인덱스를 그대로 둔다
	if len(docs) == 0 {
		fmt.Println("⚠️  저장할 문서가 없어 기존 인덱스를 유지합니다")
		return 0, nil
	}

	if err := w.Replace(ctx, docs); err != nil {
		return 0, fmt.Errorf("인덱스 저장 실패: %w", err)
	}
	return len(docs), nil
}
