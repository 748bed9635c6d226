package db

import (
	"context"
	"fmt"
	"os"

	"goc-notion-bidsheet/models"

	"github.com/philippgille/chromem-go"
)

const (
	collectionName = "bid_items"

	// DefaultMinSimilarity 검색 결과로 인정하는 최소 유사도
	DefaultMinSimilarity = 0.7
)

var collectionMeta = map[string]string{
	"hnsw:space": "cosine",
}

// Store 입찰 항목 벡터 저장소
type Store struct {
	db            *chromem.DB
	collection    *chromem.Collection
	minSimilarity float32
}

// NewStore 디스크에 저장되는 벡터 저장소를 엽니다 (없으면 생성)
func NewStore(dbPath string) (*Store, error) {
	db, err := chromem.NewPersistentDB(dbPath, false)
	if err != nil {
		return nil, fmt.Errorf("DB 초기화 실패: %w", err)
	}
	return newStore(db)
}

// NewMemoryStore 메모리에만 존재하는 저장소를 생성합니다
func NewMemoryStore() (*Store, error) {
	return newStore(chromem.NewDB())
}

func newStore(db *chromem.DB) (*Store, error) {
	collection, err := db.GetOrCreateCollection(collectionName, collectionMeta, nil)
	if err != nil {
		return nil, fmt.Errorf("Collection 생성 실패: %w", err)
	}
	return &Store{
		db:            db,
		collection:    collection,
		minSimilarity: DefaultMinSimilarity,
	}, nil
}

// SetMinSimilarity 검색 결과의 최소 유사도를 바꿉니다 (0~1)
func (s *Store) SetMinSimilarity(v float32) {
	if v >= 0 && v <= 1 {
		s.minSimilarity = v
	}
}

// Exists DB 파일이 존재하는지 확인합니다
func Exists(dbPath string) bool {
	_, err := os.Stat(dbPath)
	return err == nil
}

// Count 저장된 문서의 개수를 반환합니다
func (s *Store) Count() int {
	return s.collection.Count()
}

// AddDocuments 임베딩된 문서들을 한 번에 추가합니다
func (s *Store) AddDocuments(ctx context.Context, docs []*models.Document) error {
	if len(docs) == 0 {
		return nil
	}

	ids := make([]string, 0, len(docs))
	vectors := make([][]float32, 0, len(docs))
	metadatas := make([]map[string]string, 0, len(docs))
	contents := make([]string, 0, len(docs))

	for _, doc := range docs {
		if len(doc.Vector) == 0 {
			return fmt.Errorf("문서에 임베딩 벡터가 없습니다: %s", doc.ID)
		}
		metadata := make(map[string]string, len(doc.Meta)+1)
		for k, v := range doc.Meta {
			metadata[k] = v
		}
		metadata["title"] = doc.Title

		ids = append(ids, doc.ID)
		vectors = append(vectors, doc.Vector)
		metadatas = append(metadatas, metadata)
		contents = append(contents, doc.Content)
	}

	if err := s.collection.Add(ctx, ids, vectors, metadatas, contents); err != nil {
		return fmt.Errorf("문서 추가 실패: %w", err)
	}
	return nil
}

// Replace 기존 문서를 모두 지우고 docs로 교체합니다
func (s *Store) Replace(ctx context.Context, docs []*models.Document) error {
	if err := s.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("Collection 삭제 실패: %w", err)
	}
	collection, err := s.db.GetOrCreateCollection(collectionName, collectionMeta, nil)
	if err != nil {
		return fmt.Errorf("Collection 생성 실패: %w", err)
	}
	s.collection = collection
	return s.AddDocuments(ctx, docs)
}

// Search 유사한 문서를 최대 topK개 검색합니다 (최소 유사도 미만은 제외)
func (s *Store) Search(ctx context.Context, queryVector []float32, topK int) ([]*models.Document, error) {
	if len(queryVector) == 0 {
		return nil, fmt.Errorf("쿼리 벡터가 비어있습니다")
	}

	// chromem-go는 저장된 문서 수보다 많은 결과를 요청하면 오류를 반환한다
	if n := s.collection.Count(); topK > n {
		topK = n
	}
	if topK <= 0 {
		return nil, nil
	}

	results, err := s.collection.QueryEmbedding(ctx, queryVector, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("검색 실패: %w", err)
	}

	documents := make([]*models.Document, 0, len(results))
	for _, result := range results {
		if result.Similarity < s.minSimilarity {
			continue
		}
		documents = append(documents, toDocument(result.ID, result.Content, result.Metadata))
	}
	return documents, nil
}

// GetByID ID로 특정 문서를 가져옵니다
func (s *Store) GetByID(ctx context.Context, docID string) (*models.Document, error) {
	result, err := s.collection.GetByID(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("문서 조회 실패: %w", err)
	}
	return toDocument(result.ID, result.Content, result.Metadata), nil
}

func toDocument(id, content string, metadata map[string]string) *models.Document {
	doc := &models.Document{
		ID:      id,
		Content: content,
		Meta:    make(map[string]string, len(metadata)),
	}
	for k, v := range metadata {
		doc.Meta[k] = v
	}
	doc.Title = doc.Meta["title"]
	return doc
}
