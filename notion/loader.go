package notion

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"goc-notion-bidsheet/models"
	"goc-notion-bidsheet/richtext"

	"github.com/jomei/notionapi"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	defaultPageSize     = 100 // Notion API 최대값
	defaultPageInterval = 350 * time.Millisecond
)

// databaseAPI Loader가 사용하는 Notion Database API (notionapi.DatabaseService의 일부)
type databaseAPI interface {
	Get(ctx context.Context, id notionapi.DatabaseID) (*notionapi.Database, error)
	Query(ctx context.Context, id notionapi.DatabaseID, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

// Loader Notion 데이터베이스에서 입찰표를 읽어오는 구조체
type Loader struct {
	db         databaseAPI
	databaseID notionapi.DatabaseID
	renderer   *richtext.Renderer
	logger     *zap.Logger
	pageSize   int
	interval   time.Duration
}

// Option Loader 설정 함수
type Option func(*Loader)

// WithLogger 로거를 지정합니다
func WithLogger(l *zap.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// WithRenderer rich text 렌더러를 지정합니다
func WithRenderer(r *richtext.Renderer) Option {
	return func(ld *Loader) {
		if r != nil {
			ld.renderer = r
		}
	}
}

// WithPageSize 쿼리 한 번에 가져올 페이지 수 (1~100)
func WithPageSize(n int) Option {
	return func(ld *Loader) {
		if n > 0 && n <= defaultPageSize {
			ld.pageSize = n
		}
	}
}

// WithPageInterval 연속 쿼리 사이의 최소 간격. 0이면 제한하지 않습니다.
func WithPageInterval(d time.Duration) Option {
	return func(ld *Loader) {
		if d >= 0 {
			ld.interval = d
		}
	}
}

// NewLoader 새로운 Notion 로더를 생성합니다
func NewLoader(apiKey, databaseID string, opts ...Option) *Loader {
	client := notionapi.NewClient(notionapi.Token(apiKey),
		notionapi.WithHTTPClient(&http.Client{Transport: newNullNumberTransport(http.DefaultTransport)}))
	return newLoader(client.Database, databaseID, opts...)
}

func newLoader(db databaseAPI, databaseID string, opts ...Option) *Loader {
	l := &Loader{
		db:         db,
		databaseID: notionapi.DatabaseID(databaseID),
		renderer:   richtext.NewRenderer(),
		logger:     zap.NewNop(),
		pageSize:   defaultPageSize,
		interval:   defaultPageInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FetchSheet 데이터베이스 메타데이터와 전체 항목을 가져와 Sheet로 변환합니다
func (l *Loader) FetchSheet(ctx context.Context) (*models.Sheet, error) {
	var (
		meta  *notionapi.Database
		pages []notionapi.Page
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		db, err := l.db.Get(gctx, l.databaseID)
		if err != nil {
			return fmt.Errorf("데이터베이스 조회 실패: %w", err)
		}
		meta = db
		return nil
	})
	g.Go(func() error {
		all, err := l.queryAllPages(gctx)
		if err != nil {
			return fmt.Errorf("데이터베이스 쿼리 실패: %w", err)
		}
		pages = all
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if meta == nil {
		meta = &notionapi.Database{}
	}

	sheet := &models.Sheet{
		Title:       DatabaseTitle(meta),
		Description: l.renderer.Render(Segments(meta.Description)),
		Items:       make([]models.BidItem, 0, len(pages)),
	}
	for _, page := range pages {
		sheet.Items = append(sheet.Items, l.MapPage(page))
	}

	l.logger.Info("입찰표 로드 완료",
		zap.String("database", string(l.databaseID)),
		zap.Int("items", len(sheet.Items)))
	return sheet, nil
}

// queryAllPages 생성 시간 오름차순으로 모든 페이지를 가져옵니다
func (l *Loader) queryAllPages(ctx context.Context) ([]notionapi.Page, error) {
	limit := rate.Inf
	if l.interval > 0 {
		limit = rate.Every(l.interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req := &notionapi.DatabaseQueryRequest{
			PageSize:    l.pageSize,
			StartCursor: cursor,
			Sorts: []notionapi.SortObject{{
				Timestamp: notionapi.TimestampCreated,
				Direction: notionapi.SortOrderASC,
			}},
		}

		resp, err := l.db.Query(ctx, l.databaseID, req)
		if err != nil {
			return nil, err
		}

		allPages = append(allPages, resp.Results...)
		l.logger.Debug("페이지 수신",
			zap.Int("batch", len(resp.Results)),
			zap.Int("total", len(allPages)),
			zap.Bool("has_more", resp.HasMore))

		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}

// DatabaseTitle 데이터베이스 제목의 첫 조각을 반환합니다 (없으면 기본 제목)
func DatabaseTitle(db *notionapi.Database) string {
	if db != nil && len(db.Title) > 0 && db.Title[0].PlainText != "" {
		return db.Title[0].PlainText
	}
	return models.DefaultSheetTitle
}
