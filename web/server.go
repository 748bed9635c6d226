// Package web 입찰표 JSON API와 HTML 페이지를 제공하는 HTTP 서버
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"goc-notion-bidsheet/models"
	"goc-notion-bidsheet/sheet"

	"go.uber.org/zap"
)

// fetchFailed 원인과 상관없이 클라이언트에 돌려주는 오류 메시지
const fetchFailed = "Failed to fetch Notion data"

// SheetSource 입찰표를 가져오는 곳 (notion.Loader)
type SheetSource interface {
	FetchSheet(ctx context.Context) (*models.Sheet, error)
}

// ItemSearcher 항목 의미 검색 (rag.Asker). nil이면 검색 API를 끕니다.
type ItemSearcher interface {
	SearchItems(ctx context.Context, query string) ([]*models.Document, error)
}

// Server HTTP 서버
type Server struct {
	source   SheetSource
	searcher ItemSearcher
	opts     sheet.Options
	logger   *zap.Logger
}

// New 새로운 서버를 생성합니다. searcher와 logger는 nil이어도 됩니다.
func New(source SheetSource, searcher ItemSearcher, opts sheet.Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{source: source, searcher: searcher, opts: opts, logger: logger}
}

// Router 라우트가 등록된 http.Handler를 반환합니다
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/bid", s.handleBid)
	mux.HandleFunc("/api/search", s.handleSearch)
	mux.HandleFunc("/", s.handlePage)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleBid(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := s.source.FetchSheet(r.Context())
	if err != nil {
		s.logger.Error("Notion 데이터 조회 실패", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fetchFailed})
		return
	}
	if data.Items == nil {
		data.Items = []models.BidItem{}
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := s.source.FetchSheet(r.Context())
	if err != nil {
		s.logger.Error("Notion 데이터 조회 실패", zap.Error(err))
		http.Error(w, "資料載入失敗："+fetchFailed, http.StatusInternalServerError)
		return
	}

	page := sheet.Build(data, s.opts, sheet.SelectionFromQuery(r.URL.Query()))
	var buf bytes.Buffer
	if err := sheet.RenderHTML(&buf, page, "/"); err != nil {
		s.logger.Error("페이지 렌더링 실패", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

type searchHit struct {
	ID       string `json:"id"`
	Item     string `json:"item"`
	WorkType string `json:"workType"`
	Content  string `json:"content"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if s.searcher == nil {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		http.Error(w, "missing q", http.StatusBadRequest)
		return
	}

	docs, err := s.searcher.SearchItems(r.Context(), q)
	if err != nil {
		s.logger.Error("항목 검색 실패", zap.String("q", q), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
		return
	}
	hits := make([]searchHit, 0, len(docs))
	for _, d := range docs {
		hits = append(hits, searchHit{ID: d.ID, Item: d.Title, WorkType: d.Meta["work_type"], Content: d.Content})
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": q, "results": hits})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
