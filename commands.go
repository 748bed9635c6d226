package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"goc-notion-bidsheet/db"
	"goc-notion-bidsheet/embedding"
	"goc-notion-bidsheet/models"
	"goc-notion-bidsheet/notion"
	"goc-notion-bidsheet/rag"
	"goc-notion-bidsheet/sheet"
	"goc-notion-bidsheet/ui"
	"goc-notion-bidsheet/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// app 명령들이 공유하는 설정, 로거, Notion 로더
type app struct {
	cfg    *Config
	logger *zap.Logger
	loader *notion.Loader
}

func newApp(configPath string, needGemini bool) (*app, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if needGemini {
		if err := cfg.Validate(true); err != nil {
			return nil, err
		}
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return nil, fmt.Errorf("로거 초기화 실패: %w", err)
	}

	loader := notion.NewLoader(cfg.Notion.Token, cfg.Notion.DatabaseID,
		notion.WithLogger(logger),
		notion.WithRenderer(cfg.Renderer()),
		notion.WithPageSize(cfg.Notion.PageSize),
		notion.WithPageInterval(cfg.Notion.PageInterval),
	)

	return &app{cfg: cfg, logger: logger, loader: loader}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func (a *app) fetchSheet(ctx context.Context) (*models.Sheet, error) {
	fmt.Fprintln(os.Stderr, "🔄 Notion에서 데이터를 가져오는 중...")
	s, err := a.loader.FetchSheet(ctx)
	if err != nil {
		return nil, fmt.Errorf("Notion 데이터 가져오기 실패: %w", err)
	}
	fmt.Fprintf(os.Stderr, "📄 총 %d개의 항목을 가져왔습니다.\n", len(s.Items))
	return s, nil
}

// openAsker 인덱스가 있고 Gemini 키가 설정되어 있으면 Asker를 만듭니다.
// 둘 중 하나라도 없으면 nil을 반환합니다. logger가 nil이면 Asker는 로그를 남기지 않습니다.
func (a *app) openAsker(ctx context.Context, logger *zap.Logger) (*rag.Asker, error) {
	if strings.TrimSpace(a.cfg.Gemini.APIKey) == "" || !db.Exists(a.cfg.DBPath) {
		return nil, nil
	}

	store, err := db.NewStore(a.cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if store.Count() == 0 {
		return nil, nil
	}
	store.SetMinSimilarity(a.cfg.Search.MinSimilarity)

	asker, err := rag.NewAsker(ctx, a.cfg.Gemini.APIKey, store, a.cfg.Search.TopK, rag.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("RAG 검색기 초기화 실패: %w", err)
	}
	a.logger.Info("semantic search enabled", zap.String("db_path", a.cfg.DBPath), zap.Int("documents", store.Count()))
	return asker, nil
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "입찰표 웹 페이지와 JSON API를 제공합니다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, false)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// 인터페이스에 nil 포인터를 넣지 않도록 따로 대입한다
			var searcher web.ItemSearcher
			asker, err := a.openAsker(ctx, a.logger)
			if err != nil {
				a.logger.Warn("semantic search disabled", zap.Error(err))
			} else if asker != nil {
				defer asker.Close()
				searcher = asker
			}

			srv := &http.Server{
				Addr:              a.cfg.HTTPAddr,
				Handler:           web.New(a.loader, searcher, a.cfg.SheetOptions(), a.logger).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()
			a.logger.Info("listening", zap.String("addr", a.cfg.HTTPAddr), zap.Bool("search", searcher != nil))

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("서버 실행 실패: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func newExportCmd(configPath *string) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "입찰표를 JSON, Markdown, HTML로 내보냅니다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "json", "markdown", "html":
			default:
				return fmt.Errorf("지원하지 않는 형식입니다: %q (json, markdown, html)", format)
			}

			a, err := newApp(*configPath, false)
			if err != nil {
				return err
			}
			defer a.close()

			s, err := a.fetchSheet(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("출력 파일 생성 실패: %w", err)
				}
				defer f.Close()
				w = f
			}

			if err := writeSheet(w, s, a.cfg.SheetOptions(), format); err != nil {
				return err
			}
			if output != "" && output != "-" {
				fmt.Fprintf(os.Stderr, "✅ %s 저장 완료\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "출력 형식 (json, markdown, html)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "출력 파일 (기본: 표준 출력)")
	return cmd
}

// writeSheet 입찰표를 지정한 형식으로 씁니다
func writeSheet(w io.Writer, s *models.Sheet, opts sheet.Options, format string) error {
	switch format {
	case "json":
		if s.Items == nil {
			s.Items = []models.BidItem{}
		}
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "markdown":
		_, err := io.WriteString(w, sheet.Markdown(sheet.Build(s, opts, sheet.SelectAll())))
		return err
	case "html":
		return sheet.RenderHTML(w, sheet.Build(s, opts, sheet.SelectAll()), "/")
	}
	return fmt.Errorf("지원하지 않는 형식입니다: %q", format)
}

func newIndexCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "입찰 항목을 임베딩하여 검색 인덱스를 다시 만듭니다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, true)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			s, err := a.fetchSheet(ctx)
			if err != nil {
				return err
			}
			if len(s.Items) == 0 {
				return errors.New("가져온 항목이 없습니다")
			}

			store, err := db.NewStore(a.cfg.DBPath)
			if err != nil {
				return err
			}

			fmt.Println("🧠 임베딩 생성 중 (Gemini)...")
			embedder, err := embedding.NewEmbedder(ctx, a.cfg.Gemini.APIKey)
			if err != nil {
				return fmt.Errorf("임베딩 생성기 초기화 실패: %w", err)
			}
			defer embedder.Close()

			n, err := rag.IndexSheet(ctx, s, embedder, store)
			if err != nil {
				return err
			}
			fmt.Printf("✅ DB 저장 완료! (총 %d개 문서)\n", n)
			return nil
		},
	}
}

func newAskCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "인덱싱된 입찰 항목에 대해 질문합니다",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, true)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			asker, err := a.openAsker(ctx, a.logger)
			if err != nil {
				return err
			}
			if asker == nil {
				return errors.New("검색 인덱스가 없습니다. 먼저 index 명령을 실행해주세요")
			}
			defer asker.Close()

			answer, err := asker.Ask(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
}

func newTUICmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "터미널에서 입찰표를 탐색합니다",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath, false)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			s, err := a.fetchSheet(ctx)
			if err != nil {
				return err
			}

			var asker ui.Asker
			// TUI가 화면을 잡고 있는 동안에는 로그를 터미널에 쓰지 않는다
			r, err := a.openAsker(ctx, nil)
			if err != nil {
				fmt.Printf("⚠️  질문 기능을 사용할 수 없습니다: %v\n", err)
			} else if r != nil {
				defer r.Close()
				asker = r
			}

			if err := ui.Run(s, a.cfg.SheetOptions(), asker); err != nil {
				return fmt.Errorf("TUI 실행 실패: %w", err)
			}
			return nil
		},
	}
}
