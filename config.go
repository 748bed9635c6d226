package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"goc-notion-bidsheet/richtext"
	"goc-notion-bidsheet/sheet"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultConfigPath = "config.json"

// ErrConfigCreated 설정 파일이 없어서 기본 파일을 만든 경우
var ErrConfigCreated = errors.New("config.json 파일이 생성되었습니다. Notion 토큰과 데이터베이스 ID를 설정해주세요")

// Config 애플리케이션 설정 구조체
type Config struct {
	Notion struct {
		Token        string        `mapstructure:"token"`
		DatabaseID   string        `mapstructure:"database_id"`
		PageSize     int           `mapstructure:"page_size"`
		PageInterval time.Duration `mapstructure:"page_interval"`
	} `mapstructure:"notion"`

	HTTPAddr string `mapstructure:"http_addr"`

	Sheet struct {
		Stage         string   `mapstructure:"stage"`
		WorkTypeOrder []string `mapstructure:"worktype_order"`
		ShowPrices    bool     `mapstructure:"show_prices"`
	} `mapstructure:"sheet"`

	Render struct {
		Escape bool `mapstructure:"escape"`
	} `mapstructure:"render"`

	Gemini struct {
		APIKey string `mapstructure:"api_key"`
	} `mapstructure:"gemini"`

	DBPath string `mapstructure:"db_path"`

	Search struct {
		TopK          int     `mapstructure:"top_k"`
		MinSimilarity float32 `mapstructure:"min_similarity"`
	} `mapstructure:"search"`

	Log struct {
		Debug bool `mapstructure:"debug"`
	} `mapstructure:"log"`
}

type configOption struct {
	Key     string
	Default any
}

// configOptions 기본값 목록. 기본 설정 파일도 이 목록으로 만듭니다.
func configOptions() []configOption {
	return []configOption{
		{"notion.token", ""},
		{"notion.database_id", ""},
		{"notion.page_size", 100},
		{"notion.page_interval", "350ms"},
		{"http_addr", ":8080"},
		{"sheet.stage", sheet.DefaultStage},
		{"sheet.worktype_order", []string{}},
		{"sheet.show_prices", false},
		{"render.escape", false},
		{"gemini.api_key", ""},
		{"db_path", "./bid-index.db"},
		{"search.top_k", 10},
		{"search.min_similarity", 0.7},
		{"log.debug", false},
	}
}

// LoadConfig 기본값 < 설정 파일 < 환경 변수 순서로 설정을 읽습니다.
// 설정 파일이 없고 환경 변수에도 토큰이 없으면 기본 파일을 만들고 ErrConfigCreated를 반환합니다.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigPath
	}

	v := viper.New()
	for _, o := range configOptions() {
		v.SetDefault(o.Key, o.Default)
	}

	// 기존 배포와 같은 환경 변수 이름
	_ = v.BindEnv("notion.token", "NOTION_TOKEN")
	_ = v.BindEnv("notion.database_id", "NOTION_DATABASE_ID")
	_ = v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	v.SetEnvPrefix("bidsheet")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("설정 파일 읽기 실패: %w", err)
		}
		if strings.TrimSpace(v.GetString("notion.token")) == "" {
			if err := writeDefaultConfig(path); err != nil {
				return nil, err
			}
			return nil, ErrConfigCreated
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("설정 파일 파싱 실패: %w", err)
	}

	// worktype_order는 환경 변수에서 쉼표로 구분해 줄 수도 있다
	cfg.Sheet.WorkTypeOrder = splitList(strings.Join(cfg.Sheet.WorkTypeOrder, ","))

	if err := cfg.Validate(false); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 필수 값을 검증합니다. needGemini가 true면 Gemini API 키도 확인합니다.
func (c *Config) Validate(needGemini bool) error {
	var errs []error
	if strings.TrimSpace(c.Notion.Token) == "" {
		errs = append(errs, errors.New("notion.token이 설정되지 않았습니다"))
	}
	if strings.TrimSpace(c.Notion.DatabaseID) == "" {
		errs = append(errs, errors.New("notion.database_id가 설정되지 않았습니다"))
	}
	if c.Notion.PageSize <= 0 || c.Notion.PageSize > 100 {
		errs = append(errs, errors.New("notion.page_size는 1~100 사이여야 합니다"))
	}
	if c.Notion.PageInterval < 0 {
		errs = append(errs, errors.New("notion.page_interval은 음수일 수 없습니다"))
	}
	if c.Search.TopK <= 0 {
		errs = append(errs, errors.New("search.top_k는 0보다 커야 합니다"))
	}
	if c.Search.MinSimilarity < 0 || c.Search.MinSimilarity > 1 {
		errs = append(errs, errors.New("search.min_similarity는 0~1 사이여야 합니다"))
	}
	if needGemini && strings.TrimSpace(c.Gemini.APIKey) == "" {
		errs = append(errs, errors.New("gemini.api_key가 설정되지 않았습니다"))
	}
	return errors.Join(errs...)
}

// SheetOptions 표시 옵션
func (c *Config) SheetOptions() sheet.Options {
	return sheet.Options{
		Stage:         c.Sheet.Stage,
		WorkTypeOrder: c.Sheet.WorkTypeOrder,
		ShowPrices:    c.Sheet.ShowPrices,
	}
}

// Renderer 설정에 맞는 rich text 렌더러
func (c *Config) Renderer() *richtext.Renderer {
	if c.Render.Escape {
		return richtext.NewRenderer(richtext.WithEscaping())
	}
	return richtext.NewRenderer()
}

// NewLogger 설정에 맞는 zap 로거를 만듭니다
func (c *Config) NewLogger() (*zap.Logger, error) {
	if c.Log.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func writeDefaultConfig(path string) error {
	defaults := make(map[string]any)
	for _, o := range configOptions() {
		setNested(defaults, strings.Split(o.Key, "."), o.Default)
	}

	data, err := json.MarshalIndent(defaults, "", "  ")
	if err != nil {
		return fmt.Errorf("설정 파일 생성 실패: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("설정 파일 쓰기 실패: %w", err)
	}
	return nil
}

func setNested(m map[string]any, keys []string, value any) {
	if len(keys) == 1 {
		m[keys[0]] = value
		return
	}
	child, ok := m[keys[0]].(map[string]any)
	if !ok {
		child = make(map[string]any)
		m[keys[0]] = child
	}
	setNested(child, keys[1:], value)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
