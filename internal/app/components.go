package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"player-core/internal/config"
	"player-core/pkg/ai"
	"player-core/pkg/ai/gemini"
	"player-core/pkg/ai/openai"
	"player-core/pkg/kv"
	"player-core/pkg/lrclib"
	"player-core/pkg/music"
	"player-core/pkg/netease"
	"player-core/pkg/translate"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger 设置 zerolog 的全局配置
func SetupLogger(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// OpenStorage 按配置打开持久化存储
func OpenStorage(cfg *config.Config) (kv.Backend, error) {
	switch cfg.Storage.Backend {
	case kv.BackendFile, kv.BackendBolt, kv.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	backend, err := kv.Open(kv.Options{
		Backend:       cfg.Storage.Backend,
		Path:          cfg.Storage.Path,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
		RedisPrefix:   cfg.Redis.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	log.Info().Str("backend", cfg.Storage.Backend).Str("path", cfg.Storage.Path).Msg("Storage opened")
	return backend, nil
}

// NewNeteaseClient 按配置创建网易云客户端
func NewNeteaseClient(cfg *config.Config) *netease.Client {
	client := netease.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	if cfg.API.Cookie != "" {
		client.SetCookie(cfg.API.Cookie)
	}
	return client
}

// NewLyricManager 按配置的顺序组装歌词来源
func NewLyricManager(cfg *config.Config, client *netease.Client) (*music.Manager, error) {
	var sources []music.LyricSource
	for _, name := range cfg.Lyrics.Sources {
		source, err := music.GetSourceByName(name)
		if err != nil {
			return nil, err
		}
		switch source {
		case music.SourceNetEase:
			sources = append(sources, music.NewNetEaseSource(client))
		case music.SourceLRCLib:
			sources = append(sources, music.NewLRCLibSource(lrclib.NewClient(cfg.Lyrics.LRCLibBaseURL)))
		}
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no lyric source configured")
	}
	return music.NewManager(sources...), nil
}

// NewTextModel 按配置创建文本模型，未配置时返回 nil。
// 返回的 io.Closer 可能为 nil。
func NewTextModel(ctx context.Context, cfg config.AIConfig) (ai.TextModel, io.Closer, error) {
	switch {
	case cfg.ModuleName == "":
		return nil, nil, nil
	case strings.HasPrefix(cfg.ModuleName, "gemini"):
		// "gemini" 使用默认模型，"gemini-2.5-pro" 之类直接作为模型名
		modelName := cfg.ModuleName
		if modelName == "gemini" {
			modelName = ""
		}
		model, err := gemini.NewGemini(ctx, cfg.APIKey, modelName)
		if err != nil {
			return nil, nil, err
		}
		return model, model, nil
	default:
		return openai.NewOpenAi(cfg.APIKey, cfg.ModuleName, cfg.BaseURL), nil, nil
	}
}

// NewTranslator 按配置创建歌词翻译，未配置密钥时返回 nil
func NewTranslator(cfg config.TranslateConfig) (translate.Translator, error) {
	if cfg.SecretID == "" || cfg.SecretKey == "" {
		return nil, nil
	}
	translator, err := translate.NewTencent(cfg.SecretID, cfg.SecretKey, cfg.Region, cfg.Target)
	if err != nil {
		return nil, err
	}
	return translator, nil
}
