package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

const (
	DefaultSocketPath    = "/tmp/player_core.sock"
	DefaultCheckInterval = 5 * time.Second
	DefaultHistoryDelay  = 10 * time.Second
	DefaultVolumeSync    = 30 * time.Second
	DefaultAPIBaseURL    = "http://localhost:3000"
	DefaultAPITimeout    = 10 * time.Second
	DefaultLimit         = 30
	DefaultPlaylistID    = 3778678 // 云音乐热歌榜
	DefaultVolume        = 0.8
	DefaultStorage       = "file"
)

func getDefaultDataDir() string {
	// 优先使用 XDG_DATA_HOME 环境变量
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "player-core")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "player_core_data"
	}

	return filepath.Join(homeDir, ".local", "share", "player-core")
}

// TomlConfig TOML配置文件结构
type TomlConfig struct {
	App struct {
		SocketPath    string `toml:"socket_path"`
		LineFile      string `toml:"line_file"`
		CheckInterval string `toml:"check_interval"`
		HistoryDelay  string `toml:"history_delay"`
		VolumeSync    string `toml:"volume_sync"`
	} `toml:"app"`

	API struct {
		BaseURL string `toml:"base_url"`
		Timeout string `toml:"timeout"`
		Cookie  string `toml:"cookie"`
		Limit   int    `toml:"limit"`
	} `toml:"api"`

	Player struct {
		PlaylistID int64    `toml:"playlist_id"`
		PlayMode   *int     `toml:"play_mode"`
		Volume     *float64 `toml:"volume"`
		UserID     int64    `toml:"user_id"`
	} `toml:"player"`

	Storage struct {
		Backend string `toml:"backend"`
		Path    string `toml:"path"`
	} `toml:"storage"`

	Redis struct {
		Addr     string `toml:"addr"`
		Password string `toml:"password"`
		DB       int    `toml:"db"`
		Prefix   string `toml:"prefix"`
	} `toml:"redis"`

	Lyrics struct {
		Sources       []string `toml:"sources"`
		LRCLibBaseURL string   `toml:"lrclib_base_url"`
	} `toml:"lyrics"`

	Translate struct {
		SecretID  string `toml:"secret_id"`
		SecretKey string `toml:"secret_key"`
		Region    string `toml:"region"`
		Target    string `toml:"target"`
	} `toml:"translate"`

	AI struct {
		ModuleName string `toml:"module_name"`
		APIKey     string `toml:"api_key"`
		BaseURL    string `toml:"base_url"` // for OpenAI
	} `toml:"ai"`
}

// AppConfig 守护进程配置
type AppConfig struct {
	SocketPath    string
	LineFile      string // 每次广播同时写入的文件，为空时不写
	CheckInterval time.Duration
	HistoryDelay  time.Duration
	VolumeSync    time.Duration
}

// APIConfig 网易云 API 配置
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
	Cookie  string
	Limit   int
}

// PlayerConfig 播放器默认值
type PlayerConfig struct {
	PlaylistID int64
	PlayMode   int
	Volume     float64
	UserID     int64
}

// StorageConfig 存储配置
type StorageConfig struct {
	Backend string
	Path    string
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// LyricsConfig 歌词来源配置
type LyricsConfig struct {
	Sources       []string
	LRCLibBaseURL string
}

// TranslateConfig 腾讯云机器翻译配置，网易云没有翻译歌词时使用
type TranslateConfig struct {
	SecretID  string
	SecretKey string
	Region    string
	Target    string
}

// AIConfig AI配置
type AIConfig struct {
	ModuleName string
	APIKey     string
	BaseURL    string
}

// Config 主配置结构
type Config struct {
	App       AppConfig
	API       APIConfig
	Player    PlayerConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Lyrics    LyricsConfig
	Translate TranslateConfig
	AI        AIConfig
}

// GetConfigPath 获取配置文件路径
func GetConfigPath() string {
	// 优先使用 XDG_CONFIG_HOME 环境变量
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "player-core", "config.toml")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warn().Err(err).Msg("Cannot get user home directory")
		return "config.toml" // 回退到当前目录
	}

	return filepath.Join(homeDir, ".config", "player-core", "config.toml")
}

// loadTomlConfig 加载TOML配置文件
func loadTomlConfig(configPath string) (*TomlConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Info().Str("path", configPath).Msg("Config file not found, using defaults")
		return &TomlConfig{}, nil
	}

	var config TomlConfig
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, err
	}

	log.Info().Str("path", configPath).Msg("Loaded config")
	return &config, nil
}

// Default 默认配置
func Default() *Config {
	return &Config{
		App: AppConfig{
			SocketPath:    DefaultSocketPath,
			CheckInterval: DefaultCheckInterval,
			HistoryDelay:  DefaultHistoryDelay,
			VolumeSync:    DefaultVolumeSync,
		},
		API: APIConfig{
			BaseURL: DefaultAPIBaseURL,
			Timeout: DefaultAPITimeout,
			Limit:   DefaultLimit,
		},
		Player: PlayerConfig{
			PlaylistID: DefaultPlaylistID,
			PlayMode:   0,
			Volume:     DefaultVolume,
		},
		Storage: StorageConfig{
			Backend: DefaultStorage,
			Path:    filepath.Join(getDefaultDataDir(), "player.json"),
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "player-core:",
		},
		Lyrics: LyricsConfig{
			Sources: []string{"netease", "lrclib"},
		},
		Translate: TranslateConfig{
			SecretID:  os.Getenv("TENCENTCLOUD_SECRET_ID"),
			SecretKey: os.Getenv("TENCENTCLOUD_SECRET_KEY"),
			Target:    "zh",
		},
		AI: AIConfig{
			ModuleName: "",
		},
	}
}

// Load 从默认路径加载配置
func Load() *Config {
	return LoadFrom(GetConfigPath())
}

// LoadFrom 从指定路径加载配置，文件不存在或解析失败时使用默认值
func LoadFrom(configPath string) *Config {
	tomlConfig, err := loadTomlConfig(configPath)
	if err != nil {
		log.Error().Err(err).Str("path", configPath).Msg("Failed to load config file, using default configuration")
		tomlConfig = &TomlConfig{}
	}

	config := Default()

	// App
	if tomlConfig.App.SocketPath != "" {
		config.App.SocketPath = tomlConfig.App.SocketPath
	}
	if tomlConfig.App.LineFile != "" {
		config.App.LineFile = tomlConfig.App.LineFile
	}
	overrideDuration(&config.App.CheckInterval, tomlConfig.App.CheckInterval, "check_interval")
	overrideDuration(&config.App.HistoryDelay, tomlConfig.App.HistoryDelay, "history_delay")
	overrideDuration(&config.App.VolumeSync, tomlConfig.App.VolumeSync, "volume_sync")

	// API
	if tomlConfig.API.BaseURL != "" {
		config.API.BaseURL = tomlConfig.API.BaseURL
	}
	overrideDuration(&config.API.Timeout, tomlConfig.API.Timeout, "timeout")
	if tomlConfig.API.Cookie != "" {
		config.API.Cookie = tomlConfig.API.Cookie
	}
	if tomlConfig.API.Limit > 0 {
		config.API.Limit = tomlConfig.API.Limit
	}

	// Player
	if tomlConfig.Player.PlaylistID != 0 {
		config.Player.PlaylistID = tomlConfig.Player.PlaylistID
	}
	if mode := tomlConfig.Player.PlayMode; mode != nil {
		if *mode >= 0 && *mode <= 3 {
			config.Player.PlayMode = *mode
		} else {
			log.Warn().Int("play_mode", *mode).Msg("Invalid play_mode, using default")
		}
	}
	if volume := tomlConfig.Player.Volume; volume != nil {
		if *volume >= 0 && *volume <= 1 {
			config.Player.Volume = *volume
		} else {
			log.Warn().Float64("volume", *volume).Msg("Volume must be between 0 and 1, using default")
		}
	}
	if tomlConfig.Player.UserID != 0 {
		config.Player.UserID = tomlConfig.Player.UserID
	}

	// Storage
	if tomlConfig.Storage.Backend != "" {
		config.Storage.Backend = tomlConfig.Storage.Backend
	}
	if tomlConfig.Storage.Path != "" {
		config.Storage.Path = tomlConfig.Storage.Path
	}

	// Redis
	if tomlConfig.Redis.Addr != "" {
		config.Redis.Addr = tomlConfig.Redis.Addr
	}
	if tomlConfig.Redis.Password != "" {
		config.Redis.Password = tomlConfig.Redis.Password
	}
	if tomlConfig.Redis.DB != 0 {
		config.Redis.DB = tomlConfig.Redis.DB
	}
	if tomlConfig.Redis.Prefix != "" {
		config.Redis.Prefix = tomlConfig.Redis.Prefix
	}

	// Lyrics
	if len(tomlConfig.Lyrics.Sources) > 0 {
		config.Lyrics.Sources = tomlConfig.Lyrics.Sources
	}
	if tomlConfig.Lyrics.LRCLibBaseURL != "" {
		config.Lyrics.LRCLibBaseURL = tomlConfig.Lyrics.LRCLibBaseURL
	}

	// Translate
	if tomlConfig.Translate.SecretID != "" {
		config.Translate.SecretID = tomlConfig.Translate.SecretID
	}
	if tomlConfig.Translate.SecretKey != "" {
		config.Translate.SecretKey = tomlConfig.Translate.SecretKey
	}
	if tomlConfig.Translate.Region != "" {
		config.Translate.Region = tomlConfig.Translate.Region
	}
	if tomlConfig.Translate.Target != "" {
		config.Translate.Target = tomlConfig.Translate.Target
	}

	// AI
	if tomlConfig.AI.ModuleName != "" {
		config.AI.ModuleName = tomlConfig.AI.ModuleName
	}
	if tomlConfig.AI.BaseURL != "" {
		config.AI.BaseURL = tomlConfig.AI.BaseURL
	}
	if tomlConfig.AI.APIKey != "" {
		config.AI.APIKey = tomlConfig.AI.APIKey
	}

	if config.AI.ModuleName != "" && config.AI.APIKey == "" {
		log.Warn().Str("module", config.AI.ModuleName).Msg("AI module configured without api_key, media titles will be split instead")
		config.AI.ModuleName = ""
	}

	return config
}

func overrideDuration(dst *time.Duration, value, name string) {
	if value == "" {
		return
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		log.Warn().Str(name, value).Msg("Invalid duration format, using default")
		return
	}
	*dst = duration
}
