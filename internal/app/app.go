package app

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"player-core/internal/config"
	"player-core/internal/ipc"
	"player-core/internal/player"
	"player-core/internal/resolver"
	"player-core/pkg/kv"
	"player-core/pkg/music"
	"player-core/pkg/musiccache"
	"player-core/pkg/netease"
	"player-core/pkg/store"
	"player-core/pkg/tools"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Version 构建版本，通过 -ldflags "-X player-core/internal/app.Version=..." 设置
var Version = "dev"

const lookupTimeout = 30 * time.Second

type mediaPlayer interface {
	CurrentSong(ctx context.Context) (string, error)
	Position(ctx context.Context) float64
	Volume(ctx context.Context) (float64, error)
	SetVolume(ctx context.Context, volume float64) error
}

type songResolver interface {
	Identify(ctx context.Context, mediaTitle string) resolver.SongInfo
	Match(ctx context.Context, info resolver.SongInfo) (netease.Song, error)
}

type lyricFetcher interface {
	FetchLyric(ctx context.Context, track music.Track) (string, error)
}

type broadcaster interface {
	Broadcast(line string)
}

type App struct {
	cfg       *config.Config
	ipcServer *ipc.Server
	out       broadcaster
	player    mediaPlayer
	resolver  songResolver
	lyrics    lyricFetcher
	history   *store.History
	settings  *store.Settings
	matches   *musiccache.Cache
	closers   []io.Closer

	recordHistory func(netease.Song)
	persistVolume func(float64)

	currentSong string
	lastVolume  float64
	mutex       sync.Mutex

	// 歌词调度器控制
	schedulerMutex  sync.Mutex
	schedulerCancel context.CancelFunc
}

// New 按配置组装守护进程的各个组件
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	backend, err := OpenStorage(cfg)
	if err != nil {
		return nil, err
	}

	client := NewNeteaseClient(cfg)
	manager, err := NewLyricManager(cfg, client)
	if err != nil {
		backend.Close()
		return nil, err
	}

	model, modelCloser, err := NewTextModel(ctx, cfg.AI)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to create text model: %w", err)
	}
	if model != nil {
		log.Info().Str("model", model.Name()).Msg("Using text model for media titles")
	}

	server := ipc.NewServer(cfg.App.SocketPath, cfg.App.LineFile)
	a := newApp(cfg, backend, server, player.New(), resolver.New(model, client), manager)
	a.ipcServer = server
	if modelCloser != nil {
		a.closers = append(a.closers, modelCloser)
	}
	a.closers = append(a.closers, backend)

	log.Info().Strs("sources", manager.SourceNames()).Msg("Lyric sources")
	return a, nil
}

func newApp(cfg *config.Config, s kv.Store, out broadcaster, p mediaPlayer, r songResolver, l lyricFetcher) *App {
	a := &App{
		cfg:        cfg,
		out:        out,
		player:     p,
		resolver:   r,
		lyrics:     l,
		history:    store.NewHistory(s),
		settings:   store.NewSettings(s, store.PlayMode(cfg.Player.PlayMode), cfg.Player.Volume),
		matches:    musiccache.New(s),
		lastVolume: -1,
	}
	a.recordHistory = tools.Debounce(a.saveHistory, cfg.App.HistoryDelay)
	a.persistVolume = tools.Throttle(a.saveVolume, cfg.App.VolumeSync)
	return a
}

// Run 启动 IPC 服务并循环检查播放器，直到 ctx 取消
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	if err := a.ipcServer.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer a.ipcServer.Close()

	a.startup(ctx)

	ticker := time.NewTicker(a.cfg.App.CheckInterval)
	defer ticker.Stop()

	log.Info().Dur("interval", a.cfg.App.CheckInterval).Msg("Starting player check loop...")
	for {
		a.updateSongInfo(ctx)
		a.syncVolume(ctx)

		select {
		case <-ctx.Done():
			log.Info().Msg("Shutting down")
			a.stopLyricScheduler()
			return nil
		case <-ticker.C:
		}
	}
}

func (a *App) close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close resource")
		}
	}
}

// startup 记录版本变更，保存配置的用户 ID，并恢复上次的音量
func (a *App) startup(ctx context.Context) {
	if stored := a.settings.Version(ctx); stored != Version {
		log.Info().Str("stored", stored).Str("current", Version).Msg("Version changed")
		if _, err := a.settings.SetVersion(ctx, Version); err != nil {
			log.Warn().Err(err).Msg("Failed to store version")
		}
	}

	if uid := a.cfg.Player.UserID; uid != 0 {
		if _, err := a.settings.SetUserID(ctx, &uid); err != nil {
			log.Warn().Err(err).Int64("user_id", uid).Msg("Failed to store user id")
		}
	}

	volume := a.settings.Volume(ctx)
	if err := a.player.SetVolume(ctx, volume); err != nil {
		log.Debug().Err(err).Msg("No player to restore volume")
		return
	}
	a.lastVolume = volume
	log.Info().Float64("volume", volume).Str("mode", a.settings.Mode(ctx).String()).Msg("Restored player settings")
}

func (a *App) updateSongInfo(ctx context.Context) {
	songIdentifier, err := a.player.CurrentSong(ctx)
	if err != nil {
		a.mutex.Lock()
		wasPlaying := a.currentSong != ""
		a.currentSong = ""
		a.mutex.Unlock()
		if wasPlaying {
			a.stopLyricScheduler()
		}
		a.out.Broadcast("No music playing...")
		return
	}

	a.mutex.Lock()
	if songIdentifier == a.currentSong {
		a.mutex.Unlock()
		return
	}
	a.currentSong = songIdentifier
	a.mutex.Unlock()

	session := uuid.NewString()
	logger := log.With().Str("session", session).Logger()
	logger.Info().Str("song", songIdentifier).Msg("New song detected")

	a.stopLyricScheduler()
	a.out.Broadcast(fmt.Sprintf("... Searching for lyrics for %s ...", songIdentifier))

	lookupCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	track, ok := a.lookupTrack(lookupCtx, logger, songIdentifier)
	if !ok {
		return
	}

	lyricsText, err := a.lyrics.FetchLyric(lookupCtx, track)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to get lyrics")
		a.out.Broadcast(fmt.Sprintf("Error getting lyrics: %v", err))
		return
	}

	a.startLyricScheduler(ctx, session, lyricsText)
}

// lookupTrack 把媒体标题解析为歌词查询所需的歌曲信息，不是歌曲时返回 false
func (a *App) lookupTrack(ctx context.Context, logger zerolog.Logger, mediaTitle string) (music.Track, bool) {
	if song, ok := a.matches.Get(ctx, mediaTitle); ok {
		logger.Info().Int64("song_id", song.ID).Str("name", song.Name).Msg("Using cached match")
		a.recordHistory(song)
		return songTrack(song), true
	}

	info := a.resolver.Identify(ctx, mediaTitle)
	if !info.IsSong {
		logger.Info().Msg("Media is not a song")
		a.out.Broadcast(mediaTitle)
		return music.Track{}, false
	}

	song, err := a.resolver.Match(ctx, info)
	if err != nil {
		logger.Warn().Err(err).Msg("Song not found on NetEase, falling back to title search")
		return music.Track{Title: info.Title, Artist: info.Artist}, true
	}
	if err := a.matches.Add(ctx, mediaTitle, song); err != nil {
		logger.Warn().Err(err).Msg("Failed to cache match")
	}
	a.recordHistory(song)
	return songTrack(song), true
}

func songTrack(song netease.Song) music.Track {
	return music.Track{ID: song.ID, Title: song.Name, Artist: song.Singer, Duration: song.Duration}
}

func (a *App) syncVolume(ctx context.Context) {
	volume, err := a.player.Volume(ctx)
	if err != nil {
		return
	}
	if volume != a.lastVolume {
		a.lastVolume = volume
		a.persistVolume(volume)
	}
}

func (a *App) saveHistory(song netease.Song) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	list, err := a.history.Record(ctx, SongEntry(song))
	if err != nil {
		log.Warn().Err(err).Int64("song_id", song.ID).Msg("Failed to persist play history")
		return
	}
	log.Debug().Int64("song_id", song.ID).Int("history_len", len(list)).Msg("Recorded play history")
}

func (a *App) saveVolume(volume float64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := a.settings.SetVolume(ctx, volume); err != nil {
		log.Warn().Err(err).Float64("volume", volume).Msg("Failed to persist volume")
	}
}

// SongEntry 把歌曲转换为播放历史条目
func SongEntry(song netease.Song) store.Entry {
	return store.NewEntry(song.ID, map[string]any{
		"name":     song.Name,
		"singer":   song.Singer,
		"album":    song.Album,
		"image":    song.Image,
		"duration": song.Duration,
		"url":      song.URL,
	})
}
