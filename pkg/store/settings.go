package store

import (
	"context"
	"errors"
	"strconv"

	"player-core/pkg/kv"
)

const (
	ModeKey    = "__Player_mode__"
	VolumeKey  = "__Player_volume__"
	UserIDKey  = "__Player_userID__"
	VersionKey = "__Player_version__"
)

// PlayMode 播放模式
type PlayMode int

const (
	ModeListLoop PlayMode = iota
	ModeOrder
	ModeRandom
	ModeLoop
)

func (m PlayMode) String() string {
	switch m {
	case ModeListLoop:
		return "list-loop"
	case ModeOrder:
		return "order"
	case ModeRandom:
		return "random"
	case ModeLoop:
		return "loop"
	default:
		return "unknown"
	}
}

// Valid 是否为已知播放模式
func (m PlayMode) Valid() bool {
	return m >= ModeListLoop && m <= ModeLoop
}

// Settings 播放器的标量设置，每个值以字符串形式存放在单独的键下
type Settings struct {
	kv            kv.Store
	defaultMode   PlayMode
	defaultVolume float64
}

func NewSettings(s kv.Store, defaultMode PlayMode, defaultVolume float64) *Settings {
	return &Settings{kv: s, defaultMode: defaultMode, defaultVolume: defaultVolume}
}

func (s *Settings) Mode(ctx context.Context) PlayMode {
	raw, ok := s.get(ctx, ModeKey)
	if !ok {
		return s.defaultMode
	}
	n, err := strconv.Atoi(raw)
	if err != nil || !PlayMode(n).Valid() {
		return s.defaultMode
	}
	return PlayMode(n)
}

func (s *Settings) SetMode(ctx context.Context, mode PlayMode) (PlayMode, error) {
	return mode, s.kv.Set(ctx, ModeKey, strconv.Itoa(int(mode)))
}

// Volume 音量（0-1）
func (s *Settings) Volume(ctx context.Context) float64 {
	raw, ok := s.get(ctx, VolumeKey)
	if !ok {
		return s.defaultVolume
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return s.defaultVolume
	}
	return v
}

func (s *Settings) SetVolume(ctx context.Context, volume float64) (float64, error) {
	return volume, s.kv.Set(ctx, VolumeKey, strconv.FormatFloat(volume, 'f', -1, 64))
}

// UserID 网易云用户 UID，未设置时返回 nil
func (s *Settings) UserID(ctx context.Context) *int64 {
	raw, ok := s.get(ctx, UserIDKey)
	if !ok {
		return nil
	}
	uid, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &uid
}

// SetUserID 设置 UID，nil 表示清除
func (s *Settings) SetUserID(ctx context.Context, uid *int64) (*int64, error) {
	if uid == nil {
		return nil, s.kv.Delete(ctx, UserIDKey)
	}
	return uid, s.kv.Set(ctx, UserIDKey, strconv.FormatInt(*uid, 10))
}

// Version 上次运行时记录的版本号，没有记录时返回空字符串
func (s *Settings) Version(ctx context.Context) string {
	raw, _ := s.get(ctx, VersionKey)
	return raw
}

func (s *Settings) SetVersion(ctx context.Context, version string) (string, error) {
	return version, s.kv.Set(ctx, VersionKey, version)
}

func (s *Settings) get(ctx context.Context, key string) (string, bool) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to read setting, using default")
		}
		return "", false
	}
	return raw, true
}
