// Package player 通过 playerctl 读取当前播放器的状态。
package player

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoPlayer 没有可用的播放器或没有正在播放的媒体
var ErrNoPlayer = errors.New("no player found")

// runner 执行 playerctl 子命令并返回标准输出
type runner func(ctx context.Context, args ...string) (string, error)

func playerctl(ctx context.Context, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, "playerctl", args...).Output()
	if err != nil {
		return "", fmt.Errorf("playerctl %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Playerctl playerctl 桥接
type Playerctl struct {
	run runner
}

func New() *Playerctl {
	return &Playerctl{run: playerctl}
}

// CurrentSong 返回 "{{artist}} - {{title}}" 格式的媒体标题
func (p *Playerctl) CurrentSong(ctx context.Context) (string, error) {
	out, err := p.run(ctx, "metadata", "--format", `{{artist}} - {{title}}`)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(strings.TrimPrefix(out, " - "))
	if out == "" || out == "-" {
		return "", ErrNoPlayer
	}
	return out, nil
}

// Position 当前播放位置（秒），失败时返回 0
func (p *Playerctl) Position(ctx context.Context) float64 {
	return p.float(ctx, "position")
}

// Volume 当前音量，范围 0-1
func (p *Playerctl) Volume(ctx context.Context) (float64, error) {
	out, err := p.run(ctx, "volume")
	if err != nil {
		return 0, err
	}
	volume, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid volume %q: %w", out, err)
	}
	return min(max(volume, 0), 1), nil
}

// SetVolume 设置播放器音量
func (p *Playerctl) SetVolume(ctx context.Context, volume float64) error {
	volume = min(max(volume, 0), 1)
	_, err := p.run(ctx, "volume", strconv.FormatFloat(volume, 'f', 2, 64))
	return err
}

func (p *Playerctl) float(ctx context.Context, args ...string) float64 {
	out, err := p.run(ctx, args...)
	if err != nil {
		return 0
	}
	seconds, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0
	}
	return seconds
}
