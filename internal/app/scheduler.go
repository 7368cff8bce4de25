package app

import (
	"context"
	"time"

	"player-core/pkg/lyric"

	"github.com/rs/zerolog/log"
)

const (
	// 提前查找歌词的时间（秒），抵消 playerctl 调用的延迟
	timeShift = 0.1

	schedulerTick = 50 * time.Millisecond

	// 最后一行歌词之后多久认为歌曲结束（秒）
	songTailSeconds = 5.0

	introLine = "♪ 即将开始... ♪"
	endLine   = "♪ 歌曲结束 ♪"
)

func (a *App) stopLyricScheduler() {
	a.schedulerMutex.Lock()
	defer a.schedulerMutex.Unlock()

	if a.schedulerCancel != nil {
		log.Debug().Msg("Stopping previous lyric scheduler")
		a.schedulerCancel()
		a.schedulerCancel = nil
	}
}

func (a *App) startLyricScheduler(parent context.Context, session, lrc string) {
	a.schedulerMutex.Lock()
	defer a.schedulerMutex.Unlock()

	if a.schedulerCancel != nil {
		a.schedulerCancel()
		a.schedulerCancel = nil
	}

	logger := log.With().Str("session", session).Logger()

	lines := lyric.Parse(lrc)
	if len(lines) == 0 {
		logger.Warn().Msg("No timed lyric lines found, broadcasting raw text")
		a.out.Broadcast(lrc)
		return
	}

	logger.Info().Int("lines_count", len(lines)).Msg("Starting lyric scheduler")

	ctx, cancel := context.WithCancel(parent)
	a.schedulerCancel = cancel

	go func() {
		defer func() {
			cancel()
			logger.Info().Msg("Lyric scheduler stopped")
		}()

		lastIndex := -2 // 确保第一次广播
		ticker := time.NewTicker(schedulerTick)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				// 每次都重新获取播放器时间，避免累积误差
				currentTime := a.player.Position(ctx)
				if currentTime < 0 {
					logger.Warn().Float64("player_time", currentTime).Msg("Invalid player time")
					continue
				}

				newIndex := lyric.IndexAt(lines, currentTime+timeShift)
				if newIndex != lastIndex {
					if newIndex >= 0 {
						line := lines[newIndex]
						logger.Debug().
							Int("index", newIndex).
							Float64("player_time", currentTime).
							Float64("lyric_time", line.Time).
							Str("lyric", line.Text).
							Msg("Broadcasting lyric")
						a.out.Broadcast(line.Text)
					} else if lastIndex != -1 {
						// 在第一句歌词之前
						a.out.Broadcast(introLine)
					}
					lastIndex = newIndex
				}

				if currentTime > lines[len(lines)-1].Time+songTailSeconds {
					logger.Info().
						Float64("current_time", currentTime).
						Float64("last_lyric_time", lines[len(lines)-1].Time).
						Msg("Song finished")
					a.out.Broadcast(endLine)
					return
				}

			case <-ctx.Done():
				return
			}
		}
	}()
}
