package lrclib

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultBaseURL = "https://lrclib.net/api"

var logger = log.With().Str("component", "lrclib").Logger()

// Client LRCLib客户端
type Client struct {
	httpClient     *http.Client
	baseURL        string
	requestTimeout time.Duration
	maxRetries     int
	retryBackoff   time.Duration
}

// Record LRCLib API 返回的一条歌词记录
type Record struct {
	ID           int     `json:"id"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// NewClient 创建新的LRCLib客户端，baseURL 为空时使用官方地址
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL:        strings.TrimRight(baseURL, "/"),
		requestTimeout: 5 * time.Second,
		maxRetries:     3,
		retryBackoff:   500 * time.Millisecond,
	}
}

// GetProviderName 返回提供商名称
func (c *Client) GetProviderName() string {
	return "LRCLib"
}

// GetLyricsByInfo 通过歌曲信息获取歌词，优先返回同步歌词。
// duration 为秒，<= 0 表示不按时长筛选。
func (c *Client) GetLyricsByInfo(ctx context.Context, title, artist string, duration float64) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.requestTimeout*time.Duration(c.maxRetries+1))
	defer cancel()

	params := url.Values{}
	params.Set("track_name", title)
	params.Set("artist_name", artist)
	searchURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	records, err := c.search(timeoutCtx, searchURL)
	if err != nil {
		return "", err
	}

	logger.Info().Int("results", len(records)).Str("title", title).Str("artist", artist).Msg("Search finished")

	if len(records) == 0 {
		return "", fmt.Errorf("no lyrics found for '%s - %s'", title, artist)
	}

	best := findBestMatch(records, title, artist, int(duration))

	if best.SyncedLyrics != "" {
		logger.Info().
			Str("track", best.TrackName).
			Str("artist", best.ArtistName).
			Float64("duration", best.Duration).
			Msg("Selected synced lyrics")
		return best.SyncedLyrics, nil
	}
	if best.PlainLyrics != "" {
		logger.Info().
			Str("track", best.TrackName).
			Str("artist", best.ArtistName).
			Msg("Selected plain lyrics")
		return best.PlainLyrics, nil
	}

	return "", fmt.Errorf("selected result has no lyrics for '%s - %s'", title, artist)
}

// search 带重试的搜索请求
func (c *Client) search(ctx context.Context, searchURL string) ([]Record, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Info().Int("attempt", attempt).Int("max_retries", c.maxRetries).Msg("Retrying request")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * c.retryBackoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "player-core/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			logger.Warn().Err(err).Int("attempt", attempt+1).Msg("Request failed")
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			logger.Warn().Int("status", resp.StatusCode).Int("attempt", attempt+1).Msg("Request returned error status")
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			continue
		}

		var records []Record
		err = json.NewDecoder(resp.Body).Decode(&records)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return records, nil
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// findBestMatch 从搜索结果中找到最佳匹配的歌词
func findBestMatch(records []Record, targetTitle, targetArtist string, targetDuration int) *Record {
	var exactMatches []*Record
	var titleMatches []*Record

	for i := range records {
		r := &records[i]
		if containsIgnoreCase(r.TrackName, targetTitle) && containsIgnoreCase(r.ArtistName, targetArtist) {
			exactMatches = append(exactMatches, r)
		} else if containsIgnoreCase(r.TrackName, targetTitle) {
			titleMatches = append(titleMatches, r)
		}
	}

	// 精确匹配优先，其次标题匹配，最后全部结果
	matchPool := exactMatches
	if len(matchPool) == 0 {
		matchPool = titleMatches
	}
	if len(matchPool) == 0 {
		matchPool = make([]*Record, len(records))
		for i := range records {
			matchPool[i] = &records[i]
		}
	}

	if targetDuration <= 0 {
		return matchPool[0]
	}

	const maxDurationDiff = 3 // 最大允许3秒误差
	best := matchPool[0]
	minDiff := abs(int(best.Duration) - targetDuration)
	for _, m := range matchPool {
		diff := abs(int(m.Duration) - targetDuration)
		if diff <= maxDurationDiff {
			return m
		}
		if diff < minDiff {
			minDiff = diff
			best = m
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// containsIgnoreCase 忽略大小写检查包含关系
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
