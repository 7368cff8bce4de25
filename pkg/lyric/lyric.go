package lyric

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Line 一行带时间戳的歌词
type Line struct {
	Time float64 // 时间戳（秒）
	Text string  // 歌词文本
}

var timeExp = regexp.MustCompile(`\[(\d{2,}):(\d{2})(?:\.(\d{2,3}))?\]`)

// Parse 解析 LRC 歌词，返回按时间升序排列的歌词行。
// 一行中的多个时间标签各自生成一条记录，文本相同。
func Parse(raw string) []Line {
	result := []Line{}
	if raw == "" {
		return result
	}

	for _, line := range strings.Split(raw, "\n") {
		matches := timeExp.FindAllStringSubmatch(line, -1)
		if len(matches) == 0 {
			continue
		}

		text := strings.TrimSpace(timeExp.ReplaceAllString(line, ""))
		if text == "" {
			continue
		}

		for _, match := range matches {
			seconds, ok := tagSeconds(match[1], match[2], match[3])
			if !ok {
				continue
			}
			result = append(result, Line{Time: seconds, Text: text})
		}
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].Time < result[j].Time })
	return result
}

// tagSeconds 分钟数溢出时返回 false，该时间标签被忽略
func tagSeconds(minStr, secStr, fracStr string) (float64, bool) {
	minutes, err := strconv.Atoi(minStr)
	if err != nil {
		return 0, false
	}
	sec, _ := strconv.Atoi(secStr)
	ms := 0
	if fracStr != "" {
		// .12 表示 120ms
		if len(fracStr) == 2 {
			fracStr += "0"
		}
		ms, _ = strconv.Atoi(fracStr)
	}
	return float64(minutes)*60 + float64(sec) + float64(ms)/1000, true
}

// IndexAt 返回时间 t 对应的歌词下标，t 早于第一行或没有歌词时返回 -1
func IndexAt(lines []Line, t float64) int {
	if len(lines) == 0 || t < lines[0].Time {
		return -1
	}

	// 二分查找最后一个 Time <= t 的行
	left, right := 0, len(lines)-1
	result := -1
	for left <= right {
		mid := (left + right) / 2
		if lines[mid].Time <= t {
			result = mid
			left = mid + 1
		} else {
			right = mid - 1
		}
	}
	return result
}

// Attach 按时间把翻译歌词对应到原文，返回与 lines 等长的译文，没有对应翻译的行为空串
func Attach(lines, translated []Line) []string {
	byTime := make(map[float64]string, len(translated))
	for _, l := range translated {
		if _, ok := byTime[l.Time]; !ok {
			byTime[l.Time] = l.Text
		}
	}
	result := make([]string, len(lines))
	for i, l := range lines {
		result[i] = byTime[l.Time]
	}
	return result
}
