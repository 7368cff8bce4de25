// Package tools 提供播放器用到的零碎工具函数。
package tools

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

// Shuffle 返回 s 的一个随机排列（Fisher–Yates），不修改 s
func Shuffle[T any](s []T) []T {
	result := make([]T, len(s))
	copy(result, s)
	for i := 0; i < len(result)-1; i++ {
		j := i + rand.IntN(len(result)-i)
		result[i], result[j] = result[j], result[i]
	}
	return result
}

// FormatDuration 把秒数格式化为 "MM:SS"，分钟不设上限。
// 负数、NaN 和无穷大输出 "00:00"
func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "00:00"
	}
	minute := int(math.Floor(seconds / 60))
	second := int(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%02d:%02d", minute, second)
}

// ToHTTPS http 链接转化成 https
func ToHTTPS(url string) string {
	return strings.Replace(url, "http://", "https://", 1)
}
