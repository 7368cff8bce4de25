package main

import (
	"fmt"
	"io"
	"strings"

	"player-core/pkg/netease"
	"player-core/pkg/store"
	"player-core/pkg/tools"

	"github.com/mattn/go-runewidth"
)

const (
	nameWidth   = 28
	singerWidth = 20
	albumWidth  = 20
)

// padToWidth 按显示宽度截断或补齐，中文按两个字符宽计算
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	current := runewidth.StringWidth(text)
	if current > width {
		const ellipsis = "..."
		if width <= len(ellipsis) {
			return runewidth.Truncate(ellipsis, width, "")
		}
		text = runewidth.Truncate(text, width-len(ellipsis), "") + ellipsis
		current = runewidth.StringWidth(text)
	}
	if current < width {
		text += strings.Repeat(" ", width-current)
	}
	return text
}

func printSongs(w io.Writer, songs []netease.Song) {
	for i, song := range songs {
		fmt.Fprintf(w, "%3d  %-10d %s %s %s %s\n",
			i+1,
			song.ID,
			padToWidth(song.Name, nameWidth),
			padToWidth(song.Singer, singerWidth),
			padToWidth(song.Album, albumWidth),
			tools.FormatDuration(song.Duration),
		)
	}
}

func printPlaylists(w io.Writer, playlists []netease.Playlist) {
	for _, p := range playlists {
		fmt.Fprintf(w, "%-12d %s %6d tracks\n", p.ID, padToWidth(p.Name, nameWidth+singerWidth), p.TrackCount)
	}
}

func printHistory(w io.Writer, entries []store.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No play history")
		return
	}
	for i, e := range entries {
		name, _ := e.Extra["name"].(string)
		singer, _ := e.Extra["singer"].(string)
		duration, _ := e.Extra["duration"].(float64)
		fmt.Fprintf(w, "%3d  %-10d %s %s %s\n",
			i+1,
			e.ID,
			padToWidth(name, nameWidth),
			padToWidth(singer, singerWidth),
			tools.FormatDuration(duration),
		)
	}
}
