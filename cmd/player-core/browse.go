package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"player-core/internal/app"
	"player-core/pkg/lyric"
	"player-core/pkg/netease"
	"player-core/pkg/tools"
	"player-core/pkg/translate"

	"github.com/spf13/cobra"
)

var (
	browsePage      int
	browseShuffle   bool
	browseTranslate bool
)

var toplistCmd = &cobra.Command{
	Use:   "toplist",
	Short: "List NetEase charts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return showToplists(ctx, cmd.OutOrStdout(), app.NewNeteaseClient(cfg))
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "List recommended playlists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		playlists, err := app.NewNeteaseClient(cfg).Personalized(ctx)
		if err != nil {
			return err
		}
		printPlaylists(cmd.OutOrStdout(), playlists)
		return nil
	},
}

var playlistCmd = &cobra.Command{
	Use:   "playlist [id]",
	Short: "Show the songs of a playlist (default: the configured playlist)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := cfg.Player.PlaylistID
		if len(args) == 1 {
			var err error
			if id, err = parseID(args[0]); err != nil {
				return err
			}
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return showPlaylist(ctx, cmd.OutOrStdout(), app.NewNeteaseClient(cfg), id, browseShuffle)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <keywords...>",
	Short: "Search songs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return showSearch(ctx, cmd.OutOrStdout(), app.NewNeteaseClient(cfg), strings.Join(args, " "), browsePage, cfg.API.Limit)
	},
}

var hotCmd = &cobra.Command{
	Use:   "hot",
	Short: "List hot search keywords",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		hots, err := app.NewNeteaseClient(cfg).SearchHot(ctx)
		if err != nil {
			return err
		}
		for i, h := range hots {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", i+1, h.First)
		}
		return nil
	},
}

var lyricCmd = &cobra.Command{
	Use:   "lyric <song-id>",
	Short: "Print the timed lyrics of a song",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		var translator translate.Translator
		if browseTranslate {
			if translator, err = app.NewTranslator(cfg.Translate); err != nil {
				return err
			}
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return showLyric(ctx, cmd.OutOrStdout(), app.NewNeteaseClient(cfg), id, browseTranslate, translator)
	},
}

var urlCmd = &cobra.Command{
	Use:   "url <song-id>",
	Short: "Check a song's availability and print its media URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return showSongURL(ctx, cmd.OutOrStdout(), app.NewNeteaseClient(cfg), id)
	},
}

var commentsCmd = &cobra.Command{
	Use:   "comments <song-id>",
	Short: "List comments of a song",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return showComments(ctx, cmd.OutOrStdout(), app.NewNeteaseClient(cfg), id, browsePage, cfg.API.Limit)
	},
}

var playlistsCmd = &cobra.Command{
	Use:   "playlists [uid]",
	Short: "List a user's playlists (default: the stored user id)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		var uid int64
		if len(args) == 1 {
			var err error
			if uid, err = parseID(args[0]); err != nil {
				return err
			}
		} else {
			backend, err := app.OpenStorage(cfg)
			if err != nil {
				return err
			}
			defer backend.Close()
			stored := newSettings(backend).UserID(ctx)
			if stored == nil {
				return errors.New("no user id stored, pass one or run 'player-core user <uid>'")
			}
			uid = *stored
		}

		playlists, err := app.NewNeteaseClient(cfg).UserPlaylist(ctx, uid)
		if err != nil {
			return err
		}
		printPlaylists(cmd.OutOrStdout(), playlists)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toplistCmd, recommendCmd, playlistCmd, searchCmd, hotCmd, lyricCmd, urlCmd, commentsCmd, playlistsCmd)

	lyricCmd.Flags().BoolVar(&browseTranslate, "translate", false, "Show translated lyrics (NetEase translation, then Tencent Cloud)")
	playlistCmd.Flags().BoolVar(&browseShuffle, "shuffle", false, "Print the songs in random order")
	searchCmd.Flags().IntVar(&browsePage, "page", 0, "Result page, starting at 0")
	commentsCmd.Flags().IntVar(&browsePage, "page", 0, "Comment page, starting at 0")
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func showToplists(ctx context.Context, w io.Writer, client *netease.Client) error {
	lists, err := client.ToplistDetail(ctx)
	if err != nil {
		return err
	}
	for _, l := range lists {
		fmt.Fprintf(w, "%-12d %s %s\n", l.ID, padToWidth(l.Name, nameWidth), l.UpdateFrequency)
	}
	return nil
}

func showPlaylist(ctx context.Context, w io.Writer, client *netease.Client, id int64, shuffle bool) error {
	playlist, err := client.PlaylistDetail(ctx, id)
	if err != nil {
		return err
	}
	songs := playlist.Songs
	if shuffle {
		songs = tools.Shuffle(songs)
	}
	fmt.Fprintf(w, "%s (%d songs)\n", playlist.Name, len(songs))
	printSongs(w, songs)
	return nil
}

func showSearch(ctx context.Context, w io.Writer, client *netease.Client, keywords string, page, limit int) error {
	result, err := client.Search(ctx, keywords, page, limit)
	if err != nil {
		return err
	}
	songs := netease.FormatSongs(result.Songs)
	if len(songs) == 0 {
		fmt.Fprintf(w, "No results for %q\n", keywords)
		return nil
	}
	printSongs(w, songs)
	if result.HasMore {
		fmt.Fprintf(w, "... more results with --page %d\n", page+1)
	}
	return nil
}

// showLyric withTranslation 为 true 时优先使用网易云的翻译歌词，没有时使用 translator
func showLyric(ctx context.Context, w io.Writer, client *netease.Client, id int64, withTranslation bool, translator translate.Translator) error {
	l, err := client.Lyric(ctx, id)
	if err != nil {
		return err
	}
	lines := lyric.Parse(l.Lrc.Lyric)
	if len(lines) == 0 {
		fmt.Fprintln(w, "No timed lyrics")
		return nil
	}

	var translations []string
	if withTranslation {
		translations, err = translateLines(ctx, lines, lyric.Parse(l.Tlyric.Lyric), translator)
		if err != nil {
			return err
		}
	}

	for i, line := range lines {
		fmt.Fprintf(w, "[%s] %s\n", tools.FormatDuration(line.Time), line.Text)
		if i < len(translations) && translations[i] != "" {
			fmt.Fprintf(w, "        %s\n", translations[i])
		}
	}
	return nil
}

func translateLines(ctx context.Context, lines, translated []lyric.Line, translator translate.Translator) ([]string, error) {
	if len(translated) > 0 {
		return lyric.Attach(lines, translated), nil
	}
	if translator == nil {
		return nil, errors.New("no translated lyrics available, configure [translate] to use Tencent Cloud")
	}
	texts := make([]string, len(lines))
	for i, line := range lines {
		texts[i] = line.Text
	}
	return translator.Translate(ctx, texts)
}

func showSongURL(ctx context.Context, w io.Writer, client *netease.Client, id int64) error {
	check, err := client.CheckMusic(ctx, id)
	if err != nil {
		return err
	}
	if !check.Success {
		return fmt.Errorf("song %d is not available: %s", id, check.Message)
	}
	urls, err := client.SongURL(ctx, id)
	if err != nil {
		return err
	}
	for _, u := range urls {
		if u.URL == "" {
			continue
		}
		fmt.Fprintln(w, tools.ToHTTPS(u.URL))
		return nil
	}
	// 没有直链时退回外链地址
	fmt.Fprintln(w, netease.NewSong(netease.RawSong{ID: id}).URL)
	return nil
}

func showComments(ctx context.Context, w io.Writer, client *netease.Client, id int64, page, limit int) error {
	resp, err := client.Comments(ctx, id, page, limit)
	if err != nil {
		return err
	}
	for _, c := range resp.Comments {
		when := time.UnixMilli(c.Time).Format("2006-01-02 15:04")
		fmt.Fprintf(w, "%s  %s: %s\n", when, c.User.Nickname, strings.ReplaceAll(c.Content, "\n", " "))
	}
	fmt.Fprintf(w, "%d comments in total\n", resp.Total)
	return nil
}
