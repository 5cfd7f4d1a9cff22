// Package ffmeta maps container-level tags onto audiobook metadata and back
// onto ffmpeg arguments for split outputs.
package ffmeta

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Metadata is the tag set carried onto every split piece.
type Metadata struct {
	Title    string
	Artist   string
	Album    string
	Narrator string
	Genre    string
	Date     string
}

// FromTags reads ffprobe format tags. Audiobook containers conventionally
// store the narrator in the composer tag.
func FromTags(tags map[string]string) Metadata {
	get := func(keys ...string) string {
		for _, key := range keys {
			for tag, value := range tags {
				if strings.EqualFold(tag, key) {
					if trimmed := strings.TrimSpace(value); trimmed != "" {
						return trimmed
					}
				}
			}
		}
		return ""
	}
	return Metadata{
		Title:    get("title"),
		Artist:   get("artist", "album_artist"),
		Album:    get("album"),
		Narrator: get("composer", "narrator"),
		Genre:    get("genre"),
		Date:     get("date", "year"),
	}
}

// Merge overlays user-supplied values on top of probed ones. User values win
// wherever they are non-empty.
func Merge(probed, user Metadata) Metadata {
	pick := func(base, override string) string {
		if strings.TrimSpace(override) != "" {
			return override
		}
		return base
	}
	return Metadata{
		Title:    pick(probed.Title, user.Title),
		Artist:   pick(probed.Artist, user.Artist),
		Album:    pick(probed.Album, user.Album),
		Narrator: pick(probed.Narrator, user.Narrator),
		Genre:    pick(probed.Genre, user.Genre),
		Date:     pick(probed.Date, user.Date),
	}
}

// FFmpegArgs renders the metadata as -metadata arguments. Empty fields are
// omitted.
func (m Metadata) FFmpegArgs() []string {
	var args []string
	add := func(key, value string) {
		if strings.TrimSpace(value) != "" {
			args = append(args, "-metadata", fmt.Sprintf("%s=%s", key, value))
		}
	}
	add("artist", m.Artist)
	add("album", m.Album)
	add("composer", m.Narrator)
	add("genre", m.Genre)
	add("date", m.Date)
	return args
}

// ExtractCoverArt pulls the embedded cover image into dest. Containers
// without art fail at the ffmpeg level; callers treat that as optional.
func ExtractCoverArt(ctx context.Context, ffmpegBinary, source, dest string) error {
	cmd := exec.CommandContext(ctx, ffmpegBinary, //nolint:gosec
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-an",
		"-vcodec", "copy",
		dest,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("extract cover art: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
