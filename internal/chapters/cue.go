package chapters

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chapterize/internal/services"
	"chapterize/internal/timecode"
)

// WriteCueSheet emits the plain-text cue format consumed by the splitter:
//
//	FILE "novel.mp3"
//	TRACK 01 AUDIO
//	  TITLE "Chapter One"
//	  START 00:00:00.000
//	  END 00:14:59.000
//
// Output is deterministic for a given list.
func WriteCueSheet(w io.Writer, sourceName string, list List) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "FILE %q\n", sourceName)
	for _, c := range list {
		fmt.Fprintf(bw, "TRACK %02d AUDIO\n", c.Index+1)
		fmt.Fprintf(bw, "  TITLE %q\n", c.Label)
		fmt.Fprintf(bw, "  START %s\n", c.Start.Format())
		fmt.Fprintf(bw, "  END %s\n", c.End.Format())
	}
	return bw.Flush()
}

// ReadCueSheet parses a cue sheet back into a chapter list, so user-edited
// sheets can drive splitting. Returns the source file name recorded in the
// sheet. Structural invariants are not re-checked here; callers verify
// against the asset duration.
func ReadCueSheet(r io.Reader) (sourceName string, list List, err error) {
	scanner := bufio.NewScanner(r)
	var current *Chapter
	lineNo := 0

	flush := func() {
		if current != nil {
			list = append(list, *current)
			current = nil
		}
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		keyword, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch keyword {
		case "FILE":
			sourceName = unquote(rest)
		case "TRACK":
			flush()
			fields := strings.Fields(rest)
			if len(fields) == 0 {
				return "", nil, cueError(lineNo, "TRACK without number")
			}
			trackNo, convErr := strconv.Atoi(fields[0])
			if convErr != nil || trackNo < 1 {
				return "", nil, cueError(lineNo, "bad TRACK number "+fields[0])
			}
			current = &Chapter{Index: trackNo - 1, Source: SourceKeyword}
		case "TITLE":
			if current == nil {
				return "", nil, cueError(lineNo, "TITLE outside TRACK")
			}
			current.Label = unquote(rest)
		case "START", "END":
			if current == nil {
				return "", nil, cueError(lineNo, keyword+" outside TRACK")
			}
			at, parseErr := timecode.Parse(rest)
			if parseErr != nil {
				return "", nil, cueError(lineNo, parseErr.Error())
			}
			if keyword == "START" {
				current.Start = at
			} else {
				current.End = at
			}
		default:
			return "", nil, cueError(lineNo, "unknown keyword "+keyword)
		}
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return "", nil, scanErr
	}
	flush()
	if len(list) == 0 {
		return "", nil, services.Wrap(services.ErrValidation, "chapters", "cue", "cue sheet has no tracks", nil)
	}
	return sourceName, list, nil
}

func cueError(line int, message string) error {
	return services.Wrap(services.ErrValidation, "chapters", "cue",
		fmt.Sprintf("line %d: %s", line, message), nil)
}

func unquote(s string) string {
	if unquoted, err := strconv.Unquote(s); err == nil {
		return unquoted
	}
	return s
}
