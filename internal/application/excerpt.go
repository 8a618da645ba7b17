package application

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bnema/droidfleet/internal/domain"
)

// MaxFilenameLen is the longest file name excerpts and bug reports may use.
const MaxFilenameLen = 255

type ExcerptRequest struct {
	Source string
	OutDir string
	Tag    string
	// Begin is a log line timestamp, e.g. "10-19 14:03:27.512".
	Begin string
	End   domain.LogTime
}

// ExcerptFileName builds "<tag>,<begin>,<source>.txt", truncating the tag so
// the whole name fits MaxFilenameLen.
func ExcerptFileName(tag, begin, source string) string {
	base := filepath.Base(source)
	base = strings.ReplaceAll(base, "adblog,", "")
	base = strings.ReplaceAll(base, ".txt", "")

	suffix := fmt.Sprintf(",%s,%s.txt", begin, base)
	return truncate(tag, MaxFilenameLen-len(suffix)) + suffix
}

// ExtractExcerpt copies the source lines stamped within [Begin, End] into a
// new file under OutDir and returns its path. Lines without a valid timestamp
// are skipped. The source is assumed time ordered: the copy stops at the
// first line past the window once the window was entered.
func ExtractExcerpt(req ExcerptRequest) (string, error) {
	begin, err := domain.ParseLogTime(req.Begin)
	if err != nil {
		return "", fmt.Errorf("parse excerpt begin time %q: %w", req.Begin, err)
	}

	in, err := os.Open(req.Source)
	if err != nil {
		return "", fmt.Errorf("open log source: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("create excerpt directory: %w", err)
	}

	outPath := filepath.Join(req.OutDir, ExcerptFileName(req.Tag, req.Begin, req.Source))
	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create excerpt file: %w", err)
	}

	copyErr := copyWindow(out, in, begin, req.End)
	if err := out.Close(); err != nil && copyErr == nil {
		copyErr = fmt.Errorf("close excerpt file: %w", err)
	}
	if copyErr != nil {
		_ = os.Remove(outPath)
		return "", copyErr
	}

	return outPath, nil
}

func copyWindow(w io.Writer, r io.Reader, begin, end domain.LogTime) error {
	reader := bufio.NewReader(r)
	writer := bufio.NewWriter(w)
	inRange := false

	for {
		line, readErr := reader.ReadString('\n')
		if line != "" {
			stamp, ok := lineTime(line)
			if ok {
				if stamp.InRange(begin, end) {
					inRange = true
					if !strings.HasSuffix(line, "\n") {
						line += "\n"
					}
					if _, err := writer.WriteString(line); err != nil {
						return fmt.Errorf("write excerpt: %w", err)
					}
				} else if inRange {
					break
				}
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return fmt.Errorf("read log source: %w", readErr)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("write excerpt: %w", err)
	}

	return nil
}

func lineTime(line string) (domain.LogTime, bool) {
	if len(line) < domain.LogLineTimestampLen {
		return domain.LogTime{}, false
	}
	prefix := line[:domain.LogLineTimestampLen]
	if !domain.IsValidLogTime(prefix) {
		return domain.LogTime{}, false
	}
	stamp, err := domain.ParseLogTime(prefix)
	if err != nil {
		return domain.LogTime{}, false
	}

	return stamp, true
}

// truncate cuts value to at most max bytes without splitting a character.
func truncate(value string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(value) <= max {
		return value
	}
	for max > 0 && !utf8.RuneStart(value[max]) {
		max--
	}

	return value[:max]
}
