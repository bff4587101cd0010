package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"golang.org/x/text/unicode/norm"
)

// TranscriptPrefix marks the transcript file derived from an upload.
const TranscriptPrefix = "transcription_"

// AllowedExtensions lists the accepted upload containers.
var AllowedExtensions = []string{".mp3", ".mp4", ".wav", ".m4a"}

var mediaTypes = map[string]string{
	".mp3": "audio/mp3",
	".mp4": "video/mp4",
	".wav": "audio/wav",
	".m4a": "audio/mp4",
}

var filenameStripRe = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// HasAllowedExtension reports whether filename ends in one of AllowedExtensions,
// ignoring case.
func HasAllowedExtension(filename string) bool {
	lower := strings.ToLower(filename)
	return lo.SomeBy(AllowedExtensions, func(ext string) bool {
		return strings.HasSuffix(lower, ext)
	})
}

// SecureFilename returns a form of filename that is safe to join onto a
// directory: compatibility-decomposed, ASCII only, no path separators,
// whitespace runs collapsed to "_", only [A-Za-z0-9_.-] kept, and no leading
// or trailing "." or "_". The result may be empty.
func SecureFilename(filename string) string {
	filename = norm.NFKD.String(filename)
	filename = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, filename)
	filename = strings.ReplaceAll(filename, "/", " ")
	filename = strings.Join(strings.FieldsFunc(filename, isSpace), "_")
	filename = filenameStripRe.ReplaceAllString(filename, "")
	return strings.Trim(filename, "._")
}

// isSpace matches the ASCII whitespace set, including the
// file/group/record/unit separators.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r', 0x1c, 0x1d, 0x1e, 0x1f:
		return true
	}
	return false
}

// Stem returns the final path element without its extension.
func Stem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// TranscriptName returns the download name for the transcript of filename.
func TranscriptName(filename string) string {
	return TranscriptPrefix + Stem(filename) + ".txt"
}

// MediaType guesses the MIME type of an allowed upload from its extension.
func MediaType(filename string) string {
	if mediaType, ok := mediaTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return mediaType
	}
	return "application/octet-stream"
}

// EnsureDir creates dir if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// RemoveIfExists deletes path, treating a missing file as success.
func RemoveIfExists(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Scratch is the pair of per-request temporary paths for one upload.
type Scratch struct {
	AudioPath      string
	TranscriptPath string
}

// NewScratch derives the audio and transcript paths for an already
// sanitized filename inside dir.
func NewScratch(dir, sanitized string) Scratch {
	return Scratch{
		AudioPath:      filepath.Join(dir, sanitized),
		TranscriptPath: filepath.Join(dir, TranscriptName(sanitized)),
	}
}

// Cleanup removes both paths if they exist. Every removal is attempted even
// when an earlier one fails.
func (s Scratch) Cleanup() error {
	return errors.Join(
		RemoveIfExists(s.AudioPath),
		RemoveIfExists(s.TranscriptPath),
	)
}
