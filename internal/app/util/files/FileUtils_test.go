package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../../etc/passwd", "etc_passwd"},
		{"i contain cool \u00fcml\u00e4uts.txt", "i_contain_cool_umlauts.txt"},
		{"__filename__", "filename"},
		{"foo$&^*)bar", "foobar"},
		{"sample.mp3", "sample.mp3"},
		{".mp3", "mp3"},
		{"日本語.mp3", "mp3"},
		{"  leading spaces.wav", "leading_spaces.wav"},
		{"a\tb\nc.m4a", "a_b_c.m4a"},
		{"a\x1fb.mp4", "a_b.mp4"},
		{"\ufb01le.mp3", "file.mp3"},
		{`C:\Users\x.mp3`, "CUsersx.mp3"},
		{"/abs/path/song.MP3", "abs_path_song.MP3"},
		{"...", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SecureFilename(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.NotContains(t, got, "/")
			assert.NotContains(t, got, "..")
		})
	}
}

func TestHasAllowedExtension(t *testing.T) {
	allowed := []string{"a.mp3", "a.MP3", "b.mp4", "c.wav", "d.m4a", "e.Wav", "f.tar.m4a", ".mp3"}
	for _, name := range allowed {
		assert.True(t, HasAllowedExtension(name), name)
	}

	rejected := []string{"a.txt", "a.mp3.exe", "a.ogg", "mp3", "a.mp", "a.flac", ""}
	for _, name := range rejected {
		assert.False(t, HasAllowedExtension(name), name)
	}
}

func TestStemAndTranscriptName(t *testing.T) {
	assert.Equal(t, "sample", Stem("sample.mp3"))
	assert.Equal(t, "song.live", Stem("song.live.wav"))
	assert.Equal(t, "mp3", Stem("mp3"))
	assert.Equal(t, "transcription_sample.txt", TranscriptName("sample.mp3"))
	assert.Equal(t, "transcription_song.live.txt", TranscriptName("song.live.wav"))
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, "audio/mp3", MediaType("a.MP3"))
	assert.Equal(t, "video/mp4", MediaType("a.mp4"))
	assert.Equal(t, "audio/wav", MediaType("a.wav"))
	assert.Equal(t, "audio/mp4", MediaType("a.m4a"))
	assert.Equal(t, "application/octet-stream", MediaType("a.bin"))
}

func TestNewScratch(t *testing.T) {
	dir := t.TempDir()
	scratch := NewScratch(dir, "sample.mp3")

	assert.Equal(t, filepath.Join(dir, "sample.mp3"), scratch.AudioPath)
	assert.Equal(t, filepath.Join(dir, "transcription_sample.txt"), scratch.TranscriptPath)
}

func TestScratch_Cleanup(t *testing.T) {
	dir := t.TempDir()
	scratch := NewScratch(dir, "sample.wav")

	require.NoError(t, os.WriteFile(scratch.AudioPath, []byte("audio"), 0o644))
	require.NoError(t, os.WriteFile(scratch.TranscriptPath, []byte("text"), 0o644))

	require.NoError(t, scratch.Cleanup())
	assert.NoFileExists(t, scratch.AudioPath)
	assert.NoFileExists(t, scratch.TranscriptPath)

	// Second run finds nothing to remove.
	assert.NoError(t, scratch.Cleanup())
}

func TestScratch_CleanupPartial(t *testing.T) {
	dir := t.TempDir()
	scratch := NewScratch(dir, "only-audio.m4a")
	require.NoError(t, os.WriteFile(scratch.AudioPath, []byte("audio"), 0o644))

	assert.NoError(t, scratch.Cleanup())
	assert.NoFileExists(t, scratch.AudioPath)
}

func TestScratch_CleanupReportsFailure(t *testing.T) {
	dir := t.TempDir()
	scratch := NewScratch(dir, "busy.mp3")

	// A non-empty directory at the audio path cannot be removed with os.Remove.
	require.NoError(t, os.MkdirAll(filepath.Join(scratch.AudioPath, "child"), 0o755))
	require.NoError(t, os.WriteFile(scratch.TranscriptPath, []byte("text"), 0o644))

	assert.Error(t, scratch.Cleanup())
	assert.NoFileExists(t, scratch.TranscriptPath)
}

func TestRemoveIfExists(t *testing.T) {
	assert.NoError(t, RemoveIfExists(""))
	assert.NoError(t, RemoveIfExists(filepath.Join(t.TempDir(), "missing.mp3")))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "scratch")

	require.NoError(t, EnsureDir(dir))
	assert.DirExists(t, dir)
	assert.NoError(t, EnsureDir(dir))
}
