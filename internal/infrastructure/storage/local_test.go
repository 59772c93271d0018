package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteUsesDestinationAndTimestampedName(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStorage(root)
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }

	sf, err := s.Write(Discussion, "my cat photo.png", strings.NewReader("png"))
	require.NoError(t, err)

	assert.Equal(t, "/uploads/discussion/1700000000123-mycatphoto.png", sf.URL)
	assert.Equal(t, ".png", sf.Ext)

	data, err := os.ReadFile(filepath.Join(root, "discussion", sf.Name))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestCleanNameStripsDirectories(t *testing.T) {
	assert.Equal(t, "passwd", cleanName("../../etc/passwd"))
	assert.Equal(t, "a.txt", cleanName(`C:\Users\me\a.txt`))
	assert.Equal(t, "file", cleanName("   "))
}

func TestWriteLowercasesExtensionWithDot(t *testing.T) {
	s := NewLocalStorage(t.TempDir())

	sf, err := s.Write(Discussion, "Report.PDF", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, ".pdf", sf.Ext)
	assert.True(t, strings.HasSuffix(sf.URL, "-Report.PDF"))

	sf, err = s.Write(Discussion, "README", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "", sf.Ext)
}

func TestWriteKeepsBothFilesOnNameClash(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStorage(root)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	first, err := s.Write(Lessons, "notes.txt", strings.NewReader("first"))
	require.NoError(t, err)
	second, err := s.Write(Lessons, "notes.txt", strings.NewReader("second"))
	require.NoError(t, err)
	third, err := s.Write(Lessons, "notes.txt", strings.NewReader("third"))
	require.NoError(t, err)

	assert.Equal(t, "/uploads/lessons/1700000000000-notes.txt", first.URL)
	assert.Equal(t, "/uploads/lessons/1700000000000-1-notes.txt", second.URL)
	assert.Equal(t, "/uploads/lessons/1700000000000-2-notes.txt", third.URL)

	for sf, want := range map[StoredFile]string{first: "first", second: "second", third: "third"} {
		data, err := os.ReadFile(filepath.Join(root, "lessons", sf.Name))
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}
}
