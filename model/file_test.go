package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTempFile creates a readable regular file and returns its path.
func writeTempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("contents"), 0o644))
	return path
}

func TestNewFile(t *testing.T) {
	path := writeTempFile(t, "statement.pdf")

	f, err := NewFile(path, "application/pdf", "January statement", 2)
	require.NoError(t, err)

	assert.Equal(t, path, f.NameAndPath())
	assert.Equal(t, "application/pdf", f.MimeType())
	assert.Equal(t, "January statement", f.Description())
	assert.Equal(t, 2, f.CategoryID())
	assert.Equal(t, "Bank Statements", f.Category().Name)
	assert.Equal(t, "", f.UploadPath())
}

func TestNewFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		catID   int
		wantErr error
	}{
		{
			name:    "missing file",
			path:    filepath.Join(dir, "nope.pdf"),
			catID:   2,
			wantErr: ErrFileNotFound,
		},
		{
			name:    "directory instead of file",
			path:    dir,
			catID:   2,
			wantErr: ErrNotAFile,
		},
		{
			name:    "unknown category",
			path:    writeTempFile(t, "doc.pdf"),
			catID:   9999,
			wantErr: ErrUnknownCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFile(tt.path, "application/pdf", "x", tt.catID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewFile_Unreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read anything")
	}
	path := writeTempFile(t, "secret.pdf")
	require.NoError(t, os.Chmod(path, 0o000))

	_, err := NewFile(path, "application/pdf", "x", 2)
	assert.ErrorIs(t, err, ErrFileUnreadable)
}

func TestFile_SetUploadPath(t *testing.T) {
	f, err := NewFile(writeTempFile(t, "doc.pdf"), "application/pdf", "x", 2)
	require.NoError(t, err)

	assert.Same(t, f, f.SetUploadPath("generated/abc.pdf"))
	assert.Equal(t, "generated/abc.pdf", f.UploadPath())

	// Last write wins; re-setting must not corrupt the record.
	f.SetUploadPath("generated/def.pdf")
	assert.Equal(t, "generated/def.pdf", f.UploadPath())
}
