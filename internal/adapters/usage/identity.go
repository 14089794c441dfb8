package usage

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	"go.trai.ch/sprout/internal/core/domain"
	"go.trai.ch/zerr"
)

const identityDescription = `This is a randomly generated version 4 UUID.
sprout uses this ID to count how many people use the tool.
It is random and contains no personally identifiable information.
You can delete this file at any time to create a new ID.
Set DO_NOT_TRACK=1 to disable usage reporting entirely.
`

// DefaultIdentityPath returns the distinct ID file under the XDG config directory.
func DefaultIdentityPath() string {
	return filepath.Join(xdg.ConfigHome, domain.AppName, domain.DistinctIDFileName)
}

// DistinctID returns the ID stored at path. A missing or unparsable file is
// replaced by a fresh random ID.
func DistinctID(path string) (uuid.UUID, error) {
	//nolint:gosec // Path is the fixed identity file location
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return uuid.Nil, zerr.With(zerr.Wrap(err, "failed to read distinct id"), "path", path)
	}

	if id, ok := parseIdentity(data); ok {
		return id, nil
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, zerr.Wrap(err, "failed to generate distinct id")
	}
	if err := writeIdentity(path, id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func parseIdentity(data []byte) (uuid.UUID, bool) {
	first, _, _ := bytes.Cut(data, []byte("\n"))
	id, err := uuid.Parse(strings.TrimSpace(string(first)))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func writeIdentity(path string, id uuid.UUID) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create config directory")
	}

	tmpFile, err := os.CreateTemp(dir, domain.DistinctIDFileName+"-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp identity file")
	}
	tmpName := tmpFile.Name()
	defer func() { _ = os.Remove(tmpName) }()

	w := bufio.NewWriter(tmpFile)
	_, _ = w.WriteString(id.String() + "\n\n" + identityDescription)
	if err := w.Flush(); err != nil {
		_ = tmpFile.Close()
		return zerr.Wrap(err, "failed to write identity file")
	}
	if err := tmpFile.Close(); err != nil {
		return zerr.Wrap(err, "failed to close identity file")
	}
	if err := os.Chmod(tmpName, domain.PrivateFilePerm); err != nil {
		return zerr.Wrap(err, "failed to chmod identity file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return zerr.Wrap(err, "failed to rename identity file")
	}
	return nil
}
