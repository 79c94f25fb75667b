package core

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/afero"
)

// DefaultFiles returns the default-version files probed under epicsBase,
// architecture specific first.
func DefaultFiles(epicsBase string, arch string) []string {
	if epicsBase == "" {
		return nil
	}
	return []string{
		filepath.Join(epicsBase, "configure", fmt.Sprintf("default.%s.dep", arch)),
		filepath.Join(epicsBase, "configure", "default.dep"),
	}
}

// FindDefault scans a default-version file for module. A missing file is
// not an error; a file that exists but cannot be read is.
func FindDefault(fsys afero.Fs, module string, path string) (string, bool, error) {
	if _, err := fsys.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, openError(path, err)
	}
	file, err := fsys.Open(path)
	if err != nil {
		return "", false, openError(path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		name, version, ok := parseDefaultLine(scanner.Text())
		if !ok || name != module {
			continue
		}
		return version, true, nil
	}
	if err := scanner.Err(); err != nil {
		return "", false, openError(path, err)
	}
	return "", false, nil
}

func openError(path string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("failed to open %s", path)).
		WithCause(err)
}
