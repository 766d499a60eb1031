// Package locator resolves the authoritative Jellyfin data directory among
// the known install locations.
package locator

import (
	"os"

	"github.com/semmidev/jellysafe/internal/domain"
)

type Locator struct {
	candidates []string
	stat       func(string) (os.FileInfo, error)
}

// New builds a Locator over candidate directories in priority order.
func New(candidates []string) *Locator {
	return &Locator{
		candidates: candidates,
		stat:       os.Stat,
	}
}

// Resolve returns the first candidate that exists as a directory. Later
// candidates are not probed once one matches. With no match it returns
// domain.ErrDataDirNotFound, which is fatal to the whole program.
func (l *Locator) Resolve() (string, error) {
	for _, dir := range l.candidates {
		info, err := l.stat(dir)
		if err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", domain.ErrDataDirNotFound
}
