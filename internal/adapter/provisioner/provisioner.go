// Package provisioner acquires a portable 7-Zip executable on first use and
// keeps it cached in a local tool directory across runs.
package provisioner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/semmidev/jellysafe/internal/domain"
	"github.com/semmidev/jellysafe/internal/infrastructure/execx"
)

// executableNames are the acceptable archiver names, most capable first.
var executableNames = []string{"7z.exe", "7za.exe"}

type Logger interface {
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

type Provisioner struct {
	toolDir     string
	downloadURL string
	runner      execx.Runner
	client      *http.Client
	lookPath    func(string) (string, error)
	logger      Logger
}

func New(toolDir, downloadURL string, runner execx.Runner, logger Logger) *Provisioner {
	return &Provisioner{
		toolDir:     toolDir,
		downloadURL: downloadURL,
		runner:      runner,
		client:      http.DefaultClient,
		lookPath:    exec.LookPath,
		logger:      logger,
	}
}

// EnsureTool returns the path of a usable archiver executable, downloading
// and extracting the portable distribution if none is cached yet. Safe to
// call repeatedly; once the tool exists it short-circuits without touching
// the network.
func (p *Provisioner) EnsureTool(ctx context.Context) (string, error) {
	if path, ok := p.installed(); ok {
		return path, nil
	}

	if err := os.MkdirAll(p.toolDir, 0755); err != nil {
		return "", p.acquisitionError(fmt.Errorf("create tool directory: %w", err))
	}

	p.logger.Infof("7-Zip not found, downloading from %s", p.downloadURL)
	archivePath, err := p.download(ctx)
	if err != nil {
		return "", p.acquisitionError(fmt.Errorf("download: %w", err))
	}
	defer os.Remove(archivePath)

	extractDir, err := os.MkdirTemp("", "jellysafe-7zip-")
	if err != nil {
		return "", p.acquisitionError(fmt.Errorf("create extraction directory: %w", err))
	}
	defer os.RemoveAll(extractDir)

	if err := p.extract(ctx, archivePath, extractDir); err != nil {
		return "", p.acquisitionError(err)
	}

	if err := p.install(extractDir); err != nil {
		return "", p.acquisitionError(err)
	}

	path, ok := p.installed()
	if !ok {
		return "", p.acquisitionError(errors.New("executable still missing after extraction"))
	}

	p.logger.Infof("✓ 7-Zip provisioned: %s", path)
	return path, nil
}

// installed checks the tool directory for an acceptable executable.
func (p *Provisioner) installed() (string, bool) {
	for _, name := range executableNames {
		path := filepath.Join(p.toolDir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func (p *Provisioner) download(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.downloadURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp("", "jellysafe-7zip-*.zip")
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

type strategyOutcome int

const (
	strategySucceeded strategyOutcome = iota
	strategyNotApplicable
	strategyFailed
)

type extractStrategy struct {
	name string
	run  func(ctx context.Context, archive, dest string) strategyOutcome
}

// extract tries each host extraction utility in order until one succeeds.
// The downloaded distribution itself needs an archiver to open, so the only
// way to bootstrap is with tools already present on the machine.
func (p *Provisioner) extract(ctx context.Context, archive, dest string) error {
	strategies := []extractStrategy{
		{"tar", p.extractWithTar},
		{"powershell Expand-Archive", p.extractWithPowershell},
	}

	for _, s := range strategies {
		switch s.run(ctx, archive, dest) {
		case strategySucceeded:
			p.logger.Infof("Extracted distribution with %s", s.name)
			return nil
		case strategyFailed:
			p.logger.Warnf("Extraction with %s failed, trying next", s.name)
		case strategyNotApplicable:
			continue
		}
	}

	return errors.New("no host utility could extract the distribution")
}

func (p *Provisioner) extractWithTar(ctx context.Context, archive, dest string) strategyOutcome {
	if _, err := p.lookPath("tar"); err != nil {
		return strategyNotApplicable
	}
	if res := p.runner.Run(ctx, "tar", "-xf", archive, "-C", dest); !res.Success() {
		return strategyFailed
	}
	return strategySucceeded
}

func (p *Provisioner) extractWithPowershell(ctx context.Context, archive, dest string) strategyOutcome {
	if _, err := p.lookPath("powershell"); err != nil {
		return strategyNotApplicable
	}
	command := fmt.Sprintf("Expand-Archive -LiteralPath '%s' -DestinationPath '%s' -Force", archive, dest)
	if res := p.runner.Run(ctx, "powershell", "-NoProfile", "-Command", command); !res.Success() {
		return strategyFailed
	}
	return strategySucceeded
}

// install searches the extracted tree for the first acceptable executable and
// copies it into the tool directory.
func (p *Provisioner) install(extractDir string) error {
	for _, name := range executableNames {
		found := ""
		err := filepath.WalkDir(extractDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && d.Name() == name {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("search extracted tree: %w", err)
		}
		if found != "" {
			return copyFile(found, filepath.Join(p.toolDir, name))
		}
	}
	return errors.New("no archiver executable in extracted tree")
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer source.Close()

	dest, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return fmt.Errorf("failed to create dest: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, source); err != nil {
		return fmt.Errorf("failed to copy: %w", err)
	}

	return nil
}

func (p *Provisioner) acquisitionError(err error) error {
	return &domain.AcquisitionError{
		ToolDir:   p.toolDir,
		SourceURL: p.downloadURL,
		Err:       err,
	}
}
