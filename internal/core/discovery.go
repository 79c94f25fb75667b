package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"epics-require/internal/types"
)

// Discoverer finds the installed directory that best satisfies a module
// request.
type Discoverer struct {
	Fs        afero.Fs
	Layout    Layout
	EpicsBase string
}

func NewDiscoverer(fsys afero.Fs, layout Layout, epicsBase string) Discoverer {
	return Discoverer{Fs: fsys, Layout: layout, EpicsBase: epicsBase}
}

// Discover resolves module at the requested version text. The steps are
// tried in order: local build tree, named version, declared default, and
// finally the highest matching numeric installation.
func (d Discoverer) Discover(ctx context.Context, module string, requested string) (types.Candidate, error) {
	logger := log.Ctx(ctx)
	version := requested
	source := types.SourceInstalled

	if version == "" || version == types.VersionLocal {
		if candidate, ok := d.findLocal(ctx, module); ok {
			return candidate, nil
		}
	}

	if version != "" && !IsFullTriple(version) {
		if candidate, ok := d.findNamed(module, version, types.SourceNamed); ok {
			logger.Debug().Str("module", module).Str("version", version).Msg("found named version")
			return candidate, nil
		}
	}

	if version == "" {
		if found, ok := d.findDefault(ctx, module); ok {
			logger.Debug().Str("module", module).Str("version", found).Msg("default version")
			version = found
			source = types.SourceDefault
			if !IsFullTriple(version) {
				if candidate, ok := d.findNamed(module, version, types.SourceDefault); ok {
					return candidate, nil
				}
			}
		}
	}

	want, err := ParseVersion(version)
	if err != nil {
		logger.Debug().Err(err).Str("module", module).Msg("no numeric match possible")
		return types.Candidate{}, notFound(module, requested)
	}
	installed, err := d.numericInstalled(ctx, module)
	if err != nil {
		return types.Candidate{}, err
	}
	chosen, ok := bestInstalledVersion(want, installed)
	if !ok {
		return types.Candidate{}, notFound(module, requested)
	}
	logger.Debug().Str("module", module).Str("requested", FormatVersion(want)).Str("version", chosen).Msg("chosen")
	return types.Candidate{
		Version: chosen,
		Path:    d.Layout.VersionDir(module, chosen),
		Source:  source,
	}, nil
}

// IsInstalled reports whether modulePath carries the per-architecture
// dependency descriptor for module.
func (d Discoverer) IsInstalled(module string, modulePath string) bool {
	info, err := d.Fs.Stat(d.Layout.DependencyFile(modulePath, module))
	return err == nil && !info.IsDir()
}

// Installed lists every entry under repoRoot/<module>, sorted with numeric
// versions first (highest first) followed by named versions.
func (d Discoverer) Installed(module string) ([]types.InstalledVersion, error) {
	entries, err := afero.ReadDir(d.Fs, d.Layout.ModuleDir(module))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(module, "")
		}
		return nil, openError(d.Layout.ModuleDir(module), err)
	}
	var out []types.InstalledVersion
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := d.Layout.VersionDir(module, entry.Name())
		out = append(out, types.InstalledVersion{
			Name:      entry.Name(),
			Path:      path,
			Numeric:   IsFullTriple(entry.Name()),
			Available: d.IsInstalled(module, path),
		})
	}
	cache := newVersionCache()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Numeric != b.Numeric {
			return a.Numeric
		}
		if !a.Numeric {
			return a.Name < b.Name
		}
		va, _ := cache.version(a.Name)
		vb, _ := cache.version(b.Name)
		return Compare(va, vb) > 0
	})
	return out, nil
}

func (d Discoverer) findLocal(ctx context.Context, module string) (types.Candidate, bool) {
	entries, err := afero.ReadDir(d.Fs, d.Layout.LocalModulesDir)
	if err != nil {
		return types.Candidate{}, false
	}
	log.Ctx(ctx).Debug().Str("dir", d.Layout.LocalModulesDir).Msg("looking for local modules")
	for _, entry := range entries {
		path := d.Layout.LocalDir(entry.Name())
		if d.IsInstalled(module, path) {
			log.Ctx(ctx).Debug().Str("module", module).Str("entry", entry.Name()).Msg("found local module")
			return types.Candidate{Version: types.VersionLocal, Path: path, Source: types.SourceLocal}, true
		}
	}
	return types.Candidate{}, false
}

func (d Discoverer) findNamed(module string, version string, source types.CandidateSource) (types.Candidate, bool) {
	path := d.Layout.VersionDir(module, version)
	if !d.IsInstalled(module, path) {
		return types.Candidate{}, false
	}
	return types.Candidate{Version: version, Path: path, Source: source}, true
}

func (d Discoverer) findDefault(ctx context.Context, module string) (string, bool) {
	files := DefaultFiles(d.EpicsBase, d.Layout.Arch)
	if len(files) == 0 {
		log.Ctx(ctx).Debug().Msg("EPICS_BASE not defined")
		return "", false
	}
	for _, file := range files {
		log.Ctx(ctx).Debug().Str("file", file).Msg("parsing default dependency file")
		version, found, err := FindDefault(d.Fs, module, file)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("file", file).Msg("default dependency file unreadable")
			return "", false
		}
		if found {
			return version, true
		}
	}
	return "", false
}

// numericInstalled lists installed full-triple versions available for the
// configured architecture.
func (d Discoverer) numericInstalled(ctx context.Context, module string) ([]string, error) {
	entries, err := afero.ReadDir(d.Fs, d.Layout.ModuleDir(module))
	if err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("module", module).Msg("no installed versions")
		return nil, nil
	}
	var names []string
	for _, entry := range entries {
		if !IsFullTriple(entry.Name()) {
			continue
		}
		if !d.IsInstalled(module, d.Layout.VersionDir(module, entry.Name())) {
			log.Ctx(ctx).Debug().Str("module", module).Str("version", entry.Name()).Msg("not available on this platform")
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

func notFound(module string, version string) error {
	msg := fmt.Sprintf("module not found: %s", module)
	if version != "" {
		msg = fmt.Sprintf("module not found: %s version %s", module, version)
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(msg)
}
