package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/chazu/bridgegen/bridge"
	"github.com/chazu/bridgegen/bridgefile"
	"github.com/chazu/bridgegen/cache"
	"github.com/chazu/bridgegen/codegen"
	"github.com/chazu/bridgegen/manifest"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

var log = commonlog.GetLogger("bridgegen.cli")

// project is the resolved configuration of one invocation: the manifest (or
// defaults) with command line overrides applied.
type project struct {
	m        *manifest.Manifest
	files    []string
	prefix   string
	features []string
}

// loadProject finds bridgegen.toml above dir and applies overrides. Explicit
// files win over the manifest's module globs.
func loadProject(dir string, files []string, prefix string, features []string) (*project, error) {
	m, err := manifest.FindAndLoad(dir)
	if err != nil {
		return nil, err
	}
	if m == nil {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		m = manifest.Default(abs)
		log.Debugf("no %s found, using defaults in %s", manifest.FileName, abs)
	} else {
		log.Debugf("using %s", filepath.Join(m.Dir, manifest.FileName))
	}

	p := &project{m: m, prefix: m.Bridge.Prefix}
	if prefix != "" {
		if err := bridge.ValidatePrefix(prefix); err != nil {
			return nil, err
		}
		p.prefix = prefix
	}
	p.features = append(slices.Clone(m.Bridge.Features), features...)
	slices.Sort(p.features)
	p.features = slices.Compact(p.features)

	if len(files) > 0 {
		p.files = files
	} else {
		p.files, err = m.ModulePaths()
		if err != nil {
			return nil, err
		}
	}
	if len(p.files) == 0 {
		return nil, fmt.Errorf("no bridge descriptions given and none match %v in %s", m.Bridge.Modules, m.Dir)
	}
	return p, nil
}

func (p *project) config() codegen.Config {
	return codegen.Config{Prefix: p.prefix, FeatureEnabled: codegen.Features(p.features...)}
}

// moduleResult is the outcome for one bridge description.
type moduleResult struct {
	File   string
	Module string
	Out    *codegen.Artifacts
	Cached bool
	Err    error
}

// generateAll generates every file concurrently. Each module has its own
// registry; a failure is recorded in its result and does not stop the others.
// store may be nil.
func generateAll(ctx context.Context, p *project, store *cache.Store, jobs int) ([]moduleResult, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]moduleResult, len(p.files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(p.files)))
	for i, file := range p.files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = generateOne(gctx, p, store, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	markDuplicateModules(results)
	return results, nil
}

func generateOne(ctx context.Context, p *project, store *cache.Store, file string) moduleResult {
	res := moduleResult{File: file}
	doc, err := bridgefile.Load(file)
	if err != nil {
		res.Err = err
		return res
	}
	res.Module = doc.ModuleName()

	var key string
	if store != nil {
		key, err = cache.Fingerprint(cache.NewRequest(doc, p.prefix, p.features, Version))
		if err != nil {
			res.Err = err
			return res
		}
		out, err := store.Get(ctx, key)
		switch {
		case err == nil:
			log.Debugf("%s: cache hit", file)
			res.Out, res.Cached = out, true
			return res
		case !errors.Is(err, cache.ErrMiss):
			log.Warningf("%s: reading cache: %s", file, err)
		}
	}

	mod, err := doc.BuildModule()
	if err != nil {
		res.Err = err
		return res
	}
	out, err := codegen.Generate(mod, p.config())
	if err != nil {
		res.Err = err
		return res
	}
	res.Out = out

	if store != nil {
		if err := store.Put(ctx, key, res.Module, out); err != nil {
			log.Warningf("%s: writing cache: %s", file, err)
		}
	}
	return res
}

// markDuplicateModules fails every module whose name is shared with another
// file, since their outputs would overwrite each other.
func markDuplicateModules(results []moduleResult) {
	byName := make(map[string][]int)
	for i, r := range results {
		if r.Err == nil {
			byName[r.Module] = append(byName[r.Module], i)
		}
	}
	for name, idx := range byName {
		if len(idx) < 2 {
			continue
		}
		for _, i := range idx {
			others := make([]string, 0, len(idx)-1)
			for _, j := range idx {
				if j != i {
					others = append(others, results[j].File)
				}
			}
			results[i].Out = nil
			results[i].Err = fmt.Errorf("%s: module %q is also generated from %v", results[i].File, name, others)
		}
	}
}

// outputPaths returns where the artifacts of module go. outDir, when set,
// replaces all three configured directories.
func (p *project) outputPaths(module, outDir string) (rust, swift, header string) {
	rustDir, swiftDir, cDir := p.m.RustDir(), p.m.SwiftDir(), p.m.CDir()
	if outDir != "" {
		rustDir, swiftDir, cDir = outDir, outDir, outDir
	}
	return filepath.Join(rustDir, module+".rs"),
		filepath.Join(swiftDir, module+".swift"),
		filepath.Join(cDir, module+".h")
}

// writeArtifacts writes one module's three files. Each is staged next to its
// destination; nothing is renamed into place unless all three writes succeed.
func writeArtifacts(module string, out *codegen.Artifacts, rustPath, swiftPath, headerPath string) error {
	files := []struct {
		path    string
		content string
	}{
		{rustPath, out.Rust},
		{swiftPath, out.Swift},
		{headerPath, codegen.WrapHeader(module, out.CHeader)},
	}

	var staged []string
	discard := func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}
	for _, f := range files {
		tmp, err := stageFile(f.path, f.content)
		if err != nil {
			discard()
			return err
		}
		staged = append(staged, tmp)
	}
	for i, f := range files {
		if err := os.Rename(staged[i], f.path); err != nil {
			discard()
			return fmt.Errorf("writing %s: %w", f.path, err)
		}
		log.Debugf("wrote %s", f.path)
	}
	return nil
}

// stageFile writes content to a temporary file in path's directory and
// returns its name.
func stageFile(path, content string) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	_, err = f.WriteString(content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(f.Name(), 0o644)
	}
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Name(), nil
}
