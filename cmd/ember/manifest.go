package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

const noEmberTomlMessage = "no ember.toml found\nplease pass unit payloads explicitly, e.g.:\n  ember check path/to/unit.mp"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Package packageConfig `toml:"package"`
	Units   unitsConfig   `toml:"units"`
	Advisor advisorConfig `toml:"advisor"`
	Build   buildConfig   `toml:"build"`
}

type packageConfig struct {
	Name string `toml:"name"`
}

type unitsConfig struct {
	Paths []string `toml:"paths"`
}

type advisorConfig struct {
	Strict bool `toml:"strict"`
}

type buildConfig struct {
	Out  string `toml:"out"`
	Jobs int    `toml:"jobs"`
}

func findEmberToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "ember.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findEmberToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg projectConfig
	if _, err := toml.DecodeFile(manifestPath, &cfg); err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", manifestPath, err)
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// resolveUnitPaths turns CLI arguments into a sorted list of unit payload
// paths. Arguments may be payload files or directories (searched for
// *.mp); with no arguments the manifest's units list is used.
func resolveUnitPaths(args []string) ([]string, *projectManifest, error) {
	if len(args) == 0 {
		manifest, ok, err := loadProjectManifest(".")
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, errors.New(noEmberTomlMessage)
		}
		paths := make([]string, 0, len(manifest.Config.Units.Paths))
		for _, p := range manifest.Config.Units.Paths {
			if !filepath.IsAbs(p) {
				p = filepath.Join(manifest.Root, p)
			}
			paths = append(paths, p)
		}
		sort.Strings(paths)
		return paths, manifest, nil
	}

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, nil, err
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".mp") {
				continue
			}
			paths = append(paths, filepath.Join(arg, e.Name()))
		}
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, nil, errors.New("no unit payloads found")
	}
	return paths, nil, nil
}
