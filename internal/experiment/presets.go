package experiment

import (
	"embed"
	"fmt"
	"path"
	"slices"

	"github.com/DjordjeVuckovic/benchplot/internal/apperr"
)

//go:embed presets/*.yaml
var presetFS embed.FS

const PresetAll = "all"

// presetDirs maps each preset to the directory its result files live in when
// every preset is run together from the project root.
var presetDirs = map[string]string{
	"cuda":     "Cuda_impl",
	"openmp":   "OpenMP_impl",
	"pthreads": "pThreads_impl",
}

func PresetNames() []string {
	names := []string{PresetAll}
	for name := range presetDirs {
		names = append(names, name)
	}
	slices.Sort(names[1:])
	return names
}

// Preset returns one of the built-in suites. The "all" preset combines every
// suite and prefixes each input path with the implementation directory.
func Preset(name string) (*Suite, error) {
	if name != PresetAll {
		if _, ok := presetDirs[name]; !ok {
			return nil, apperr.NewValidation(fmt.Sprintf("unknown preset %q (available: %v)", name, PresetNames()))
		}
		return loadPreset(name)
	}

	all := &Suite{Name: PresetAll, OutputDir: DefaultOutputDir}
	for _, n := range PresetNames()[1:] {
		s, err := loadPreset(n)
		if err != nil {
			return nil, err
		}
		for _, e := range s.Experiments {
			if e.Source.Type == SourceCSV {
				e.Source.Path = path.Join(presetDirs[n], e.Source.Path)
			}
			all.Experiments = append(all.Experiments, e)
		}
	}
	return all, nil
}

func loadPreset(name string) (*Suite, error) {
	data, err := presetFS.ReadFile("presets/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("read preset %s: %w", name, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse preset %s: %w", name, err)
	}
	return s, nil
}
