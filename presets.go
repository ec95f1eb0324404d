package bloops

import (
	"embed"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v2"
)

//go:embed presets/*.yml
var presetFS embed.FS

// builtinPresets decodes every presets/*.yml file on top of DefaultParams.
// Files that fail strict decoding are skipped.
var builtinPresets = sync.OnceValue(func() map[string]Params {
	ret := make(map[string]Params)
	fs.WalkDir(presetFS, "presets", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(presetFS, path)
		if err != nil {
			return nil
		}
		params := DefaultParams()
		if yaml.UnmarshalStrict(data, &params) == nil {
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			ret[name] = params
		}
		return nil
	})
	return ret
})

// Preset returns the built-in instrument with the given name.
func Preset(name string) (Params, bool) {
	p, ok := builtinPresets()[strings.ToLower(name)]
	return p, ok
}

// PresetNames returns the names of the built-in instruments, sorted.
func PresetNames() []string {
	presets := builtinPresets()
	ret := make([]string, 0, len(presets))
	for k := range presets {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
