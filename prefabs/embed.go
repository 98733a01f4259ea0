package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Files under prefabs/ on disk shadow the embedded copies, so a reload
// picks up edits without a rebuild.

//go:embed *.yaml
var PrefabsFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

func Load(name string) ([]byte, error) {
	return read(PrefabsFS, cleanPrefabPath(name))
}

func LoadScript(name string) ([]byte, error) {
	return read(ScriptsFS, cleanScriptPath(name))
}

// Names lists the embedded prefab files.
func Names() ([]string, error) {
	entries, err := fs.ReadDir(PrefabsFS, ".")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func read(fsys fs.FS, clean string) ([]byte, error) {
	if clean == "" {
		return nil, fs.ErrNotExist
	}
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return fs.ReadFile(fsys, clean)
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimPrefix(filepath.ToSlash(path), "prefabs/")
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	for _, prefix := range []string{"prefabs/", "scripts/"} {
		s = strings.TrimPrefix(s, prefix)
	}
	return "scripts/" + s
}

func diskPrefabPath(clean string) string {
	return filepath.Join("prefabs", filepath.FromSlash(clean))
}
