package fixture

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"slices"
	"strings"
)

//go:embed builtin/*.yaml
var builtinFiles embed.FS

var builtins = map[string]*File{}

// Builtin returns the embedded fixture with the given name.
func Builtin(name string) (*File, error) {
	if f, ok := builtins[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("fixture %q not found", name)
}

// BuiltinNames lists the embedded fixtures in name order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func init() {
	entries, err := builtinFiles.ReadDir("builtin")
	if err != nil {
		panic(err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		content, err := builtinFiles.ReadFile(path.Join("builtin", name))
		if err != nil {
			panic(err)
		}
		f, err := Decode(bytes.NewReader(content))
		if err != nil {
			panic(fmt.Errorf("failed to decode fixture %q: %w", name, err))
		}
		builtins[strings.TrimSuffix(name, ".yaml")] = f
	}
}
