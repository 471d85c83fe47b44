package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`                 // Name accepted by Resolve
	Name        string `json:"name"`               // Scene name
	Description string `json:"description"`        // Optional description
	Type        string `json:"type"`               // "builtin" or "json"
	FilePath    string `json:"filePath,omitempty"` // Path to JSON file (json type only)
}

// DefaultScenesDirs are searched in order when no directory is given
var DefaultScenesDirs = []string{"scenes", "../scenes"}

// ListBuiltinScenes returns the compiled-in scenes sorted by name
func ListBuiltinScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for name := range builtinScenes {
		scenes = append(scenes, SceneInfo{ID: name, Name: name, Type: "builtin"})
	}
	sort.Slice(scenes, func(i, j int) bool { return scenes[i].Name < scenes[j].Name })
	return scenes
}

// ListJSONScenes scans dir for *.json scene files. An empty dir searches DefaultScenesDirs.
func ListJSONScenes(dir string) ([]SceneInfo, error) {
	if dir == "" {
		dir = findScenesDir()
		if dir == "" {
			// No scenes directory found, return empty list
			return []SceneInfo{}, nil
		}
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		scenes = append(scenes, readSceneInfo(filePath))
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// readSceneInfo extracts name and description, falling back to the file name
func readSceneInfo(filePath string) SceneInfo {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	info := SceneInfo{
		ID:       base,
		Name:     base,
		Type:     "json",
		FilePath: filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info
	}
	var header struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if json.Unmarshal(data, &header) == nil {
		if header.Name != "" {
			info.Name = header.Name
		}
		info.Description = header.Description
	}
	return info
}

func findScenesDir() string {
	for _, path := range DefaultScenesDirs {
		if st, err := os.Stat(path); err == nil && st.IsDir() {
			return path
		}
	}
	return ""
}

// Resolve returns a built-in scene by name, or loads a JSON scene given either a path or
// a bare name found in the scenes directory.
func Resolve(name string) (*Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("empty scene name")
	}
	if ctor, ok := builtinScenes[name]; ok {
		return ctor(), nil
	}

	if strings.HasSuffix(name, ".json") {
		return LoadJSON(name)
	}

	if dir := findScenesDir(); dir != "" {
		path := filepath.Join(dir, name+".json")
		if _, err := os.Stat(path); err == nil {
			return LoadJSON(path)
		}
	}

	return nil, fmt.Errorf("unknown scene %q", name)
}
