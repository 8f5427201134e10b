package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-raycast/pkg/core"
)

// SceneInfo represents a discovered scene file with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // File name without extension
	Name        string `json:"name"`        // Scene name, or the title-cased ID
	Description string `json:"description"` // Optional description
	FilePath    string `json:"filePath"`
	Spheres     int    `json:"spheres"`
	Rays        int    `json:"rays"`
	HasCamera   bool   `json:"hasCamera"`
}

// ListScenes scans dir for .yaml and .yml scene files. A missing directory
// gives an empty list. Files that fail to parse are reported through logger
// and skipped.
func ListScenes(dir string, logger core.Logger) ([]SceneInfo, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		info, err := ReadSceneInfo(filePath)
		if err != nil {
			logger.Printf("Warning: skipping %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// ReadSceneInfo reads the metadata of one scene file
func ReadSceneInfo(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	id := strings.TrimSuffix(filename, filepath.Ext(filename))

	spec, err := ReadSceneFile(filePath)
	if err != nil {
		return SceneInfo{}, err
	}

	name := spec.Name
	if name == id {
		name = titleCase(id)
	}

	return SceneInfo{
		ID:          id,
		Name:        name,
		Description: spec.Description,
		FilePath:    filePath,
		Spheres:     len(spec.Spheres),
		Rays:        len(spec.Rays),
		HasCamera:   spec.Camera != nil,
	}, nil
}

// titleCase converts a filename-style string to title case
// e.g., "two-spheres" -> "Two Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
