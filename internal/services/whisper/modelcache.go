package whisper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Model is a resolved, reusable model handle. Once resolved a Model is
// immutable, so concurrent inference calls may share it freely.
type Model struct {
	// Language and Size identify the handle.
	Language string
	Size     string
	// Path is the local model file when one was found under the model
	// directory, empty otherwise.
	Path string
}

// Name returns the argument handed to the engine's --model flag. Local files
// win over engine-managed downloads.
func (m Model) Name() string {
	if m.Path != "" {
		return m.Path
	}
	return m.Size
}

type modelKey struct {
	language string
	size     string
}

// ModelCache resolves and memoizes model handles per (language, size) pair.
// Resolution happens once per key for the lifetime of the cache; Close drops
// every handle so the next Acquire resolves again.
type ModelCache struct {
	modelDir string

	mu     sync.Mutex
	models map[modelKey]Model

	// resolve is replaceable in tests.
	resolve func(modelDir, language, size string) (string, error)
}

// NewModelCache builds an empty cache over the given model directory.
func NewModelCache(modelDir string) *ModelCache {
	return &ModelCache{
		modelDir: modelDir,
		models:   make(map[modelKey]Model),
		resolve:  resolveLocalModel,
	}
}

// Acquire returns the shared handle for a (language, size) pair, resolving it
// on first use.
func (c *ModelCache) Acquire(language, size string) (Model, error) {
	key := modelKey{language: language, size: size}

	c.mu.Lock()
	defer c.mu.Unlock()

	if model, ok := c.models[key]; ok {
		return model, nil
	}

	path, err := c.resolve(c.modelDir, language, size)
	if err != nil {
		return Model{}, fmt.Errorf("resolve model %s/%s: %w", language, size, err)
	}
	model := Model{Language: language, Size: size, Path: path}
	c.models[key] = model
	return model, nil
}

// Close releases every cached handle.
func (c *ModelCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models = make(map[modelKey]Model)
}

// resolveLocalModel scans the model directory for a file or directory whose
// name carries both the language code and the size. Missing directories and
// misses are not errors; the engine falls back to its own model store.
func resolveLocalModel(modelDir, language, size string) (string, error) {
	if modelDir == "" {
		return "", nil
	}
	entries, err := os.ReadDir(modelDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	var sizeOnly string
	for _, entry := range entries {
		name := strings.ToLower(entry.Name())
		if !strings.Contains(name, size) {
			continue
		}
		full := filepath.Join(modelDir, entry.Name())
		if strings.Contains(name, language) {
			return full, nil
		}
		if sizeOnly == "" {
			sizeOnly = full
		}
	}
	return sizeOnly, nil
}
