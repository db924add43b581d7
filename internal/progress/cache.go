package progress

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"
)

// FileCache persists completion records to a JSON file. All operations are
// best-effort: a missing or corrupt file loads as an empty map with a
// logged warning, and save failures are logged rather than returned. The
// cache is the fallback source of truth when no remote store is configured
// or the remote store is unreachable.
type FileCache struct {
	path string
	mu   sync.Mutex
}

// NewFileCache creates a cache backed by the JSON file at path. The file is
// created on first save.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

// Load reads all completion records from disk. A missing file is normal on
// first run and yields an empty map; a corrupt file is logged and also
// yields an empty map so a damaged cache never blocks startup.
func (c *FileCache) Load() map[string]CompletionRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("could not read progress cache, starting empty",
				slog.String("path", c.path),
				slog.String("error", err.Error()))
		}
		return map[string]CompletionRecord{}
	}

	var records map[string]CompletionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		slog.Warn("progress cache is corrupt, starting empty",
			slog.String("path", c.path),
			slog.String("error", err.Error()))
		return map[string]CompletionRecord{}
	}
	if records == nil {
		records = map[string]CompletionRecord{}
	}
	return records
}

// Save overwrites the cache file with the given records. Last writer wins;
// callers are expected to Load, modify, and Save under their own
// serialization. Failures are logged, not returned.
func (c *FileCache) Save(records map[string]CompletionRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		slog.Warn("could not encode progress cache",
			slog.String("error", err.Error()))
		return
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		slog.Warn("could not write progress cache",
			slog.String("path", c.path),
			slog.String("error", err.Error()))
	}
}
