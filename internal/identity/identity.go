// Package identity manages device identifiers. Clients self-identify with
// an X-Device-ID header; when a request arrives without one, the server
// mints a UUID, persists it, and echoes it back so the client can adopt it.
package identity

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// maxIDLength bounds client-supplied device IDs so they stay usable as
// database keys and log fields.
const maxIDLength = 128

// Mint returns a fresh random device ID.
func Mint() string {
	return uuid.NewString()
}

// Valid reports whether a client-supplied device ID is acceptable: non-empty
// after trimming, within length bounds, and free of control characters.
// Clients are not required to send UUIDs; any well-formed opaque token works.
func Valid(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for _, r := range id {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}

// Store persists the server's default device ID across restarts. It backs
// requests that arrive without an X-Device-ID header, so a single-user
// deployment keeps one stable identity instead of minting a new one per
// request.
type Store struct {
	path string

	mu     sync.Mutex
	cached string
}

// NewStore creates a store that persists the device ID at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DeviceID returns the persisted device ID, creating and saving a new one
// on first use. When the ID file cannot be written the minted ID is kept
// in memory for the lifetime of the process and a warning is logged.
func (s *Store) DeviceID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != "" {
		return s.cached, nil
	}

	data, err := os.ReadFile(s.path)
	if err == nil {
		id := strings.TrimSpace(string(data))
		if Valid(id) {
			s.cached = id
			return id, nil
		}
		slog.Warn("device ID file is malformed, minting a new identity",
			slog.String("path", s.path))
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("reading device ID file %s: %w", s.path, err)
	}

	id := Mint()
	if err := os.WriteFile(s.path, []byte(id+"\n"), 0o600); err != nil {
		slog.Warn("could not persist device ID, identity will reset on restart",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
	}
	s.cached = id
	return id, nil
}
