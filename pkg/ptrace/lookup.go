package ptrace

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// pathCacheSize bounds the number of distinct program names whose resolved
// absolute path is remembered across repeated Spawn calls in the same
// process (e.g. a diff session that spawns two programs, possibly sharing
// one name across runs).
const pathCacheSize = 64

var pathCache, _ = lru.New[string, string](pathCacheSize)

// resolvePath implements spec §4.1's path resolution rule: a name
// containing a path separator, or one that already names an existing file,
// is used verbatim; otherwise it is searched for on PATH.
//
// The teacher's fileflip had a latent bug here — its PATH fallback always
// re-resolved a hardcoded program name instead of the one actually
// requested. This resolves whatever name was given.
func resolvePath(name string) (string, error) {
	if filepath.Base(name) != name {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("spawn: %q: %w", name, err)
		}
		return name, nil
	}
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	if cached, ok := pathCache.Get(name); ok {
		return cached, nil
	}
	resolved, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("spawn: %q: not found on PATH", name)
	}
	pathCache.Add(name, resolved)
	return resolved, nil
}
