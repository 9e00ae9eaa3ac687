package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// Reservations tracks output paths claimed by in-flight conversions so that
// concurrent requests for the same input never probe their way to the same
// free name. It only covers this process. All methods are goroutine-safe.
type Reservations struct {
	mu      sync.Mutex
	claimed map[string]struct{}
}

// NewReservations creates an empty reservation set.
func NewReservations() *Reservations {
	return &Reservations{claimed: make(map[string]struct{})}
}

// Len reports how many paths are currently reserved.
func (r *Reservations) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.claimed)
}

func (r *Reservations) release(path string) {
	r.mu.Lock()
	delete(r.claimed, path)
	r.mu.Unlock()
}

// pickOutputPath returns the first candidate in dir that does not exist on
// disk and is not reserved: <stem><suffix>.<ext>, then <stem><suffix>_1.<ext>,
// <stem><suffix>_2.<ext>, and so on. When res is non-nil the chosen path is
// reserved before returning and release frees it.
func pickOutputPath(res *Reservations, dir, stem, suffix, ext string) (path string, release func(), err error) {
	if res != nil {
		res.mu.Lock()
		defer res.mu.Unlock()
	}
	for n := 0; ; n++ {
		name := stem + suffix
		if n > 0 {
			name += "_" + strconv.Itoa(n)
		}
		candidate := filepath.Join(dir, name+"."+ext)

		if res != nil {
			if _, taken := res.claimed[candidate]; taken {
				continue
			}
		}
		exists, err := pathExists(candidate)
		if err != nil {
			return "", nil, err
		}
		if exists {
			continue
		}
		if res == nil {
			return candidate, func() {}, nil
		}
		res.claimed[candidate] = struct{}{}
		var once sync.Once
		return candidate, func() { once.Do(func() { res.release(candidate) }) }, nil
	}
}

func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}
