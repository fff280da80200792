package patient

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// fileRegistry keeps patients in a flat "<id>|<name>" text file and an
// in-memory index loaded once at startup. The file stays the source of
// truth; the index only saves re-reading it on every lookup.
type fileRegistry struct {
	mu       sync.Mutex
	path     string
	patients []Patient // registration order
}

func NewFileRegistry(path string) (Registry, error) {
	r := &fileRegistry{path: path}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *fileRegistry) load() error {
	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		// empty registry until the first Create
		return nil
	}
	if err != nil {
		return fmt.Errorf("open registry: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		rawID, name, ok := strings.Cut(line, "|")
		if !ok {
			return fmt.Errorf("registry line %d: missing separator: %q", lineNo, line)
		}
		id, err := strconv.Atoi(rawID)
		if err != nil {
			// skipping a bad id could hand the same id out twice later,
			// so a malformed line is fatal
			return fmt.Errorf("registry line %d: bad patient id %q: %w", lineNo, rawID, err)
		}
		r.patients = append(r.patients, Patient{ID: id, Name: name})
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read registry: %w", err)
	}
	return nil
}

func (r *fileRegistry) NextID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nextIDLocked()
}

func (r *fileRegistry) nextIDLocked() int {
	max := 0
	for _, p := range r.patients {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

func (r *fileRegistry) Create(name string) (Patient, error) {
	if name == "" {
		return Patient{}, errors.New("patient name is empty")
	}
	if strings.ContainsAny(name, "\r\n") {
		return Patient{}, errors.New("patient name must not contain line breaks")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p := Patient{ID: r.nextIDLocked(), Name: name}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Patient{}, fmt.Errorf("create data dir: %w", err)
		}
	}
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return Patient{}, fmt.Errorf("open registry: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%d|%s\n", p.ID, p.Name); err != nil {
		return Patient{}, fmt.Errorf("append patient: %w", err)
	}

	r.patients = append(r.patients, p)
	return p, nil
}

// FindByName returns the first patient registered under name, exact match.
// A later patient with the same name is unreachable here; use ListAll.
func (r *fileRegistry) FindByName(name string) (Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.patients {
		if p.Name == name {
			return p, nil
		}
	}
	return Patient{}, ErrNotFound
}

func (r *fileRegistry) ListAll() ([]Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Patient, len(r.patients))
	copy(out, r.patients)
	return out, nil
}
