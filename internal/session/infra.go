package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	metadataFile   = "metadata.txt"
	transcriptFile = "transcript.txt"

	// stored audio always gets this name, whatever container the caller
	// actually supplied; bytes are copied verbatim, never re-encoded
	audioFile = "audio.mp3"
)

// dirStore lays sessions out as <root>/<patientID>/<sessionID>/ with a
// metadata record, a transcript and an optional audio artifact. Writes go
// to a staging directory first and are renamed into place only after all
// artifacts are on disk, so readers never see a half-written session.
type dirStore struct {
	root   string
	mirror ArtifactMirror // may be nil
	now    func() time.Time
}

func NewDirStore(root string, mirror ArtifactMirror) Store {
	return &dirStore{root: root, mirror: mirror, now: time.Now}
}

func (s *dirStore) Save(ctx context.Context, patientID int, date, notes, transcript string, audio []byte) (string, error) {
	patientDir := filepath.Join(s.root, strconv.Itoa(patientID))
	if err := os.MkdirAll(patientDir, 0o755); err != nil {
		return "", fmt.Errorf("create patient dir: %w", err)
	}

	// second-resolution id; same-second saves for one patient get a
	// numeric suffix instead of colliding
	sessionID := s.now().Format("20060102_150405")
	final := filepath.Join(patientDir, sessionID)
	for i := 1; ; i++ {
		if _, err := os.Stat(final); errors.Is(err, os.ErrNotExist) {
			break
		}
		final = filepath.Join(patientDir, fmt.Sprintf("%s_%d", sessionID, i))
	}
	sessionID = filepath.Base(final)

	staging, err := os.MkdirTemp(patientDir, ".staging-*")
	if err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging) // no-op once the rename has happened

	var meta strings.Builder
	fmt.Fprintf(&meta, "Date: %s\n", date)
	fmt.Fprintf(&meta, "Notes: %s\n", notes)
	if audio != nil {
		fmt.Fprintf(&meta, "Audio: %s\n", audioFile)
		if err := os.WriteFile(filepath.Join(staging, audioFile), audio, 0o644); err != nil {
			return "", fmt.Errorf("write audio: %w", err)
		}
	}
	if err := os.WriteFile(filepath.Join(staging, metadataFile), []byte(meta.String()), 0o644); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(staging, transcriptFile), []byte(transcript), 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}

	if err := os.Rename(staging, final); err != nil {
		return "", fmt.Errorf("commit session dir: %w", err)
	}

	if s.mirror != nil && audio != nil {
		key := fmt.Sprintf("sessions/%d/%s/%s", patientID, sessionID, audioFile)
		if err := s.mirror.Put(ctx, key, audio, "audio/mpeg"); err != nil {
			log.Printf("[session] mirror upload fail key=%s err=%v", key, err)
		}
	}

	return sessionID, nil
}

// LoadAll returns every readable session for the patient, newest first.
// It never fails: unreadable sessions come back with sentinel fields and
// a non-nil Err instead of aborting the listing.
func (s *dirStore) LoadAll(patientID int) []Session {
	patientDir := filepath.Join(s.root, strconv.Itoa(patientID))
	entries, err := os.ReadDir(patientDir)
	if err != nil {
		return nil
	}

	var sessions []Session
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			// skip files and stranded staging dirs
			continue
		}
		sessions = append(sessions, s.readSession(patientID, e.Name()))
	}

	// the stored date format is zero-padded, so plain string comparison
	// is already chronological
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Date > sessions[j].Date
	})
	return sessions
}

func (s *dirStore) readSession(patientID int, id string) Session {
	dir := filepath.Join(s.root, strconv.Itoa(patientID), id)
	sess := Session{ID: id, PatientID: patientID}

	raw, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		sess.Date, sess.Notes = "Error", "Error"
		sess.Err = fmt.Errorf("read metadata: %w", err)
	} else {
		parseMetadata(decodeText(raw), &sess)
	}

	tr, err := os.ReadFile(filepath.Join(dir, transcriptFile))
	if err != nil {
		sess.Transcript = "Error reading transcript"
		if sess.Err == nil {
			sess.Err = fmt.Errorf("read transcript: %w", err)
		}
	} else {
		sess.Transcript = strings.ToValidUTF8(string(tr), string(utf8.RuneError))
	}

	return sess
}

// parseMetadata fills sess from the fixed-order record: Date, Notes,
// optional Audio. Missing trailing lines default to empty rather than
// failing the whole session.
func parseMetadata(text string, sess *Session) {
	if strings.TrimSpace(text) == "" {
		sess.Date, sess.Notes = "No Date", "No Notes"
		return
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	sess.Date = strings.TrimSpace(strings.TrimPrefix(lines[0], "Date: "))
	if len(lines) > 1 {
		sess.Notes = strings.TrimSpace(strings.TrimPrefix(lines[1], "Notes: "))
	}
	if len(lines) > 2 && strings.HasPrefix(lines[2], "Audio: ") {
		sess.AudioRef = strings.TrimSpace(strings.TrimPrefix(lines[2], "Audio: "))
	}
}

func (s *dirStore) ReadAudio(patientID int, sess Session) ([]byte, error) {
	if sess.AudioRef == "" {
		return nil, errors.New("session has no audio")
	}
	// refs are plain filenames relative to the session dir
	ref := filepath.Base(sess.AudioRef)
	return os.ReadFile(filepath.Join(s.root, strconv.Itoa(patientID), sess.ID, ref))
}
