package session

import "context"

// Session — one recorded therapy encounter, read back from disk.
// A session that could not be read fully carries a non-nil Err and
// sentinel field values, so one corrupt directory never hides the rest.
type Session struct {
	ID         string
	PatientID  int
	Date       string
	Notes      string
	Transcript string
	AudioRef   string // artifact filename relative to the session dir, "" when absent
	Err        error
}

// ArtifactMirror uploads a best-effort off-site copy of stored audio.
type ArtifactMirror interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// Store — on-disk session storage, one directory per session
type Store interface {
	Save(ctx context.Context, patientID int, date, notes, transcript string, audio []byte) (string, error)
	LoadAll(patientID int) []Session
	ReadAudio(patientID int, s Session) ([]byte, error)
}

// Service — session operations exposed to the delivery layer
type Service interface {
	Save(ctx context.Context, patientID int, date, notes, transcript string, audio []byte) (string, error)
	SaveWithTranscription(ctx context.Context, patientID int, date, notes string, audio []byte, modelName string) (string, error)
	LoadAll(patientID int) []Session
	ReadAudio(patientID int, s Session) ([]byte, error)
}
