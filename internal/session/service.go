package session

import (
	"context"
	"time"

	"github.com/ncardozo/terapia/internal/transcribe"
)

type service struct {
	store Store
	stt   transcribe.Transcriber
}

func NewService(store Store, stt transcribe.Transcriber) Service {
	return &service{store: store, stt: stt}
}

func (s *service) Save(ctx context.Context, patientID int, date, notes, transcript string, audio []byte) (string, error) {
	if date == "" {
		date = time.Now().Format("2006-01-02 15:04:05")
	}
	return s.store.Save(ctx, patientID, date, notes, transcript, audio)
}

// SaveWithTranscription runs the supplied audio through the transcription
// pipeline and stores the result next to the original bytes. The pipeline
// never fails outright, so the stored transcript may be a failure notice.
func (s *service) SaveWithTranscription(ctx context.Context, patientID int, date, notes string, audio []byte, modelName string) (string, error) {
	transcript := s.stt.Transcribe(ctx, transcribe.BytesInput{Data: audio}, modelName)
	return s.Save(ctx, patientID, date, notes, transcript, audio)
}

func (s *service) LoadAll(patientID int) []Session {
	return s.store.LoadAll(patientID)
}

func (s *service) ReadAudio(patientID int, sess Session) ([]byte, error) {
	return s.store.ReadAudio(patientID, sess)
}
