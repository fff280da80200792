package delivery

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/ncardozo/terapia/internal/session"
)

type SessionHandler struct {
	sessions session.Service
	log      *logger.ZapLogger
}

func NewSessionHandler(sessions session.Service, log *logger.ZapLogger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		log:      log,
	}
}

type sessionDTO struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Notes      string `json:"notes"`
	Transcript string `json:"transcript"`
	AudioRef   string `json:"audio_ref,omitempty"`
	ReadError  string `json:"read_error,omitempty"`
}

// Create takes a multipart form: notes, optional date and model, and an
// optional audio file. With audio present the session is transcribed
// before being stored.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "invalid multipart: "+err.Error(), http.StatusBadRequest)
		return
	}

	patientID, err := strconv.Atoi(chi.URLParam(r, "patient_id"))
	if err != nil {
		http.Error(w, "bad patient_id", http.StatusBadRequest)
		return
	}

	notes := r.FormValue("notes")
	date := r.FormValue("date")
	modelName := r.FormValue("model")

	var audio []byte
	file, hdr, ferr := r.FormFile("audio")
	if ferr == nil {
		defer file.Close()
		audio, err = io.ReadAll(file)
		if err != nil {
			http.Error(w, "failed to read audio: "+err.Error(), http.StatusInternalServerError)
			return
		}
		log.Printf("[session] audio upload patient=%d name=%s size=%s",
			patientID, hdr.Filename, humanize.Bytes(uint64(len(audio))))
	}

	var id string
	if audio != nil {
		id, err = h.sessions.SaveWithTranscription(r.Context(), patientID, date, notes, audio, modelName)
	} else {
		id, err = h.sessions.Save(r.Context(), patientID, date, notes, "", nil)
	}
	if err != nil {
		http.Error(w, "failed to save session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"session_id": id})
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	patientID, err := strconv.Atoi(chi.URLParam(r, "patient_id"))
	if err != nil {
		http.Error(w, "bad patient_id", http.StatusBadRequest)
		return
	}

	sessions := h.sessions.LoadAll(patientID)

	out := make([]sessionDTO, 0, len(sessions))
	for _, s := range sessions {
		dto := sessionDTO{
			ID:         s.ID,
			Date:       s.Date,
			Notes:      s.Notes,
			Transcript: s.Transcript,
			AudioRef:   s.AudioRef,
		}
		if s.Err != nil {
			dto.ReadError = s.Err.Error()
		}
		out = append(out, dto)
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (h *SessionHandler) Audio(w http.ResponseWriter, r *http.Request) {
	patientID, err := strconv.Atoi(chi.URLParam(r, "patient_id"))
	if err != nil {
		http.Error(w, "bad patient_id", http.StatusBadRequest)
		return
	}
	sessionID := chi.URLParam(r, "session_id")

	for _, s := range h.sessions.LoadAll(patientID) {
		if s.ID != sessionID {
			continue
		}
		if s.AudioRef == "" {
			http.Error(w, "session has no audio", http.StatusNotFound)
			return
		}
		data, err := h.sessions.ReadAudio(patientID, s)
		if err != nil {
			http.Error(w, "failed to read audio: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(data)
		return
	}

	http.Error(w, "session not found", http.StatusNotFound)
}
