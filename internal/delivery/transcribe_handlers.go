package delivery

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"

	"github.com/ncardozo/terapia/internal/transcribe"
)

type TranscribeHandler struct {
	pipeline transcribe.Transcriber
	log      *logger.ZapLogger
}

func NewTranscribeHandler(pipeline transcribe.Transcriber, log *logger.ZapLogger) *TranscribeHandler {
	return &TranscribeHandler{
		pipeline: pipeline,
		log:      log,
	}
}

// Transcribe accepts a multipart audio upload and returns the recognized
// text. The pipeline converts every failure into displayable text, so the
// response always carries a usable string.
func (h *TranscribeHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "invalid multipart: "+err.Error(), http.StatusBadRequest)
		return
	}

	modelName := r.FormValue("model")

	file, hdr, err := r.FormFile("audio")
	if err != nil {
		http.Error(w, "missing audio file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	log.Printf("[transcribe] upload name=%s size=%s model=%s",
		hdr.Filename, humanize.Bytes(uint64(hdr.Size)), modelName)

	text := h.pipeline.Transcribe(r.Context(), transcribe.StreamInput{Reader: file}, modelName)

	_ = json.NewEncoder(w).Encode(map[string]any{"text": text})
}
