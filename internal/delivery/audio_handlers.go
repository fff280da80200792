package delivery

import (
	"encoding/json"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/ncardozo/terapia/internal/audio"
)

type AudioHandler struct {
	converter *audio.Converter
	log       *logger.ZapLogger
}

func NewAudioHandler(converter *audio.Converter, log *logger.ZapLogger) *AudioHandler {
	return &AudioHandler{
		converter: converter,
		log:       log,
	}
}

func (h *AudioHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InputPath  string `json:"input_path"`
		OutputPath string `json:"output_path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.InputPath == "" || req.OutputPath == "" {
		http.Error(w, "missing input_path or output_path", http.StatusBadRequest)
		return
	}

	out, err := h.converter.ConvertToMP3(r.Context(), req.InputPath, req.OutputPath)
	if err != nil {
		http.Error(w, "failed to convert: "+err.Error(), http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"output_path": out})
}

func (h *AudioHandler) Duration(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "missing path", http.StatusBadRequest)
		return
	}

	seconds, err := audio.Duration(path)
	if err != nil {
		http.Error(w, "failed to probe duration: "+err.Error(), http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"seconds": seconds})
}
