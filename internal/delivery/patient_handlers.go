package delivery

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/ncardozo/terapia/internal/patient"
)

type PatientHandler struct {
	patients patient.Service
	log      *logger.ZapLogger
}

func NewPatientHandler(patients patient.Service, log *logger.ZapLogger) *PatientHandler {
	return &PatientHandler{
		patients: patients,
		log:      log,
	}
}

func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}

	p, err := h.patients.Create(req.Name)
	if err != nil {
		http.Error(w, "failed to create patient: "+err.Error(), http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"id": p.ID, "name": p.Name})
}

func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patients.ListAll()
	if err != nil {
		http.Error(w, "failed to list patients: "+err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]map[string]any, 0, len(patients))
	for _, p := range patients {
		out = append(out, map[string]any{"id": p.ID, "name": p.Name})
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (h *PatientHandler) Find(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "missing name", http.StatusBadRequest)
		return
	}

	p, err := h.patients.FindByName(name)
	if errors.Is(err, patient.ErrNotFound) {
		http.Error(w, "patient not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "failed to find patient: "+err.Error(), http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{"id": p.ID, "name": p.Name})
}
