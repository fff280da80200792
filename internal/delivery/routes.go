package delivery

import (
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func RegisterRoutes(
	r chi.Router,
	hPatient *PatientHandler,
	hSession *SessionHandler,
	hTranscribe *TranscribeHandler,
	hAudio *AudioHandler,
) {
	r.Route("/", func(pr chi.Router) {
		pr.Use(httputil.RecoverMiddleware)

		// --- patients ---
		pr.Post("/patients", hPatient.Create)
		pr.Get("/patients", hPatient.List)
		pr.Get("/patients/find", hPatient.Find)

		// --- sessions ---
		pr.Post("/patients/{patient_id}/sessions", hSession.Create)
		pr.Get("/patients/{patient_id}/sessions", hSession.List)
		pr.Get("/patients/{patient_id}/sessions/{session_id}/audio", hSession.Audio)

		// --- transcription (model calls are slow and metered) ---
		pr.With(httprate.LimitByIP(10, time.Minute)).
			Post("/transcribe", hTranscribe.Transcribe)

		// --- audio utilities ---
		pr.Post("/audio/convert", hAudio.Convert)
		pr.Get("/audio/duration", hAudio.Duration)
	})
}
