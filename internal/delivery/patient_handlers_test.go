package delivery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ncardozo/terapia/internal/patient"
)

type fakePatientService struct {
	patients []patient.Patient
}

func (f *fakePatientService) Create(name string) (patient.Patient, error) {
	p := patient.Patient{ID: len(f.patients) + 1, Name: name}
	f.patients = append(f.patients, p)
	return p, nil
}

func (f *fakePatientService) FindByName(name string) (patient.Patient, error) {
	for _, p := range f.patients {
		if p.Name == name {
			return p, nil
		}
	}
	return patient.Patient{}, patient.ErrNotFound
}

func (f *fakePatientService) ListAll() ([]patient.Patient, error) {
	return f.patients, nil
}

func TestPatientHandler(t *testing.T) {
	t.Run("create returns the assigned id", func(t *testing.T) {
		h := NewPatientHandler(&fakePatientService{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(`{"name":"Ana"}`))
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
		}
		var resp struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.ID != 1 || resp.Name != "Ana" {
			t.Errorf("got id=%d name=%q", resp.ID, resp.Name)
		}
	})

	t.Run("create rejects missing name", func(t *testing.T) {
		h := NewPatientHandler(&fakePatientService{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("find misses with 404", func(t *testing.T) {
		h := NewPatientHandler(&fakePatientService{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/patients/find?name=Nadie", nil)
		rec := httptest.NewRecorder()
		h.Find(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("list returns registration order", func(t *testing.T) {
		svc := &fakePatientService{}
		_, _ = svc.Create("Ana")
		_, _ = svc.Create("Luis")
		h := NewPatientHandler(svc, nil)

		req := httptest.NewRequest(http.MethodGet, "/patients", nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		var resp []struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(resp) != 2 || resp[0].Name != "Ana" || resp[1].Name != "Luis" {
			t.Errorf("unexpected listing: %+v", resp)
		}
	})
}
