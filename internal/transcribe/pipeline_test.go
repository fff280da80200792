package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordingModel struct {
	path string
	text string
	err  error
}

func (m *recordingModel) Transcribe(ctx context.Context, filePath string) (string, error) {
	m.path = filePath
	if m.err != nil {
		return "", m.err
	}
	if _, err := os.Stat(filePath); err != nil {
		return "", err
	}
	return m.text, nil
}

type staticLoader struct {
	model Model
	err   error
}

func (l *staticLoader) Load(ctx context.Context, name string) (Model, error) {
	return l.model, l.err
}

func newTestPipeline(t *testing.T, model Model, loadErr error) (*Pipeline, string) {
	t.Helper()
	tmp := t.TempDir()
	p := NewPipeline(NewCache(&staticLoader{model: model, err: loadErr}))
	p.tmpDir = tmp
	return p, tmp
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	if len(entries) > 0 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestPipeline_Transcribe(t *testing.T) {
	t.Run("existing path is used directly", func(t *testing.T) {
		model := &recordingModel{text: "hola"}
		p, _ := newTestPipeline(t, model, nil)

		audioPath := filepath.Join(t.TempDir(), "session.wav")
		if err := os.WriteFile(audioPath, []byte("riff"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}

		got := p.Transcribe(context.Background(), PathInput{Path: audioPath}, "base")
		if got != "hola" {
			t.Errorf("got %q, want %q", got, "hola")
		}
		if model.path != audioPath {
			t.Errorf("model saw %q, want the original path %q", model.path, audioPath)
		}
	})

	t.Run("nonexistent path fails without raising", func(t *testing.T) {
		p, tmp := newTestPipeline(t, &recordingModel{text: "x"}, nil)

		got := p.Transcribe(context.Background(), PathInput{Path: "/no/such/file.wav"}, "base")
		if !strings.HasPrefix(got, "Transcription failed") {
			t.Errorf("got %q, want a failure string", got)
		}
		assertNoTempFiles(t, tmp)
	})

	t.Run("bytes input goes through a temp file that is cleaned up", func(t *testing.T) {
		model := &recordingModel{text: "desde bytes"}
		p, tmp := newTestPipeline(t, model, nil)

		got := p.Transcribe(context.Background(), BytesInput{Data: []byte("audio-bytes")}, "base")
		if got != "desde bytes" {
			t.Errorf("got %q", got)
		}
		if !strings.HasSuffix(model.path, ".wav") {
			t.Errorf("temp file %q should carry the fixed suffix", model.path)
		}
		assertNoTempFiles(t, tmp)
	})

	t.Run("stream input is materialized the same way", func(t *testing.T) {
		model := &recordingModel{text: "desde stream"}
		p, tmp := newTestPipeline(t, model, nil)

		got := p.Transcribe(context.Background(), StreamInput{Reader: strings.NewReader("audio")}, "base")
		if got != "desde stream" {
			t.Errorf("got %q", got)
		}
		assertNoTempFiles(t, tmp)
	})

	t.Run("nil input is an unsupported type, not a crash", func(t *testing.T) {
		p, tmp := newTestPipeline(t, &recordingModel{text: "x"}, nil)

		got := p.Transcribe(context.Background(), nil, "base")
		if got != failUnsupported {
			t.Errorf("got %q, want %q", got, failUnsupported)
		}
		assertNoTempFiles(t, tmp)
	})

	t.Run("model failure becomes a failure string and cleans up", func(t *testing.T) {
		model := &recordingModel{err: errors.New("decode blew up")}
		p, tmp := newTestPipeline(t, model, nil)

		got := p.Transcribe(context.Background(), BytesInput{Data: []byte("b")}, "base")
		if !strings.Contains(got, "Transcription failed") || !strings.Contains(got, "decode blew up") {
			t.Errorf("got %q", got)
		}
		assertNoTempFiles(t, tmp)
	})

	t.Run("model load failure becomes a failure string", func(t *testing.T) {
		p, tmp := newTestPipeline(t, nil, errors.New("no such model"))

		got := p.Transcribe(context.Background(), BytesInput{Data: []byte("b")}, "imaginary")
		if !strings.Contains(got, "Transcription failed") {
			t.Errorf("got %q", got)
		}
		assertNoTempFiles(t, tmp)
	})
}
