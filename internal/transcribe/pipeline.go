package transcribe

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const failUnsupported = "Transcription failed. Unsupported audio input type."

// Pipeline turns raw audio into text. Transcribe never returns an error:
// every failure comes back as displayable text, so callers can store or
// render the result unconditionally.
type Pipeline struct {
	cache  *Cache
	tmpDir string
}

func NewPipeline(cache *Cache) *Pipeline {
	return &Pipeline{cache: cache, tmpDir: os.TempDir()}
}

func (p *Pipeline) Transcribe(ctx context.Context, in Input, modelName string) string {
	model, err := p.cache.Get(ctx, modelName)
	if err != nil {
		log.Printf("[transcribe] model load fail name=%s err=%v", modelName, err)
		return fmt.Sprintf("Transcription failed: %v", err)
	}

	switch src := in.(type) {
	case PathInput:
		if _, err := os.Stat(src.Path); err != nil {
			log.Printf("[transcribe] path not found path=%s", src.Path)
			return "Transcription failed. Audio file not found."
		}
		return p.run(ctx, model, src.Path)
	case BytesInput:
		return p.fromTemp(ctx, model, func(f *os.File) error {
			_, err := f.Write(src.Data)
			return err
		})
	case StreamInput:
		return p.fromTemp(ctx, model, func(f *os.File) error {
			_, err := io.Copy(f, src.Reader)
			return err
		})
	default:
		// nil, or a variant this pipeline does not know
		log.Printf("[transcribe] unsupported input type %T", in)
		return failUnsupported
	}
}

// fromTemp materializes a non-path input to a temp file before invoking the
// model. The suffix is fixed regardless of the actual container; the model's
// decoder sniffs the real format. The temp file is removed on every exit
// path, once, and only if it still exists.
func (p *Pipeline) fromTemp(ctx context.Context, model Model, fill func(*os.File) error) string {
	path := filepath.Join(p.tmpDir, uuid.NewString()+".wav")

	f, err := os.Create(path)
	if err != nil {
		return fmt.Sprintf("Transcription failed: %v", err)
	}
	defer func() {
		if _, err := os.Stat(path); err == nil {
			os.Remove(path)
		}
	}()

	if err := fill(f); err != nil {
		f.Close()
		return fmt.Sprintf("Transcription failed: %v", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Sprintf("Transcription failed: %v", err)
	}

	return p.run(ctx, model, path)
}

func (p *Pipeline) run(ctx context.Context, model Model, path string) string {
	text, err := model.Transcribe(ctx, path)
	if err != nil {
		log.Printf("[transcribe] fail path=%s err=%v", path, err)
		return fmt.Sprintf("Transcription failed: %v", err)
	}
	return text
}
