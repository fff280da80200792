package transcribe

import (
	"context"
	"io"
)

// Model converts an audio file on disk to text.
type Model interface {
	Transcribe(ctx context.Context, filePath string) (string, error)
}

// Loader constructs a Model for a given name. A load may be expensive and
// blocking; the Cache makes sure it happens once per name.
type Loader interface {
	Load(ctx context.Context, name string) (Model, error)
}

// Transcriber — the pipeline surface consumed by other packages.
type Transcriber interface {
	Transcribe(ctx context.Context, in Input, modelName string) string
}

// Input is one of the audio sources the pipeline accepts: a file already
// on disk, an in-memory buffer, or a stream.
type Input interface {
	audioInput()
}

type PathInput struct {
	Path string
}

type BytesInput struct {
	Data []byte
}

type StreamInput struct {
	Reader io.Reader
}

func (PathInput) audioInput()   {}
func (BytesInput) audioInput()  {}
func (StreamInput) audioInput() {}
