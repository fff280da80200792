package audio

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// Converter re-encodes audio files to MP3 via ffmpeg. Successful
// conversions are memoized by the (input, output) path pair; repeating a
// call with the same arguments is treated as a side-effect-free repeat.
type Converter struct {
	mu   sync.Mutex
	done map[string]struct{}

	// swappable for tests
	run func(ctx context.Context, inputPath, outputPath string) error
}

func NewConverter() *Converter {
	return &Converter{
		done: make(map[string]struct{}),
		run:  runFFmpeg,
	}
}

func (c *Converter) ConvertToMP3(ctx context.Context, inputPath, outputPath string) (string, error) {
	key := inputPath + "\x00" + outputPath

	c.mu.Lock()
	_, ok := c.done[key]
	c.mu.Unlock()
	if ok {
		return outputPath, nil
	}

	if err := c.run(ctx, inputPath, outputPath); err != nil {
		return "", fmt.Errorf("convert to mp3: %w", err)
	}

	c.mu.Lock()
	c.done[key] = struct{}{}
	c.mu.Unlock()

	return outputPath, nil
}

func runFFmpeg(ctx context.Context, inputPath, outputPath string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y", "-i", inputPath,
		"-codec:a", "libmp3lame",
		outputPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, out)
	}
	return nil
}

// Duration reports the length of an audio file in seconds.
func Duration(path string) (float64, error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, err
	}

	return strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
}
