// Package media reads what the catalog needs to know about local audio files.
package media

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ErrUnsupportedFormat is returned for files whose extension has no decoder.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

type decodeFunc func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

var decoders = map[string]decodeFunc{
	".mp3": mp3.Decode,
	".ogg": vorbis.Decode,
	".oga": vorbis.Decode,
	".wav": func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		return wav.Decode(rc)
	},
	".flac": func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		return flac.Decode(rc)
	},
}

// Supported reports whether path has an extension the prober can decode.
func Supported(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Prober extracts durations and titles from audio files on fs.
type Prober struct {
	fs afero.Fs
}

// NewProber returns a Prober reading from fs.
func NewProber(fs afero.Fs) *Prober {
	return &Prober{fs: fs}
}

// Duration decodes the stream header of path and returns its length.
func (p *Prober) Duration(path string) (time.Duration, error) {
	decode, ok := decoders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return 0, errors.Wrap(ErrUnsupportedFormat, path)
	}

	f, err := p.fs.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, "open %s", path)
	}

	streamer, format, err := decode(f)
	if err != nil {
		f.Close()
		return 0, errors.Wrapf(err, "decode %s", path)
	}
	defer streamer.Close()

	if format.SampleRate <= 0 {
		return 0, errors.Errorf("decode %s: invalid sample rate %d", path, format.SampleRate)
	}
	return format.SampleRate.D(streamer.Len()), nil
}

// Title returns the title tag of path, or the file name without extension
// when the file carries no usable tags.
func (p *Prober) Title(path string) string {
	fallback := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	f, err := p.fs.Open(path)
	if err != nil {
		return fallback
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil || strings.TrimSpace(m.Title()) == "" {
		return fallback
	}
	return m.Title()
}
