package mpvplayer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/wildeyedskies/go-mpv/mpv"
	"go.uber.org/atomic"
)

// DefaultLoadTimeout bounds the wait for mpv to open a file before seeking.
const DefaultLoadTimeout = 5 * time.Second

// Session is the single libmpv instance shared by every local station.
// Loading a playlist replaces whatever another station had loaded.
type Session struct {
	*mpv.Mpv
	owner       atomic.String
	fileLoaded  chan struct{}
	loadTimeout time.Duration
	logger      zerolog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSession creates the mpv instance and starts its event listener.
func NewSession(ctx context.Context, logger zerolog.Logger, loadTimeout time.Duration) (*Session, error) {
	mpvInstance, err := CreateMPVInstance()
	if err != nil {
		return nil, fmt.Errorf("failed to create MPV instance: %w", err)
	}
	if loadTimeout <= 0 {
		loadTimeout = DefaultLoadTimeout
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		Mpv:         mpvInstance,
		fileLoaded:  make(chan struct{}, 1),
		loadTimeout: loadTimeout,
		logger:      logger,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
	go s.listen(ctx)
	return s, nil
}

// Owner returns the id of the station whose playlist is loaded.
func (s *Session) Owner() string {
	return s.owner.Load()
}

// Load replaces the mpv playlist with uris and records owner as its station.
// Nothing starts playing until PlayIndex.
func (s *Session) Load(owner string, uris []string) error {
	s.owner.Store("")
	if err := s.Command([]string{"stop"}); err != nil {
		return fmt.Errorf("stop before load: %w", err)
	}
	if err := s.Command([]string{"playlist-clear"}); err != nil {
		return fmt.Errorf("clear playlist: %w", err)
	}
	for _, uri := range uris {
		if err := s.Command([]string{"loadfile", uri, "append"}); err != nil {
			return fmt.Errorf("append %s: %w", uri, err)
		}
	}
	s.owner.Store(owner)
	s.logger.Debug().Str("owner", owner).Int("items", len(uris)).Msg("Loaded playlist into mpv")
	return nil
}

// PlayIndex starts playlist entry index and seeks offset into it once mpv
// reports the file as loaded.
func (s *Session) PlayIndex(ctx context.Context, index int, offset time.Duration) error {
	select {
	case <-s.fileLoaded:
	default:
	}

	if err := s.Command([]string{"set", "pause", "no"}); err != nil {
		return fmt.Errorf("unpause: %w", err)
	}
	if err := s.Command([]string{"playlist-play-index", strconv.Itoa(index)}); err != nil {
		return fmt.Errorf("play index %d: %w", index, err)
	}

	timer := time.NewTimer(s.loadTimeout)
	defer timer.Stop()
	select {
	case <-s.fileLoaded:
	case <-timer.C:
		return fmt.Errorf("play index %d: file not loaded after %v", index, s.loadTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	if offset <= 0 {
		return nil
	}
	seconds := strconv.FormatFloat(offset.Seconds(), 'f', 3, 64)
	if err := s.Command([]string{"seek", seconds, "absolute"}); err != nil {
		return fmt.Errorf("seek to %ss: %w", seconds, err)
	}
	return nil
}

// Stop halts playback. mpv drops its playlist on stop, so the session no
// longer belongs to any station afterwards.
func (s *Session) Stop() error {
	s.owner.Store("")
	return s.Command([]string{"stop"})
}

func (s *Session) IsSongLoaded() (bool, error) {
	idle, err := s.GetProperty("idle-active", mpv.FORMAT_FLAG)
	if err != nil {
		return false, err
	}
	return !idle.(bool), nil
}

func (s *Session) IsPaused() (bool, error) {
	pause, err := s.GetProperty("pause", mpv.FORMAT_FLAG)
	if err != nil {
		return false, err
	}
	return pause.(bool), nil
}

// IsPlaying reports a loaded, unpaused file.
func (s *Session) IsPlaying() (bool, error) {
	loaded, err := s.IsSongLoaded()
	if err != nil || !loaded {
		return false, err
	}
	paused, err := s.IsPaused()
	if err != nil {
		return false, err
	}
	return !paused, nil
}

// Close stops the listener and destroys the mpv instance.
func (s *Session) Close() {
	s.cancel()
	<-s.done
	s.Command([]string{"quit"})
	s.TerminateDestroy()
}

// listen owns mpv_wait_event; commands are issued from other goroutines.
func (s *Session) listen(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		e := s.WaitEvent(1)
		if e == nil {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		switch e.Event_Id {
		case mpv.EVENT_FILE_LOADED:
			select {
			case s.fileLoaded <- struct{}{}:
			default:
			}
		case mpv.EVENT_END_FILE:
			s.logger.Debug().Str("owner", s.owner.Load()).Msg("mpv reached end of file")
		case mpv.EVENT_SHUTDOWN:
			return
		}
	}
}

func CreateMPVInstance() (*mpv.Mpv, error) {
	mpvInstance := mpv.Create()

	mpvInstance.SetOptionString("audio-display", "no")
	mpvInstance.SetOptionString("video", "no")
	mpvInstance.SetOptionString("idle", "yes")
	mpvInstance.ObserveProperty(0, "cache-buffering-state", mpv.FORMAT_INT64)
	mpvInstance.ObserveProperty(0, "demuxer-cache-duration", mpv.FORMAT_INT64)

	err := mpvInstance.Initialize()
	if err != nil {
		mpvInstance.TerminateDestroy()
		return nil, err
	}
	return mpvInstance, nil
}
