package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/yhkl-dev/localradio/domain"
)

const (
	ctrlC = 0x03
	ctrlD = 0x04
	bel   = "\a"
)

type readResult struct {
	b   byte
	err error
}

// Stdin reads one key per byte, without waiting for Enter when the input is
// a terminal. It also reports to the output writer, so it doubles as the
// notifier in headless mode.
type Stdin struct {
	in      *bufio.Reader
	out     io.Writer
	restore func() error

	once    sync.Once
	results chan readResult
}

// NewStdin puts f into raw mode when it is a terminal. Call Close to restore it.
func NewStdin(f *os.File, out io.Writer) (*Stdin, error) {
	s := NewReader(f, out)
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return s, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("raw mode: %w", err)
	}
	s.restore = func() error { return term.Restore(fd, state) }
	return s, nil
}

// NewReader reads keys from any reader.
func NewReader(in io.Reader, out io.Writer) *Stdin {
	return &Stdin{
		in:      bufio.NewReader(in),
		out:     out,
		results: make(chan readResult),
	}
}

// Next returns the next key. Ctrl-C yields KeyQuit and Ctrl-D ends the input.
func (s *Stdin) Next(ctx context.Context) (domain.Key, error) {
	s.once.Do(func() { go s.read() })
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-s.results:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			switch res.b {
			case ctrlC:
				return KeyQuit, nil
			case ctrlD:
				return "", io.EOF
			case '\r', '\n':
				continue
			}
			if key, ok := runeKey(rune(res.b)); ok {
				return key, nil
			}
		}
	}
}

// read owns the blocking reads so Next can honour cancellation.
func (s *Stdin) read() {
	defer close(s.results)
	for {
		b, err := s.in.ReadByte()
		s.results <- readResult{b: b, err: err}
		if err != nil {
			return
		}
	}
}

func (s *Stdin) Show(msg string) {
	fmt.Fprintf(s.out, "%s\r\n", msg)
}

// Confirm rings the terminal bell three times before the message.
func (s *Stdin) Confirm(msg string) {
	fmt.Fprintf(s.out, "%s%s%s%s\r\n", bel, bel, bel, msg)
}

// Close leaves raw mode.
func (s *Stdin) Close() error {
	if s.restore == nil {
		return nil
	}
	return s.restore()
}
