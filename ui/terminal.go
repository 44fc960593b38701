package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/yhkl-dev/localradio/domain"
)

const (
	confirmBells = 3
	bellGap      = 150 * time.Millisecond
)

var (
	titleStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Attributes(tcell.AttrBold)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorLightGreen)
	helpStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Terminal reads keys from a full-screen terminal and shows a one-line
// status. Next, Show and Confirm must be called from one goroutine.
type Terminal struct {
	screen  tcell.Screen
	events  chan tcell.Event
	quit    chan struct{}
	help    []string
	status  string
	bellGap time.Duration
}

// NewTerminal takes over the controlling terminal.
func NewTerminal(help []string) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return NewTerminalScreen(screen, help)
}

// NewTerminalScreen runs on an existing screen, such as a simulation screen.
func NewTerminalScreen(screen tcell.Screen, help []string) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	t := &Terminal{
		screen:  screen,
		events:  make(chan tcell.Event, 16),
		quit:    make(chan struct{}),
		help:    help,
		bellGap: bellGap,
	}
	go screen.ChannelEvents(t.events, t.quit)
	t.draw()
	return t, nil
}

// Next blocks until a mapped key is pressed.
func (t *Terminal) Next(ctx context.Context) (domain.Key, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev, ok := <-t.events:
			if !ok {
				return KeyQuit, nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if key, ok := KeyName(ev); ok {
					return key, nil
				}
			case *tcell.EventResize:
				t.screen.Sync()
				t.draw()
			}
		}
	}
}

// Show replaces the status line.
func (t *Terminal) Show(msg string) {
	t.status = msg
	t.draw()
}

// Confirm rings the bell a few times and shows msg.
func (t *Terminal) Confirm(msg string) {
	for i := 0; i < confirmBells; i++ {
		if i > 0 {
			time.Sleep(t.bellGap)
		}
		t.screen.Beep()
	}
	t.Show(msg)
}

// Close gives the terminal back.
func (t *Terminal) Close() {
	close(t.quit)
	t.screen.Fini()
}

func (t *Terminal) draw() {
	t.screen.Clear()
	t.print(0, "localradio", titleStyle)
	t.print(2, t.status, statusStyle)
	for i, line := range t.help {
		t.print(4+i, line, helpStyle)
	}
	t.screen.Show()
}

func (t *Terminal) print(row int, text string, style tcell.Style) {
	width, height := t.screen.Size()
	if row >= height {
		return
	}
	col := 1
	for _, r := range text {
		if col >= width {
			break
		}
		t.screen.SetContent(col, row, r, nil, style)
		col++
	}
}
