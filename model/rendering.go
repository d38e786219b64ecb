package model

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
)

const (
	// Every board pixel covers two terminal columns so it renders roughly square
	cellsPerPixel = 2
	gridPosEmpty  = ' '
)

// PixelSink is anything that accepts one RGB write per board pixel
type PixelSink interface {
	Width() int
	Height() int
	SetPixel(x, y int, r, g, b uint8)
}

// Flusher is implemented by sinks that buffer writes until a frame is complete
type Flusher interface {
	Show()
}

// FrameBuffer is an in-memory PixelSink
type FrameBuffer struct {
	width  int
	height int
	pixels []color.RGBA
	frames int
}

// NewFrameBuffer creates a black frame of the given size
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		width:  width,
		height: height,
		pixels: make([]color.RGBA, width*height),
	}
}

func (f *FrameBuffer) Width() int  { return f.width }
func (f *FrameBuffer) Height() int { return f.height }

// SetPixel stores a color; writes outside the frame are dropped
func (f *FrameBuffer) SetPixel(x, y int, r, g, b uint8) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	f.pixels[y*f.width+x] = color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// At returns the last color written to (x, y)
func (f *FrameBuffer) At(x, y int) color.RGBA {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return color.RGBA{}
	}
	return f.pixels[y*f.width+x]
}

// Show counts completed frames
func (f *FrameBuffer) Show() {
	f.frames++
}

// Frames returns how many frames have been flushed
func (f *FrameBuffer) Frames() int {
	return f.frames
}

// TerminalSink draws pixels as true-color blocks on a tcell screen
type TerminalSink struct {
	screen tcell.Screen
}

// NewTerminalSink initializes the terminal screen
func NewTerminalSink() (*TerminalSink, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, "[NewTerminalSink] failed to create screen")
	}
	return newTerminalSink(screen)
}

func newTerminalSink(screen tcell.Screen) (*TerminalSink, error) {
	if err := screen.Init(); err != nil {
		return nil, errors.Wrap(err, "[NewTerminalSink] failed to initialize screen")
	}
	screen.HideCursor()
	screen.Clear()
	return &TerminalSink{screen: screen}, nil
}

// Width returns the number of board pixels that fit across the screen
func (t *TerminalSink) Width() int {
	w, _ := t.screen.Size()
	return w / cellsPerPixel
}

// Height returns the number of screen rows
func (t *TerminalSink) Height() int {
	_, h := t.screen.Size()
	return h
}

// SetPixel paints the background of the terminal cells backing (x, y)
func (t *TerminalSink) SetPixel(x, y int, r, g, b uint8) {
	style := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	for i := range cellsPerPixel {
		t.screen.SetContent(x*cellsPerPixel+i, y, gridPosEmpty, nil, style)
	}
}

// Show pushes the frame to the terminal
func (t *TerminalSink) Show() {
	t.screen.Show()
}

// WatchKeys calls cancel when q, Esc or Ctrl+C is pressed. The terminal is
// in raw mode so Ctrl+C never arrives as a signal. It returns once the
// screen is closed.
func (t *TerminalSink) WatchKeys(cancel func()) {
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			t.screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				cancel()
			}
		}
	}
}

// Close restores the terminal
func (t *TerminalSink) Close() {
	t.screen.Fini()
}
