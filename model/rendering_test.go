package model

import (
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

var black = color.RGBA{A: 0xff}

func TestFrameBufferClipsWrites(t *testing.T) {
	f := NewFrameBuffer(3, 2)
	f.SetPixel(1, 1, 1, 2, 3)
	f.SetPixel(3, 0, 9, 9, 9)
	f.SetPixel(-1, 0, 9, 9, 9)

	if got := f.At(1, 1); got != (color.RGBA{R: 1, G: 2, B: 3, A: 0xff}) {
		t.Fatalf("At(1,1) = %v", got)
	}
	if got := f.At(3, 0); got != (color.RGBA{}) {
		t.Fatalf("out of range At returned %v", got)
	}
}

func TestRenderPaintsEveryCell(t *testing.T) {
	config := testConfig(true)
	config.Trail = false
	config.AliveColor = [3]uint8{200, 100, 50}
	e := newEmptyEngine(4, 3, config)
	e.Set(1, 2, true)

	sink := NewFrameBuffer(4, 3)
	e.Render(sink)

	alive := color.RGBA{R: 200, G: 100, B: 50, A: 0xff}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			want := black
			if x == 1 && y == 2 {
				want = alive
			}
			if got := sink.At(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
	if sink.Frames() != 1 {
		t.Fatalf("frames = %d, want 1", sink.Frames())
	}
}

func TestRenderTrail(t *testing.T) {
	config := testConfig(false)
	config.AliveColor = [3]uint8{255, 255, 200}
	e := newEmptyEngine(6, 6, config)
	e.Set(1, 1, true)
	e.Set(4, 4, true)
	e.Set(5, 5, true)

	sink := NewFrameBuffer(6, 6)
	e.Render(sink)

	alive := color.RGBA{R: 255, G: 255, B: 200, A: 0xff}
	checks := map[Point]color.RGBA{
		{X: 1, Y: 1}: alive,
		{X: 2, Y: 2}: {R: 250, A: 0xff},
		{X: 3, Y: 3}: {G: 250, A: 0xff},
		// trails never cover a living cell
		{X: 4, Y: 4}: alive,
		{X: 5, Y: 5}: alive,
		{X: 0, Y: 0}: black,
	}
	for p, want := range checks {
		if got := sink.At(p.X, p.Y); got != want {
			t.Errorf("pixel %v = %v, want %v", p, got, want)
		}
	}
}

func TestTerminalSink(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	sink, err := newTerminalSink(screen)
	if err != nil {
		t.Fatalf("newTerminalSink: %v", err)
	}
	screen.SetSize(20, 10)

	if sink.Width() != 10 || sink.Height() != 10 {
		t.Fatalf("sink size %dx%d, want 10x10", sink.Width(), sink.Height())
	}

	sink.SetPixel(1, 2, 10, 20, 30)
	sink.Show()

	cells, width, _ := screen.GetContents()
	for _, col := range []int{2, 3} {
		_, bg, _ := cells[2*width+col].Style.Decompose()
		r, g, b := bg.RGB()
		if r != 10 || g != 20 || b != 30 {
			t.Fatalf("terminal column %d background = (%d,%d,%d)", col, r, g, b)
		}
	}

	cancelled := make(chan struct{})
	done := make(chan struct{})
	go func() {
		sink.WatchKeys(func() { close(cancelled) })
		close(done)
	}()

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		t.Fatal("q did not cancel")
	}

	sink.Close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("WatchKeys did not return after Close")
	}
}
