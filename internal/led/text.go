package led

import (
	"context"
	"time"

	"github.com/li20034/mono-sense-hat/internal/font"
	"github.com/sirupsen/logrus"
)

// DefaultScrollDelay is the frame delay used when none is configured.
const DefaultScrollDelay = 100 * time.Millisecond

// scrollPadding blank columns lead and trail a message so it scrolls in
// from the right edge and fully out on the left.
const scrollPadding = Width

// Text draws characters of a Font on a Display.
type Text struct {
	d    *Display
	font *font.Font

	// sleep waits between frames; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewText returns a renderer using f, or font.Default when f is nil.
func NewText(d *Display, f *font.Font) *Text {
	if f == nil {
		f = font.Default
	}
	return &Text{d: d, font: f, sleep: sleepContext}
}

// Font returns the font in use.
func (t *Text) Font() *font.Font {
	return t.font
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DrawLetter clears the back buffer and draws ch at the top-left corner in
// color c. A character without a glyph only clears the buffer.
func (t *Text) DrawLetter(ch rune, c Color16) error {
	if err := t.d.Fill(0); err != nil {
		return err
	}
	bits, err := t.font.Glyph(ch)
	if err != nil {
		return nil
	}
	for row := 0; row < t.font.Height; row++ {
		for col := 0; col < t.font.Width; col++ {
			if t.font.Lit(bits, row, col) {
				t.d.back.pix[row<<3|col] = c
			}
		}
	}
	return nil
}

// ScrollColumns lays msg out as 8 pixel high columns, MSB on top. Glyphs are
// separated by one blank column and the whole run is padded with 8 blank
// columns on both sides. Characters without a glyph are skipped.
func ScrollColumns(f *font.Font, msg string) []uint8 {
	cols := make([]uint8, scrollPadding, scrollPadding+len(msg)*(f.Width+1)+scrollPadding)
	first := true
	for _, ch := range msg {
		bits, err := f.Glyph(ch)
		if err != nil {
			continue
		}
		if !first {
			cols = append(cols, 0)
		}
		first = false
		for col := 0; col < f.Width; col++ {
			cols = append(cols, f.Column(bits, col))
		}
	}
	return append(cols, make([]uint8, scrollPadding)...)
}

// drawColumns clears the back buffer and draws the 8 columns starting at
// cols[0].
func (t *Text) drawColumns(cols []uint8, c Color16) {
	t.d.back.Fill(0)
	for x := 0; x < Width; x++ {
		for y := 0; y < Height; y++ {
			if cols[x]&(0x80>>uint(y)) != 0 {
				t.d.back.pix[y<<3|x] = c
			}
		}
	}
}

// ScrollMessage scrolls msg from right to left, presenting one frame per
// column and waiting delay after each. It blocks until the message has
// left the matrix or ctx is done, in which case the partially scrolled
// frame stays in place and ctx.Err() is returned.
func (t *Text) ScrollMessage(ctx context.Context, msg string, c Color16, delay time.Duration) error {
	if err := t.d.check(); err != nil {
		return err
	}

	cols := ScrollColumns(t.font, msg)
	frames := len(cols) - Width + 1
	logrus.Debugf("Scroll %q: %d columns, %d frames", msg, len(cols), frames)

	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.drawColumns(cols[i:i+Width], c)
		if err := t.d.Present(); err != nil {
			return err
		}
		if err := t.sleep(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}
