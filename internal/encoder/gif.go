package encoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
)

// ErrNoFrames is returned when finishing a stream that has no frames.
var ErrNoFrames = errors.New("gif has no frames")

// GIFStream collects paletted frames and their delays, then encodes them
// into one looping GIF.
type GIFStream struct {
	anim gif.GIF
	size image.Point
}

// NewGIFStream starts an animation. loop 0 repeats forever, -1 plays once.
func NewGIFStream(loop int) *GIFStream {
	return &GIFStream{anim: gif.GIF{LoopCount: loop}}
}

// Append adds a frame shown for delay hundredths of a second. All frames
// must share the first frame's size.
func (s *GIFStream) Append(frame *image.Paletted, delay int) error {
	sz := frame.Bounds().Size()
	if len(s.anim.Image) == 0 {
		s.size = sz
		s.anim.Config = image.Config{Width: sz.X, Height: sz.Y}
	} else if sz != s.size {
		return fmt.Errorf("append frame %d: size %v, stream is %v", len(s.anim.Image), sz, s.size)
	}
	if delay < 1 {
		delay = 1
	}
	s.anim.Image = append(s.anim.Image, frame)
	s.anim.Delay = append(s.anim.Delay, delay)
	s.anim.Disposal = append(s.anim.Disposal, gif.DisposalNone)
	return nil
}

// Len returns the number of frames appended so far.
func (s *GIFStream) Len() int { return len(s.anim.Image) }

// Duration returns the total play time in hundredths of a second.
func (s *GIFStream) Duration() int {
	total := 0
	for _, d := range s.anim.Delay {
		total += d
	}
	return total
}

// Finish encodes the animation.
func (s *GIFStream) Finish() ([]byte, error) {
	if len(s.anim.Image) == 0 {
		return nil, ErrNoFrames
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, &s.anim); err != nil {
		return nil, fmt.Errorf("encode gif: %w", err)
	}
	return buf.Bytes(), nil
}
