package corsika

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// Writer emits Fortran-record DAT output in the layout Reader accepts.
// Incomplete records are zero padded on Close.
type Writer struct {
	bw      *bufio.Writer
	words   int
	rec     []float32
	used    int // sub-blocks filled in rec
	pending []Particle
	closed  bool
}

// NewWriter writes plain (273 word) or thinned (312 word) sub-blocks.
func NewWriter(w io.Writer, thinned bool) *Writer {
	words := WordsPlain
	if thinned {
		words = WordsThinned
	}
	return &Writer{
		bw:    bufio.NewWriter(w),
		words: words,
		rec:   make([]float32, SubblocksPerRecord*words),
	}
}

func (w *Writer) slot() ([]float32, error) {
	if w.closed {
		return nil, errors.New("corsika: write after Close")
	}
	if w.used == SubblocksPerRecord {
		if err := w.flushRecord(); err != nil {
			return nil, err
		}
	}
	s := w.rec[w.used*w.words : (w.used+1)*w.words]
	w.used++
	return s, nil
}

func (w *Writer) flushRecord() error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(len(w.rec)*4))
	if _, err := w.bw.Write(b[:]); err != nil {
		return err
	}
	var word [4]byte
	for i, v := range w.rec {
		binary.LittleEndian.PutUint32(word[:], math.Float32bits(v))
		if _, err := w.bw.Write(word[:]); err != nil {
			return err
		}
		w.rec[i] = 0
	}
	if _, err := w.bw.Write(b[:]); err != nil {
		return err
	}
	w.used = 0
	return nil
}

func (w *Writer) flushParticles() error {
	per := particlesPerSubblock
	for len(w.pending) > 0 {
		n := min(per, len(w.pending))
		s, err := w.slot()
		if err != nil {
			return err
		}
		encodeParticles(s, w.pending[:n], w.words == WordsThinned)
		w.pending = w.pending[n:]
	}
	w.pending = nil
	return nil
}

func (w *Writer) header(enc func([]float32)) error {
	if err := w.flushParticles(); err != nil {
		return err
	}
	s, err := w.slot()
	if err != nil {
		return err
	}
	enc(s)
	return nil
}

func (w *Writer) WriteRunHeader(h RunHeader) error {
	return w.header(func(s []float32) { encodeRunHeader(s, h) })
}

func (w *Writer) WriteEventHeader(h EventHeader) error {
	return w.header(func(s []float32) { encodeEventHeader(s, h) })
}

// WriteParticles buffers rows; they are packed 39 per sub-block.
func (w *Writer) WriteParticles(ps ...Particle) error {
	if w.closed {
		return errors.New("corsika: write after Close")
	}
	w.pending = append(w.pending, ps...)
	return nil
}

func (w *Writer) WriteEventEnd(e EventEnd) error {
	return w.header(func(s []float32) { encodeEventEnd(s, e) })
}

func (w *Writer) WriteRunEnd(e RunEnd) error {
	return w.header(func(s []float32) { encodeRunEnd(s, e) })
}

// WriteRun writes a complete run.
func (w *Writer) WriteRun(r Run) error {
	if err := w.WriteRunHeader(r.Header); err != nil {
		return err
	}
	for _, ev := range r.Events {
		if err := w.WriteEventHeader(ev.Header); err != nil {
			return err
		}
		if err := w.WriteParticles(ev.Particles...); err != nil {
			return err
		}
		if err := w.WriteEventEnd(ev.End); err != nil {
			return err
		}
	}
	return w.WriteRunEnd(r.End)
}

// Close pads and writes the last record and flushes. It does not close the
// underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	if err := w.flushParticles(); err != nil {
		return err
	}
	w.closed = true
	if w.used > 0 {
		if err := w.flushRecord(); err != nil {
			return err
		}
	}
	return w.bw.Flush()
}
