package corsika

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Reader yields runs from a CORSIKA particle stream. Both Fortran
// unformatted records (length markers around each record) and bare
// sub-block streams are accepted.
type Reader struct {
	br      *bufio.Reader
	words   int
	fortran bool

	rec  []float32 // current record, one or SubblocksPerRecord sub-blocks
	next int       // next sub-block index in rec
	buf  []byte
}

// NewReader sniffs the layout from the first bytes of r.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	head, err := br.Peek(8)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	rd := &Reader{br: br}
	switch {
	case string(head[4:8]) == tagRUNH:
		rd.fortran = true
		n := int(binary.LittleEndian.Uint32(head[:4])) / 4
		switch n {
		case SubblocksPerRecord * WordsPlain:
			rd.words = WordsPlain
		case SubblocksPerRecord * WordsThinned:
			rd.words = WordsThinned
		default:
			return nil, fmt.Errorf("%w: record of %d words", ErrFormat, n)
		}
	case string(head[:4]) == tagRUNH:
		rd.words = WordsPlain
		if ahead, err := br.Peek(WordsThinned*4 + 4); err == nil && string(ahead[WordsThinned*4:]) == tagEVTH {
			rd.words = WordsThinned
		}
	default:
		return nil, fmt.Errorf("%w: no RUNH block at start of stream", ErrFormat)
	}
	return rd, nil
}

// Thinned reports whether particles carry a thinning weight.
func (r *Reader) Thinned() bool { return r.words == WordsThinned }

func (r *Reader) fill() error {
	var payload int
	if r.fortran {
		var marker [4]byte
		if _, err := io.ReadFull(r.br, marker[:]); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("%w: truncated record marker", ErrFormat)
			}
			return err
		}
		payload = int(binary.LittleEndian.Uint32(marker[:]))
		if payload != SubblocksPerRecord*r.words*4 {
			return fmt.Errorf("%w: record of %d bytes, want %d", ErrFormat, payload, SubblocksPerRecord*r.words*4)
		}
	} else {
		payload = r.words * 4
	}
	if cap(r.buf) < payload {
		r.buf = make([]byte, payload)
	}
	r.buf = r.buf[:payload]
	if _, err := io.ReadFull(r.br, r.buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || (r.fortran && errors.Is(err, io.EOF)) {
			return fmt.Errorf("%w: truncated record", ErrFormat)
		}
		return err
	}
	if r.fortran {
		var trailer [4]byte
		if _, err := io.ReadFull(r.br, trailer[:]); err != nil || int(binary.LittleEndian.Uint32(trailer[:])) != payload {
			return fmt.Errorf("%w: record trailer does not match header", ErrFormat)
		}
	}
	n := payload / 4
	if cap(r.rec) < n {
		r.rec = make([]float32, n)
	}
	r.rec = r.rec[:n]
	for i := range r.rec {
		r.rec[i] = math.Float32frombits(binary.LittleEndian.Uint32(r.buf[4*i:]))
	}
	r.next = 0
	return nil
}

// subblock returns the next sub-block; the slice is only valid until the
// following call.
func (r *Reader) subblock() ([]float32, error) {
	if r.next*r.words >= len(r.rec) {
		if err := r.fill(); err != nil {
			return nil, err
		}
	}
	s := r.rec[r.next*r.words : (r.next+1)*r.words]
	r.next++
	return s, nil
}

// ReadRun reads the next complete run. It returns io.EOF when the stream
// holds no further run.
func (r *Reader) ReadRun() (*Run, error) {
	var (
		run   *Run
		event *Event
	)
	thinned := r.Thinned()
	for {
		w, err := r.subblock()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if run == nil {
					return nil, io.EOF
				}
				return nil, fmt.Errorf("%w: run %d ends without RUNE", ErrFormat, run.Header.RunNumber)
			}
			return nil, err
		}
		switch wordTag(w[0]) {
		case tagRUNH:
			if run != nil {
				return nil, fmt.Errorf("%w: RUNH inside run %d", ErrFormat, run.Header.RunNumber)
			}
			run = &Run{Header: decodeRunHeader(w)}
		case tagEVTH:
			if run == nil || event != nil {
				return nil, fmt.Errorf("%w: unexpected EVTH", ErrFormat)
			}
			event = &Event{Header: decodeEventHeader(w)}
		case tagLONG:
			// longitudinal profile blocks are not used
		case tagEVTE:
			if event == nil {
				return nil, fmt.Errorf("%w: EVTE without EVTH", ErrFormat)
			}
			event.End = decodeEventEnd(w)
			run.Events = append(run.Events, *event)
			event = nil
		case tagRUNE:
			if run == nil || event != nil {
				return nil, fmt.Errorf("%w: unexpected RUNE", ErrFormat)
			}
			run.End = decodeRunEnd(w)
			return run, nil
		default:
			if event != nil {
				event.Particles = decodeParticles(event.Particles, w, thinned)
			} else if !zero(w) {
				return nil, fmt.Errorf("%w: particle data outside an event", ErrFormat)
			}
		}
	}
}

func zero(w []float32) bool {
	for _, v := range w {
		if v != 0 {
			return false
		}
	}
	return true
}

// Decode reads every run of a stream.
func Decode(r io.Reader) ([]Run, error) {
	rd, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	var runs []Run
	for {
		run, err := rd.ReadRun()
		if errors.Is(err, io.EOF) {
			return runs, nil
		}
		if err != nil {
			return runs, err
		}
		runs = append(runs, *run)
	}
}

// ReadFile decodes a DAT file, gunzipping it when needed.
func ReadFile(path string) ([]Run, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	runs, err := Decode(rc)
	if err != nil {
		return runs, fmt.Errorf("%s: %w", path, err)
	}
	return runs, nil
}
