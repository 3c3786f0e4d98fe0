// Package sac reads and writes binary SAC (Seismic Analysis Code) files.
//
// # Layout
//
// A SAC file is a fixed 632-byte header followed by NPTS float32 samples:
//
//	70 float32 fields   (DELTA, B, E, DIST, AZ, ...)
//	40 int32 fields     (NZYEAR..., NVHDR, NPTS, IFTYPE, LEVEN, ...)
//	192 bytes of chars  (KSTNM, KEVNM, ..., KCMPNM, KNETWK, KDATRD, KINST)
//
// Files may be written in either byte order. The reader detects the order from
// the header version field, which is always 6 for this header layout. Files are
// always written little-endian.
//
// Undefined numeric fields hold -12345; undefined character fields hold
// "-12345" padded with spaces.
package sac

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

const (
	numFloats  = 70
	numInts    = 40
	numChars   = 192
	HeaderSize = numFloats*4 + numInts*4 + numChars

	headerVersion = 6
	maxSamples    = 1 << 28
)

// Undefined values for each field kind.
const (
	UndefFloat  float32 = -12345.0
	UndefInt    int32   = -12345
	UndefString         = "-12345"
)

// Float header indices.
const (
	Delta  = 0
	DepMin = 1
	DepMax = 2
	Scale  = 3
	B      = 5
	E      = 6
	O      = 7
	A      = 8
	StLa   = 31
	StLo   = 32
	EvLa   = 35
	EvLo   = 36
	EvDp   = 38
	Mag    = 39
	Dist   = 50
	Az     = 51
	Baz    = 52
	DepMen = 56
)

// Integer header indices.
const (
	NzYear = 0
	NzJDay = 1
	NVHdr  = 6
	NPts   = 9
	IFType = 15
	IDep   = 16
	LEven  = 35
)

// Character field offsets. Every field is 8 bytes except KEVNM (16).
const (
	KStNm  = 0
	KEvNm  = 8
	KHole  = 24
	KCmpNm = 160
	KNetwk = 168
	KDatRd = 176
	KInst  = 184
)

// ITIME is the IFTYPE value for an evenly spaced time series.
const ITIME int32 = 1

// ErrInvalidHeader is returned when neither byte order yields a valid header.
var ErrInvalidHeader = errors.New("invalid sac header")

// Header is the raw SAC header.
type Header struct {
	Floats [numFloats]float32
	Ints   [numInts]int32
	Chars  [numChars]byte
}

// File is a decoded SAC file.
type File struct {
	Header Header
	Data   []float32
}

// NewHeader returns a header with every field undefined except the version,
// file type (ITIME), even spacing and a zero begin time.
func NewHeader() Header {
	var h Header
	for i := range h.Floats {
		h.Floats[i] = UndefFloat
	}
	for i := range h.Ints {
		h.Ints[i] = UndefInt
	}
	for off := 0; off < numChars; {
		n := charWidth(off)
		h.SetString(off, UndefString)
		off += n
	}
	h.Ints[NVHdr] = headerVersion
	h.Ints[IFType] = ITIME
	h.Ints[LEven] = 1
	h.Floats[B] = 0
	return h
}

func charWidth(off int) int {
	if off == KEvNm {
		return 16
	}
	return 8
}

// Float returns float field i as float64.
func (h *Header) Float(i int) float64 { return float64(h.Floats[i]) }

// SetFloat stores v into float field i.
func (h *Header) SetFloat(i int, v float64) { h.Floats[i] = float32(v) }

// Defined reports whether float field i holds a value.
func (h *Header) Defined(i int) bool { return h.Floats[i] != UndefFloat }

// String returns the trimmed character field at offset off, or "" when undefined.
func (h *Header) String(off int) string {
	s := strings.TrimRight(string(h.Chars[off:off+charWidth(off)]), " \x00")
	if s == UndefString {
		return ""
	}
	return s
}

// SetString writes s into the character field at offset off, truncating or
// space-padding it to the field width.
func (h *Header) SetString(off int, s string) {
	n := charWidth(off)
	field := h.Chars[off : off+n]
	for i := range field {
		field[i] = ' '
	}
	copy(field, s)
}

// Read decodes a SAC file, detecting its byte order.
func Read(r io.Reader) (*File, error) {
	raw := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("read sac header: %w", err)
	}

	var order binary.ByteOrder
	for _, o := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		if int32(o.Uint32(raw[numFloats*4+NVHdr*4:])) == headerVersion {
			order = o
			break
		}
	}
	if order == nil {
		return nil, ErrInvalidHeader
	}

	f := &File{Header: decodeHeader(raw, order)}
	npts := f.Header.Ints[NPts]
	if npts < 0 || npts > maxSamples {
		return nil, fmt.Errorf("%w: npts %d", ErrInvalidHeader, npts)
	}

	body := make([]byte, int(npts)*4)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read sac data: %w", err)
	}
	f.Data = make([]float32, npts)
	for i := range f.Data {
		f.Data[i] = math.Float32frombits(order.Uint32(body[i*4:]))
	}
	return f, nil
}

// Write encodes f little-endian. NPTS is taken from len(f.Data).
func Write(w io.Writer, f *File) error {
	h := f.Header
	h.Ints[NPts] = int32(len(f.Data))
	h.Ints[NVHdr] = headerVersion

	buf := make([]byte, HeaderSize+len(f.Data)*4)
	le := binary.LittleEndian
	for i, v := range h.Floats {
		le.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	for i, v := range h.Ints {
		le.PutUint32(buf[numFloats*4+i*4:], uint32(v))
	}
	copy(buf[numFloats*4+numInts*4:], h.Chars[:])
	for i, v := range f.Data {
		le.PutUint32(buf[HeaderSize+i*4:], math.Float32bits(v))
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write sac file: %w", err)
	}
	return nil
}

func decodeHeader(raw []byte, order binary.ByteOrder) Header {
	var h Header
	for i := range h.Floats {
		h.Floats[i] = math.Float32frombits(order.Uint32(raw[i*4:]))
	}
	for i := range h.Ints {
		h.Ints[i] = int32(order.Uint32(raw[numFloats*4+i*4:]))
	}
	copy(h.Chars[:], raw[numFloats*4+numInts*4:])
	return h
}
