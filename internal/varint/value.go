package varint

import (
	"encoding/binary"
	"math"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/lattice-data/walguard/internal/walerr"
)

// TextEncoding mirrors the DB header's text-encoding field (spec §6):
// 1 = UTF-8, 2 = UTF-16LE, 3 = UTF-16BE.
type TextEncoding uint32

const (
	EncodingUTF8    TextEncoding = 1
	EncodingUTF16LE TextEncoding = 2
	EncodingUTF16BE TextEncoding = 3
)

// DecodeText converts the raw bytes of a text column to a Go string
// according to the database's declared text encoding. SQLite databases
// overwhelmingly use UTF-8, but the on-disk header always carries the
// encoding field, so a forensic tool that ignores it would silently
// mis-render non-UTF-8 databases.
func DecodeText(data []byte, enc TextEncoding) (string, error) {
	switch enc {
	case EncodingUTF16LE:
		out, _, err := transform.Bytes(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder(), data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case EncodingUTF16BE:
		out, _, err := transform.Bytes(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder(), data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return string(data), nil
	}
}

// Value is a decoded column value: exactly one of the fields is
// meaningful, selected by Kind.
type Value struct {
	Kind ValueKind
	Int  int64
	Real float64
	Text string
	Blob []byte
}

// ValueKind discriminates the payload carried by a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInt
	KindReal
	KindText
	KindBlob
)

// DecodeValue decodes a single column's data bytes given its serial type.
// data must be at least SerialTypeSize(serialType) bytes long. enc governs
// text decoding (§4.1 / §6).
func DecodeValue(data []byte, serialType uint64, enc TextEncoding) (Value, int, error) {
	size := SerialTypeSize(serialType)
	if len(data) < size {
		return Value{}, 0, walerr.ErrUnexpectedEOF
	}
	switch {
	case serialType == 0:
		return Value{Kind: KindNull}, 0, nil
	case serialType >= 1 && serialType <= 6, serialType == 8, serialType == 9:
		iv, err := DecodeSignedInt(data, serialType)
		if err != nil {
			return Value{}, 0, err
		}
		return Value{Kind: KindInt, Int: iv}, size, nil
	case serialType == 7:
		bits := binary.BigEndian.Uint64(data[:8])
		return Value{Kind: KindReal, Real: math.Float64frombits(bits)}, 8, nil
	case IsBlob(serialType):
		return Value{Kind: KindBlob, Blob: data[:size]}, size, nil
	case IsText(serialType):
		s, err := DecodeText(data[:size], enc)
		if err != nil {
			return Value{}, 0, err
		}
		return Value{Kind: KindText, Text: s}, size, nil
	default:
		return Value{Kind: KindNull}, 0, nil
	}
}
