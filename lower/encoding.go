package lower

import (
	"encoding/binary"
	"math"

	"github.com/tetratelabs/wazero/api"
)

// Section ids.
const (
	secType   = 0x01
	secImport = 0x02
	secFunc   = 0x03
	secExport = 0x07
	secCode   = 0x0a
)

// Opcodes used by synthesized bodies.
const (
	opUnreachable = 0x00
	opEnd         = 0x0b
	opCall        = 0x10
	opLocalGet    = 0x20
	opI32Const    = 0x41
	opI64Const    = 0x42
	opF32Const    = 0x43
	opF64Const    = 0x44
)

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

func sleb[T int32 | int64](v T) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func name(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

func valType(t api.ValueType) byte {
	switch t {
	case api.ValueTypeI64:
		return 0x7e
	case api.ValueTypeF32:
		return 0x7d
	case api.ValueTypeF64:
		return 0x7c
	}
	return 0x7f
}

// constant pushes v converted to t.
func constant(t api.ValueType, v int64) []byte {
	switch t {
	case api.ValueTypeI64:
		return append([]byte{opI64Const}, sleb(v)...)
	case api.ValueTypeF32:
		return binary.LittleEndian.AppendUint32([]byte{opF32Const}, math.Float32bits(float32(v)))
	case api.ValueTypeF64:
		return binary.LittleEndian.AppendUint64([]byte{opF64Const}, math.Float64bits(float64(v)))
	}
	return append([]byte{opI32Const}, sleb(int32(v))...)
}

func section(id byte, payload []byte) []byte {
	out := []byte{id}
	out = append(out, uleb(uint32(len(payload)))...)
	return append(out, payload...)
}

// vector prefixes items with their count.
func vector(items [][]byte) []byte {
	out := uleb(uint32(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}
