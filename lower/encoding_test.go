package lower

import (
	"bytes"
	"testing"

	"github.com/tetratelabs/wazero/api"
)

func TestULEB(t *testing.T) {
	tests := []struct {
		want []byte
		in   uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
	}
	for _, tt := range tests {
		if got := uleb(tt.in); !bytes.Equal(got, tt.want) {
			t.Errorf("uleb(%d) = % x, want % x", tt.in, got, tt.want)
		}
	}
}

func TestSLEB(t *testing.T) {
	tests := []struct {
		want []byte
		in   int64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7f}, -1},
		{[]byte{0x40}, -64},
		{[]byte{0xc0, 0x00}, 64},
		{[]byte{0xbf, 0x7f}, -65},
	}
	for _, tt := range tests {
		if got := sleb(tt.in); !bytes.Equal(got, tt.want) {
			t.Errorf("sleb(%d) = % x, want % x", tt.in, got, tt.want)
		}
		if got := sleb(int32(tt.in)); !bytes.Equal(got, tt.want) {
			t.Errorf("sleb(int32 %d) = % x, want % x", tt.in, got, tt.want)
		}
	}
}

func TestConstant(t *testing.T) {
	tests := []struct {
		typ  api.ValueType
		v    int64
		want []byte
	}{
		{api.ValueTypeI32, -1, []byte{opI32Const, 0x7f}},
		{api.ValueTypeI64, 0, []byte{opI64Const, 0x00}},
		{api.ValueTypeF32, -1, []byte{opF32Const, 0x00, 0x00, 0x80, 0xbf}},
		{api.ValueTypeF64, 0, []byte{opF64Const, 0, 0, 0, 0, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		if got := constant(tt.typ, tt.v); !bytes.Equal(got, tt.want) {
			t.Errorf("constant(%s, %d) = % x, want % x", api.ValueTypeName(tt.typ), tt.v, got, tt.want)
		}
	}
}
