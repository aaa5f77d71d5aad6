package blueprint

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_MinimalBlueprint(t *testing.T) {
	t.Parallel()

	// Version 0, no length bytes, one byte of initcode.
	decoded, err := Decode([]byte{0xFE, 0x71, 0x00, 0x00})
	require.NoError(t, err)

	assert.EqualValues(t, 0, decoded.ERCVersion)
	assert.Nil(t, decoded.PreambleData, "a zero length encoding declares no preamble data")
	assert.Equal(t, []byte{0x00}, decoded.Initcode)
}

func TestDecode_WithPreambleData(t *testing.T) {
	t.Parallel()

	// Version 0, one length byte declaring 7 bytes of preamble data, one byte of initcode.
	bytecode := []byte{0xFE, 0x71, 0x01, 0x07}
	bytecode = append(bytecode, bytes.Repeat([]byte{0xFF}, 7)...)
	bytecode = append(bytecode, 0x00)

	decoded, err := Decode(bytecode)
	require.NoError(t, err)

	assert.EqualValues(t, 0, decoded.ERCVersion)
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, 7), decoded.PreambleData)
	assert.Equal(t, []byte{0x00}, decoded.Initcode)
}

func TestDecode_TwoByteLength(t *testing.T) {
	t.Parallel()

	// Version 1, two length bytes declaring 256 bytes of preamble data.
	bytecode := []byte{0xFE, 0x71, 0x01<<2 | 0x02, 0x01, 0x00}
	bytecode = append(bytecode, bytes.Repeat([]byte{0xAA}, 256)...)
	bytecode = append(bytecode, 0x60, 0x00)

	decoded, err := Decode(bytecode)
	require.NoError(t, err)

	assert.EqualValues(t, 1, decoded.ERCVersion)
	assert.Len(t, decoded.PreambleData, 256)
	assert.Equal(t, []byte{0x60, 0x00}, decoded.Initcode)
}

func TestDecode_VersionBits(t *testing.T) {
	t.Parallel()

	// The top 6 bits of the third byte carry the ERC version.
	for _, version := range []uint8{0, 1, 42, 63} {
		decoded, err := Decode([]byte{0xFE, 0x71, version << 2, 0x00})
		require.NoError(t, err)
		assert.Equal(t, version, decoded.ERCVersion)
	}
}

func TestDecode_EmptyBytecode(t *testing.T) {
	t.Parallel()

	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrEmptyBytecode)

	_, err = Decode([]byte{})
	assert.ErrorIs(t, err, ErrEmptyBytecode)
}

func TestDecode_NotABlueprint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bytecode []byte
	}{
		{"wrong magic", []byte{0x60, 0x80, 0x60, 0x40}},
		{"first magic byte only", []byte{0xFE, 0x70, 0x00, 0x00}},
		{"shorter than mandatory preamble", []byte{0xFE, 0x71}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.bytecode)
			assert.ErrorIs(t, err, ErrNotABlueprint)
		})
	}
}

func TestDecode_ReservedBits(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte{0xFE, 0x71, 0x03, 0x00})
	assert.ErrorIs(t, err, ErrReservedBits)
}

func TestDecode_EmptyInitcode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bytecode []byte
	}{
		{"nothing after version byte", []byte{0xFE, 0x71, 0x00}},
		{"truncated length bytes", []byte{0xFE, 0x71, 0x02, 0x00}},
		{"truncated preamble data", []byte{0xFE, 0x71, 0x01, 0x07, 0xFF}},
		{"preamble data consumes everything", []byte{0xFE, 0x71, 0x01, 0x02, 0xFF, 0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.bytecode)
			assert.ErrorIs(t, err, ErrEmptyInitcode)
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		blueprint Blueprint
	}{
		{"no preamble data", Blueprint{ERCVersion: 0, Initcode: []byte{0x60, 0x00}}},
		{"short preamble data", Blueprint{ERCVersion: 5, PreambleData: []byte{0x01, 0x02, 0x03}, Initcode: []byte{0x00}}},
		{"one byte length boundary", Blueprint{ERCVersion: 63, PreambleData: bytes.Repeat([]byte{0xCC}, 255), Initcode: []byte{0xFE}}},
		{"two byte length", Blueprint{ERCVersion: 1, PreambleData: bytes.Repeat([]byte{0xCC}, 300), Initcode: []byte{0x60, 0x80}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := Encode(&tt.blueprint)
			require.NoError(t, err)

			decoded, err := Decode(encoded)
			require.NoError(t, err)

			assert.Equal(t, tt.blueprint.ERCVersion, decoded.ERCVersion)
			if len(tt.blueprint.PreambleData) == 0 {
				assert.Nil(t, decoded.PreambleData)
			} else {
				assert.Equal(t, tt.blueprint.PreambleData, decoded.PreambleData)
			}
			assert.Equal(t, tt.blueprint.Initcode, decoded.Initcode)
		})
	}
}

func TestEncode_MinimalLengthEncoding(t *testing.T) {
	t.Parallel()

	// No preamble data uses the zero length encoding with no length bytes at all.
	encoded, err := Encode(&Blueprint{Initcode: []byte{0x00}})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFE, 0x71, 0x00, 0x00}, encoded)

	// A single data byte fits the one byte length encoding.
	encoded, err = Encode(&Blueprint{PreambleData: []byte{0xAB}, Initcode: []byte{0x00}})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFE, 0x71, 0x01, 0x01, 0xAB, 0x00}, encoded)
}

func TestEncode_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Encode(&Blueprint{ERCVersion: 64, Initcode: []byte{0x00}})
	assert.ErrorIs(t, err, ErrInvalidVersion)

	_, err = Encode(&Blueprint{ERCVersion: 0})
	assert.ErrorIs(t, err, ErrEmptyInitcode)

	_, err = Encode(&Blueprint{PreambleData: make([]byte, 0x10000), Initcode: []byte{0x00}})
	assert.ErrorIs(t, err, ErrOversizedPreamble)
}

func TestDecode_CopiesInput(t *testing.T) {
	t.Parallel()

	bytecode := []byte{0xFE, 0x71, 0x01, 0x02, 0x11, 0x22, 0x33}
	decoded, err := Decode(bytecode)
	require.NoError(t, err)

	// Mutating the input must not affect the decoded regions.
	bytecode[4] = 0x00
	bytecode[6] = 0x00
	assert.Equal(t, []byte{0x11, 0x22}, decoded.PreambleData)
	assert.Equal(t, []byte{0x33}, decoded.Initcode)
}
