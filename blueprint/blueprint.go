// Package blueprint implements the ERC-5202 blueprint contract container format: a standardized bytecode wrapper
// identifying deployable initcode plus versioned preamble metadata, used for cheap on-chain factory deployment.
//
// The container grammar is:
//
//	0xFE 0x71 <version:6 bits><length encoding:2 bits> [<length bytes>] [<preamble data>] <initcode>
//
// where <length encoding> is a number between 0 and 2 (inclusive) describing how many bytes the big-endian
// preamble data length occupies. The value 0b11 is reserved.
//
// Reference: "ERC-5202: Blueprint contract format," https://eips.ethereum.org/EIPS/eip-5202.
package blueprint

import (
	"github.com/pkg/errors"
)

var (
	// ErrEmptyBytecode indicates an empty input was provided to the decoder.
	ErrEmptyBytecode = errors.New("bytecode is empty")

	// ErrNotABlueprint indicates the input does not begin with the mandatory 0xFE 0x71 blueprint preamble.
	ErrNotABlueprint = errors.New("bytecode is not an ERC-5202 blueprint")

	// ErrReservedBits indicates the length encoding bits hold the reserved value 0b11.
	ErrReservedBits = errors.New("reserved length encoding bits are set")

	// ErrEmptyInitcode indicates the container holds no initcode bytes. A blueprint must contain at least one.
	ErrEmptyInitcode = errors.New("blueprint contains no initcode")

	// ErrInvalidVersion indicates an ERC version outside the 6-bit range was provided to the encoder.
	ErrInvalidVersion = errors.New("ERC version must be between 0 and 63")

	// ErrOversizedPreamble indicates preamble data too large for the 2-byte length encoding was provided to the
	// encoder.
	ErrOversizedPreamble = errors.New("preamble data length cannot be encoded in at most two bytes")
)

// Blueprint describes a decoded ERC-5202 blueprint container.
type Blueprint struct {
	// ERCVersion is the container format version, a 6-bit value between 0 and 63.
	ERCVersion uint8

	// PreambleData holds any bytes the deployer inserted between the version byte and the initcode. It is nil
	// when the container declares no preamble data.
	PreambleData []byte

	// Initcode is the deployable initcode. It is always at least one byte.
	Initcode []byte
}

// Decode parses an ERC-5202 blueprint container from raw bytecode. It is a pure function; the returned Blueprint
// holds copies of the relevant input regions.
func Decode(bytecode []byte) (*Blueprint, error) {
	if len(bytecode) == 0 {
		return nil, ErrEmptyBytecode
	}

	// The mandatory preamble is the two magic bytes plus one version byte.
	if len(bytecode) < 3 || bytecode[0] != 0xFE || bytecode[1] != 0x71 {
		return nil, ErrNotABlueprint
	}

	// Byte 2 packs the ERC version into its top 6 bits and the length encoding into its bottom 2 bits.
	ercVersion := (bytecode[2] & 0b11111100) >> 2
	lengthEncoding := int(bytecode[2] & 0b11)
	if lengthEncoding == 0b11 {
		return nil, ErrReservedBits
	}

	// Read the big-endian preamble data length from the bytes following the version byte. A truncated container
	// has consumed every byte before any initcode, so it reports as having empty initcode.
	dataStart := 3 + lengthEncoding
	if dataStart > len(bytecode) {
		return nil, ErrEmptyInitcode
	}
	dataLength := 0
	for _, lengthByte := range bytecode[3:dataStart] {
		dataLength = dataLength<<8 | int(lengthByte)
	}

	dataEnd := dataStart + dataLength
	if dataEnd > len(bytecode) {
		return nil, ErrEmptyInitcode
	}

	var preambleData []byte
	if dataLength > 0 {
		preambleData = append([]byte(nil), bytecode[dataStart:dataEnd]...)
	}

	initcode := bytecode[dataEnd:]
	if len(initcode) == 0 {
		return nil, ErrEmptyInitcode
	}

	return &Blueprint{
		ERCVersion:   ercVersion,
		PreambleData: preambleData,
		Initcode:     append([]byte(nil), initcode...),
	}, nil
}

// Encode serializes a Blueprint into its ERC-5202 container bytes, using the smallest length encoding that fits
// the preamble data.
func Encode(b *Blueprint) ([]byte, error) {
	if b.ERCVersion > 63 {
		return nil, ErrInvalidVersion
	}
	if len(b.Initcode) == 0 {
		return nil, ErrEmptyInitcode
	}

	// Pick the smallest length encoding that can represent the preamble data length.
	var lengthEncoding int
	switch {
	case len(b.PreambleData) == 0:
		lengthEncoding = 0
	case len(b.PreambleData) <= 0xFF:
		lengthEncoding = 1
	case len(b.PreambleData) <= 0xFFFF:
		lengthEncoding = 2
	default:
		return nil, ErrOversizedPreamble
	}

	encoded := make([]byte, 0, 3+lengthEncoding+len(b.PreambleData)+len(b.Initcode))
	encoded = append(encoded, 0xFE, 0x71, b.ERCVersion<<2|uint8(lengthEncoding))
	for shift := 8 * (lengthEncoding - 1); shift >= 0; shift -= 8 {
		encoded = append(encoded, byte(len(b.PreambleData)>>shift))
	}
	encoded = append(encoded, b.PreambleData...)
	encoded = append(encoded, b.Initcode...)
	return encoded, nil
}
