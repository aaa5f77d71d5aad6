package blueprint

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor"
)

// ContractMetadata is the CBOR-encoded structure the Vyper compiler appends to the end of emitted bytecode
// (since v0.4: integrity hash, runtime size, data section lengths, immutable size, and the compiler version).
// The final two bytes of the bytecode hold the big-endian length of the CBOR payload.
type ContractMetadata struct {
	// Raw is the decoded CBOR payload as generic values.
	Raw any
}

// ExtractContractMetadata extracts compiler metadata from provided bytecode and returns it. If metadata could not
// be located or decoded, nil is returned.
func ExtractContractMetadata(bytecode []byte) *ContractMetadata {
	payload := trailingMetadataPayload(bytecode)
	if payload == nil {
		return nil
	}

	var raw any
	if err := cbor.Unmarshal(payload, &raw); err != nil {
		return nil
	}
	return &ContractMetadata{Raw: raw}
}

// RemoveContractMetadata takes bytecode and attempts to detect compiler metadata within it. If metadata could be
// located, this method returns the bytecode with the metadata and its trailing length stripped. Otherwise, the
// provided input is returned as-is.
func RemoveContractMetadata(bytecode []byte) []byte {
	payload := trailingMetadataPayload(bytecode)
	if payload == nil {
		return bytecode
	}

	var raw any
	if err := cbor.Unmarshal(payload, &raw); err != nil {
		return bytecode
	}
	return bytecode[:len(bytecode)-len(payload)-2]
}

// trailingMetadataPayload locates the CBOR payload region declared by the trailing 2-byte length, or nil if the
// bytecode is too short to carry one.
func trailingMetadataPayload(bytecode []byte) []byte {
	if len(bytecode) < 3 {
		return nil
	}
	payloadLength := int(binary.BigEndian.Uint16(bytecode[len(bytecode)-2:]))
	if payloadLength == 0 || payloadLength+2 > len(bytecode) {
		return nil
	}
	return bytecode[len(bytecode)-2-payloadLength : len(bytecode)-2]
}

// CompilerVersion extracts the compiler version recorded in the metadata and returns it as a dotted version
// string. If it could not be detected or extracted, the empty string is returned.
func (m *ContractMetadata) CompilerVersion() string {
	// The version lives in a {"vyper": [major, minor, patch]} mapping, either as the payload itself or as an
	// element of the payload list.
	if version := versionFromValue(m.Raw); version != "" {
		return version
	}
	if elements, ok := m.Raw.([]any); ok {
		for _, element := range elements {
			if version := versionFromValue(element); version != "" {
				return version
			}
		}
	}
	return ""
}

// versionFromValue tries to interpret a decoded CBOR value as a compiler version mapping.
func versionFromValue(value any) string {
	components := versionComponents(value)
	if len(components) != 3 {
		return ""
	}
	return fmt.Sprintf("%d.%d.%d", components[0], components[1], components[2])
}

// versionComponents extracts the [major, minor, patch] integers from a version mapping, handling both string-keyed
// and interface-keyed maps as produced by the CBOR decoder.
func versionComponents(value any) []uint64 {
	var versionValue any
	switch mapping := value.(type) {
	case map[string]any:
		versionValue = mapping["vyper"]
	case map[any]any:
		versionValue = mapping["vyper"]
	default:
		return nil
	}

	elements, ok := versionValue.([]any)
	if !ok {
		return nil
	}
	var components []uint64
	for _, element := range elements {
		switch number := element.(type) {
		case uint64:
			components = append(components, number)
		case int64:
			components = append(components, uint64(number))
		default:
			return nil
		}
	}
	return components
}
