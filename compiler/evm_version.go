package compiler

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// EvmVersion describes a named protocol-upgrade checkpoint the compiler targets when emitting bytecode. The value
// is the exact lower-case flag string passed to the compiler's --evm-version option.
type EvmVersion string

const (
	EvmByzantium      EvmVersion = "byzantium"
	EvmConstantinople EvmVersion = "constantinople"
	EvmPetersburg     EvmVersion = "petersburg"
	EvmIstanbul       EvmVersion = "istanbul"
	EvmBerlin         EvmVersion = "berlin"
	EvmParis          EvmVersion = "paris"
	EvmShanghai       EvmVersion = "shanghai"
	EvmCancun         EvmVersion = "cancun"
	EvmAtlantis       EvmVersion = "atlantis"
	EvmAgharta        EvmVersion = "agharta"
)

// evmVersions is the closed set of EVM targets the compiler accepts.
var evmVersions = []EvmVersion{
	EvmByzantium,
	EvmConstantinople,
	EvmPetersburg,
	EvmIstanbul,
	EvmBerlin,
	EvmParis,
	EvmShanghai,
	EvmCancun,
	EvmAtlantis,
	EvmAgharta,
}

// Valid returns a boolean indicating whether the EvmVersion is a member of the closed target enumeration.
func (v EvmVersion) Valid() bool {
	return slices.Contains(evmVersions, v)
}

// String returns the flag string for the EvmVersion, implementing fmt.Stringer.
func (v EvmVersion) String() string {
	return string(v)
}

// ParseEvmVersion parses a string into an EvmVersion, returning an error if it does not name a supported target.
func ParseEvmVersion(s string) (EvmVersion, error) {
	v := EvmVersion(s)
	if !v.Valid() {
		return "", fmt.Errorf("unsupported EVM version '%s'", s)
	}
	return v, nil
}
