package compiler

import (
	"bytes"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

// ParseABI invokes the compiler to generate the contract's ABI and parses it into a go-ethereum ABI definition,
// ready for use with Ethereum tooling (packing calls, decoding logs, binding generation).
func (v *Vyper) ParseABI() (*abi.ABI, error) {
	out, err := v.execute("-f", string(FormatABI), v.SourcePath)
	if err != nil {
		return nil, err
	}

	parsed, err := abi.JSON(bytes.NewReader(out))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &parsed, nil
}
