package database

import (
	"errors"
	"fmt"
	"strings"
)

// Set of error variables for the database package.
var (
	ErrGenesisData    = errors.New("genesis block holds no application data")
	ErrDecode         = errors.New("block body is not validly encoded")
	ErrSealed         = errors.New("block is already sealed")
	ErrTamperedBlock  = errors.New("block hash does not match its content")
	ErrChainIntegrity = errors.New("chain failed validation")
)

// TamperedBlockError identifies a block whose stored hash disagrees with the
// hash recomputed from its content.
type TamperedBlockError struct {
	Height uint64
}

// Error implements the error interface.
func (tbe *TamperedBlockError) Error() string {
	return fmt.Sprintf("Block %d is not valid.", tbe.Height)
}

// Is allows errors.Is to match this error against ErrTamperedBlock.
func (tbe *TamperedBlockError) Is(target error) bool {
	return target == ErrTamperedBlock
}

// ChainIntegrityError is returned by Append when validating the chain with
// the new block in place reported errors. The block was not committed.
type ChainIntegrityError struct {
	Errors []string
}

// Error implements the error interface.
func (cie *ChainIntegrityError) Error() string {
	return fmt.Sprintf("%s: %s", ErrChainIntegrity, strings.Join(cie.Errors, " "))
}

// Is allows errors.Is to match this error against ErrChainIntegrity.
func (cie *ChainIntegrityError) Is(target error) bool {
	return target == ErrChainIntegrity
}
