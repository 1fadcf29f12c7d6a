// Package wallet validates the wallet addresses used as player identities.
package wallet

import (
	"errors"
	"strings"

	"crypto-fantasy/internal/settlement"

	"github.com/ethereum/go-ethereum/common"
)

var ErrInvalidAddress = errors.New("invalid_wallet_address")

// Normalize returns the EIP-55 checksummed form of a hex wallet address.
func Normalize(addr string) (settlement.Identity, error) {
	addr = strings.TrimSpace(addr)
	if !common.IsHexAddress(addr) {
		return "", ErrInvalidAddress
	}
	a := common.HexToAddress(addr)
	if a == (common.Address{}) {
		return "", ErrInvalidAddress
	}
	return settlement.Identity(a.Hex()), nil
}
