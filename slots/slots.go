// Package slots implements the storage slot arithmetic used to locate proxy state: fixed
// offsets from a base slot, Keccak-256 derived mapping and array slots, and reads of
// dynamically-sized storage arrays.
package slots

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// AddSlotOffset returns slot+n, wrapping modulo 2^256.
func AddSlotOffset(slot common.Hash, n uint64) common.Hash {
	sum := new(uint256.Int).SetBytes32(slot[:])
	sum.Add(sum, uint256.NewInt(n))

	return sum.Bytes32()
}

// JoinSlot returns the Keccak-256 hash of the concatenated components. Components are hashed as
// given; callers pad keys to the width the Solidity layout expects (left for value types, right
// for bytesN).
func JoinSlot(components ...[]byte) common.Hash {
	return crypto.Keccak256Hash(components...)
}

// LeftPad32 returns b left-padded with zeroes to 32 bytes, the storage key encoding of value types
// such as address and uint.
func LeftPad32(b []byte) []byte {
	return common.LeftPadBytes(b, common.HashLength)
}

// RightPad32 returns b right-padded with zeroes to 32 bytes, the storage key encoding of bytesN.
func RightPad32(b []byte) []byte {
	return common.RightPadBytes(b, common.HashLength)
}

// AddressKey encodes addr as a mapping key.
func AddressKey(addr common.Address) []byte {
	return LeftPad32(addr.Bytes())
}

// LowAddress returns the address packed in the low-order 20 bytes of word.
func LowAddress(word common.Hash) common.Address {
	return common.BytesToAddress(word[common.HashLength-common.AddressLength:])
}
