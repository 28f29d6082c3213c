package testutils

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/smartcontractkit/evm-proxy-inspector/slots"
)

// SetArray lays out elems as a Solidity dynamic storage array at lengthSlot, using the packing
// slots.ReadArray expects for width.
func (f *FakeProvider) SetArray(address common.Address, lengthSlot common.Hash, width int, elems [][]byte) *FakeProvider {
	f.SetStorage(address, lengthSlot, uint256.NewInt(uint64(len(elems))).Bytes32())

	perWord := 1
	if common.HashLength%width == 0 {
		perWord = common.HashLength / width
	}

	base := slots.JoinSlot(lengthSlot[:])
	words := make(map[int]common.Hash)
	for i, elem := range elems {
		word := words[i/perWord]
		end := common.HashLength - (i%perWord)*width
		copy(word[end-width:end], common.LeftPadBytes(elem, width))
		words[i/perWord] = word
	}
	for i, word := range words {
		f.SetStorage(address, slots.AddSlotOffset(base, uint64(i)), word)
	}

	return f
}

// AddressWord returns addr as a left-padded storage word.
func AddressWord(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}
