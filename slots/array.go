package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"

	"github.com/smartcontractkit/evm-proxy-inspector/chain/evm"
)

var (
	// ErrInvalidElementWidth is returned when an array element width is outside 1..32 bytes.
	ErrInvalidElementWidth = errors.New("element width must be between 1 and 32 bytes")
	// ErrArrayTooLarge is returned when more than MaxArrayLength elements would be read.
	ErrArrayTooLarge = errors.New("array length out of range")
)

const (
	// DefaultReadConcurrency bounds the number of storage words read in parallel for one array.
	DefaultReadConcurrency = 16
	// MaxArrayLength is the most elements one call reads. Length words come from contract
	// storage and may hold any value.
	MaxArrayLength = 1 << 16
)

// ReadArray reads the dynamic storage array whose length is stored at lengthSlot. Elements are
// width bytes wide.
//
// Elements whose width divides 32 are packed 32/width per word starting at the low-order end,
// as Solidity lays out bytes4[] and uint8[]. Any other width takes a full word per element, the
// value held in its low-order width bytes, as address[] does.
func ReadArray(ctx context.Context, p evm.Provider, address common.Address, lengthSlot common.Hash, width int) ([][]byte, error) {
	return ReadArrayLimit(ctx, p, address, lengthSlot, width, 0)
}

// ReadArrayLimit is ReadArray returning at most limit elements. A limit <= 0 reads the whole array.
// An array longer than MaxArrayLength can only be read with a limit no greater than MaxArrayLength.
func ReadArrayLimit(ctx context.Context, p evm.Provider, address common.Address, lengthSlot common.Hash, width int, limit int) ([][]byte, error) {
	if width < 1 || width > common.HashLength {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidElementWidth, width)
	}

	lengthWord, err := p.GetStorageAt(ctx, address, lengthSlot)
	if err != nil {
		return nil, fmt.Errorf("read array length at %s: %w", lengthSlot, err)
	}
	length := new(uint256.Int).SetBytes32(lengthWord[:])

	count := MaxArrayLength + 1
	if length.IsUint64() && length.Uint64() <= MaxArrayLength {
		count = int(length.Uint64())
	}
	if limit > 0 && limit < count {
		count = limit
	}
	if count > MaxArrayLength {
		return nil, fmt.Errorf("%w: length %s at %s, limit %d", ErrArrayTooLarge, length.Dec(), lengthSlot, limit)
	}
	if count == 0 {
		return [][]byte{}, nil
	}

	perWord := 1
	if common.HashLength%width == 0 {
		perWord = common.HashLength / width
	}
	words, err := readWords(ctx, p, address, JoinSlot(lengthSlot[:]), (count+perWord-1)/perWord)
	if err != nil {
		return nil, err
	}

	elems := make([][]byte, count)
	for i := range elems {
		word := words[i/perWord]
		// element k of a word occupies bytes [32-(k+1)*width, 32-k*width)
		end := common.HashLength - (i%perWord)*width
		elems[i] = common.CopyBytes(word[end-width : end])
	}

	return elems, nil
}

// readWords reads n consecutive storage words starting at base.
func readWords(ctx context.Context, p evm.Provider, address common.Address, base common.Hash, n int) ([]common.Hash, error) {
	words := make([]common.Hash, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultReadConcurrency)
	for i := range words {
		g.Go(func() error {
			slot := AddSlotOffset(base, uint64(i))
			word, err := p.GetStorageAt(gctx, address, slot)
			if err != nil {
				return fmt.Errorf("read array word %d at %s: %w", i, slot, err)
			}
			words[i] = word

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return words, nil
}
