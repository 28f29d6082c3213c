package proxies

import (
	"github.com/ethereum/go-ethereum/common"
)

// Well-known storage slots.
var (
	// EIP1967ImplementationSlot is keccak256("eip1967.proxy.implementation") - 1.
	EIP1967ImplementationSlot = common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")
	// EIP1967BeaconSlot is keccak256("eip1967.proxy.beacon") - 1.
	EIP1967BeaconSlot = common.HexToHash("0xa3f0ad74e5423aebfd80d3ef4346578335a9a72aeaee59ff6cb3582b35133d50")
	// ZeppelinOSImplementationSlot is keccak256("org.zeppelinos.proxy.implementation"), as embedded
	// by deployed zOS AdminUpgradeabilityProxy contracts.
	ZeppelinOSImplementationSlot = common.HexToHash("0x7050c9e0f4ca769c69bd3a8ef740bc37934f8e2c036e5a723fd8ee048ed3f8c3")
	// DiamondStorageSlot is keccak256("diamond.standard.diamond.storage") - 1, used by ZkSync Era.
	DiamondStorageSlot = common.HexToHash("0xc8fcad8db84d3cc18b4c41d551ea0ee66dd599cde068d998e57d5e09332c131b")
	// DiamondStandardStorageSlot is keccak256("diamond.standard.diamond.storage"), used by the
	// EIP-2535 reference LibDiamond.
	DiamondStandardStorageSlot = common.HexToHash("0xc8fcad8db84d3cc18b4c41d551ea0ee66dd599cde068d998e57d5e09332c131c")
)

// Function selectors called during resolution.
var (
	// MasterCopySelector is masterCopy() on Gnosis Safe proxies.
	MasterCopySelector = Selector{0xa6, 0x19, 0x48, 0x6e}
	// ImplementationSelector is implementation() on EIP-1967 beacons.
	ImplementationSelector = Selector{0x5c, 0x60, 0xda, 0x1b}
	// ChildImplementationSelector is childImplementation() on EIP-1967 beacons.
	ChildImplementationSelector = Selector{0xda, 0x52, 0x57, 0x16}
	// FacetAddressSelector is facetAddress(bytes4) of the EIP-2535 loupe.
	FacetAddressSelector = Selector{0xcd, 0xff, 0xac, 0xc6}
)
