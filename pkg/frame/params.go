package frame

import (
	"github.com/shopspring/decimal"
)

// Collection parameters shared by the core and its tooling.

const (
	// NumCategories is the fixed number of priced categories (A..K).
	NumCategories uint8 = 11

	// BlocksPerDay at the ~15s block cadence the rental pricing assumes.
	BlocksPerDay uint64 = 5760
)

// Version reports the contract lineage this core reimplements.
var Version = [4]uint{1, 0, 2, 0}

// ERC165 interface identifiers recognised by the exhibit capability probe.
const (
	InterfaceERC721  uint32 = 0x80ac58cd
	InterfaceERC1155 uint32 = 0xd9b67a26
)

var weiPerEther = decimal.New(1, 18)

// Ether converts a decimal ether string ("0.15") to wei. Panics on a
// malformed value, mirroring how configuration constants are loaded once
// at startup.
func Ether(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}

	return d.Mul(weiPerEther)
}

// Wei builds an exact wei amount.
func Wei(value int64) decimal.Decimal {
	return decimal.NewFromInt(value)
}
