package entity

import (
	"fmt"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// SaleStatus gates minting. Mutated only by the administrator.
type SaleStatus uint8

const (
	SaleOff SaleStatus = iota
	SalePresale
	SalePublic
)

func (s SaleStatus) String() string {
	switch s {
	case SaleOff:
		return "off"
	case SalePresale:
		return "presale"
	case SalePublic:
		return "public"
	}

	return fmt.Sprintf("unknown(%d)", uint8(s))
}

// Category is a priced bucket of the token id space with a supply cap.
// Configured once before the sale opens, mutated only by the minting engine.
type Category struct {
	Index      uint8           `json:"index"`
	Price      decimal.Decimal `json:"price"`
	StartingId uint64          `json:"startingId"`
	SupplyCap  uint64          `json:"supplyCap"`
	Reserved   uint64          `json:"reserved"`
	Fulfilled  uint64          `json:"fulfilled"`
}

func (c Category) Slug() string {
	return CreateCategorySlug(c.Index)
}

func CreateCategorySlug(index uint8) string {
	return slug.Make(fmt.Sprintf("category-%d", index))
}

func (c Category) SoldOut() bool {
	return c.Reserved >= c.SupplyCap
}

// NextTokenId is the id the next fulfillment will be assigned. Sequential
// per category, so assigned ids stay within the configured range no matter
// what order the oracle delivers in.
func (c Category) NextTokenId() uint64 {
	return c.StartingId + c.Fulfilled
}

// ContainsTokenId reports whether an id lies in [StartingId, StartingId+SupplyCap).
func (c Category) ContainsTokenId(tokenId uint64) bool {
	return tokenId >= c.StartingId && tokenId < c.StartingId+c.SupplyCap
}
