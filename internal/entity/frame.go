package entity

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// Exhibit points at an externally owned collectible displayed by a frame.
// The frame never takes custody of the referenced token.
type Exhibit struct {
	Contract common.Address `json:"contract"`
	TokenId  uint64         `json:"tokenId"`
}

func (e Exhibit) IsZero() bool {
	return e.Contract == common.Address{} && e.TokenId == 0
}

// Rental is a time-boxed delegation of a frame's exhibit rights. Ownership
// of the frame itself never moves with it.
type Rental struct {
	Renter      common.Address `json:"renter"`
	ExpiryBlock uint64         `json:"expiryBlock"`
}

// Frame is a single minted token of the collection.
type Frame struct {
	TokenId  uint64         `json:"tokenId"`
	Category uint8          `json:"category"`
	Owner    common.Address `json:"owner"`

	// Provenance of the oracle round trip that minted this frame.
	RequestId string          `json:"requestId"`
	Random    decimal.Decimal `json:"random"`
	BlockNum  uint64          `json:"blockNum"`

	RentalPricePerBlock decimal.Decimal `json:"rentalPricePerBlock"`
	Rental              *Rental         `json:"rental,omitempty"`
	Exhibit             *Exhibit        `json:"exhibit,omitempty"`
}

func (f Frame) Slug() string {
	return CreateFrameSlug(f.TokenId)
}

func CreateFrameSlug(tokenId uint64) string {
	return slug.Make(fmt.Sprintf("frame-%d", tokenId))
}

// IsRented reports whether a rental is active at the given block. Expiry is
// exclusive: a rental expiring at block N is no longer active at block N.
func (f Frame) IsRented(currentBlock uint64) bool {
	return f.Rental != nil && f.Rental.ExpiryBlock > currentBlock
}

func (f Frame) IsRentedBy(addr common.Address, currentBlock uint64) bool {
	return f.IsRented(currentBlock) && f.Rental.Renter == addr
}

// Controller is the address entitled to set the frame's exhibit: the active
// renter during an unexpired rental, otherwise the owner.
func (f Frame) Controller(currentBlock uint64) common.Address {
	if f.IsRented(currentBlock) {
		return f.Rental.Renter
	}

	return f.Owner
}
