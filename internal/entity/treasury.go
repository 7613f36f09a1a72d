package entity

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// Treasury is the running balance sheet of the collection: native currency
// from mint payments and rental fees, the LINK stock funding oracle calls,
// and the per-owner withdrawable rental shares.
type Treasury struct {
	Native decimal.Decimal `json:"native"`
	Link   decimal.Decimal `json:"link"`
	Fees   decimal.Decimal `json:"fees"`
}

func (t Treasury) Slug() string {
	return slug.Make("treasury")
}

// OwnerBalance is an owner's withdrawable share of collected rental payments.
type OwnerBalance struct {
	Owner   common.Address  `json:"owner"`
	Balance decimal.Decimal `json:"balance"`
}

func (b OwnerBalance) Slug() string {
	return slug.Make(fmt.Sprintf("owner-balance-%s", b.Owner.Hex()))
}
