package entity

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gosimple/slug"
)

// MintRequest correlates an outstanding oracle request with the caller and
// category it was raised for. Deleted exactly once by the matching
// fulfillment.
type MintRequest struct {
	Id        string         `json:"id"`
	Requester common.Address `json:"requester"`
	Category  uint8          `json:"category"`
	BlockNum  uint64         `json:"blockNum"`
}

func (r MintRequest) Slug() string {
	return CreateMintRequestSlug(r.Id)
}

func CreateMintRequestSlug(requestId string) string {
	return slug.Make(fmt.Sprintf("mint-request-%s", requestId))
}
