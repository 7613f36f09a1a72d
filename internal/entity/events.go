package entity

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gosimple/slug"
	"github.com/nu7hatch/gouuid"
	"github.com/shopspring/decimal"
)

// Event payloads emitted by the core. Each carries its own document id so
// the archive can index it exactly once.

func eventId() string {
	u, _ := uuid.NewV4()
	return u.String()
}

type MintRequestedEvent struct {
	Id        string         `json:"id"`
	RequestId string         `json:"requestId"`
	Requester common.Address `json:"requester"`
	Category  uint8          `json:"category"`
	BlockNum  uint64         `json:"blockNum"`
}

func NewMintRequestedEvent(req MintRequest) MintRequestedEvent {
	return MintRequestedEvent{eventId(), req.Id, req.Requester, req.Category, req.BlockNum}
}

func (e MintRequestedEvent) Slug() string {
	return slug.Make(fmt.Sprintf("mint-requested-%s", e.RequestId))
}

type MintFulfilledEvent struct {
	Id        string          `json:"id"`
	RequestId string          `json:"requestId"`
	Requester common.Address  `json:"requester"`
	TokenId   uint64          `json:"tokenId"`
	Random    decimal.Decimal `json:"random"`
}

func NewMintFulfilledEvent(requestId string, requester common.Address, tokenId uint64, random decimal.Decimal) MintFulfilledEvent {
	return MintFulfilledEvent{eventId(), requestId, requester, tokenId, random}
}

func (e MintFulfilledEvent) Slug() string {
	return slug.Make(fmt.Sprintf("mint-fulfilled-%s", e.RequestId))
}

type ExhibitSetEvent struct {
	Id       string         `json:"id"`
	FrameId  uint64         `json:"frameId"`
	Contract common.Address `json:"contract"`
	TokenId  uint64         `json:"tokenId"`
}

func NewExhibitSetEvent(frameId uint64, contract common.Address, tokenId uint64) ExhibitSetEvent {
	return ExhibitSetEvent{eventId(), frameId, contract, tokenId}
}

func (e ExhibitSetEvent) Slug() string {
	return slug.Make(fmt.Sprintf("exhibit-set-%s", e.Id))
}

type RenterSetEvent struct {
	Id          string         `json:"id"`
	FrameId     uint64         `json:"frameId"`
	Renter      common.Address `json:"renter"`
	ExpiryBlock uint64         `json:"expiryBlock"`
}

func NewRenterSetEvent(frameId uint64, renter common.Address, expiryBlock uint64) RenterSetEvent {
	return RenterSetEvent{eventId(), frameId, renter, expiryBlock}
}

func (e RenterSetEvent) Slug() string {
	return slug.Make(fmt.Sprintf("renter-set-%s", e.Id))
}

type RentalFeeCollectedEvent struct {
	Id      string          `json:"id"`
	FrameId uint64          `json:"frameId"`
	Owner   common.Address  `json:"owner"`
	Fee     decimal.Decimal `json:"fee"`
}

func NewRentalFeeCollectedEvent(frameId uint64, owner common.Address, fee decimal.Decimal) RentalFeeCollectedEvent {
	return RentalFeeCollectedEvent{eventId(), frameId, owner, fee}
}

func (e RentalFeeCollectedEvent) Slug() string {
	return slug.Make(fmt.Sprintf("rental-fee-%s", e.Id))
}

type EtherWithdrawnEvent struct {
	Id     string          `json:"id"`
	To     common.Address  `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

func NewEtherWithdrawnEvent(to common.Address, amount decimal.Decimal) EtherWithdrawnEvent {
	return EtherWithdrawnEvent{eventId(), to, amount}
}

func (e EtherWithdrawnEvent) Slug() string {
	return slug.Make(fmt.Sprintf("ether-withdrawn-%s", e.Id))
}

type LinkWithdrawnEvent struct {
	Id     string          `json:"id"`
	To     common.Address  `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

func NewLinkWithdrawnEvent(to common.Address, amount decimal.Decimal) LinkWithdrawnEvent {
	return LinkWithdrawnEvent{eventId(), to, amount}
}

func (e LinkWithdrawnEvent) Slug() string {
	return slug.Make(fmt.Sprintf("link-withdrawn-%s", e.Id))
}
