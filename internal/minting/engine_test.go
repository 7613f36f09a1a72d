package minting_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/musee-dezental/frame-core/internal/access"
	"github.com/musee-dezental/frame-core/internal/entity"
	"github.com/musee-dezental/frame-core/internal/inventory"
	"github.com/musee-dezental/frame-core/internal/ledger"
	"github.com/musee-dezental/frame-core/internal/minting"
	"github.com/musee-dezental/frame-core/internal/oracle"
	"github.com/musee-dezental/frame-core/internal/store"
	"github.com/musee-dezental/frame-core/internal/treasury"
	"github.com/musee-dezental/frame-core/pkg/frame"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	alice = common.HexToAddress("0x1111111111111111111111111111111111111111")
	bob   = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

type stubRequester struct {
	requests []entity.MintRequest
	err      error
}

func (s *stubRequester) RequestRandomness(req entity.MintRequest) error {
	if s.err != nil {
		return s.err
	}
	s.requests = append(s.requests, req)
	return nil
}

type fixture struct {
	engine     minting.Engine
	access     access.Service
	inventory  inventory.Service
	treasury   treasury.Service
	correlator oracle.Correlator
	requester  *stubRequester
	clock      *ledger.ManualClock
}

func newFixture(t *testing.T) fixture {
	b, err := store.Open("", true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	categoryRepo := store.NewCategoryRepository()
	frameRepo := store.NewFrameRepository()
	accessRepo := store.NewAccessRepository()

	accessService := access.NewService(b, accessRepo, admin)
	inventoryService := inventory.NewService(b, categoryRepo, accessService)
	treasuryService := treasury.NewService(b, store.NewTreasuryRepository(), accessService, treasury.NewLogTransferor())
	correlator := oracle.NewCorrelator(b, store.NewRequestRepository())
	requester := &stubRequester{}
	clock := ledger.NewManualClock(100)

	engine := minting.NewEngine(b, categoryRepo, frameRepo, accessRepo, accessService, correlator, requester, treasuryService, clock)

	return fixture{engine, accessService, inventoryService, treasuryService, correlator, requester, clock}
}

// openSale configures the last category (181..221 at 0.15 ether), finalizes
// the inventory, and opens the public sale.
func openSale(t *testing.T, f fixture) {
	require.NoError(t, f.inventory.ConfigureCategory(admin, 10, frame.Ether("0.15"), 181, 41))
	require.NoError(t, f.inventory.FinalizeCategories(admin))
	require.NoError(t, f.access.SetSaleStatus(admin, entity.SalePublic))
}

func TestEngine_MintRequiresOpenSale(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Mint(alice, 10, frame.Ether("0.15"))
	assert.ErrorIs(t, err, minting.ErrMintingUnavailable)
}

func TestEngine_MintRequiresInitializedCategories(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.access.SetSaleStatus(admin, entity.SalePublic))

	_, err := f.engine.Mint(alice, 10, frame.Ether("0.15"))
	assert.ErrorIs(t, err, inventory.ErrNotInitialized)
}

func TestEngine_MintPresaleAllowlist(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.inventory.ConfigureCategory(admin, 10, frame.Ether("0.15"), 181, 41))
	require.NoError(t, f.inventory.FinalizeCategories(admin))
	require.NoError(t, f.access.SetSaleStatus(admin, entity.SalePresale))

	_, err := f.engine.Mint(alice, 10, frame.Ether("0.15"))
	assert.ErrorIs(t, err, access.ErrNotAllowlisted)

	require.NoError(t, f.access.GrantPresaleRole(admin, alice))

	_, err = f.engine.Mint(alice, 10, frame.Ether("0.15"))
	assert.NoError(t, err)
}

func TestEngine_MintRejectsIncorrectPayment(t *testing.T) {
	f := newFixture(t)
	openSale(t, f)

	_, err := f.engine.Mint(alice, 10, frame.Ether("0.1"))
	assert.ErrorIs(t, err, minting.ErrIncorrectPayment)

	// Over-payment is rejected the same as under-payment.
	_, err = f.engine.Mint(alice, 10, frame.Ether("0.2"))
	assert.ErrorIs(t, err, minting.ErrIncorrectPayment)

	// A rejected mint reserves nothing and collects nothing.
	c, err := f.inventory.GetCategoryDetail(10)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), c.Reserved)

	balances, err := f.treasury.Balances()
	require.NoError(t, err)
	assert.True(t, balances.Native.IsZero())
}

func TestEngine_MintRejectsInvalidCategory(t *testing.T) {
	f := newFixture(t)
	openSale(t, f)

	_, err := f.engine.Mint(alice, 11, frame.Ether("0.15"))
	assert.ErrorIs(t, err, inventory.ErrInvalidCategory)
}

func TestEngine_MintReservesAndRegisters(t *testing.T) {
	f := newFixture(t)
	openSale(t, f)

	req, err := f.engine.Mint(alice, 10, frame.Ether("0.15"))
	require.NoError(t, err)
	assert.NotEmpty(t, req.Id)
	assert.Equal(t, alice, req.Requester)
	assert.Equal(t, uint8(10), req.Category)
	assert.Equal(t, uint64(100), req.BlockNum)

	c, err := f.inventory.GetCategoryDetail(10)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), c.Reserved)
	assert.Equal(t, uint64(0), c.Fulfilled)

	balances, err := f.treasury.Balances()
	require.NoError(t, err)
	assert.True(t, balances.Native.Equal(frame.Ether("0.15")))

	pending, err := f.correlator.PendingCount()
	require.NoError(t, err)
	assert.Equal(t, 1, pending)

	require.Len(t, f.requester.requests, 1)
	assert.Equal(t, req.Id, f.requester.requests[0].Id)
}

func TestEngine_MintSurvivesDispatchFailure(t *testing.T) {
	f := newFixture(t)
	openSale(t, f)

	f.requester.err = errors.New("queue unavailable")

	req, err := f.engine.Mint(alice, 10, frame.Ether("0.15"))
	require.NoError(t, err)

	// The reservation and correlation stand; the dispatch can be
	// re-driven later.
	c, err := f.inventory.GetCategoryDetail(10)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), c.Reserved)

	pending, err := f.correlator.PendingCount()
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
	assert.NotEmpty(t, req.Id)
}

func TestEngine_FulfillAssignsSequentialIds(t *testing.T) {
	f := newFixture(t)
	openSale(t, f)

	first, err := f.engine.Mint(alice, 10, frame.Ether("0.15"))
	require.NoError(t, err)
	second, err := f.engine.Mint(bob, 10, frame.Ether("0.15"))
	require.NoError(t, err)

	// Delivery order does not matter; ids follow fulfillment order.
	minted, err := f.engine.Fulfill(second.Id, decimal.NewFromInt(777))
	require.NoError(t, err)
	assert.Equal(t, uint64(181), minted.TokenId)
	assert.Equal(t, bob, minted.Owner)
	assert.Equal(t, second.Id, minted.RequestId)
	assert.True(t, minted.Random.Equal(decimal.NewFromInt(777)))

	minted, err = f.engine.Fulfill(first.Id, decimal.NewFromInt(888))
	require.NoError(t, err)
	assert.Equal(t, uint64(182), minted.TokenId)
	assert.Equal(t, alice, minted.Owner)
}

func TestEngine_FulfillUnknownRequest(t *testing.T) {
	f := newFixture(t)
	openSale(t, f)

	_, err := f.engine.Fulfill("never-registered", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, oracle.ErrUnknownRequest)
}

func TestEngine_FulfillIsAtMostOnce(t *testing.T) {
	f := newFixture(t)
	openSale(t, f)

	req, err := f.engine.Mint(alice, 10, frame.Ether("0.15"))
	require.NoError(t, err)

	_, err = f.engine.Fulfill(req.Id, decimal.NewFromInt(1))
	require.NoError(t, err)

	_, err = f.engine.Fulfill(req.Id, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, oracle.ErrUnknownRequest)
}

func TestEngine_CategorySellsOutExactly(t *testing.T) {
	f := newFixture(t)
	openSale(t, f)

	for i := 0; i < 41; i++ {
		req, err := f.engine.Mint(alice, 10, frame.Ether("0.15"))
		require.NoError(t, err, fmt.Sprintf("mint %d", i))

		minted, err := f.engine.Fulfill(req.Id, decimal.NewFromInt(int64(i)))
		require.NoError(t, err)
		assert.Equal(t, uint64(181+i), minted.TokenId)
	}

	_, err := f.engine.Mint(alice, 10, frame.Ether("0.15"))
	assert.ErrorIs(t, err, minting.ErrSoldOut)

	c, err := f.inventory.GetCategoryDetail(10)
	require.NoError(t, err)
	assert.Equal(t, uint64(41), c.Reserved)
	assert.Equal(t, uint64(41), c.Fulfilled)

	// 41 * 0.15 ether collected.
	balances, err := f.treasury.Balances()
	require.NoError(t, err)
	assert.True(t, balances.Native.Equal(frame.Ether("6.15")))
}

func TestEngine_OutstandingReservationsCountTowardSupply(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.inventory.ConfigureCategory(admin, 0, frame.Ether("0.1"), 1, 2))
	require.NoError(t, f.inventory.FinalizeCategories(admin))
	require.NoError(t, f.access.SetSaleStatus(admin, entity.SalePublic))

	_, err := f.engine.Mint(alice, 0, frame.Ether("0.1"))
	require.NoError(t, err)
	_, err = f.engine.Mint(bob, 0, frame.Ether("0.1"))
	require.NoError(t, err)

	// Both slots are reserved even though neither is fulfilled yet.
	_, err = f.engine.Mint(alice, 0, frame.Ether("0.1"))
	assert.ErrorIs(t, err, minting.ErrSoldOut)
}

func TestEngine_ConstructFrame(t *testing.T) {
	f := newFixture(t)
	openSale(t, f)

	_, err := f.engine.ConstructFrame(alice, alice, 10, 181)
	assert.ErrorIs(t, err, access.ErrOnlyOwner)

	_, err = f.engine.ConstructFrame(admin, alice, 11, 181)
	assert.ErrorIs(t, err, inventory.ErrInvalidCategory)

	// Must follow the category's id sequence.
	_, err = f.engine.ConstructFrame(admin, alice, 10, 182)
	assert.ErrorIs(t, err, minting.ErrTokenOutOfRange)

	minted, err := f.engine.ConstructFrame(admin, alice, 10, 181)
	require.NoError(t, err)
	assert.Equal(t, uint64(181), minted.TokenId)
	assert.Equal(t, alice, minted.Owner)
	assert.Empty(t, minted.RequestId)

	// Construction burns a reservation and advances the sequence.
	c, err := f.inventory.GetCategoryDetail(10)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), c.Reserved)
	assert.Equal(t, uint64(1), c.Fulfilled)

	req, err := f.engine.Mint(bob, 10, frame.Ether("0.15"))
	require.NoError(t, err)
	next, err := f.engine.Fulfill(req.Id, decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.Equal(t, uint64(182), next.TokenId)
}

func TestEngine_ConstructFrameSoldOutCategory(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.inventory.ConfigureCategory(admin, 0, frame.Ether("0.1"), 1, 1))
	require.NoError(t, f.inventory.FinalizeCategories(admin))

	_, err := f.engine.ConstructFrame(admin, alice, 0, 1)
	require.NoError(t, err)

	// Exhaustion is reported as such, even for ids past the range.
	_, err = f.engine.ConstructFrame(admin, alice, 0, 2)
	assert.ErrorIs(t, err, minting.ErrSoldOut)

	_, err = f.engine.ConstructFrame(admin, bob, 0, 1)
	assert.ErrorIs(t, err, minting.ErrSoldOut)
}
