package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/musee-dezental/frame-core/internal/access"
	"github.com/musee-dezental/frame-core/internal/config"
	"github.com/musee-dezental/frame-core/internal/config/di"
	"github.com/musee-dezental/frame-core/internal/entity"
	"github.com/musee-dezental/frame-core/internal/exhibit"
	"github.com/musee-dezental/frame-core/internal/inventory"
	"github.com/musee-dezental/frame-core/internal/minting"
	"github.com/musee-dezental/frame-core/internal/rental"
	"github.com/musee-dezental/frame-core/internal/treasury"
	"github.com/musee-dezental/frame-core/pkg/frame"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var (
	accessService    access.Service
	inventoryService inventory.Service
	mintingEngine    minting.Engine
	treasuryService  treasury.Service
	rentalMarket     rental.Market
	exhibitRegistry  exhibit.Registry
)

func main() {
	config.Init("cli")

	container, err := di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	accessService = container.Get("access").(access.Service)
	inventoryService = container.Get("inventory").(inventory.Service)
	mintingEngine = container.Get("minting").(minting.Engine)
	treasuryService = container.Get("treasury").(treasury.Service)
	rentalMarket = container.Get("rental").(rental.Market)
	exhibitRegistry = container.Get("exhibit").(exhibit.Registry)

	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:   "categories",
				Usage:  "List the configured categories and their mint counters",
				Action: listCategories,
			},
			{
				Name:   "configureCategory",
				Usage:  "Configure a category before finalization: <index> <priceEther> <startingId> <supply>",
				Action: configureCategory,
			},
			{
				Name:   "finalizeCategories",
				Usage:  "Freeze the category configuration and open it to the minting engine",
				Action: finalizeCategories,
			},
			{
				Name:   "saleStatus",
				Usage:  "Set the sale status (off, presale, or public)",
				Action: setSaleStatus,
			},
			{
				Name:   "grantPresale",
				Usage:  "Grant the presale role to an address",
				Action: grantPresale,
			},
			{
				Name:   "constructFrame",
				Usage:  "Mint a frame directly, bypassing the oracle: <recipient> <category> <tokenId>",
				Action: constructFrame,
			},
			{
				Name:   "setRentalPrice",
				Usage:  "Set a frame's rental price per block: <owner> <frameId> <priceWei>",
				Action: setRentalPrice,
			},
			{
				Name:   "setRenter",
				Usage:  "Book a rental against a frame: <caller> <frameId> <renter> <numBlocks> <paymentWei>",
				Action: setRenter,
			},
			{
				Name:   "setExhibit",
				Usage:  "Point a frame at an external collectible: <controller> <frameId> <contract> <tokenId>",
				Action: setExhibit,
			},
			{
				Name:   "clearExhibit",
				Usage:  "Reset a frame's exhibit pointer: <controller> <frameId>",
				Action: clearExhibit,
			},
			{
				Name:   "treasury",
				Usage:  "Show the treasury balances",
				Action: showTreasury,
			},
			{
				Name:   "depositLink",
				Usage:  "Record a LINK top-up: <amount>",
				Action: depositLink,
			},
			{
				Name:   "withdrawEther",
				Usage:  "Withdraw collected ether: <to> <amountEther>",
				Action: withdrawEther,
			},
			{
				Name:   "withdrawLink",
				Usage:  "Withdraw the full LINK balance: <to>",
				Action: withdrawLink,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to start CLI")
	}
}

func listCategories(c *cli.Context) error {
	categories, err := inventoryService.GetAllCategories()
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(categories, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	return nil
}

func configureCategory(c *cli.Context) error {
	if c.Args().Len() != 4 {
		return fmt.Errorf("usage: configureCategory <index> <priceEther> <startingId> <supply>")
	}

	index, err := strconv.ParseUint(c.Args().Get(0), 10, 8)
	if err != nil {
		return err
	}
	price := frame.Ether(c.Args().Get(1))
	startingId, err := strconv.ParseUint(c.Args().Get(2), 10, 64)
	if err != nil {
		return err
	}
	supply, err := strconv.ParseUint(c.Args().Get(3), 10, 64)
	if err != nil {
		return err
	}

	if err := inventoryService.ConfigureCategory(admin(), uint8(index), price, startingId, supply); err != nil {
		return err
	}
	zap.S().Infof("Configured category %d", index)

	return nil
}

func finalizeCategories(c *cli.Context) error {
	if err := inventoryService.FinalizeCategories(admin()); err != nil {
		return err
	}
	zap.L().Info("Categories finalized")

	return nil
}

func setSaleStatus(c *cli.Context) error {
	var status entity.SaleStatus
	switch strings.ToLower(c.Args().First()) {
	case "off":
		status = entity.SaleOff
	case "presale":
		status = entity.SalePresale
	case "public":
		status = entity.SalePublic
	default:
		return fmt.Errorf("usage: saleStatus <off|presale|public>")
	}

	if err := accessService.SetSaleStatus(admin(), status); err != nil {
		return err
	}
	zap.S().Infof("Sale status set to %s", status)

	return nil
}

func grantPresale(c *cli.Context) error {
	if !common.IsHexAddress(c.Args().First()) {
		return fmt.Errorf("usage: grantPresale <address>")
	}

	addr := common.HexToAddress(c.Args().First())
	if err := accessService.GrantPresaleRole(admin(), addr); err != nil {
		return err
	}
	zap.S().Infof("Presale role granted to %s", addr.Hex())

	return nil
}

func constructFrame(c *cli.Context) error {
	if c.Args().Len() != 3 || !common.IsHexAddress(c.Args().Get(0)) {
		return fmt.Errorf("usage: constructFrame <recipient> <category> <tokenId>")
	}

	recipient := common.HexToAddress(c.Args().Get(0))
	category, err := strconv.ParseUint(c.Args().Get(1), 10, 8)
	if err != nil {
		return err
	}
	tokenId, err := strconv.ParseUint(c.Args().Get(2), 10, 64)
	if err != nil {
		return err
	}

	f, err := mintingEngine.ConstructFrame(admin(), recipient, uint8(category), tokenId)
	if err != nil {
		return err
	}
	zap.S().Infof("Constructed frame %d for %s", f.TokenId, recipient.Hex())

	return nil
}

func setRentalPrice(c *cli.Context) error {
	if c.Args().Len() != 3 || !common.IsHexAddress(c.Args().Get(0)) {
		return fmt.Errorf("usage: setRentalPrice <owner> <frameId> <priceWei>")
	}

	owner := common.HexToAddress(c.Args().Get(0))
	frameId, err := strconv.ParseUint(c.Args().Get(1), 10, 64)
	if err != nil {
		return err
	}
	price, err := decimal.NewFromString(c.Args().Get(2))
	if err != nil {
		return err
	}

	if err := rentalMarket.SetRentalPricePerBlock(owner, frameId, price); err != nil {
		return err
	}
	zap.S().Infof("Set rental price for frame %d to %s wei per block", frameId, price)

	return nil
}

func setRenter(c *cli.Context) error {
	if c.Args().Len() != 5 || !common.IsHexAddress(c.Args().Get(0)) || !common.IsHexAddress(c.Args().Get(2)) {
		return fmt.Errorf("usage: setRenter <caller> <frameId> <renter> <numBlocks> <paymentWei>")
	}

	caller := common.HexToAddress(c.Args().Get(0))
	frameId, err := strconv.ParseUint(c.Args().Get(1), 10, 64)
	if err != nil {
		return err
	}
	renter := common.HexToAddress(c.Args().Get(2))
	numBlocks, err := strconv.ParseUint(c.Args().Get(3), 10, 64)
	if err != nil {
		return err
	}
	payment, err := decimal.NewFromString(c.Args().Get(4))
	if err != nil {
		return err
	}

	if err := rentalMarket.SetRenter(caller, frameId, renter, numBlocks, payment); err != nil {
		return err
	}
	zap.S().Infof("Rented frame %d to %s for %d blocks", frameId, renter.Hex(), numBlocks)

	return nil
}

func setExhibit(c *cli.Context) error {
	if c.Args().Len() != 4 || !common.IsHexAddress(c.Args().Get(0)) || !common.IsHexAddress(c.Args().Get(2)) {
		return fmt.Errorf("usage: setExhibit <controller> <frameId> <contract> <tokenId>")
	}

	controller := common.HexToAddress(c.Args().Get(0))
	frameId, err := strconv.ParseUint(c.Args().Get(1), 10, 64)
	if err != nil {
		return err
	}
	extContract := common.HexToAddress(c.Args().Get(2))
	extTokenId, err := strconv.ParseUint(c.Args().Get(3), 10, 64)
	if err != nil {
		return err
	}

	if err := exhibitRegistry.SetExhibit(controller, frameId, extContract, extTokenId); err != nil {
		return err
	}
	zap.S().Infof("Set exhibit on frame %d to %s/%d", frameId, extContract.Hex(), extTokenId)

	return nil
}

func clearExhibit(c *cli.Context) error {
	if c.Args().Len() != 2 || !common.IsHexAddress(c.Args().Get(0)) {
		return fmt.Errorf("usage: clearExhibit <controller> <frameId>")
	}

	controller := common.HexToAddress(c.Args().Get(0))
	frameId, err := strconv.ParseUint(c.Args().Get(1), 10, 64)
	if err != nil {
		return err
	}

	if err := exhibitRegistry.ClearExhibit(controller, frameId); err != nil {
		return err
	}
	zap.S().Infof("Cleared exhibit on frame %d", frameId)

	return nil
}

func showTreasury(c *cli.Context) error {
	t, err := treasuryService.Balances()
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	return nil
}

func depositLink(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("usage: depositLink <amount>")
	}

	amount := frame.Ether(c.Args().First())
	if err := treasuryService.DepositLink(admin(), amount); err != nil {
		return err
	}
	zap.S().Infof("Deposited %s LINK", amount)

	return nil
}

func withdrawEther(c *cli.Context) error {
	if c.Args().Len() != 2 || !common.IsHexAddress(c.Args().Get(0)) {
		return fmt.Errorf("usage: withdrawEther <to> <amountEther>")
	}

	to := common.HexToAddress(c.Args().Get(0))
	amount := frame.Ether(c.Args().Get(1))

	if err := treasuryService.WithdrawEther(admin(), to, amount); err != nil {
		return err
	}
	zap.S().Infof("Withdrew %s wei to %s", amount, to.Hex())

	return nil
}

func withdrawLink(c *cli.Context) error {
	if !common.IsHexAddress(c.Args().First()) {
		return fmt.Errorf("usage: withdrawLink <to>")
	}

	to := common.HexToAddress(c.Args().First())
	amount, err := treasuryService.WithdrawAllLink(admin(), to)
	if err != nil {
		return err
	}
	zap.S().Infof("Withdrew %s LINK to %s", amount, to.Hex())

	return nil
}

func admin() common.Address {
	return config.Get().AdminAddress
}
