package mint

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/parchitalabs/mintgate/service/catalog"
)

// Dispatcher resolves catalog entries into mint payloads and forwards them
// to the provider. It is the single entry point for all mint requests:
// webhook-driven mints, /api/mint and /api/mint-by-id all land here.
type Dispatcher struct {
	catalog             catalog.Repository
	minter              Minter
	defaultCollectionID string
	logger              *slog.Logger
}

// NewDispatcher creates a Dispatcher. The default collection receives all
// ID-based mints that do not name a collection explicitly.
func NewDispatcher(cat catalog.Repository, minter Minter, defaultCollectionID string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		catalog:             cat,
		minter:              minter,
		defaultCollectionID: defaultCollectionID,
		logger:              logger,
	}
}

// Dispatch mints the catalog NFT with the given ID to recipientAddress using
// the default collection. This is the one-shot action driven by a qualifying
// webhook transaction.
func (d *Dispatcher) Dispatch(ctx context.Context, nftID, recipientAddress string) Result {
	return d.Mint(ctx, nftID, recipientAddress, "")
}

// Mint mints the catalog NFT with the given ID to recipientAddress in the
// named collection (default collection when empty). All failures come back
// as Result{Success:false}; Mint never panics or returns an error.
func (d *Dispatcher) Mint(ctx context.Context, nftID, recipientAddress, collectionID string) Result {
	if recipientAddress == "" {
		return Result{Success: false, Error: "Wallet address is required"}
	}
	if nftID == "" {
		return Result{Success: false, Error: "NFT ID is required"}
	}

	nft, ok := d.catalog.Lookup(nftID)
	if !ok {
		return Result{Success: false, Error: fmt.Sprintf("NFT with ID %s not found", nftID)}
	}

	if collectionID == "" {
		collectionID = d.defaultCollectionID
	}

	attributes := []Attribute{
		{TraitType: "Category", Value: nft.Category},
	}
	for _, trait := range nft.SpecialTraits {
		attributes = append(attributes, Attribute{TraitType: "Special Trait", Value: trait})
	}

	payload := Payload{
		Recipient: formatRecipient(recipientAddress),
		Metadata: Metadata{
			Name:        nft.Name,
			Image:       nft.FileURL,
			Description: nft.Description,
			Attributes:  attributes,
		},
		Compressed:          true,
		ReuploadLinkedFiles: true,
	}

	d.logger.Info("dispatching mint",
		"nft_id", nftID,
		"recipient", recipientAddress,
		"collection_id", collectionID,
	)

	result := d.minter.MintNFT(ctx, collectionID, payload)
	if !result.Success {
		d.logger.Error("mint dispatch failed",
			"nft_id", nftID,
			"recipient", recipientAddress,
			"error", result.Error,
		)
	}
	return result
}

// formatRecipient qualifies a bare wallet address with the chain prefix the
// provider expects. Already-qualified addresses pass through unchanged.
func formatRecipient(address string) string {
	if strings.Contains(address, ":") {
		return address
	}
	return "solana:" + address
}
