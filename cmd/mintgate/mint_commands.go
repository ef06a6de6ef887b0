package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parchitalabs/mintgate/client"
	"github.com/parchitalabs/mintgate/service/mint"
	"github.com/urfave/cli/v2"
)

func mintCommands() *cli.Command {
	return &cli.Command{
		Name:  "mint",
		Usage: "Minting commands (HTTP API)",
		Subcommands: []*cli.Command{
			mintNFTCommand(),
			mintStatusCommand(),
			createCollectionCommand(),
		},
	}
}

func mintNFTCommand() *cli.Command {
	return &cli.Command{
		Name:      "nft",
		Usage:     "Mint a catalog NFT to a wallet",
		ArgsUsage: "NFT_ID WALLET_ADDRESS",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "collection",
				Aliases: []string{"c"},
				Usage:   "Collection ID (defaults to the server's default collection)",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("expected NFT_ID and WALLET_ADDRESS arguments")
			}

			cl := client.NewClient(c.String("server-url"), nil, getLogger(c))
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			result, err := cl.Mint(ctx, c.Args().Get(0), c.Args().Get(1), c.String("collection"))
			if err != nil {
				return fmt.Errorf("mint request failed: %w", err)
			}

			return printResult(result)
		},
	}
}

func mintStatusCommand() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Check the status of a mint action",
		ArgsUsage: "ACTION_ID",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one ACTION_ID argument")
			}

			cl := client.NewClient(c.String("server-url"), nil, getLogger(c))
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			result, err := cl.MintStatus(ctx, c.Args().First())
			if err != nil {
				return fmt.Errorf("status request failed: %w", err)
			}

			return printResult(result)
		},
	}
}

func createCollectionCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-collection",
		Usage: "Create a new provider collection",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Required: true, Usage: "Collection name"},
			&cli.StringFlag{Name: "image-url", Usage: "Collection image URL"},
			&cli.StringFlag{Name: "description", Usage: "Collection description"},
			&cli.StringFlag{Name: "symbol", Usage: "Collection symbol"},
			&cli.StringFlag{Name: "chain", Value: "solana", Usage: "Target chain"},
			&cli.StringFlag{Name: "fungibility", Value: "non-fungible", Usage: "Fungibility"},
			&cli.IntFlag{Name: "supply-limit", Usage: "Maximum supply (0 = unlimited)"},
		},
		Action: func(c *cli.Context) error {
			cl := client.NewClient(c.String("server-url"), nil, getLogger(c))
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			result, err := cl.CreateCollection(ctx, mint.CollectionRequest{
				Chain:       c.String("chain"),
				Fungibility: c.String("fungibility"),
				SupplyLimit: c.Int("supply-limit"),
				Metadata: mint.CollectionMetadata{
					Name:        c.String("name"),
					ImageURL:    c.String("image-url"),
					Description: c.String("description"),
					Symbol:      c.String("symbol"),
				},
			})
			if err != nil {
				return fmt.Errorf("create-collection request failed: %w", err)
			}

			return printResult(result)
		},
	}
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check gateway health",
		Action: func(c *cli.Context) error {
			cl := client.NewClient(c.String("server-url"), nil, getLogger(c))
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := cl.Health(ctx); err != nil {
				return err
			}
			fmt.Println("OK")
			return nil
		},
	}
}

// printResult pretty-prints a provider result and signals failures via the
// exit code.
func printResult(result mint.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Println(string(data))

	if !result.Success {
		return fmt.Errorf("operation failed: %s", result.Error)
	}
	return nil
}
