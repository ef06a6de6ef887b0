package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parchitalabs/mintgate/client"
	"github.com/parchitalabs/mintgate/service/config"
	"github.com/parchitalabs/mintgate/service/memo"
	"github.com/parchitalabs/mintgate/service/webhook"
	"github.com/urfave/cli/v2"
)

func webhookCommands() *cli.Command {
	return &cli.Command{
		Name:  "webhook",
		Usage: "Webhook pipeline commands",
		Subcommands: []*cli.Command{
			webhookTestCommand(),
		},
	}
}

// webhookTestCommand posts a synthetic transaction event through the live
// webhook endpoint, exercising the full pipeline end to end.
func webhookTestCommand() *cli.Command {
	return &cli.Command{
		Name:      "test",
		Usage:     "Send a synthetic transaction event to the webhook endpoint",
		ArgsUsage: "NFT_ID",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "signature",
				Usage: "Transaction signature (defaults to a timestamped test value)",
			},
			&cli.StringFlag{
				Name:  "sender",
				Value: "6rAKkowi3d6BUtFV1DxyDxNQE75nkZdfJhhPswdXAJL6",
				Usage: "Paying wallet address",
			},
			&cli.StringFlag{
				Name:  "target-wallet",
				Value: config.DefaultTargetWallet,
				Usage: "Wallet receiving the payment",
			},
			&cli.StringFlag{
				Name:  "contract",
				Value: config.DefaultAMMContract,
				Usage: "Watched contract address to stamp on the event",
			},
			&cli.Int64Flag{
				Name:  "lamports",
				Value: 100_000_000,
				Usage: "Payment amount in lamports",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one NFT_ID argument")
			}
			nftID := c.Args().First()

			signature := c.String("signature")
			if signature == "" {
				signature = fmt.Sprintf("test-%d", time.Now().UnixNano())
			}

			event := webhook.TransactionEvent{
				Signature: signature,
				Timestamp: time.Now().Unix(),
				FeePayer:  c.String("sender"),
				AccountData: []webhook.AccountData{
					{Account: c.String("contract")},
				},
				Instructions: []webhook.Instruction{
					{
						ProgramID: memo.ProgramID.String(),
						Data:      memo.Encode(nftID),
					},
				},
				NativeTransfers: []webhook.NativeTransfer{
					{
						FromUserAccount: c.String("sender"),
						ToUserAccount:   c.String("target-wallet"),
						Amount:          c.Int64("lamports"),
					},
				},
			}

			cl := client.NewClient(c.String("server-url"), nil, getLogger(c))
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			resp, err := cl.PostWebhook(ctx, []webhook.TransactionEvent{event})
			if err != nil {
				return fmt.Errorf("webhook request failed: %w", err)
			}

			data, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal response: %w", err)
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
