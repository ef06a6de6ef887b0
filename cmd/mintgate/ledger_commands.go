package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/itchyny/gojq"
	"github.com/parchitalabs/mintgate/client"
	"github.com/parchitalabs/mintgate/service/ledger"
	"github.com/urfave/cli/v2"
)

func ledgerCommands() *cli.Command {
	return &cli.Command{
		Name:  "ledger",
		Usage: "Transaction ledger inspection commands",
		Subcommands: []*cli.Command{
			ledgerListCommand(),
			ledgerGetCommand(),
		},
	}
}

func ledgerListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List recent ledger entries",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Value: 50,
				Usage: "Maximum number of entries to return",
			},
			&cli.IntFlag{
				Name:  "offset",
				Value: 0,
				Usage: "Number of entries to skip",
			},
			&cli.StringSliceFlag{
				Name:  "must-jq",
				Usage: "jq filter an entry must satisfy to be shown (repeatable, all must match)",
			},
		},
		Action: func(c *cli.Context) error {
			jqFilters := c.StringSlice("must-jq")
			compiledJQFilters, err := compileJQFilters(jqFilters)
			if err != nil {
				return err
			}

			cl := client.NewClient(c.String("server-url"), nil, getLogger(c))
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			entries, err := cl.ListTransactions(ctx, int32(c.Int("limit")), int32(c.Int("offset")))
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			filtered := make([]*ledger.Entry, 0, len(entries))
			for _, entry := range entries {
				ok, err := matchesJQFilters(compiledJQFilters, entry)
				if err != nil {
					return err
				}
				if ok {
					filtered = append(filtered, entry)
				}
			}

			if c.Bool("json") {
				data, err := json.MarshalIndent(filtered, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal entries: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			printEntries(filtered)
			return nil
		},
	}
}

func ledgerGetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get one ledger entry by transaction signature",
		ArgsUsage: "SIGNATURE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one SIGNATURE argument")
			}

			cl := client.NewClient(c.String("server-url"), nil, getLogger(c))
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			entry, err := cl.GetTransaction(ctx, c.Args().First())
			if err != nil {
				return fmt.Errorf("failed to get transaction: %w", err)
			}

			data, err := json.MarshalIndent(entry, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal entry: %w", err)
			}
			fmt.Println(string(data))
			return nil
		},
	}
}

// compileJQFilters parses and compiles all jq filter expressions up front so
// a bad expression fails before any network call.
func compileJQFilters(filters []string) ([]*gojq.Code, error) {
	compiled := make([]*gojq.Code, len(filters))
	for i, filter := range filters {
		query, err := gojq.Parse(filter)
		if err != nil {
			return nil, fmt.Errorf("failed to parse jq filter %q: %w", filter, err)
		}
		compiled[i], err = gojq.Compile(query)
		if err != nil {
			return nil, fmt.Errorf("failed to compile jq filter %q: %w", filter, err)
		}
	}
	return compiled, nil
}

// matchesJQFilters reports whether the entry satisfies every compiled filter.
// The entry is round-tripped through JSON so filters see the wire field names.
func matchesJQFilters(filters []*gojq.Code, entry *ledger.Entry) (bool, error) {
	if len(filters) == 0 {
		return true, nil
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return false, fmt.Errorf("failed to marshal entry: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false, fmt.Errorf("failed to unmarshal entry: %w", err)
	}

	for _, code := range filters {
		iter := code.Run(doc)
		v, ok := iter.Next()
		if !ok {
			return false, nil
		}
		if _, isErr := v.(error); isErr {
			return false, nil
		}
		if !isTruthy(v) {
			return false, nil
		}
	}
	return true, nil
}

// isTruthy checks if a jq result value is truthy.
func isTruthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	case int:
		return val != 0
	default:
		return true
	}
}

func printEntries(entries []*ledger.Entry) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SIGNATURE\tNFT ID\tSTATUS\tRECIPIENT\tAMOUNT\tTIMESTAMP")
	for _, e := range entries {
		nftID := "-"
		if e.NFTID != nil {
			nftID = *e.NFTID
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4f\t%s\n",
			e.Signature, nftID, e.Status, e.RecipientAddress, e.Amount,
			e.Timestamp.Format(time.RFC3339))
	}
	w.Flush()
	fmt.Printf("\nTotal: %d entries\n", len(entries))
}
