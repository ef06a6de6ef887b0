// Package catalog provides the read-only NFT catalog used to resolve mint
// payloads. The catalog is loaded once at startup and never mutated.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

// NFT describes a single mintable NFT in the catalog.
type NFT struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	FileName      string   `json:"fileName,omitempty"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	SpecialTraits []string `json:"specialTraits"`
	FileURL       string   `json:"fileUrl"`
}

// Repository resolves catalog entries by ID. Implementations must be safe
// for concurrent use; the catalog is read-only at runtime.
type Repository interface {
	// Lookup returns the NFT with the given ID, or ok=false if absent.
	Lookup(id string) (*NFT, bool)

	// List returns all catalog entries.
	List() []*NFT
}

//go:embed nfts.json
var defaultCatalogJSON []byte

// Catalog is an in-memory Repository backed by a JSON document.
type Catalog struct {
	byID  map[string]*NFT
	order []*NFT
}

// Load builds a Catalog from the JSON file at path. An empty path loads the
// embedded default catalog.
func Load(path string) (*Catalog, error) {
	data := defaultCatalogJSON
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
	}
	return Parse(data)
}

// Parse builds a Catalog from a JSON array of NFT records.
func Parse(data []byte) (*Catalog, error) {
	var nfts []*NFT
	if err := json.Unmarshal(data, &nfts); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]*NFT, len(nfts))}
	for _, nft := range nfts {
		if nft.ID == "" {
			return nil, fmt.Errorf("catalog entry %q has no id", nft.Name)
		}
		if _, dup := c.byID[nft.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog id %q", nft.ID)
		}
		c.byID[nft.ID] = nft
		c.order = append(c.order, nft)
	}
	return c, nil
}

// Lookup returns the NFT with the given ID, or ok=false if absent.
func (c *Catalog) Lookup(id string) (*NFT, bool) {
	nft, ok := c.byID[id]
	return nft, ok
}

// List returns all catalog entries in document order.
func (c *Catalog) List() []*NFT {
	return c.order
}
