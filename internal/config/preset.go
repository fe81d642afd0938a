package config

import "fmt"

// DefaultDialect is used when no dialect is configured.
const DefaultDialect = "elastic"

// Preset holds the per-dialect defaults that apply when a key is not set explicitly.
type Preset struct {
	BlockURL        string
	PoolURL         string
	BlockCandidates int
	Offset          int
	Limit           int
}

var presets = map[string]Preset{
	"elastic": {
		BlockURL:        "https://api.thegraph.com/subgraphs/name/kybernetwork/polygon-blocks",
		PoolURL:         "https://api.thegraph.com/subgraphs/name/kybernetwork/kyberswap-elastic-matic",
		BlockCandidates: 200,
		Offset:          1,
		Limit:           1,
	},
	"classic": {
		BlockURL:        "https://api.thegraph.com/subgraphs/name/dynamic-amm/dynamic-amm",
		PoolURL:         "https://api.thegraph.com/subgraphs/name/dynamic-amm/dynamic-amm",
		BlockCandidates: 1,
	},
}

// PresetFor returns the defaults of a dialect.
func PresetFor(dialect string) (Preset, error) {
	preset, ok := presets[dialect]
	if !ok {
		return Preset{}, fmt.Errorf("unknown dialect: %q", dialect)
	}
	return preset, nil
}
