package subgraph

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Query builders keep user-controlled values (ids, blocks, timestamps) in variables.
// Only page sizes, ordering fields and selections, all fixed by this package, are part
// of the document text.

func blockAlias(index int) string {
	return "t" + strconv.Itoa(index)
}

// BlocksQuery selects, for every timestamp, the blocks strictly inside (ts, ts+window),
// newest first, under an alias t<index>.
func BlocksQuery(timestamps []int64, window time.Duration, candidates int) Request {
	windowSeconds := int64(window / time.Second)

	decls := make([]string, 0, 2*len(timestamps))
	vars := make(map[string]any, 2*len(timestamps))
	var body strings.Builder
	for i, ts := range timestamps {
		gt := "gt" + strconv.Itoa(i)
		lt := "lt" + strconv.Itoa(i)
		decls = append(decls, "$"+gt+": BigInt!", "$"+lt+": BigInt!")
		vars[gt] = strconv.FormatInt(ts, 10)
		vars[lt] = strconv.FormatInt(ts+windowSeconds, 10)

		fmt.Fprintf(&body, `
  %s: blocks(first: %d, orderBy: timestamp, orderDirection: desc, where: {timestamp_gt: $%s, timestamp_lt: $%s}) {
    number
  }`, blockAlias(i), candidates, gt, lt)
	}

	return Request{
		Query:     "query blocks(" + strings.Join(decls, ", ") + ") {" + body.String() + "\n}",
		Variables: vars,
	}
}

// TopPoolsQuery selects the ids of the first pools ranked by rankField.
func TopPoolsQuery(first int, rankField string) Request {
	return Request{
		Query: fmt.Sprintf(`query pools {
  pools(first: %d, orderBy: %s, orderDirection: desc) {
    id
  }
}`, first, rankField),
	}
}

// PoolsQuery selects the current state of the given pools.
func PoolsQuery(fields, orderField string, first int, ids []string) Request {
	return Request{
		Query: fmt.Sprintf(`query pools($ids: [ID!]) {
  pools(first: %d, where: {id_in: $ids}, orderBy: %s, orderDirection: desc) {%s
  }
}`, first, orderField, fields),
		Variables: map[string]any{"ids": nonNilIDs(ids)},
	}
}

// PoolsAtQuery selects the given pools as of a historical block.
func PoolsAtQuery(fields, orderField string, first int, ids []string, block uint64) Request {
	return Request{
		Query: fmt.Sprintf(`query pools($ids: [ID!], $block: Int!) {
  pools(first: %d, where: {id_in: $ids}, block: {number: $block}, orderBy: %s, orderDirection: desc) {%s
  }
}`, first, orderField, fields),
		Variables: map[string]any{
			"ids":   nonNilIDs(ids),
			"block": block,
		},
	}
}

// BundleQuery selects the global price bundle, now or at block when it is set.
func BundleQuery(block *uint64) Request {
	if block == nil {
		return Request{Query: `query bundles {
  bundles {
    id
    ethPrice
  }
}`}
	}
	return Request{
		Query: `query bundles($block: Int!) {
  bundles(block: {number: $block}) {
    id
    ethPrice
  }
}`,
		Variables: map[string]any{"block": *block},
	}
}

func nonNilIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
