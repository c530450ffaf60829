// Package clustering groups dedup key records into duplicate clusters.
// Citations whose keys share a hash within the same variant refer to the
// same cited work.
package clustering

import (
	"bufio"
	"io"
	"sort"

	"github.com/miku/citkit/dedup"
	"github.com/segmentio/encoding/json"
)

// Cluster is a group of citations sharing one key hash.
type Cluster struct {
	Label string   `json:"label"`
	Hash  string   `json:"hash"`
	IDs   []string `json:"ids"`
}

// Size is the number of member citations.
func (c *Cluster) Size() int {
	return len(c.IDs)
}

// Grouper accumulates keys and emits clusters.
type Grouper struct {
	// MinSize drops clusters with fewer members; a value below 2 keeps
	// singletons as well.
	MinSize int

	groups map[[2]string][]string
}

// Add records one key.
func (g *Grouper) Add(k dedup.Key) {
	if g.groups == nil {
		g.groups = make(map[[2]string][]string)
	}
	gk := [2]string{k.Label, k.Hash}
	g.groups[gk] = append(g.groups[gk], k.CitationID)
}

// ReadFrom consumes newline delimited key records, as written by ck-keys.
func (g *Grouper) ReadFrom(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		var k dedup.Key
		if err := json.Unmarshal(scanner.Bytes(), &k); err != nil {
			return err
		}
		g.Add(k)
	}
	return scanner.Err()
}

// Clusters returns the accumulated clusters, ordered by label and hash,
// member ids sorted and deduplicated. A citation counts once per cluster
// even if its key was added repeatedly.
func (g *Grouper) Clusters() []Cluster {
	var out []Cluster
	for gk, ids := range g.groups {
		sort.Strings(ids)
		uniq := ids[:0]
		for i, id := range ids {
			if i == 0 || id != ids[i-1] {
				uniq = append(uniq, id)
			}
		}
		if len(uniq) < g.MinSize {
			continue
		}
		out = append(out, Cluster{Label: gk[0], Hash: gk[1], IDs: uniq})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].Hash < out[j].Hash
	})
	return out
}
