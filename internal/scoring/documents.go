// internal/scoring/documents.go
package scoring

import (
	"sort"
	"strings"
)

// docSet is a normalized set of document tags.
type docSet map[string]struct{}

func newDocSet(tags []string) docSet {
	set := make(docSet, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		set[tag] = struct{}{}
	}
	return set
}

func (s docSet) has(tag string) bool {
	_, ok := s[tag]
	return ok
}

func (s docSet) add(tags ...string) {
	for _, tag := range tags {
		s[tag] = struct{}{}
	}
}

// minus returns the sorted tags present in s but not in other.
func (s docSet) minus(other docSet) []string {
	out := make([]string, 0)
	for tag := range s {
		if !other.has(tag) {
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

func (s docSet) missingFrom(tags []string) []string {
	out := make([]string, 0)
	for _, tag := range tags {
		if !s.has(tag) {
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

// hasAnyClusterProof reports whether the renter holds a document from any cluster.
func (s docSet) hasAnyClusterProof() bool {
	for _, docs := range documentClusters {
		for _, tag := range docs {
			if s.has(tag) {
				return true
			}
		}
	}
	return false
}

// CheckDocuments compares renter documents with the listing requirements and the
// renter type's cluster.
func CheckDocuments(renterType string, renterDocs, requiredDocs []string) DocumentReadiness {
	rt := ParseRenterType(renterType)
	have := newDocSet(renterDocs)
	cluster := DocumentClustersFor(string(rt))

	return DocumentReadiness{
		RenterType:          rt,
		ClusterDocuments:    cluster,
		MissingRequired:     newDocSet(requiredDocs).minus(have),
		MissingCluster:      have.missingFrom(cluster),
		HasAlternativeProof: have.hasAnyClusterProof(),
	}
}
