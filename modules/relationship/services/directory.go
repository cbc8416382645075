package services

import (
	"slices"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
)

type rankedEntry struct {
	entry relationship.DirectoryEntry
	rank  int
}

// filterDirectory keeps the entries whose name or email fuzzily contains q, best
// matches first. An empty q keeps everything in name order.
func filterDirectory(entries []relationship.DirectoryEntry, q string) []relationship.DirectoryEntry {
	ranked := make([]rankedEntry, 0, len(entries))
	for _, e := range entries {
		if q == "" {
			ranked = append(ranked, rankedEntry{entry: e})
			continue
		}
		rank := bestRank(q, e.Name, e.Email)
		if rank < 0 {
			continue
		}
		ranked = append(ranked, rankedEntry{entry: e, rank: rank})
	}
	slices.SortFunc(ranked, func(a, b rankedEntry) int {
		if a.rank != b.rank {
			return a.rank - b.rank
		}
		return comparePeople(a.entry.Name, a.entry.ID, b.entry.Name, b.entry.ID)
	})

	out := make([]relationship.DirectoryEntry, len(ranked))
	for i, r := range ranked {
		out[i] = r.entry
	}
	return out
}

func bestRank(q string, targets ...string) int {
	best := -1
	for _, t := range targets {
		r := fuzzy.RankMatchNormalizedFold(q, t)
		if r < 0 {
			continue
		}
		if best < 0 || r < best {
			best = r
		}
	}
	return best
}

func clientEntries(in []relationship.Client) []relationship.DirectoryEntry {
	out := make([]relationship.DirectoryEntry, len(in))
	for i, c := range in {
		out[i] = relationship.DirectoryEntry{ID: c.ID, Name: c.Name, Email: c.Email}
	}
	return out
}

func managerEntries(in []relationship.Manager) []relationship.DirectoryEntry {
	out := make([]relationship.DirectoryEntry, len(in))
	for i, m := range in {
		out[i] = relationship.DirectoryEntry{ID: m.ID, Name: m.Name, Email: m.Email}
	}
	return out
}

func employeeEntries(in []relationship.Employee) []relationship.DirectoryEntry {
	out := make([]relationship.DirectoryEntry, len(in))
	for i, e := range in {
		out[i] = relationship.DirectoryEntry{ID: e.ID, Name: e.Name, Email: e.Email}
	}
	return out
}
