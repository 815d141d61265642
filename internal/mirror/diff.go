// Package mirror implements full-refresh reconciliation between remote Odoo
// record sets and the local mirror tables.
package mirror

import "sort"

// Changes is the outcome of diffing one fully-materialized remote snapshot
// against one fully-materialized local read.
type Changes struct {
	// Inserts are remote ids with no local row.
	Inserts []int64
	// Updates are remote ids that already have a local row.
	Updates []int64
	// Deletes are local remote_ids absent from the remote snapshot.
	Deletes []int64
}

// Diff computes the insert/update/delete id sets. Output slices are sorted
// so apply order is deterministic.
func Diff(remoteIDs, localIDs []int64) Changes {
	remoteSet := make(map[int64]bool, len(remoteIDs))
	for _, id := range remoteIDs {
		remoteSet[id] = true
	}
	localSet := make(map[int64]bool, len(localIDs))
	for _, id := range localIDs {
		localSet[id] = true
	}

	var changes Changes
	for id := range remoteSet {
		if localSet[id] {
			changes.Updates = append(changes.Updates, id)
		} else {
			changes.Inserts = append(changes.Inserts, id)
		}
	}
	for id := range localSet {
		if !remoteSet[id] {
			changes.Deletes = append(changes.Deletes, id)
		}
	}

	sortIDs(changes.Inserts)
	sortIDs(changes.Updates)
	sortIDs(changes.Deletes)
	return changes
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
