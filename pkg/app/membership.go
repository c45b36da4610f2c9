package app

import (
	"github.com/piraces/feedzone/pkg/domain/zone"
	"golang.org/x/exp/slices"
)

// membership is the set of container IDs a feed belongs to. It is stored as
// a list but only its contents are meaningful.
type membership []string

func membershipOf(record zone.Record) membership {
	ids, _ := record.Strings(zone.WebFeedContainerMembershipField)
	var m membership
	for _, id := range ids {
		m = m.insert(id)
	}
	return m
}

func (m membership) insert(containerID string) membership {
	if slices.Contains(m, containerID) {
		return m
	}
	return append(slices.Clone(m), containerID)
}

func (m membership) remove(containerID string) membership {
	i := slices.Index(m, containerID)
	if i < 0 {
		return m
	}
	return slices.Delete(slices.Clone(m), i, i+1)
}

func (m membership) isEmpty() bool {
	return len(m) == 0
}

func (m membership) apply(record *zone.Record) {
	ids := []string(m)
	if ids == nil {
		ids = []string{}
	}
	record.Set(zone.WebFeedContainerMembershipField, ids)
}
