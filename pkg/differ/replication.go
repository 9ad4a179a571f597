// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/change"
)

func diffEventTriggers(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.EventTriggers, target.EventTriggers)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreateEventTrigger(target.EventTriggers[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropEventTrigger(source.EventTriggers[id]))
	}
	for _, id := range common {
		s, t := source.EventTriggers[id], target.EventTriggers[id]
		if s.Equals(t) {
			continue
		}
		if s.Enabled != t.Enabled {
			out = append(out, change.AlterEventTriggerEnable(s, t))
			continue
		}
		out = append(out, change.DropEventTrigger(s), change.CreateEventTrigger(t))
	}
	return out
}

func diffPublications(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Publications, target.Publications)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreatePublication(target.Publications[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropPublication(source.Publications[id]))
	}
	for _, id := range common {
		s, t := source.Publications[id], target.Publications[id]
		if s.Equals(t) {
			continue
		}
		if s.AllTables != t.AllTables || !sameStrings(s.Tables, t.Tables) {
			out = append(out, change.DropPublication(s), change.CreatePublication(t))
			continue
		}
		out = append(out, change.AlterPublication(s, t))
	}
	return out
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func diffSubscriptions(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Subscriptions, target.Subscriptions)
	var out []*change.Change
	for _, id := range created {
		out = append(out, change.CreateSubscription(target.Subscriptions[id]))
	}
	for _, id := range dropped {
		out = append(out, change.DropSubscription(source.Subscriptions[id]))
	}
	for _, id := range common {
		s, t := source.Subscriptions[id], target.Subscriptions[id]
		if s.Equals(t) {
			continue
		}
		if !sameStrings(s.Publications, t.Publications) || s.SlotName != t.SlotName {
			out = append(out, change.DropSubscription(s), change.CreateSubscription(t))
			continue
		}
		out = append(out, change.AlterSubscription(s, t))
	}
	return out
}
