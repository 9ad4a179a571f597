// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/change"
)

func diffTriggers(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Triggers, target.Triggers)
	var out []*change.Change
	for _, id := range created {
		tr := target.Triggers[id]
		out = append(out, change.CreateTrigger(tr, tableIDOf(tr.Schema, tr.Table)))
	}
	for _, id := range dropped {
		tr := source.Triggers[id]
		out = append(out, change.DropTrigger(tr, tableIDOf(tr.Schema, tr.Table)))
	}
	for _, id := range common {
		s, t := source.Triggers[id], target.Triggers[id]
		if s.Equals(t) {
			continue
		}
		tid := tableIDOf(t.Schema, t.Table)
		if onlyEnabledDiffers(s, t) {
			if t.Enabled == "D" {
				out = append(out, change.AlterTriggerDisable(s, t, tid))
			} else {
				out = append(out, change.AlterTriggerEnable(s, t, tid))
			}
			continue
		}
		out = append(out, change.DropTrigger(s, tid), change.CreateTrigger(t, tid))
	}
	return out
}

func onlyEnabledDiffers(s, t *catalog.Trigger) bool {
	sCopy, tCopy := *s, *t
	sCopy.Enabled, tCopy.Enabled = "", ""
	return sCopy.Equals(&tCopy)
}

func diffRules(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.Rules, target.Rules)
	var out []*change.Change
	for _, id := range created {
		r := target.Rules[id]
		out = append(out, change.CreateRule(r, tableIDOf(r.Schema, r.Table)))
	}
	for _, id := range dropped {
		r := source.Rules[id]
		out = append(out, change.DropRule(r, tableIDOf(r.Schema, r.Table)))
	}
	for _, id := range common {
		s, t := source.Rules[id], target.Rules[id]
		if !s.Equals(t) {
			tid := tableIDOf(t.Schema, t.Table)
			out = append(out, change.DropRule(s, tid), change.CreateRule(t, tid))
		}
	}
	return out
}

func diffRLSPolicies(source, target *catalog.Catalog) []*change.Change {
	created, dropped, common := setDiff(source.RLSPolicies, target.RLSPolicies)
	var out []*change.Change
	for _, id := range created {
		p := target.RLSPolicies[id]
		out = append(out, change.CreateRLSPolicy(p, tableIDOf(p.Schema, p.Table)))
	}
	for _, id := range dropped {
		p := source.RLSPolicies[id]
		out = append(out, change.DropRLSPolicy(p, tableIDOf(p.Schema, p.Table)))
	}
	for _, id := range common {
		s, t := source.RLSPolicies[id], target.RLSPolicies[id]
		if !s.Equals(t) {
			out = append(out, change.ReplaceRLSPolicy(s, t, tableIDOf(t.Schema, t.Table)))
		}
	}
	return out
}
