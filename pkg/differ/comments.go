// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/dbshift/pgdiffkit/pkg/catalog"
	"github.com/dbshift/pgdiffkit/pkg/change"
)

// diffComments compares every entity's comment independently of its
// object-scope data fields (§4.2). An entity present only in the target with
// a non-nil comment gets a CreateComment Change, which depends on the entity
// and so sorts after its create; an entity present only in the source gets
// none, since dropping it removes its comment. For entities common to both
// catalogs, differing comment text yields a CreateComment (new text) or a
// DropComment (comment removed).
func diffComments(source, target *catalog.Catalog) []*change.Change {
	sourceComments := source.AllComments()
	targetComments := target.AllComments()

	var out []*change.Change
	for id, t := range targetComments {
		s, existed := sourceComments[id]
		if !existed {
			if t.Comment != nil {
				out = append(out, change.CreateComment(t.Kind, id, *t.Comment))
			}
			continue
		}
		if stringPtrEqual(s.Comment, t.Comment) {
			continue
		}
		if t.Comment == nil {
			out = append(out, change.DropComment(t.Kind, id))
			continue
		}
		out = append(out, change.CreateComment(t.Kind, id, *t.Comment))
	}
	return out
}
