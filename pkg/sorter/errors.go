// SPDX-License-Identifier: Apache-2.0

package sorter

import (
	"fmt"
	"strings"

	"github.com/dbshift/pgdiffkit/pkg/catalog"
)

// CycleError is returned when the dependency graph contains a cycle that the
// fixed-priority edge-removal pass could not break (spec §4.4, §7:
// "Guessing is not permitted").
type CycleError struct {
	StableIDs []catalog.StableID
}

func (e *CycleError) Error() string {
	names := make([]string, len(e.StableIDs))
	for i, id := range e.StableIDs {
		names[i] = string(id)
	}
	return fmt.Sprintf("sorter: unbreakable dependency cycle among %s", strings.Join(names, " -> "))
}
