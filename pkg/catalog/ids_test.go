// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStableID(t *testing.T) {
	assert.Equal(t, StableID("table:app.widgets"), NewStableID(KindTable, "app.widgets"))
	assert.Equal(t, StableID("role:app_user"), NewStableID(KindRole, "app_user"))
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, "app.widgets", QualifiedName("app", "widgets"))
	assert.Equal(t, "app_user", QualifiedName("", "app_user"))
}

func TestCommentAndPrivilegeID(t *testing.T) {
	id := NewStableID(KindTable, "app.widgets")
	assert.Equal(t, StableID("comment:table:app.widgets"), CommentID(id))
	assert.Equal(t, StableID("privilege:table:app.widgets"), PrivilegeID(id))
}

func TestKindPriorityOrdersSchemaBeforeTable(t *testing.T) {
	assert.Less(t, KindPriority(KindSchema), KindPriority(KindTable))
	assert.Less(t, KindPriority(KindTable), KindPriority(KindIndex))
}

func TestKindPriorityUnknownKindSortsLast(t *testing.T) {
	assert.Equal(t, len(AllKinds), KindPriority(Kind("not_a_real_kind")))
}
