// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaEqualsComparesOwnerOnly(t *testing.T) {
	a := &Schema{Base: Base{Name: "app", Owner: "app_owner"}}
	b := &Schema{Base: Base{Name: "renamed", Owner: "app_owner"}}
	assert.True(t, a.Equals(b), "Name is an identity field and must not participate in Equals")

	c := &Schema{Base: Base{Name: "app", Owner: "different_owner"}}
	assert.False(t, a.Equals(c))
}

func TestTableEqualsIgnoresComment(t *testing.T) {
	comment1 := "first"
	comment2 := "second"
	a := &Table{Base: Base{Name: "widgets", Comment: &comment1}, Persistence: "permanent"}
	b := &Table{Base: Base{Name: "widgets", Comment: &comment2}, Persistence: "permanent"}
	assert.True(t, a.Equals(b))

	b.Persistence = "unlogged"
	assert.False(t, a.Equals(b))
}

func TestServerEqualsMasksEnvironmentDependentOptions(t *testing.T) {
	a := &Server{Base: Base{Name: "remote"}, Options: map[string]string{"host": "10.0.0.1", "dbname": "prod"}}
	b := &Server{Base: Base{Name: "remote"}, Options: map[string]string{"host": "10.0.0.2", "dbname": "staging"}}
	assert.True(t, a.Equals(b), "host/dbname are environment-dependent and must be masked before comparison")

	a.Wrapper = "postgres_fdw"
	assert.False(t, a.Equals(b))
}

func TestUserMappingEqualsMasksUserAndPassword(t *testing.T) {
	a := &UserMapping{Base: Base{Name: "mapping"}, User: "alice", Options: map[string]string{"user": "alice", "password": "one"}}
	b := &UserMapping{Base: Base{Name: "mapping"}, User: "alice", Options: map[string]string{"user": "bob", "password": "two"}}
	assert.True(t, a.Equals(b), "user/password options are environment-dependent and must be masked before comparison")
}
