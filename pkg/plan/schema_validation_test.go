// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

const testDataDir = "./testdata"

// TestSchemaValidation mirrors the teacher's internal/jsonschema table test:
// each testdata/*.txtar archive holds a candidate plan.json plus a bool
// recording whether it should validate against schema.json.
func TestSchemaValidation(t *testing.T) {
	t.Parallel()

	files, err := os.ReadDir(testDataDir)
	require.NoError(t, err)

	for _, file := range files {
		file := file
		t.Run(file.Name(), func(t *testing.T) {
			t.Parallel()

			ac, err := txtar.ParseFile(filepath.Join(testDataDir, file.Name()))
			require.NoError(t, err)
			require.Len(t, ac.Files, 2)

			var doc interface{}
			require.NoError(t, json.Unmarshal(ac.Files[0].Data, &doc))

			shouldValidate, err := strconv.ParseBool(strings.TrimSpace(string(ac.Files[1].Data)))
			require.NoError(t, err)

			err = compiledSchema.Validate(doc)
			if shouldValidate {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
