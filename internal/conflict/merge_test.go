// SPDX-License-Identifier: Apache-2.0

package conflict

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furkeep/pawsync/models"
)

func mergeToMap(t *testing.T, conflict models.Conflict) map[string]any {
	t.Helper()
	out, err := DefaultMerge(conflict)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	return m
}

func TestDefaultMerge_LocalWinsWithoutClocks(t *testing.T) {
	m := mergeToMap(t, models.Conflict{
		LocalData:  []byte(`{"name":"Rex","species":"dog"}`),
		ServerData: []byte(`{"name":"Rexy","breed":"husky"}`),
	})

	assert.Equal(t, "Rex", m["name"], "contested field defaults to the local side")
	assert.Equal(t, "dog", m["species"], "local-only field survives")
	assert.Equal(t, "husky", m["breed"], "server-only field survives")
}

func TestDefaultMerge_NewerServerFieldWins(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	m := mergeToMap(t, models.Conflict{
		LocalData:  []byte(`{"name":"Rex","notes":"local notes"}`),
		ServerData: []byte(`{"name":"Rexy","notes":"server notes"}`),
		LocalClock: models.FieldClock{
			"name":  base.Add(time.Hour), // local edit is newer
			"notes": base,
		},
		ServerClock: models.FieldClock{
			"name":  base,
			"notes": base.Add(time.Hour), // server edit is newer
		},
	})

	assert.Equal(t, "Rex", m["name"])
	assert.Equal(t, "server notes", m["notes"])
}

func TestDefaultMerge_OneSidedPayloads(t *testing.T) {
	local := []byte(`{"name":"Rex"}`)
	server := []byte(`{"name":"Rexy"}`)

	t.Run("empty local yields server payload", func(t *testing.T) {
		out, err := DefaultMerge(models.Conflict{ServerData: server})
		require.NoError(t, err)
		assert.Equal(t, server, out)
	})

	t.Run("empty server yields local payload", func(t *testing.T) {
		out, err := DefaultMerge(models.Conflict{LocalData: local})
		require.NoError(t, err)
		assert.Equal(t, local, out)
	})
}

func TestDefaultMerge_RejectsNonObjectPayloads(t *testing.T) {
	_, err := DefaultMerge(models.Conflict{
		LocalData:  []byte(`[1,2,3]`),
		ServerData: []byte(`{"a":1}`),
	})
	assert.Error(t, err)
}
