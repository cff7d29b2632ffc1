// SPDX-License-Identifier: Apache-2.0

package conflict

import (
	"encoding/json"
	"fmt"

	"dario.cat/mergo"

	"github.com/furkeep/pawsync/models"
)

// MergeFunc reconciles the local and server payloads of a conflict into the
// payload that both sides should converge on. Callers may install their own
// schema-aware merge via [Resolver.SetMergeFunc]; [DefaultMerge] is used
// otherwise.
type MergeFunc func(conflict models.Conflict) ([]byte, error)

// DefaultMerge reconciles field-by-field over the JSON objects of both
// sides. For each field present in either payload it prefers the more
// recently modified side when both field clocks carry a timestamp for it,
// and the local side otherwise.
//
// When one side carries no payload at all (delete conflicts), the surviving
// payload wins.
func DefaultMerge(conflict models.Conflict) ([]byte, error) {
	if len(conflict.LocalData) == 0 {
		return conflict.ServerData, nil
	}
	if len(conflict.ServerData) == 0 {
		return conflict.LocalData, nil
	}

	var local, server map[string]json.RawMessage
	if err := json.Unmarshal(conflict.LocalData, &local); err != nil {
		return nil, fmt.Errorf("decode local payload for merge: %w", err)
	}
	if err := json.Unmarshal(conflict.ServerData, &server); err != nil {
		return nil, fmt.Errorf("decode server payload for merge: %w", err)
	}

	// Start from the server map and overlay every local field: prefer-local
	// is the default for fields without usable clocks.
	merged := make(map[string]json.RawMessage, len(server))
	if err := mergo.Merge(&merged, server); err != nil {
		return nil, fmt.Errorf("merge server fields: %w", err)
	}
	if err := mergo.Merge(&merged, local, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merge local fields: %w", err)
	}

	// Where both sides stamped the field, the newer side wins.
	for field, serverAt := range conflict.ServerClock {
		localAt, ok := conflict.LocalClock[field]
		if !ok {
			continue
		}
		if serverAt.After(localAt) {
			if value, exists := server[field]; exists {
				merged[field] = value
			}
		}
	}

	out, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encode merged payload: %w", err)
	}
	return out, nil
}
