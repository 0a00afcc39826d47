package audit_test

import (
	"encoding/json"
	"testing"

	"leave-core/internal/audit"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	t.Run("keeps only changed fields", func(t *testing.T) {
		before := map[string]any{
			"status":     "PENDING",
			"leave_type": "SICK",
			"days":       2.0,
		}
		after := map[string]any{
			"status":     "APPROVED",
			"leave_type": "SICK",
			"days":       2.0,
		}

		oldData, newData, err := audit.Diff(before, after)
		assert.NoError(t, err)

		var oldMap, newMap map[string]any
		assert.NoError(t, json.Unmarshal(oldData, &oldMap))
		assert.NoError(t, json.Unmarshal(newData, &newMap))

		assert.Equal(t, map[string]any{"status": "PENDING"}, oldMap)
		assert.Equal(t, map[string]any{"status": "APPROVED"}, newMap)
	})

	t.Run("creation has no before side", func(t *testing.T) {
		after := map[string]any{"status": "PENDING", "days": 1.0}

		oldData, newData, err := audit.Diff(nil, after)
		assert.NoError(t, err)
		assert.Nil(t, oldData)

		var newMap map[string]any
		assert.NoError(t, json.Unmarshal(newData, &newMap))
		assert.Len(t, newMap, 2)
	})

	t.Run("identical snapshots produce nothing", func(t *testing.T) {
		snap := map[string]any{"status": "PENDING", "days": 1.0}

		oldData, newData, err := audit.Diff(snap, snap)
		assert.NoError(t, err)
		assert.Nil(t, oldData)
		assert.Nil(t, newData)
	})

	t.Run("field appearing records only the new side", func(t *testing.T) {
		before := map[string]any{"status": "PENDING"}
		after := map[string]any{"status": "REJECTED", "rejection_reason": "no coverage"}

		oldData, newData, err := audit.Diff(before, after)
		assert.NoError(t, err)

		var oldMap, newMap map[string]any
		assert.NoError(t, json.Unmarshal(oldData, &oldMap))
		assert.NoError(t, json.Unmarshal(newData, &newMap))

		_, inOld := oldMap["rejection_reason"]
		assert.False(t, inOld)
		assert.Equal(t, "no coverage", newMap["rejection_reason"])
	})

	t.Run("field disappearing records only the old side", func(t *testing.T) {
		before := map[string]any{"status": "PENDING", "half_day_period": "MORNING"}
		after := map[string]any{"status": "PENDING"}

		oldData, newData, err := audit.Diff(before, after)
		assert.NoError(t, err)
		assert.Nil(t, newData)

		var oldMap map[string]any
		assert.NoError(t, json.Unmarshal(oldData, &oldMap))
		assert.Equal(t, "MORNING", oldMap["half_day_period"])
	})
}
