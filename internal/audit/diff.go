package audit

import (
	"encoding/json"
	"reflect"
)

// Diff reduces two field snapshots to the fields that actually changed and
// marshals each side. Unchanged fields and nil-to-nil transitions are
// omitted so entries stay readable.
func Diff(before, after map[string]any) (oldData, newData []byte, err error) {
	changedOld := make(map[string]any)
	changedNew := make(map[string]any)

	for key, afterVal := range after {
		beforeVal, existed := before[key]
		if existed && reflect.DeepEqual(beforeVal, afterVal) {
			continue
		}
		if !existed && afterVal == nil {
			continue
		}
		if existed && beforeVal != nil {
			changedOld[key] = beforeVal
		}
		if afterVal != nil {
			changedNew[key] = afterVal
		}
	}
	for key, beforeVal := range before {
		if _, stillThere := after[key]; stillThere {
			continue
		}
		if beforeVal != nil {
			changedOld[key] = beforeVal
		}
	}

	if len(changedOld) > 0 {
		oldData, err = json.Marshal(changedOld)
		if err != nil {
			return nil, nil, err
		}
	}
	if len(changedNew) > 0 {
		newData, err = json.Marshal(changedNew)
		if err != nil {
			return nil, nil, err
		}
	}
	return oldData, newData, nil
}
