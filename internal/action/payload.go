package action

import (
	"encoding/json"
	"fmt"
	"strings"

	"seqview/internal/eventhub"
	"seqview/internal/services"
	"seqview/internal/tracking"
)

// selectionFromEvent decodes data.selection.
func selectionFromEvent(event eventhub.Event) ([]tracking.EntityRef, error) {
	raw, ok := event.Data["selection"]
	if !ok || raw == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidSelection, "action", "decode selection", "", err)
	}
	var refs []tracking.EntityRef
	if err := json.Unmarshal(encoded, &refs); err != nil {
		return nil, services.Wrap(services.ErrInvalidSelection, "action", "decode selection", "", err)
	}
	return refs, nil
}

// componentFromEvent returns data.values.component and whether a values
// object was present at all.
func componentFromEvent(event eventhub.Event) (string, bool, error) {
	raw, ok := event.Data["values"]
	if !ok || raw == nil {
		return "", false, nil
	}
	values, ok := raw.(map[string]any)
	if !ok {
		return "", true, services.Wrap(services.ErrInvalidSelection, "action", "decode values", fmt.Sprintf("unexpected %T", raw), nil)
	}
	component, _ := values[componentField].(string)
	component = strings.TrimSpace(component)
	if component == "" {
		return "", true, services.Wrap(services.ErrInvalidSelection, "action", "decode values", "no component chosen", nil)
	}
	return component, true, nil
}
