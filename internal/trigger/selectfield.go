package trigger

import "github.com/loomhq/loom/internal/schema"

// matchSelectFieldChange fires on a collection-record select value
// moving between allowed value sets.
//
// Each side's allowed set constrains that side's value code. An empty
// set leaves its side unconstrained - but only when the other side
// carries values; a trigger with both sets empty is disabled and never
// matches. The value must actually have changed.
func matchSelectFieldChange(p schema.TriggerPayload, before, after Snapshot) bool {
	if before.Record == nil || after.Record == nil || p.Field == "" {
		return false
	}
	if len(p.FromValues) == 0 && len(p.ToValues) == 0 {
		return false
	}

	prop, declared := after.Props[p.Field]
	if !declared || (prop.Kind != schema.PropertySingleSelect && prop.Kind != schema.PropertyCardStatus) {
		return false
	}

	beforeCode, _ := selectCode(before.Record[p.Field])
	afterCode, ok := selectCode(after.Record[p.Field])
	if !ok || beforeCode == afterCode {
		return false
	}

	if len(p.FromValues) > 0 && !containsCode(p.FromValues, beforeCode) {
		return false
	}
	if len(p.ToValues) > 0 && !containsCode(p.ToValues, afterCode) {
		return false
	}
	return true
}

// selectCode extracts the value code of a stored selection.
func selectCode(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, val != ""
	case schema.SelectOption:
		return val.Value, val.Value != ""
	case map[string]any:
		if code, ok := val["value"].(string); ok {
			return code, code != ""
		}
	}
	return "", false
}

func containsCode(opts []schema.SelectOption, code string) bool {
	for _, o := range opts {
		if o.Value == code {
			return true
		}
	}
	return false
}
