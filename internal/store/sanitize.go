package store

import "time"

// Sanitize strips fields the document store rejects: nil values, object-valued
// fields that become empty after recursive stripping, and array fields that
// become empty after filtering out nil elements. Timestamps and scalar zero
// values pass through untouched. The input map is not modified.
//
// This is a hard contract of the persistence services, not an optimization:
// the remote store rejects writes containing undefined values.
func Sanitize(data map[string]interface{}) map[string]interface{} {
	cleaned := make(map[string]interface{}, len(data))

	for key, value := range data {
		if value == nil {
			continue
		}
		switch v := value.(type) {
		case map[string]interface{}:
			nested := Sanitize(v)
			if len(nested) > 0 {
				cleaned[key] = nested
			}
		case []interface{}:
			filtered := make([]interface{}, 0, len(v))
			for _, item := range v {
				if item == nil {
					continue
				}
				filtered = append(filtered, item)
			}
			if len(filtered) > 0 {
				cleaned[key] = filtered
			}
		case []string:
			if len(v) > 0 {
				cleaned[key] = v
			}
		case time.Time:
			cleaned[key] = v
		default:
			cleaned[key] = v
		}
	}

	return cleaned
}
