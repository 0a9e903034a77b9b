package study

// resultsKey is the payload field carrying normalized result entries. The
// field is stripped before the study row is persisted; its absence (not an
// empty array) means "leave existing results alone".
const resultsKey = "results"

// ResultEntry is one typed result pulled out of a study write.
type ResultEntry struct {
	Type string
	Data map[string]any
}

// ExtractResults separates the results array from a study payload. It
// returns the payload without the results field, the well-formed entries,
// and whether the field was present at all.
//
// Entries with a blank or non-string type are dropped silently; extraction
// never fails. The input payload is not mutated.
func ExtractResults(payload map[string]any) (map[string]any, []ResultEntry, bool) {
	raw, present := payload[resultsKey]
	if !present {
		return payload, nil, false
	}

	clean := make(map[string]any, len(payload)-1)
	for k, v := range payload {
		if k != resultsKey {
			clean[k] = v
		}
	}

	arr, _ := raw.([]any)
	entries := make([]ResultEntry, 0, len(arr))
	for _, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		typ, ok := m["type"].(string)
		if !ok || typ == "" {
			continue
		}
		data, _ := m["data"].(map[string]any)
		entries = append(entries, ResultEntry{Type: typ, Data: data})
	}
	return clean, entries, true
}
