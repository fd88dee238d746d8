package decode

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Well-known status indices used across the account's boards. These take
// precedence over per-board label configuration: a column that redefines
// index 0-2 still decodes to the values below. That can mask custom
// label text for those indices, but the behavior is relied on by
// downstream filters and is kept as-is.
var fixedStatusLabels = map[string]string{
	"0": "Em Andamento",
	"1": "Feito",
	"2": "Parado",
}

// Decode converts one raw cell value into a flat string according to the
// column's type. It never fails: malformed payloads degrade to the
// display text when present, otherwise to a "No <type>" sentinel.
//
// rawValue is usually JSON but the shape varies per column
// configuration; displayText is the source's own rendering of the cell
// and serves as the fallback of last resort before the sentinel.
func Decode(columnType, rawValue, displayText, columnID string, labels StatusLabelMap) string {
	if rawValue == "" || rawValue == "null" {
		return textOr(displayText, sentinel(columnType))
	}

	switch columnType {
	case "status":
		return decodeStatus(rawValue, displayText, columnID, labels)
	case "date":
		return decodeDate(rawValue, displayText)
	case "person", "people":
		return decodePersons(rawValue, displayText, columnType)
	default:
		return decodeGeneric(rawValue, displayText)
	}
}

func sentinel(columnType string) string {
	return "No " + columnType
}

func textOr(text, fallback string) string {
	if text != "" {
		return text
	}
	return fallback
}

// parseValue unmarshals rawValue keeping numbers as json.Number so that
// integer indices round-trip without float formatting.
func parseValue(rawValue string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(rawValue))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	// Trailing content means this was not a single JSON value.
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

func decodeStatus(rawValue, displayText, columnID string, labels StatusLabelMap) string {
	v, err := parseValue(rawValue)
	if err != nil {
		// Concatenated status-change history is not a single JSON
		// value, so it lands here.
		if label, ok := latestHistoryStatus(rawValue, displayText, columnID, labels); ok {
			return label
		}
		return textOr(displayText, sentinel("status"))
	}

	obj, isObj := v.(map[string]any)
	if isObj {
		if idx, ok := obj["index"]; ok {
			return resolveIndex(stringify(idx), displayText, columnID, labels)
		}
		if label, ok := obj["label"]; ok {
			if labelObj, ok := label.(map[string]any); ok {
				if text, ok := labelObj["text"].(string); ok {
					return text
				}
				return textOr(displayText, sentinel("status"))
			}
			return stringify(label)
		}
	}

	return textOr(displayText, stringify(v))
}

// resolveIndex maps a status label index through the fixed table first,
// then the board's configured labels, then the display text.
func resolveIndex(index, displayText, columnID string, labels StatusLabelMap) string {
	if label, ok := fixedStatusLabels[index]; ok {
		return label
	}
	if label, ok := labels.Lookup(columnID, index); ok {
		return label
	}
	return textOr(displayText, "Status "+index)
}

// latestHistoryStatus handles raw values made of several concatenated
// JSON objects recording historical status changes ({...}{...}). It
// decodes them in sequence, keeps every (index, changed_at) pair and
// resolves the index of the most recent change. changed_at timestamps
// are ISO 8601, so the lexicographic maximum is also the temporal one.
func latestHistoryStatus(rawValue, displayText, columnID string, labels StatusLabelMap) (string, bool) {
	dec := json.NewDecoder(strings.NewReader(rawValue))
	dec.UseNumber()

	latestIndex, latestChangedAt := "", ""
	count := 0
	for dec.More() {
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			break
		}
		count++
		idx, hasIdx := obj["index"]
		changedAt, hasAt := obj["changed_at"].(string)
		if !hasIdx || !hasAt {
			continue
		}
		if changedAt > latestChangedAt {
			latestIndex = stringify(idx)
			latestChangedAt = changedAt
		}
	}

	// A single decodable object would have parsed up front; require at
	// least two records and one usable pair.
	if count < 2 || latestIndex == "" {
		return "", false
	}
	return resolveIndex(latestIndex, displayText, columnID, labels), true
}

func decodeDate(rawValue, displayText string) string {
	v, err := parseValue(rawValue)
	if err != nil {
		return textOr(displayText, sentinel("date"))
	}
	if obj, ok := v.(map[string]any); ok {
		if date, ok := obj["date"]; ok {
			return stringify(date)
		}
	}
	return textOr(displayText, stringify(v))
}

// decodePersons returns the comma-joined raw ids of every person
// assigned to the cell. Resolution of ids to display names happens one
// layer up, where the user registry lives.
func decodePersons(rawValue, displayText, columnType string) string {
	v, err := parseValue(rawValue)
	if err != nil {
		return textOr(displayText, sentinel(columnType))
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return textOr(displayText, sentinel(columnType))
	}
	entries, ok := obj["personsAndTeams"].([]any)
	if !ok {
		return textOr(displayText, sentinel(columnType))
	}

	var ids []string
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if kind, _ := entry["kind"].(string); kind != "person" {
			continue
		}
		if id, ok := entry["id"]; ok {
			ids = append(ids, stringify(id))
		}
	}
	return strings.Join(ids, ",")
}

// genericKeys is the preference order for pulling a value out of an
// arbitrary column payload.
var genericKeys = [...]string{"text", "label", "value", "name"}

func decodeGeneric(rawValue, displayText string) string {
	v, err := parseValue(rawValue)
	if err != nil {
		return textOr(displayText, rawValue)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return stringify(v)
	}
	for _, key := range genericKeys {
		inner, ok := obj[key]
		if !ok {
			continue
		}
		if innerObj, ok := inner.(map[string]any); ok {
			if text, ok := innerObj["text"]; ok {
				return stringify(text)
			}
			return stringify(innerObj)
		}
		return stringify(inner)
	}
	return textOr(displayText, stringify(v))
}

// stringify renders a decoded JSON value as the flat string consumers
// expect: strings and numbers verbatim, everything else re-marshaled.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return fmt.Sprintf("%t", t)
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
