package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode_EmptyValue(t *testing.T) {
	assert.Equal(t, "from text", Decode("status", "", "from text", "c1", nil))
	assert.Equal(t, "No status", Decode("status", "", "", "c1", nil))
	assert.Equal(t, "No date", Decode("date", "", "", "c1", nil))
	assert.Equal(t, "No person", Decode("person", "null", "", "c1", nil))
}

func TestDecodeStatus_FixedTable(t *testing.T) {
	assert.Equal(t, "Em Andamento", Decode("status", `{"index": 0}`, "", "c1", nil))
	assert.Equal(t, "Feito", Decode("status", `{"index": 1}`, "", "c1", nil))
	assert.Equal(t, "Parado", Decode("status", `{"index": 2}`, "", "c1", nil))
}

// The fixed table wins over board-configured labels for indices 0-2.
// Guards the override policy: a custom "Custom" label for index 0 must
// not change the decoded value.
func TestDecodeStatus_FixedTableBeatsBoardLabels(t *testing.T) {
	labels := StatusLabelMap{"c1": {"0": "Custom"}}
	assert.Equal(t, "Em Andamento", Decode("status", `{"index": 0}`, "", "c1", labels))
}

func TestDecodeStatus_BoardLabels(t *testing.T) {
	labels := StatusLabelMap{"c1": {"5": "Bloqueado"}}
	assert.Equal(t, "Bloqueado", Decode("status", `{"index": 5}`, "", "c1", labels))
}

func TestDecodeStatus_UnknownIndex(t *testing.T) {
	assert.Equal(t, "display", Decode("status", `{"index": 9}`, "display", "c1", nil))
	assert.Equal(t, "Status 9", Decode("status", `{"index": 9}`, "", "c1", nil))
}

func TestDecodeStatus_LabelObject(t *testing.T) {
	assert.Equal(t, "Done", Decode("status", `{"label": {"text": "Done"}}`, "", "c1", nil))
	assert.Equal(t, "fallback", Decode("status", `{"label": {"color": "red"}}`, "fallback", "c1", nil))
	assert.Equal(t, "No status", Decode("status", `{"label": {"color": "red"}}`, "", "c1", nil))
}

func TestDecodeStatus_LabelString(t *testing.T) {
	assert.Equal(t, "Working on it", Decode("status", `{"label": "Working on it"}`, "", "c1", nil))
}

func TestDecodeStatus_History(t *testing.T) {
	raw := `{"index": 1, "changed_at": "2024-01-05T10:00:00Z"}{"index": 2, "changed_at": "2024-02-01T09:30:00Z"}`
	assert.Equal(t, "Parado", Decode("status", raw, "", "c1", nil))
}

func TestDecodeStatus_HistoryLatestWins(t *testing.T) {
	// Records out of order; the latest changed_at decides.
	raw := `{"index": 2, "changed_at": "2024-03-01T00:00:00Z"}{"index": 0, "changed_at": "2024-01-01T00:00:00Z"}{"index": 1, "changed_at": "2024-02-01T00:00:00Z"}`
	assert.Equal(t, "Parado", Decode("status", raw, "", "c1", nil))
}

func TestDecodeStatus_HistoryDynamicLabel(t *testing.T) {
	labels := StatusLabelMap{"c1": {"7": "Revisão"}}
	raw := `{"index": 7, "changed_at": "2024-01-05T10:00:00Z"}{"index": 7, "changed_at": "2024-02-01T09:30:00Z"}`
	assert.Equal(t, "Revisão", Decode("status", raw, "", "c1", labels))
}

func TestDecodeStatus_MalformedJSON(t *testing.T) {
	assert.Equal(t, "text wins", Decode("status", `{not json`, "text wins", "c1", nil))
	assert.Equal(t, "No status", Decode("status", `{not json`, "", "c1", nil))
}

func TestDecodeStatus_OtherShapes(t *testing.T) {
	// Valid JSON, neither index nor label: display text, else stringified.
	assert.Equal(t, "text", Decode("status", `{"foo": "bar"}`, "text", "c1", nil))
	assert.Equal(t, "plain", Decode("status", `"plain"`, "", "c1", nil))
	assert.Equal(t, "42", Decode("status", `42`, "", "c1", nil))
}

func TestDecodeDate(t *testing.T) {
	assert.Equal(t, "2024-03-01", Decode("date", `{"date": "2024-03-01"}`, "", "c1", nil))
	assert.Equal(t, "shown", Decode("date", `{"other": 1}`, "shown", "c1", nil))
	assert.Equal(t, "shown", Decode("date", `not json`, "shown", "c1", nil))
	assert.Equal(t, "No date", Decode("date", `not json`, "", "c1", nil))
}

func TestDecodePersons(t *testing.T) {
	raw := `{"personsAndTeams": [{"id": 101, "kind": "person"}, {"id": 7, "kind": "team"}, {"id": 202, "kind": "person"}]}`
	assert.Equal(t, "101,202", Decode("person", raw, "", "c1", nil))
}

func TestDecodePersons_Fallbacks(t *testing.T) {
	assert.Equal(t, "", Decode("person", `{"personsAndTeams": []}`, "", "c1", nil))
	assert.Equal(t, "Jane Doe", Decode("person", `{"other": true}`, "Jane Doe", "c1", nil))
	assert.Equal(t, "No person", Decode("person", `broken{`, "", "c1", nil))
}

func TestDecodeGeneric(t *testing.T) {
	assert.Equal(t, "hello", Decode("text", `{"text": "hello"}`, "", "c1", nil))
	assert.Equal(t, "inner", Decode("dropdown", `{"label": {"text": "inner"}}`, "", "c1", nil))
	assert.Equal(t, "v", Decode("tags", `{"value": "v"}`, "", "c1", nil))
	assert.Equal(t, "n", Decode("misc", `{"name": "n"}`, "", "c1", nil))
	// Preference order: text before label.
	assert.Equal(t, "t", Decode("misc", `{"label": "l", "text": "t"}`, "", "c1", nil))
}

func TestDecodeGeneric_NonObject(t *testing.T) {
	assert.Equal(t, "3.5", Decode("numbers", `3.5`, "", "c1", nil))
	assert.Equal(t, "plain", Decode("text", `"plain"`, "", "c1", nil))
}

func TestDecodeGeneric_MalformedFallsBackToRaw(t *testing.T) {
	assert.Equal(t, "shown", Decode("text", `oops{`, "shown", "c1", nil))
	assert.Equal(t, "oops{", Decode("text", `oops{`, "", "c1", nil))
}

func TestDecode_NeverPanics(t *testing.T) {
	inputs := []string{``, `null`, `{}`, `[]`, `[1,2]`, `{{{`, `{"index": "x"}`, `{"label": null}`, "\x00"}
	for _, raw := range inputs {
		for _, typ := range []string{"status", "date", "person", "text"} {
			assert.NotPanics(t, func() {
				Decode(typ, raw, "", "c1", nil)
			})
		}
	}
}
