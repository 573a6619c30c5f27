package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRecordJSONEncoding(t *testing.T) {
	record := &Record{
		ID:        "123",
		Date:      "2024/03/05",
		TurnOrder: TurnFirst,
		Result:    ResultWin,
		Misplay:   MisplayLight,
		CreatedAt: "2024-03-05T10:00:00Z",
	}
	record.SetCustomValue("custom_1", TriTrue)

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(data)

	for _, want := range []string{
		`"result":"win"`,
		`"turnOrder":"first"`,
		`"misplay":"light"`,
		`"custom":{"custom_1":"T"}`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("encoded record missing %s: %s", want, s)
		}
	}
	if strings.Contains(s, "updatedAt") {
		t.Errorf("unset updatedAt should be omitted: %s", s)
	}

	var decoded Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Result != ResultWin || decoded.TurnOrder != TurnFirst {
		t.Errorf("round trip lost enum values: %+v", decoded)
	}
	if decoded.CustomValue("custom_1") != TriTrue {
		t.Error("round trip lost custom value")
	}
}

func TestEnumUnknownValuesDecayToUnset(t *testing.T) {
	if ParseResult("victory") != ResultUnset {
		t.Error("unknown result should parse as unset")
	}
	if ParseTurnOrder("3rd") != TurnUnset {
		t.Error("unknown turn order should parse as unset")
	}
	if ParseTriState("yes") != TriUnset {
		t.Error("unknown tri-state should parse as unset")
	}

	var r Result
	if err := json.Unmarshal([]byte(`"??"`), &r); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if r != ResultUnset {
		t.Errorf("unknown encoded result = %v, want unset", r)
	}
}

func TestRecordClone(t *testing.T) {
	record := &Record{ID: "1", MyDeck: "Burn"}
	record.SetCustomValue("custom_1", TriFalse)

	clone := record.Clone()
	clone.MyDeck = "Control"
	clone.SetCustomValue("custom_1", TriTrue)

	if record.MyDeck != "Burn" {
		t.Error("clone shares scalar state with the original")
	}
	if record.CustomValue("custom_1") != TriFalse {
		t.Error("clone shares the custom map with the original")
	}
}
