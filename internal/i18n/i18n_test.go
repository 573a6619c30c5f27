package i18n

import (
	"testing"

	"github.com/ymzk/battlelog/internal/models"
)

func TestLookupFallbacks(t *testing.T) {
	if got := T(LangEN, "col.date"); got != "Date" {
		t.Errorf("T(en, col.date) = %q", got)
	}
	if got := T(LangJA, "col.date"); got != "日付" {
		t.Errorf("T(ja, col.date) = %q", got)
	}
	// Unknown language falls back to English.
	if got := T(Lang("fr"), "col.date"); got != "Date" {
		t.Errorf("unknown language should fall back to English, got %q", got)
	}
	// Unknown key falls back to the key itself.
	if got := T(LangEN, "col.doesNotExist"); got != "col.doesNotExist" {
		t.Errorf("unknown key should echo, got %q", got)
	}
}

func TestParseLang(t *testing.T) {
	if ParseLang("ja") != LangJA || ParseLang("jp") != LangJA {
		t.Error("ja/jp should parse as Japanese")
	}
	if ParseLang("") != LangEN || ParseLang("de") != LangEN {
		t.Error("unknown codes should default to English")
	}
}

func TestEnumLabels(t *testing.T) {
	if got := ResultLabel(LangEN, models.ResultWin); got != "Win" {
		t.Errorf("ResultLabel = %q", got)
	}
	if got := ResultLabel(LangEN, models.ResultUnset); got != "" {
		t.Errorf("unset result should have no label, got %q", got)
	}
	if got := TurnOrderLabel(LangJA, models.TurnFirst); got != "先攻" {
		t.Errorf("TurnOrderLabel = %q", got)
	}
	if got := MisplayLabel(LangEN, models.MisplayNone); got != "None" {
		t.Errorf("MisplayLabel = %q", got)
	}
}
