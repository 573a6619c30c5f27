// Package i18n provides the display-string tables for column
// headers, enum labels, and statistics captions.
package i18n

import "github.com/ymzk/battlelog/internal/models"

// Lang identifies a supported display language.
type Lang string

const (
	// LangEN is English, the fallback language.
	LangEN Lang = "en"
	// LangJA is Japanese.
	LangJA Lang = "ja"
)

// ParseLang resolves a language code, falling back to English for
// unknown codes.
func ParseLang(s string) Lang {
	switch s {
	case "ja", "jp":
		return LangJA
	default:
		return LangEN
	}
}

var tables = map[Lang]map[string]string{
	LangEN: {
		"col.date":         "Date",
		"col.gameName":     "Game",
		"col.myDeck":       "My Deck",
		"col.opponentDeck": "Opp. Deck",
		"col.turnOrder":    "Turn",
		"col.result":       "Result",
		"col.score":        "Score",
		"col.misplay":      "Misplay",
		"col.misplayNote":  "Misplay Note",
		"col.notes":        "Notes",
		"col.createdAt":    "Created",

		"turn.first":  "First",
		"turn.second": "Second",

		"result.win":  "Win",
		"result.loss": "Loss",
		"result.draw": "Draw",

		"misplay.none":   "None",
		"misplay.light":  "Light",
		"misplay.medium": "Medium",
		"misplay.severe": "Huge",

		"chart.other":       "Others",
		"chart.unspecified": "(None)",

		"stat.total":         "Total Games",
		"stat.firstRate":     "First Rate",
		"stat.winRate":       "Total Win Rate",
		"stat.firstWinRate":  "1st Win %",
		"stat.secondWinRate": "2nd Win %",
		"stat.drawNote":      "Inc. Draws",
		"stat.unrecorded":    "No Result",
	},
	LangJA: {
		"col.date":         "日付",
		"col.gameName":     "ゲーム",
		"col.myDeck":       "自分のデッキ",
		"col.opponentDeck": "相手のデッキ",
		"col.turnOrder":    "先/後",
		"col.result":       "勝敗",
		"col.score":        "スコア",
		"col.misplay":      "プレミス",
		"col.misplayNote":  "プレミ備考",
		"col.notes":        "備考",
		"col.createdAt":    "作成日時",

		"turn.first":  "先攻",
		"turn.second": "後攻",

		"result.win":  "勝利",
		"result.loss": "敗北",
		"result.draw": "引き分け",

		"misplay.none":   "なし",
		"misplay.light":  "軽",
		"misplay.medium": "中",
		"misplay.severe": "重",

		"chart.other":       "その他",
		"chart.unspecified": "未選択",

		"stat.total":         "試合数",
		"stat.firstRate":     "先攻率",
		"stat.winRate":       "勝率",
		"stat.firstWinRate":  "先攻勝率",
		"stat.secondWinRate": "後攻勝率",
		"stat.drawNote":      "引き分け含む",
		"stat.unrecorded":    "勝敗未記録",
	},
}

// T looks up a display string. Missing keys fall back to the English
// table, then to the key itself.
func T(lang Lang, key string) string {
	if table, ok := tables[lang]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	if s, ok := tables[LangEN][key]; ok {
		return s
	}
	return key
}

// ColumnHeader returns the display header for a built-in column id.
// Custom field ids have no table entry and fall through to the id
// itself; callers should use the field name for those.
func ColumnHeader(lang Lang, columnID string) string {
	return T(lang, "col."+columnID)
}

// TurnOrderLabel returns the display label for a turn order value.
func TurnOrderLabel(lang Lang, t models.TurnOrder) string {
	switch t {
	case models.TurnFirst:
		return T(lang, "turn.first")
	case models.TurnSecond:
		return T(lang, "turn.second")
	default:
		return ""
	}
}

// ResultLabel returns the display label for a match result.
func ResultLabel(lang Lang, r models.Result) string {
	switch r {
	case models.ResultWin:
		return T(lang, "result.win")
	case models.ResultLoss:
		return T(lang, "result.loss")
	case models.ResultDraw:
		return T(lang, "result.draw")
	default:
		return ""
	}
}

// MisplayLabel returns the display label for a misplay grade.
func MisplayLabel(lang Lang, m models.Misplay) string {
	switch m {
	case models.MisplayLight:
		return T(lang, "misplay.light")
	case models.MisplayMedium:
		return T(lang, "misplay.medium")
	case models.MisplaySevere:
		return T(lang, "misplay.severe")
	default:
		return T(lang, "misplay.none")
	}
}
