package helper

import (
	"fmt"
	"strconv"
	"strings"

	"Sulam-App/internal/domain/model"
)

// BuildUserPrompt は場所情報・外部要約・質問から固定形式のプロンプトを構築する
func BuildUserPrompt(place *model.Place, externalSummary, question string) string {
	desc := place.Desc
	if strings.TrimSpace(desc) == "" {
		desc = model.NoDescriptionText
	}

	lat, lng := model.UnknownCoordinateText, model.UnknownCoordinateText
	if pos, ok := place.Position(); ok {
		// マップ上の [lat, lng] は保存座標の [x, y]
		lat = formatCoordinate(pos.X)
		lng = formatCoordinate(pos.Y)
	}

	external := externalSummary
	if strings.TrimSpace(external) == "" {
		external = model.NoExternalDataText
	}

	return fmt.Sprintf(`Place name: %s

Description from map database:
%s

Coordinates:
Latitude: %s
Longitude: %s

External search results:
%s

Question:
%s
`, place.Title, desc, lat, lng, external, question)
}

// LabelSummary は外部要約に出典見出しを付ける。空なら空のまま
func LabelSummary(summary string) string {
	if strings.TrimSpace(summary) == "" {
		return ""
	}
	return model.SummaryLabel + "\n" + summary
}

// TruncateRunes は文字数（rune）で切り詰める
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
