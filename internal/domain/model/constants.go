package model

// RecommendationLimit は1回の推薦で返す近隣スポット数
const RecommendationLimit = 3

// SummaryLabel は外部要約をプロンプトに埋め込む際の見出し
const SummaryLabel = "Wikipedia summary:"

// ユーザー向けの固定メッセージ
const (
	// UnavailableAnswer は全プロバイダが失敗した場合の回答
	UnavailableAnswer = "⚠️ AI is temporarily unavailable due to free model limits. Please try again in a moment."

	// NoSelectionAnswer は場所が未選択の状態で質問された場合の回答
	NoSelectionAnswer = "Please select a POI or Zone first."

	// NoDescriptionText は説明が空の場合のプロンプト用プレースホルダー
	NoDescriptionText = "No description available."

	// NoExternalDataText は外部要約がない場合のプロンプト用プレースホルダー
	NoExternalDataText = "No external data found."

	// UnknownCoordinateText は位置が不明な場合のプロンプト用プレースホルダー
	UnknownCoordinateText = "Unknown"
)

// SystemInstruction は全てのAI呼び出しに付与するシステム指示
const SystemInstruction = `
You are a helpful travel assistant.
Use the provided place information first.
If it is insufficient, use general world knowledge.
If external data is included, treat it as factual.
Keep answers concise and visitor-friendly.
Do not mention any coordinates or technical details.
`

// GoogleMapsDirectionsURL は経路案内リンクのベースURL
const GoogleMapsDirectionsURL = "https://www.google.com/maps/dir/?api=1&destination="
