package entity

// ProgressEvent は1銘柄を処理するたびに発行される進捗です。
// Current は銘柄ごとに必ず1ずつ増加し、Total は銘柄数で一定です。
// Failed はこれまでに失敗した銘柄の順序付きリストで、表示用文字列への
// 整形はイベントのシリアライズ境界でのみ行います。
type ProgressEvent struct {
	Current int
	Total   int
	Failed  []string
}
