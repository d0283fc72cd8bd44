package model

import "time"

// Track represents one playable item in the catalog.
// FileName is the stable identity key: the catalog guarantees it is unique
// and a Track with an empty FileName can never enter a playlist or the
// playback controller.
type Track struct {
	FileName    string    `json:"fileName"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	ReleaseDate time.Time `json:"releaseDate"`
	SheetURL    string    `json:"sheetUrl,omitempty"` // 乐谱链接，可选
}
