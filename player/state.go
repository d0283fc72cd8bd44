package player

// TransportState describes a playback element's lifecycle.
type TransportState int

const (
	// Idle 无活动播放
	Idle TransportState = iota
	// Loading 正在解析并绑定音频源
	Loading
	// Playing 正在出声
	Playing
	// Paused 已暂停，音频源仍然绑定
	Paused
	// Ended 当前曲目播放完毕，即将链到下一首或回到Idle
	Ended
)

// String returns the state name for logs and snapshots.
func (s TransportState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}
