package player

// EventKind 播放控制事件类型
type EventKind string

const (
	EventPlay   EventKind = "play"   // 播放指定下标（携带目标元素）
	EventToggle EventKind = "toggle" // 播放/暂停切换
	EventPause  EventKind = "pause"  // 暂停
	EventNext   EventKind = "next"   // 下一首
	EventPrev   EventKind = "prev"   // 上一首
	EventEnded  EventKind = "ended"  // 当前曲目自然结束
	EventRemove EventKind = "remove" // 列表中移除指定下标
	EventSwap   EventKind = "swap"   // 列表中相邻两项交换位置
	EventStop   EventKind = "stop"   // 停止并卸载（视图关闭）
)

// Event 一次离散的播放控制事件。所有状态转移都经由Dispatch处理，
// 使转移可枚举、可在无UI环境下测试。
type Event struct {
	Kind    EventKind
	Index   int     // Play/Remove 的目标下标
	From    int     // Swap 源下标
	To      int     // Swap 目标下标
	Element Element // Play 携带的目标播放元素
}
