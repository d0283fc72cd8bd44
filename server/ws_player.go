package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"PosFM/logger"
	"PosFM/player"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// PlayerHub 把播放控制器的状态快照推给所有连接的客户端。
// 多个页面共享同一个播放状态，谁动了播放器大家都能看到。
type PlayerHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewPlayerHub 创建播放状态推送中心
func NewPlayerHub() *PlayerHub {
	return &PlayerHub{conns: make(map[*websocket.Conn]struct{})}
}

// Broadcast 把快照推给所有连接。写失败的连接直接摘除。
func (hub *PlayerHub) Broadcast(snap player.Snapshot) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for conn := range hub.conns {
		if err := conn.WriteJSON(snap); err != nil {
			logger.Debug("[PlayerHub] 推送失败，移除连接", logger.ErrorField(err))
			conn.Close()
			delete(hub.conns, conn)
		}
	}
}

// Count 当前连接数
func (hub *PlayerHub) Count() int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.conns)
}

func (hub *PlayerHub) add(conn *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.conns[conn] = struct{}{}
}

func (hub *PlayerHub) remove(conn *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if _, ok := hub.conns[conn]; ok {
		conn.Close()
		delete(hub.conns, conn)
	}
}

// PlayerSocketHandler 升级连接并保持到客户端断开。
// 数据流是单向的：服务端推快照，客户端的消息只用来探活。
func (h *APIHandler) PlayerSocketHandler(hub *PlayerHub, ctrl *player.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := wsUpgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("[PlayerHub] websocket升级失败", logger.ErrorField(err))
			return
		}

		hub.add(conn)
		defer hub.remove(conn)

		// 新连接先收到一份当前状态
		if err := conn.WriteJSON(ctrl.Snapshot()); err != nil {
			return
		}

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
