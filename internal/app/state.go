package app

import (
	"net"
	"sync"

	"github.com/google/uuid"
)

// 桥接运行期共享状态：当前连接的前端
type state struct {
	clients      map[net.Conn]string
	clientsMutex sync.Mutex
}

func newState() *state {
	return &state{clients: make(map[net.Conn]string)}
}

// addClient 登记连接并返回其会话 ID
func (s *state) addClient(conn net.Conn) string {
	id := uuid.NewString()
	s.clientsMutex.Lock()
	s.clients[conn] = id
	s.clientsMutex.Unlock()
	return id
}

func (s *state) removeClient(conn net.Conn) {
	s.clientsMutex.Lock()
	delete(s.clients, conn)
	s.clientsMutex.Unlock()
}

// numClients 线程安全读取连接数
func (s *state) numClients() int {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	return len(s.clients)
}

// closeClients 关闭所有连接，阻塞中的读取随之返回
func (s *state) closeClients() {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	for conn := range s.clients {
		conn.Close()
	}
}
