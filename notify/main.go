package notify

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/moyoez/zipconsole/tool"
	"github.com/moyoez/zipconsole/types"
)

// NotifyWriteChunkSize is the chunk size when writing payload to Unix socket (avoid large single write).
const NotifyWriteChunkSize = 32 * 1024 // 32KB

// MaxNotifyOutcomes is the maximum number of outcomes kept in an upload_end payload.
const MaxNotifyOutcomes = 20

// Configuration for Unix Domain Socket notification
var (
	// UnixSocketTimeout is the timeout for Unix socket operations
	UnixSocketTimeout = 3 * time.Second
	UseNotify         = true

	socketMu   sync.RWMutex
	socketPath string

	hubsMu sync.RWMutex
	hubs   []types.NotifyHub
)

// SetUseNotify sets whether to forward notifications to the Unix socket.
func SetUseNotify(use bool) {
	UseNotify = use
}

// SetSocketPath sets the Unix socket listener path, empty disables socket delivery.
func SetSocketPath(path string) {
	socketMu.Lock()
	defer socketMu.Unlock()
	socketPath = path
}

func getSocketPath() string {
	socketMu.RLock()
	defer socketMu.RUnlock()
	return socketPath
}

// RegisterHub adds a hub that receives every published notification.
func RegisterHub(h types.NotifyHub) {
	if h == nil {
		return
	}
	hubsMu.Lock()
	defer hubsMu.Unlock()
	hubs = append(hubs, h)
}

// ResetHubs removes every registered hub.
func ResetHubs() {
	hubsMu.Lock()
	defer hubsMu.Unlock()
	hubs = nil
}

// Publish delivers notification to all hubs and, when configured, to the Unix socket.
// Socket delivery runs in the background so a slow listener never stalls an upload run.
func Publish(notification *types.Notification) {
	if notification == nil {
		return
	}
	hubsMu.RLock()
	targets := make([]types.NotifyHub, len(hubs))
	copy(targets, hubs)
	hubsMu.RUnlock()
	for _, h := range targets {
		h.Broadcast(notification)
	}

	path := getSocketPath()
	if !UseNotify || path == "" {
		return
	}
	payload := truncateForSocket(notification)
	go func() {
		if err := SendNotification(payload, path); err != nil {
			tool.DefaultLogger.Debugf("[Notify] %v", err)
		}
	}()
}

// truncateForSocket returns a copy of n whose outcome list fits the socket payload limits.
func truncateForSocket(n *types.Notification) *types.Notification {
	out := *n
	if n.Data == nil {
		return &out
	}
	out.Data = make(map[string]any, len(n.Data))
	for k, v := range n.Data {
		out.Data[k] = v
	}
	if outcomes, ok := out.Data["outcomes"].([]types.UploadOutcome); ok && len(outcomes) > MaxNotifyOutcomes {
		out.Data["outcomes"] = outcomes[:MaxNotifyOutcomes]
		out.Data["totalOutcomes"] = len(outcomes)
	}
	return &out
}

// SendNotification sends notification via Unix Domain Socket.
// Frame: 4 byte little-endian length, then the JSON payload. The listener may answer with {"error": "..."}.
func SendNotification(notification *types.Notification, path string) error {
	if path == "" {
		return fmt.Errorf("unix socket path is empty")
	}

	// Check if socket file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("unix socket not found: %s (is the listener running?)", path)
	}

	var payload []byte
	var err error
	if notification != nil {
		payload, err = sonic.Marshal(notification)
		if err != nil {
			return fmt.Errorf("failed to serialize notification data: %v", err)
		}
	} else {
		payload = []byte("{}")
	}

	// Reject payload over 32KB
	if len(payload) > NotifyWriteChunkSize {
		return fmt.Errorf("notification payload too large: %d bytes (max %d)", len(payload), NotifyWriteChunkSize)
	}

	conn, err := net.DialTimeout("unix", path, UnixSocketTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to Unix socket %s: %v", path, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close Unix socket connection: %v", err)
		}
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(UnixSocketTimeout)); err != nil {
		tool.DefaultLogger.Errorf("Failed to set write deadline: %v", err)
	}

	lengthBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lengthBuf, uint32(len(payload)))
	if _, err := conn.Write(lengthBuf); err != nil {
		return fmt.Errorf("failed to write length to Unix socket: %v", err)
	}
	tool.DefaultLogger.Debugf("Sending notification to Unix socket (len=%d)", len(payload))
	for off := 0; off < len(payload); {
		chunkEnd := min(off+NotifyWriteChunkSize, len(payload))
		nw, err := conn.Write(payload[off:chunkEnd])
		if err != nil {
			return fmt.Errorf("failed to write payload to Unix socket: %v", err)
		}
		off += nw
	}

	if err := conn.SetReadDeadline(time.Now().Add(UnixSocketTimeout)); err != nil {
		tool.DefaultLogger.Errorf("Failed to set read deadline: %v", err)
	}

	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read response from Unix socket: %v", err)
	}

	if n > 0 {
		var response map[string]any
		if err := sonic.Unmarshal(buf[:n], &response); err != nil {
			tool.DefaultLogger.Debugf("Unix socket response (raw): %s", string(buf[:n]))
		} else if errMsg, ok := response["error"].(string); ok && errMsg != "" {
			return fmt.Errorf("listener returned error: %s", errMsg)
		}
	}

	if notification != nil {
		tool.DefaultLogger.Debugf("[UnixSocket] Notification sent: %s - %s", notification.Type, notification.Message)
	}
	return nil
}
