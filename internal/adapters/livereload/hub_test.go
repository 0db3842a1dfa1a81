package livereload_test

import (
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cinder/internal/adapters/livereload"
	"go.trai.ch/cinder/internal/core/domain"
	"go.trai.ch/cinder/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func startHub(t *testing.T) *livereload.Hub {
	t.Helper()

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	h := livereload.NewHub("127.0.0.1:0", logger)
	require.NoError(t, h.Start(t.Context()))
	t.Cleanup(func() { _ = h.Stop() })
	return h
}

func dial(t *testing.T, h *livereload.Hub) *websocket.Conn {
	t.Helper()
	before := h.ClientCount()
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+h.Addr()+"/livereload", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// The server registers the client just after the handshake; wait for
	// it so an immediate Emit cannot miss this connection.
	require.Eventually(t, func() bool {
		return h.ClientCount() > before
	}, 5*time.Second, time.Millisecond)
	return conn
}

func TestHub_BroadcastsNotification(t *testing.T) {
	h := startHub(t)
	conn := dial(t, h)

	h.Emit(domain.ReloadCSS, "/dist/style.css")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var note domain.Notification
	require.NoError(t, conn.ReadJSON(&note))
	assert.Equal(t, domain.ReloadCSS, note.Type)
	assert.Equal(t, "/dist/style.css", note.Path)
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	h := startHub(t)
	first := dial(t, h)
	second := dial(t, h)

	h.Emit(domain.ReloadFull, "/dist/index.html")

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var note domain.Notification
		require.NoError(t, conn.ReadJSON(&note))
		assert.Equal(t, domain.ReloadFull, note.Type)
	}
}

func TestHub_WirePayloadShape(t *testing.T) {
	h := startHub(t)
	conn := dial(t, h)

	h.Emit(domain.ReloadCSS, "/dist/style.css")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"css","path":"/dist/style.css"}`, string(raw))
}

func TestHub_EmitWithoutClients(t *testing.T) {
	h := startHub(t)
	// Must not block or panic.
	h.Emit(domain.ReloadCSS, "/dist/style.css")
}

func TestHub_EmitAfterStop(t *testing.T) {
	h := startHub(t)
	require.NoError(t, h.Stop())
	h.Emit(domain.ReloadCSS, "/dist/style.css")
}

func TestHub_StopClosesClients(t *testing.T) {
	h := startHub(t)
	conn := dial(t, h)

	require.NoError(t, h.Stop())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
