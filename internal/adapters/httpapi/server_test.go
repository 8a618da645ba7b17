package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/droidfleet/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	runID    string
	statuses []domain.DeviceStatus
}

func (s staticSource) RunID() string {
	return s.runID
}

func (s staticSource) Statuses() []domain.DeviceStatus {
	return s.statuses
}

func testSource() staticSource {
	return staticSource{
		runID: "run-1",
		statuses: []domain.DeviceStatus{
			{Serial: "serialA", State: domain.StateActive, HostPort: 41000, DevicePort: 8080, Logcat: true, Sessions: []int{1}},
			{Serial: "serialB", State: domain.StateLogStarted, DevicePort: 8080, Logcat: true, Sessions: []int{}},
		},
	}
}

func serve(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := NewRouter(testSource(), nil)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(t, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"status":"ok"}}`, rec.Body.String())
}

func TestListDevicesReturnsPublishedStatuses(t *testing.T) {
	rec := serve(t, "/api/devices")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			RunID   string `json:"run_id"`
			Devices []struct {
				Serial   string `json:"serial"`
				State    string `json:"state"`
				HostPort int    `json:"host_port"`
				Sessions []int  `json:"sessions"`
			} `json:"devices"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.Equal(t, "run-1", body.Data.RunID)
	require.Len(t, body.Data.Devices, 2)
	assert.Equal(t, "ACTIVE", body.Data.Devices[0].State)
	assert.Equal(t, 41000, body.Data.Devices[0].HostPort)
	assert.Equal(t, []int{1}, body.Data.Devices[0].Sessions)
	assert.Equal(t, "LOG_STARTED", body.Data.Devices[1].State)
}

func TestGetDevice(t *testing.T) {
	rec := serve(t, "/api/devices/serialB")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"serial":"serialB"`)
}

func TestGetUnknownDevice(t *testing.T) {
	rec := serve(t, "/api/devices/serialZ")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"device serialZ is not part of this fleet"}`, rec.Body.String())
}

func TestServeStopsWithContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, ln, NewRouter(testSource(), nil))
	}()

	url := fmt.Sprintf("http://%s/health", ln.Addr())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
