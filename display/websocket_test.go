package zonetone_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	Zt "github.com/maroda/zonetone/types"
)

func TestWebsocketHandler(t *testing.T) {
	view, _ := makeTestView(t)
	view.RecordSample(Zt.ProcessedSample{Timestamp: 5, Zone: 1, Raw: 3000, Normalized: 0.2})

	srv := httptest.NewServer(view.SetupMux())
	defer srv.Close()

	url := strings.Replace(srv.URL, "http://", "ws://", 1) + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var samples []Zt.ProcessedSample
	if err := conn.ReadJSON(&samples); err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
	if samples[0].Zone != 1 {
		t.Errorf("zone = %d, want 1", samples[0].Zone)
	}
}
