package session

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"medreview/pkg/inbox"
)

func inboxServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		io.WriteString(w, `{"success": true, "reports": [{"result": {"analysisId": "an-1"}}]}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStartDeliversImmediateFetch(t *testing.T) {
	srv := inboxServer(t, nil)
	s := New(inbox.NewClient(srv.URL, 0), "doc-1", time.Hour)
	s.Start()
	defer s.Stop()

	select {
	case res := <-s.Updates():
		if res.Err != nil {
			t.Fatalf("unexpected error: %v", res.Err)
		}
		if len(res.Reports) != 1 || res.Reports[0].ID != "an-1" {
			t.Errorf("reports = %+v", res.Reports)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no initial refresh delivered")
	}
}

func TestRefreshTriggersExtraFetch(t *testing.T) {
	var hits atomic.Int64
	srv := inboxServer(t, &hits)
	s := New(inbox.NewClient(srv.URL, 0), "doc-1", time.Hour)
	s.Start()
	defer s.Stop()

	<-s.Updates()
	if hits.Load() != 1 {
		t.Fatalf("hits = %d after initial fetch", hits.Load())
	}

	s.Refresh()
	select {
	case <-s.Updates():
	case <-time.After(5 * time.Second):
		t.Fatal("manual refresh never delivered")
	}
	if hits.Load() != 2 {
		t.Errorf("hits = %d, want 2", hits.Load())
	}
}

func TestStopDiscardsInFlightResult(t *testing.T) {
	srv := inboxServer(t, nil)
	s := New(inbox.NewClient(srv.URL, 0), "doc-1", time.Hour)
	s.Start()

	// Never drain updates; Stop must still unblock the loop goroutine.
	s.Stop()

	select {
	case res, ok := <-s.Updates():
		if ok {
			// A result that raced Stop may still land; nothing after it may.
			_ = res
		}
	case <-time.After(200 * time.Millisecond):
		// Discarded, as documented.
	}
}

func TestStopIsIdempotent(t *testing.T) {
	srv := inboxServer(t, nil)
	s := New(inbox.NewClient(srv.URL, 0), "doc-1", time.Hour)
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestFetchErrorIsDelivered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	s := New(inbox.NewClient(srv.URL, 0), "doc-1", time.Hour)
	s.Start()
	defer s.Stop()

	select {
	case res := <-s.Updates():
		if res.Err == nil {
			t.Error("expected fetch error to be delivered")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no result delivered")
	}
}

func TestZeroIntervalFallsBack(t *testing.T) {
	s := New(nil, "doc-1", 0)
	if s.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", s.interval, DefaultInterval)
	}
}
