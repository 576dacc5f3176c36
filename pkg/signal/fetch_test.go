// ABOUTME: Tests for the chunk fetcher over a live HTTP test server
// ABOUTME: Verifies end-to-end fetch+decode and transport error typing
package signal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cerebra-health/cerebra-go/internal/transport"
)

func TestFetchDecodeEndToEnd(t *testing.T) {
	payload := int16Payload(100, 200, 300)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chunks/00000000000.dat" {
			http.NotFound(w, r)
			return
		}
		w.Write(payload)
	}))
	defer srv.Close()

	task := Task{
		StudyID:        "study-1",
		ChannelGroupID: "group-1",
		SegmentID:      "seg-1",
		URL:            srv.URL + "/chunks/00000000000.dat",
		StartTime:      0,
		SegmentEnd:     1e12,
		Descriptor:     identityDescriptor([]string{"A"}, 1, 3, 1000),
	}

	f := NewFetcher(FetcherConfig{})
	fr, err := f.FetchDecode(context.Background(), task)
	if err != nil {
		t.Fatalf("FetchDecode failed: %v", err)
	}
	if fr.NumRows() != 3 {
		t.Fatalf("expected 3 rows, got %d", fr.NumRows())
	}
	want := []float32{100, 200, 300}
	for i, w := range want {
		if fr.Rows[i].Values[0] != w {
			t.Errorf("row %d: expected %v, got %v", i, w, fr.Rows[i].Values[0])
		}
	}
}

func TestFetchDecodeTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	task := Task{
		SegmentID:  "seg-1",
		ChunkIndex: 7,
		URL:        srv.URL + "/chunks/00000000007.dat",
		SegmentEnd: 1e12,
		Descriptor: identityDescriptor([]string{"A"}, 1, 1, 1000),
	}

	f := NewFetcher(FetcherConfig{})
	_, err := f.FetchDecode(context.Background(), task)

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected a TransportError, got %v", err)
	}
	if terr.SegmentID != "seg-1" || terr.ChunkIndex != 7 {
		t.Errorf("expected the error to carry chunk identity, got %+v", terr)
	}
	if !errors.Is(err, transport.ErrNotFound) {
		t.Errorf("expected the underlying status error to remain reachable, got %v", err)
	}
}
