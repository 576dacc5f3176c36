// ABOUTME: Tests for label queries, mutations and the live stream
// ABOUTME: Covers pagination, batching, group lifecycle and StreamLabels
package cerebra

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestLabelsPaginates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeGQL(t, r)
		if req.Variables["id"] != "study-1" || req.Variables["labelGroupId"] != "lg-1" {
			t.Errorf("expected study and group variables, got %v", req.Variables)
		}
		if req.Variables["fromTime"] != float64(0) || req.Variables["toTime"] != float64(9e12) {
			t.Errorf("expected the time window variables, got %v", req.Variables)
		}
		if req.Variables["offset"] == float64(0) {
			w.Write([]byte(`{"data": {"study": {"id": "study-1", "labelGroup": {
				"id": "lg-1",
				"name": "Seizures",
				"labelType": "default",
				"labels": [
					{"id": "l1", "startTime": 5000, "duration": 2000, "note": "tonic-clonic",
					 "createdBy": {"fullName": "Dr Who"},
					 "tags": [{"id": "t1", "tagType": {"id": "tt1", "value": "confirmed"}}]},
					{"id": "l2", "startTime": 9000, "duration": 1000}
				]
			}}}}`))
			return
		}
		w.Write([]byte(`{"data": {"study": {"id": "study-1", "labelGroup": {
			"id": "lg-1", "name": "Seizures", "labelType": "default", "labels": []
		}}}}`))
	}))
	defer srv.Close()

	group, err := newTestClient(srv).Labels(context.Background(), "study-1", "lg-1", 0, 9e12)
	if err != nil {
		t.Fatalf("labels failed: %v", err)
	}
	if group.ID != "lg-1" || group.Name != "Seizures" || group.LabelType != "default" {
		t.Errorf("group fields not decoded: %+v", group)
	}
	if len(group.Labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(group.Labels))
	}
	l1 := group.Labels[0]
	if l1.ID != "l1" || l1.StartTime != 5000 || l1.Note != "tonic-clonic" {
		t.Errorf("label fields not decoded: %+v", l1)
	}
	if l1.CreatedBy == nil || l1.CreatedBy.FullName != "Dr Who" {
		t.Errorf("label author not decoded: %+v", l1.CreatedBy)
	}
	if len(l1.Tags) != 1 || l1.Tags[0].TagType.Value != "confirmed" {
		t.Errorf("tags not decoded: %+v", l1.Tags)
	}
}

func TestAddLabelsBatches(t *testing.T) {
	var mu sync.Mutex
	var batchSizes []int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeGQL(t, r)
		if req.Variables["groupId"] != "lg-1" {
			t.Errorf("expected the group id variable, got %v", req.Variables)
		}
		batch, ok := req.Variables["labels"].([]any)
		if !ok {
			t.Errorf("expected a labels array, got %T", req.Variables["labels"])
		}
		mu.Lock()
		batchSizes = append(batchSizes, len(batch))
		mu.Unlock()

		added := make([]map[string]string, len(batch))
		for i := range batch {
			added[i] = map[string]string{"id": "new"}
		}
		payload, _ := json.Marshal(map[string]any{"data": map[string]any{"addLabelsToLabelGroup": added}})
		w.Write(payload)
	}))
	defer srv.Close()

	labels := make([]NewLabel, 501)
	for i := range labels {
		labels[i] = NewLabel{StartTime: float64(i) * 1000, Duration: 500, Note: "spike"}
	}

	ids, err := newTestClient(srv).AddLabels(context.Background(), "lg-1", labels)
	if err != nil {
		t.Fatalf("add labels failed: %v", err)
	}
	if len(ids) != 501 {
		t.Errorf("expected 501 created ids, got %d", len(ids))
	}
	mu.Lock()
	defer mu.Unlock()
	if len(batchSizes) != 2 || batchSizes[0] != 500 || batchSizes[1] != 1 {
		t.Errorf("expected batches of 500 and 1, got %v", batchSizes)
	}
}

func TestLabelGroupLifecycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := decodeGQL(t, r)
		switch {
		case strings.Contains(req.Query, "addLabelGroupToStudy"):
			if req.Variables["studyId"] != "study-1" || req.Variables["name"] != "Spikes" {
				t.Errorf("unexpected add variables: %v", req.Variables)
			}
			if _, ok := req.Variables["labelType"]; ok {
				t.Error("empty label type must be omitted")
			}
			w.Write([]byte(`{"data": {"addLabelGroupToStudy": {"id": "lg-new"}}}`))
		case strings.Contains(req.Query, "removeLabelGroupFromStudy"):
			if req.Variables["groupId"] != "lg-new" {
				t.Errorf("unexpected remove variables: %v", req.Variables)
			}
			w.Write([]byte(`{"data": {"removeLabelGroupFromStudy": true}}`))
		default:
			t.Errorf("unexpected query: %s", req.Query)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv)
	id, err := c.AddLabelGroup(context.Background(), "study-1", "Spikes", "interictal spikes", "")
	if err != nil {
		t.Fatalf("add label group failed: %v", err)
	}
	if id != "lg-new" {
		t.Errorf("expected the new group id, got %q", id)
	}
	if err := c.RemoveLabelGroup(context.Background(), id); err != nil {
		t.Fatalf("remove label group failed: %v", err)
	}
}

func TestStreamLabels(t *testing.T) {
	upgrader := websocket.Upgrader{Subprotocols: []string{"graphql-transport-ws"}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		var msg struct {
			ID      string          `json:"id"`
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := conn.ReadJSON(&msg); err != nil || msg.Type != "connection_init" {
			t.Errorf("expected connection_init, got %+v (%v)", msg, err)
			return
		}
		conn.WriteJSON(map[string]string{"type": "connection_ack"})

		if err := conn.ReadJSON(&msg); err != nil || msg.Type != "subscribe" {
			t.Errorf("expected subscribe, got %+v (%v)", msg, err)
			return
		}
		var op struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.Unmarshal(msg.Payload, &op); err != nil ||
			!strings.Contains(op.Query, "labelAdded") || op.Variables["studyId"] != "study-1" {
			t.Errorf("unexpected subscribe payload: %s", msg.Payload)
		}

		conn.WriteJSON(map[string]any{
			"id":   msg.ID,
			"type": "next",
			"payload": map[string]any{"data": map[string]any{"labelAdded": map[string]any{
				"id": "l-live", "startTime": 123456.0, "duration": 2000.0,
				"labelGroup": map[string]any{"id": "lg-1", "name": "Seizures"},
			}}},
		})
		conn.WriteJSON(map[string]any{"id": msg.ID, "type": "complete"})
		conn.ReadMessage()
	}))
	defer srv.Close()

	c := newTestClient(srv)
	events, stop, err := c.StreamLabels(context.Background(), "study-1")
	if err != nil {
		t.Fatalf("stream labels failed: %v", err)
	}
	defer stop()

	select {
	case ev := <-events:
		if ev.Err != nil {
			t.Fatalf("unexpected stream error: %v", ev.Err)
		}
		if ev.StudyID != "study-1" || ev.Label.ID != "l-live" || ev.Label.StartTime != 123456 {
			t.Errorf("unexpected event: %+v", ev)
		}
		if ev.Label.LabelGroup == nil || ev.Label.LabelGroup.ID != "lg-1" {
			t.Errorf("label group not decoded: %+v", ev.Label.LabelGroup)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a label event")
	}

	select {
	case _, ok := <-events:
		if ok {
			t.Error("expected the stream to close after complete")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the stream to close")
	}
}
