package action

import "testing"

func TestParseBatchBareArray(t *testing.T) {
	data := []byte(`[
		{"type":"navigation","timestamp":1000,"url":"https://a.example/orders","target":{"selector":"","text":""},"metadata":{"pageTitle":"Orders"}},
		{"type":"click","timestamp":2000,"url":"https://a.example/orders","target":{"selector":"#open","text":"Open"},"metadata":{"pageTitle":"Orders","idleTimeBefore":1000}}
	]`)
	actions, err := ParseBatch(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}
	if actions[1].Metadata.IdleTimeBefore != 1000 {
		t.Fatalf("unexpected idle time: %d", actions[1].Metadata.IdleTimeBefore)
	}
}

func TestParseBatchWrappedObject(t *testing.T) {
	data := []byte(`{"actions":[{"type":"copy","timestamp":1,"url":"https://a.example","target":{"selector":"td","text":"INV-42"},"metadata":{"pageTitle":"Invoice"}}]}`)
	actions, err := ParseBatch(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(actions) != 1 || actions[0].Type != TypeCopy {
		t.Fatalf("unexpected batch: %+v", actions)
	}
}

func TestParseBatchRejectsUnknownType(t *testing.T) {
	data := []byte(`[{"type":"hover","timestamp":1,"url":"https://a.example","target":{},"metadata":{}}]`)
	if _, err := ParseBatch(data); err == nil {
		t.Fatal("expected unknown-type error")
	}
}

func TestHostname(t *testing.T) {
	host, ok := Hostname("https://shop.example.com/cart?id=1")
	if !ok || host != "shop.example.com" {
		t.Fatalf("unexpected hostname: %q ok=%v", host, ok)
	}
	if _, ok := Hostname("::bad::url::"); ok {
		t.Fatal("expected malformed URL to fail")
	}
}
