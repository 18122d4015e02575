package rlp

import (
	"bytes"
	"testing"
)

func TestEncoderPoolEncodeBytes(t *testing.T) {
	ep := NewEncoderPool()
	got, err := ep.EncodeBytes("dog")
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x83, 0x64, 0x6f, 0x67}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
	snap := ep.Metrics().Snapshot()
	if snap.TotalEncodes != 1 {
		t.Errorf("TotalEncodes = %d, want 1", snap.TotalEncodes)
	}
	if snap.TotalBytes != int64(len(want)) {
		t.Errorf("TotalBytes = %d, want %d", snap.TotalBytes, len(want))
	}
}

func TestEncodeBatch(t *testing.T) {
	ep := NewEncoderPool()
	items := []interface{}{"cat", uint64(5), []byte{0x01, 0x02}}

	got, err := ep.EncodeBatch(items)
	if err != nil {
		t.Fatal(err)
	}

	// The batch must equal encoding each item and wrapping the
	// concatenation in a list header.
	var payload []byte
	for _, item := range items {
		enc, err := EncodeToBytes(item)
		if err != nil {
			t.Fatal(err)
		}
		payload = append(payload, enc...)
	}
	want := WrapList(payload)
	if !bytes.Equal(got, want) {
		t.Fatalf("batch: got %x, want %x", got, want)
	}

	snap := ep.Metrics().Snapshot()
	if snap.TotalEncodes != int64(len(items)) {
		t.Errorf("TotalEncodes = %d, want %d", snap.TotalEncodes, len(items))
	}
	if snap.TotalBytes != int64(len(got)) {
		t.Errorf("TotalBytes = %d, want %d", snap.TotalBytes, len(got))
	}
}

func TestEncodeBatchEmpty(t *testing.T) {
	ep := NewEncoderPool()
	got, err := ep.EncodeBatch(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0xc0}) {
		t.Fatalf("empty batch: got %x, want c0", got)
	}
}

func TestEncodeBatchError(t *testing.T) {
	ep := NewEncoderPool()
	_, err := ep.EncodeBatch([]interface{}{"ok", make(chan int)})
	if err == nil {
		t.Fatal("expected error for unsupported item type")
	}
}

func TestEncoderPoolReuse(t *testing.T) {
	ep := NewEncoderPool()
	for i := 0; i < 4; i++ {
		if _, err := ep.EncodeBatch([]interface{}{uint64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	snap := ep.Metrics().Snapshot()
	// Every batch takes a buffer from the pool; each take is either a
	// hit or a miss, and the first one is always a miss.
	if snap.PoolHits+snap.PoolMisses != 4 {
		t.Errorf("hits+misses = %d, want 4", snap.PoolHits+snap.PoolMisses)
	}
	if snap.PoolMisses < 1 {
		t.Errorf("PoolMisses = %d, want at least 1", snap.PoolMisses)
	}
}

func TestEncodeUint64Fast(t *testing.T) {
	for _, u := range []uint64{0, 1, 127, 128, 256, 1024, 1 << 20, ^uint64(0)} {
		want, err := EncodeToBytes(u)
		if err != nil {
			t.Fatal(err)
		}
		if got := EncodeUint64(u); !bytes.Equal(got, want) {
			t.Errorf("EncodeUint64(%d) = %x, want %x", u, got, want)
		}
	}
}

func TestEncodeBytes32(t *testing.T) {
	var h [32]byte
	for i := range h {
		h[i] = byte(i)
	}
	got := EncodeBytes32(h)
	if len(got) != 33 || got[0] != 0xa0 {
		t.Fatalf("prefix: got %x", got)
	}
	want, err := EncodeToBytes(h[:])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestEncodeBytes20(t *testing.T) {
	var a [20]byte
	for i := range a {
		a[i] = byte(0xf0 + i)
	}
	got := EncodeBytes20(a)
	if len(got) != 21 || got[0] != 0x94 {
		t.Fatalf("prefix: got %x", got)
	}
	want, err := EncodeToBytes(a[:])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestEstimateListSize(t *testing.T) {
	tests := []struct {
		payload int
		want    int
	}{
		{0, 1},
		{1, 2},
		{55, 56},
		{56, 58},
		{255, 257},
		{256, 259},
	}
	for _, tt := range tests {
		if got := EstimateListSize(tt.payload); got != tt.want {
			t.Errorf("EstimateListSize(%d) = %d, want %d", tt.payload, got, tt.want)
		}
		// Cross-check against the real header.
		encoded := WrapList(make([]byte, tt.payload))
		if len(encoded) != tt.want {
			t.Errorf("WrapList size for %d = %d, want %d", tt.payload, len(encoded), tt.want)
		}
	}
}

func TestAppendHelpers(t *testing.T) {
	// Append variants build incrementally onto an existing buffer.
	buf := []byte{0xff}
	buf = AppendUint64(buf, 1024)
	buf = AppendBytes(buf, []byte{0xde, 0xad})
	if !bytes.Equal(buf, []byte{0xff, 0x82, 0x04, 0x00, 0x82, 0xde, 0xad}) {
		t.Fatalf("got %x", buf)
	}

	hdr := AppendListHeader(nil, 3)
	if !bytes.Equal(hdr, []byte{0xc3}) {
		t.Fatalf("short header: got %x", hdr)
	}
	long := AppendListHeader(nil, 300)
	if !bytes.Equal(long, []byte{0xf9, 0x01, 0x2c}) {
		t.Fatalf("long header: got %x", long)
	}
}
