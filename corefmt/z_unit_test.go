package corefmt

import (
	"bytes"
	"testing"
)

// TestBase64RoundTrip 驗證快照文字編碼往返
func TestBase64RoundTrip(t *testing.T) {
	raw := []byte{0, 1, 2, 255, 128, 7}
	for name, pair := range map[string]struct {
		enc func([]byte) string
		dec func(string) ([]byte, error)
	}{
		"base64":    {EncodeBase64, DecodeBase64},
		"base64url": {EncodeBase64URL, DecodeBase64URL},
		"hex":       {EncodeHex, DecodeHex},
	} {
		got, err := pair.dec(pair.enc(raw))
		if err != nil {
			t.Fatalf("[%s] decode err: %v", name, err)
		}
		if !bytes.Equal(got, raw) {
			t.Errorf("[%s] round trip mismatch: %v", name, got)
		}
	}
	if _, err := DecodeBase64("!!!not base64!!!"); err == nil {
		t.Error("bad base64 should fail")
	}
}

// TestBlobFrame 驗證長度前綴 frame 的讀寫與安全上限
func TestBlobFrame(t *testing.T) {
	payload := []byte("snapshot-bytes")
	var buf bytes.Buffer
	if err := WriteBlobFrame(&buf, payload); err != nil {
		t.Fatalf("write err: %v", err)
	}
	got, err := ReadBlobFrame(bytes.NewReader(buf.Bytes()), 1<<20)
	if err != nil {
		t.Fatalf("read err: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("round trip mismatch: %q", got)
	}

	if _, err := ReadBlobFrame(bytes.NewReader(buf.Bytes()), 4); err == nil {
		t.Error("payload over maxBytes should fail")
	}
	if _, err := ReadBlobFrame(bytes.NewReader(buf.Bytes()[:3]), 0); err == nil {
		t.Error("truncated frame should fail")
	}
}
