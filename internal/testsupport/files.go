package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// mp4Header is the start of an ISO base media "ftyp" box. Stub encoders never
// parse it; it only makes fixtures look like media when inspected by hand.
var mp4Header = []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")

// WriteFile creates parent directories and writes a fake media file of size
// bytes to path. A size <= 0 still writes one byte so the input is non-empty.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	var buf bytes.Buffer
	buf.Grow(int(size))
	buf.Write(mp4Header)
	for int64(buf.Len()) < size {
		buf.WriteByte(0x42)
	}
	if err := os.WriteFile(path, buf.Bytes()[:size], 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
