package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/arbiterhq/arbiter/internal/clock"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// JSONL is a line-delimited JSON audit sink.  Each Log call appends one line
// to the target URL.  The document is rewritten through afs on every append,
// which keeps the sink portable across afs schemes; rotate the URL externally
// for long-lived deployments.
type JSONL struct {
	fs  afs.Service
	url string
	mu  sync.Mutex
}

var _ Service = (*JSONL)(nil)

// NewJSONL creates a JSONL audit sink writing to the supplied URL.
func NewJSONL(fsService afs.Service, URL string) *JSONL {
	return &JSONL{fs: fsService, url: URL}
}

// Log appends one JSON line.
func (j *JSONL) Log(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return nil
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = clock.NowUTC()
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	var existing []byte
	if ok, _ := j.fs.Exists(ctx, j.url); ok {
		existing, _ = j.fs.DownloadWithURL(ctx, j.url)
	}
	buf := bytes.NewBuffer(existing)
	buf.Write(line)
	buf.WriteByte('\n')

	if err := j.fs.Upload(ctx, j.url, file.DefaultFileOsMode, bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}
