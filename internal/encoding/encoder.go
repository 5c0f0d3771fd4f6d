package encoding

import (
	"bytes"
	"encoding/json"
	"sync"
	"sync/atomic"
)

// buffers that grew past this are dropped instead of pooled
const maxPooledBuffer = 64 * 1024

// Encoder marshals JSON through pooled buffers and counts its work
type Encoder struct {
	pool sync.Pool

	marshals atomic.Int64
	failures atomic.Int64
	bytes    atomic.Int64
}

// NewEncoder creates an encoder with an empty buffer pool
func NewEncoder() *Encoder {
	return &Encoder{
		pool: sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
}

// Marshal behaves like json.Marshal. The returned slice is owned by the caller.
func (e *Encoder) Marshal(v interface{}) ([]byte, error) {
	buf := e.pool.Get().(*bytes.Buffer)
	buf.Reset()
	defer e.put(buf)

	if err := json.NewEncoder(buf).Encode(v); err != nil {
		e.failures.Add(1)
		return nil, err
	}

	// Encode terminates with a newline; Marshal does not
	data := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
	out := make([]byte, len(data))
	copy(out, data)

	e.marshals.Add(1)
	e.bytes.Add(int64(len(out)))
	return out, nil
}

func (e *Encoder) put(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer {
		return
	}
	e.pool.Put(buf)
}

// GetStats returns encoder statistics
func (e *Encoder) GetStats() map[string]interface{} {
	marshals := e.marshals.Load()
	total := e.bytes.Load()

	avg := float64(0)
	if marshals > 0 {
		avg = float64(total) / float64(marshals)
	}

	return map[string]interface{}{
		"marshals":          marshals,
		"failures":          e.failures.Load(),
		"bytes_encoded":     total,
		"avg_payload_bytes": avg,
	}
}

// Global encoder instance
var globalEncoder = NewEncoder()

// MarshalJSON marshals data using the global encoder
func MarshalJSON(v interface{}) ([]byte, error) {
	return globalEncoder.Marshal(v)
}
