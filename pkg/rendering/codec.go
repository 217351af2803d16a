package rendering

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// MarshalDisplayList encodes a display list as msgpack.
func MarshalDisplayList(list *DisplayList) ([]byte, error) {
	data, err := msgpack.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encode display list: %w", err)
	}
	return data, nil
}

// UnmarshalDisplayList decodes a display list produced by MarshalDisplayList.
func UnmarshalDisplayList(data []byte) (*DisplayList, error) {
	list := &DisplayList{}
	if err := msgpack.Unmarshal(data, list); err != nil {
		return nil, fmt.Errorf("decode display list: %w", err)
	}
	return list, nil
}

// FrameWriter streams display lists to w, one msgpack value per frame.
type FrameWriter struct {
	enc    *msgpack.Encoder
	frames int
}

// NewFrameWriter returns a writer that appends frames to w.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{enc: msgpack.NewEncoder(w)}
}

// WriteFrame appends one display list.
func (f *FrameWriter) WriteFrame(list *DisplayList) error {
	if err := f.enc.Encode(list); err != nil {
		return fmt.Errorf("write frame %d: %w", f.frames, err)
	}
	f.frames++
	return nil
}

// Frames returns the number of frames written.
func (f *FrameWriter) Frames() int {
	return f.frames
}

// FrameReader reads display lists written by a FrameWriter.
type FrameReader struct {
	dec *msgpack.Decoder
}

// NewFrameReader returns a reader over r.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{dec: msgpack.NewDecoder(r)}
}

// ReadFrame decodes the next display list.
func (f *FrameReader) ReadFrame() (*DisplayList, error) {
	list := &DisplayList{}
	if err := f.dec.Decode(list); err != nil {
		return nil, err
	}
	return list, nil
}
