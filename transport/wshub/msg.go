package wshub

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"sync"
)

// SubjRoute is the subject of management requests and their responses.
const SubjRoute = "mbean.route"

var errNoSubject = errors.New("message without subject")

// Msg is one framed WebSocket message.
type Msg struct {
	Subj string
	Tok  []byte
	Raw  []byte
	Data any
}

var buffers = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

func getBuffer() *bytes.Buffer {
	b := buffers.Get().(*bytes.Buffer) //nolint:forcetypeassert
	b.Reset()
	return b
}

func readMsg(r io.Reader) (*Msg, error) {
	b := getBuffer()
	defer buffers.Put(b)

	_, err := b.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	var tok, body []byte
	head := b.Bytes()
	idx := bytes.IndexByte(head, '\n')
	if idx >= 0 {
		head, body = head[:idx], head[idx+1:]
	}
	idx = bytes.IndexByte(head, '#')
	if idx >= 0 {
		head, tok = head[:idx], head[idx+1:]
	}
	if len(head) == 0 {
		return nil, errNoSubject
	}
	return &Msg{
		Subj: string(head),
		Tok:  copyBytes(tok),
		Raw:  copyBytes(body),
	}, nil
}

func writeMsgTo(b *bytes.Buffer, m *Msg) error {
	b.WriteString(m.Subj)
	if len(m.Tok) != 0 {
		b.WriteByte('#')
		b.Write(m.Tok)
	}
	if len(m.Raw) != 0 {
		b.WriteByte('\n')
		b.Write(m.Raw)
		return nil
	}
	if m.Data != nil {
		b.WriteByte('\n')
		return json.NewEncoder(b).Encode(m.Data)
	}
	return nil
}

func copyBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	res := make([]byte, len(b))
	copy(res, b)
	return res
}
