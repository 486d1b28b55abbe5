package idlpb

import "fmt"

// PostSpansRequest is the api_v2 CollectorService.PostSpans request.
type PostSpansRequest struct {
	Batch *Batch
}

func (m *PostSpansRequest) Reset()         { *m = PostSpansRequest{} }
func (m *PostSpansRequest) String() string { return fmt.Sprintf("%+v", *m) }
func (*PostSpansRequest) ProtoMessage()    {}

func (m *PostSpansRequest) Marshal() ([]byte, error) {
	var buf []byte
	if m.Batch != nil {
		b, err := m.Batch.Marshal()
		if err != nil {
			return nil, err
		}
		buf = appendBytes(buf, 1, b)
	}
	return buf, nil
}

func (m *PostSpansRequest) Unmarshal(data []byte) error {
	r := &fieldReader{buf: data}
	for !r.done() {
		field, wire, err := r.readTag()
		if err != nil {
			return err
		}
		if field == 1 {
			b, err := r.readBytes()
			if err != nil {
				return err
			}
			batch := &Batch{}
			if err := batch.Unmarshal(b); err != nil {
				return err
			}
			m.Batch = batch
			continue
		}
		if err := r.skip(wire); err != nil {
			return err
		}
	}
	return nil
}

// PostSpansResponse is the api_v2 CollectorService.PostSpans response; it
// carries no fields, matching jaeger-idl's collector.proto.
type PostSpansResponse struct{}

func (m *PostSpansResponse) Reset()         { *m = PostSpansResponse{} }
func (m *PostSpansResponse) String() string { return "PostSpansResponse{}" }
func (*PostSpansResponse) ProtoMessage()    {}
func (m *PostSpansResponse) Marshal() ([]byte, error) { return nil, nil }
func (m *PostSpansResponse) Unmarshal(data []byte) error { return nil }
