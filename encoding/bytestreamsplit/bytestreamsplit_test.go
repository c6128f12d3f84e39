package bytestreamsplit

import "testing"

func TestRoundTripFloat(t *testing.T) {
	values := []float32{1.5, -2.25, 3.125, 0}
	e := &encoder{}
	if err := e.EncodeFloat(values); err != nil {
		t.Fatalf("EncodeFloat: %v", err)
	}
	data := e.Bytes()
	if len(data) != len(values)*4 {
		t.Fatalf("len(data) = %d, want %d", len(data), len(values)*4)
	}

	d := &decoder{data: data}
	dst := make([]float32, len(values))
	n, err := d.DecodeFloat(dst)
	if err != nil {
		t.Fatalf("DecodeFloat: %v", err)
	}
	if n != len(values) {
		t.Fatalf("n = %d, want %d", n, len(values))
	}
	for i, v := range values {
		if dst[i] != v {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], v)
		}
	}
}

func TestRoundTripInt64(t *testing.T) {
	values := []int64{1, -2, 1 << 40, -(1 << 40)}
	e := &encoder{}
	if err := e.EncodeInt64(values); err != nil {
		t.Fatalf("EncodeInt64: %v", err)
	}
	data := e.Bytes()

	d := &decoder{data: data}
	dst := make([]int64, len(values))
	n, err := d.DecodeInt64(dst)
	if err != nil {
		t.Fatalf("DecodeInt64: %v", err)
	}
	if n != len(values) {
		t.Fatalf("n = %d, want %d", n, len(values))
	}
	for i, v := range values {
		if dst[i] != v {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], v)
		}
	}
}
