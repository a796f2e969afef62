// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package cmdbuf

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	e := NewEncoder()
	e.BeginPass([4]float32{0, 0, 800, 600}, [4]int32{0, 0, -1, -1})
	e.Clear([4]float32{0, 0, 0, 1}, 1, 0, ClearColor|ClearDepth)
	e.SetPipeline(42)
	e.SetVertexStream(0, 7, 16, 32)
	e.SetTexture(1, 9)
	e.UpdateUniform(2, []byte{1, 2, 3, 4})
	e.Draw(6, 0, 1)
	e.EndPass()

	if e.Violation != nil {
		t.Fatalf("unexpected violation: %v", e.Violation)
	}

	d := NewDecoder(e.Bytes())

	hdr, payload, ok := d.Next()
	if !ok || hdr.Type != BeginPass {
		t.Fatalf("packet 0: got type %v ok %v, want BeginPass", hdr.Type, ok)
	}
	if x := ReadF32(&payload); x != 0 {
		t.Errorf("BeginPass viewport.x = %v, want 0", x)
	}

	hdr, payload, ok = d.Next()
	if !ok || hdr.Type != Clear {
		t.Fatalf("packet 1: got type %v, want Clear", hdr.Type)
	}
	_ = payload

	hdr, payload, ok = d.Next()
	if !ok || hdr.Type != SetPipeline {
		t.Fatalf("packet 2: got type %v, want SetPipeline", hdr.Type)
	}
	if id := ReadU64(&payload); id != 42 {
		t.Errorf("SetPipeline id = %v, want 42", id)
	}

	hdr, payload, ok = d.Next()
	if !ok || hdr.Type != SetVertexStream {
		t.Fatalf("packet 3: got type %v, want SetVertexStream", hdr.Type)
	}
	if bi := ReadU16(&payload); bi != 0 {
		t.Errorf("SetVertexStream binding = %v, want 0", bi)
	}
	if buf := ReadU64(&payload); buf != 7 {
		t.Errorf("SetVertexStream buffer = %v, want 7", buf)
	}
	if off := ReadU32(&payload); off != 16 {
		t.Errorf("SetVertexStream offset = %v, want 16", off)
	}
	if stride := ReadU32(&payload); stride != 32 {
		t.Errorf("SetVertexStream stride = %v, want 32", stride)
	}

	hdr, payload, ok = d.Next()
	if !ok || hdr.Type != SetTexture {
		t.Fatalf("packet 4: got type %v, want SetTexture", hdr.Type)
	}
	if slot := ReadU8(&payload); slot != 1 {
		t.Errorf("SetTexture slot = %v, want 1", slot)
	}

	hdr, payload, ok = d.Next()
	if !ok || hdr.Type != UpdateUniform {
		t.Fatalf("packet 5: got type %v, want UpdateUniform", hdr.Type)
	}
	slot := ReadU8(&payload)
	rest := ReadRest(&payload)
	if slot != 2 || len(rest) != 4 || rest[3] != 4 {
		t.Errorf("UpdateUniform slot/payload = %v/%v", slot, rest)
	}

	hdr, payload, ok = d.Next()
	if !ok || hdr.Type != Draw {
		t.Fatalf("packet 6: got type %v, want Draw", hdr.Type)
	}
	if vc := ReadU32(&payload); vc != 6 {
		t.Errorf("Draw vertexCount = %v, want 6", vc)
	}

	hdr, _, ok = d.Next()
	if !ok || hdr.Type != EndPass {
		t.Fatalf("packet 7: got type %v, want EndPass", hdr.Type)
	}

	if _, _, ok = d.Next(); ok {
		t.Error("decoder did not report exhaustion after the last packet")
	}
}

func TestUnknownPacketIsSkippable(t *testing.T) {
	e := NewEncoder()
	e.SetPipeline(1)
	e.Draw(3, 0, 1)
	buf := e.Bytes()

	d := NewDecoder(buf)
	hdr, _, ok := d.Next()
	if !ok || hdr.Type != SetPipeline {
		t.Fatalf("expected SetPipeline first, got %v", hdr.Type)
	}
	// A caller that does not recognize SetPipeline must still be able to
	// skip it and reach the next packet, since Next always advances by the
	// header's declared size regardless of whether the payload was read.
	hdr, _, ok = d.Next()
	if !ok || hdr.Type != Draw {
		t.Fatalf("expected Draw after skip, got %v", hdr.Type)
	}
}

func TestBeginPassNestingViolation(t *testing.T) {
	e := NewEncoder()
	e.BeginPass([4]float32{}, [4]int32{0, 0, -1, -1})
	e.BeginPass([4]float32{}, [4]int32{0, 0, -1, -1})
	if e.Violation != errNestedPass {
		t.Errorf("Violation = %v, want errNestedPass", e.Violation)
	}
}

func TestEndPassUnmatchedViolation(t *testing.T) {
	e := NewEncoder()
	e.EndPass()
	if e.Violation != errUnmatchedEndPass {
		t.Errorf("Violation = %v, want errUnmatchedEndPass", e.Violation)
	}
}

func TestResetClearsViolationAndBuffer(t *testing.T) {
	e := NewEncoder()
	e.EndPass()
	if e.Violation == nil {
		t.Fatal("expected a violation before Reset")
	}
	e.Reset()
	if e.Violation != nil {
		t.Error("Reset did not clear Violation")
	}
	if len(e.Bytes()) != 0 {
		t.Error("Reset did not clear the buffer")
	}
}
