package protocol

import "testing"

func TestEncodeDecodeCatch(t *testing.T) {
	b, err := Encode(MsgCatch, Catch{ID: 4})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	if env.T != MsgCatch {
		t.Fatalf("type = %q, want %q", env.T, MsgCatch)
	}
	c, err := DecodePayload[Catch](env)
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if c.ID != 4 {
		t.Fatalf("id = %d, want 4", c.ID)
	}
}

func TestEncodeWithoutPayload(t *testing.T) {
	b, err := Encode(MsgStart, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(b) != `{"t":"start"}` {
		t.Fatalf("encoded = %s", b)
	}
	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	if _, err := DecodePayload[Catch](env); err == nil {
		t.Fatalf("expected error decoding empty payload")
	}
}

func TestDecodeEnvelopeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "not json", `{"p":{}}`} {
		if _, err := DecodeEnvelope([]byte(in)); err == nil {
			t.Fatalf("DecodeEnvelope(%q) succeeded", in)
		}
	}
	if _, err := Encode("", Catch{}); err == nil {
		t.Fatalf("Encode with empty type succeeded")
	}
}
