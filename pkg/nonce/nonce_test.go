package nonce_test

import (
	"testing"

	"github.com/layr-protocol/guardian-go/pkg/nonce"
)

func TestFixedSourceSequence(t *testing.T) {
	src := nonce.NewFixedSource(0x1111, 0x2222)

	for _, want := range []uint64{0x1111, 0x2222} {
		if err := src.Request(); err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if err := src.Request(); err != nonce.ErrBusy {
			t.Fatalf("second Request = %v, want ErrBusy", err)
		}
		src.Tick()
		v, ok := src.Take()
		if !ok {
			t.Fatal("value not ready after Tick")
		}
		if v != want {
			t.Fatalf("value = %x, want %x", v, want)
		}
	}

	if err := src.Request(); err != nonce.ErrExhausted {
		t.Fatalf("Request after exhaustion = %v, want ErrExhausted", err)
	}
}

func TestFixedSourceAbandon(t *testing.T) {
	src := nonce.NewFixedSource(0xAAAA, 0xBBBB)
	if err := src.Request(); err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	src.Abandon()
	src.Tick()
	if _, ok := src.Take(); ok {
		t.Fatal("abandoned request still produced a value")
	}

	// The abandoned value is lost; the next request yields the following
	// one.
	if err := src.Request(); err != nil {
		t.Fatalf("Request after Abandon failed: %v", err)
	}
	src.Tick()
	if v, ok := src.Take(); !ok || v != 0xBBBB {
		t.Fatalf("value = %x ok=%v, want bbbb", v, ok)
	}

	// The abandoned value counts against the configured sequence, so the
	// source is now exhausted.
	if err := src.Request(); err != nonce.ErrExhausted {
		t.Fatalf("Request after abandon+take = %v, want ErrExhausted", err)
	}
}

func TestCryptoSource(t *testing.T) {
	src := nonce.NewCryptoSource(1)
	if err := src.Request(); err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	src.Tick()
	if _, ok := src.Take(); ok {
		t.Fatal("value ready before latency elapsed")
	}
	src.Tick()
	if _, ok := src.Take(); !ok {
		t.Fatal("value not ready after latency elapsed")
	}
	if _, ok := src.Take(); ok {
		t.Fatal("Take did not consume the value")
	}
}
