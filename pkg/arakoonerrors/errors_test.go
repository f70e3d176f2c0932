package arakoonerrors

import (
	"errors"
	"testing"
)

func TestFromCodeSuccessIsNil(t *testing.T) {
	if err := FromCode(CodeSuccess, "ignored"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestFromCodeKnownKind(t *testing.T) {
	err := FromCode(CodeNotFound, "key missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is match for ErrNotFound, got %v", err)
	}
	ae := &ArakoonError{}
	if !errors.As(err, &ae) {
		t.Fatalf("expected *ArakoonError, got %T", err)
	}
	if ae.Message != "key missing" {
		t.Fatalf("got message %q", ae.Message)
	}
}

func TestFromCodeUnmappedCodeIsUnknown(t *testing.T) {
	err := FromCode(Code(0x99), "mystery")
	if !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected ErrUnknown match, got %v", err)
	}
}

func TestNotMasterAndNoLongerMasterShareKind(t *testing.T) {
	a := FromCode(CodeNotMaster, "a")
	b := FromCode(CodeNoLongerMaster, "b")
	if !errors.Is(a, ErrNotMaster) || !errors.Is(b, ErrNotMaster) {
		t.Fatal("expected both codes to map to KindNotMaster")
	}
}
