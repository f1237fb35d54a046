package message

import (
	"errors"
	"testing"

	"github.com/jinzhongjia/nvimrpc/pkg/value"
)

func TestNewRequestRejectsNegativeID(t *testing.T) {
	_, err := NewRequest(value.Int(-1), value.Str("nvim_get_mode"), value.Array())
	if !errors.Is(err, ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}
}

func TestNewRequestRejectsNonStringMethod(t *testing.T) {
	_, err := NewRequest(value.Uint(1), value.Int(5), value.Array())
	if !errors.Is(err, ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}
}

func TestNewRequestAccepts(t *testing.T) {
	req, err := NewRequest(value.Uint(1), value.Str("nvim_get_mode"), value.Array())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ID != 1 || req.Method != "nvim_get_mode" || req.Kind() != KindRequest {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestNewResponseCarriesBothErrorAndResult(t *testing.T) {
	resp, err := NewResponse(value.Uint(2), value.Str("boom"), value.Int(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Error.IsNil() {
		t.Fatal("expected non-nil error")
	}
	if resp.Result.IsNil() {
		t.Fatal("expected non-nil result to still be carried through")
	}
}

func TestNewNotification(t *testing.T) {
	n, err := NewNotification(value.Str("nvim_ui_attach"), value.Array(value.Int(80), value.Int(24)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind() != KindNotification {
		t.Fatalf("unexpected kind: %v", n.Kind())
	}
}
