package services_test

import (
	"errors"
	"strings"
	"testing"

	"iconforge/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "image", "generate", "render failed", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
	for _, part := range []string{"image", "generate", "render failed"} {
		if !strings.Contains(err.Error(), part) {
			t.Fatalf("expected %q in error message %q", part, err.Error())
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient fallback, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected generic detail, got %q", err.Error())
	}
}
