package storage

import (
	"errors"
	"strings"
	"testing"
)

func TestObjectKey(t *testing.T) {
	key, err := ObjectKey("card-1", "image/png")
	if err != nil {
		t.Fatalf("ObjectKey: %v", err)
	}
	if !strings.HasPrefix(key, "job-cards/card-1/") || !strings.HasSuffix(key, ".png") {
		t.Errorf("unexpected key %s", key)
	}

	other, _ := ObjectKey("card-1", "image/png")
	if other == key {
		t.Error("keys must be unique per upload")
	}
}

func TestObjectKey_RejectsNonImages(t *testing.T) {
	_, err := ObjectKey("card-1", "application/pdf")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}
