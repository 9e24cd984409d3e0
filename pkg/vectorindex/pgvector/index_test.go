package pgvector

import (
	"reflect"
	"strings"
	"testing"
)

func TestDimensionComesFromConstructor(t *testing.T) {
	index := New(nil, 768)
	if got := index.Dimension(); got != 768 {
		t.Errorf("Dimension = %d, want 768", got)
	}
}

func TestEmbeddingColumnWidthNotHardcoded(t *testing.T) {
	field, ok := reflect.TypeOf(eventDocument{}).FieldByName("Embedding")
	if !ok {
		t.Fatal("eventDocument has no Embedding field")
	}
	tag := field.Tag.Get("gorm")
	if strings.Contains(tag, "vector(") {
		t.Errorf("gorm tag %q hardcodes a vector width; the dimension is configured per index", tag)
	}
}
