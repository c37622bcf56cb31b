package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_IsDefinition(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindFunction, true},
		{KindStruct, true},
		{KindEnum, true},
		{KindInterface, true},
		{KindMethod, true},
		{KindImport, false},
		{KindVariable, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.IsDefinition())
			assert.True(t, tt.kind.Valid())
		})
	}
	assert.False(t, Kind("class").Valid())
}

func TestSpan(t *testing.T) {
	outer := Span{Start: 10, End: 50}

	assert.True(t, outer.Contains(Span{Start: 10, End: 50}), "a span contains itself")
	assert.True(t, outer.Contains(Span{Start: 20, End: 30}))
	assert.False(t, outer.Contains(Span{Start: 5, End: 30}))
	assert.False(t, outer.Contains(Span{Start: 20, End: 51}))

	assert.Equal(t, uint(40), outer.Len())
	assert.Equal(t, uint(0), Span{Start: 9, End: 3}.Len())

	assert.True(t, outer.Within(50))
	assert.False(t, outer.Within(49))
}

func TestFingerprintOf(t *testing.T) {
	a := FingerprintOf([]byte("package a\n"))
	b := FingerprintOf([]byte("package a\n"))
	c := FingerprintOf([]byte("package b\n"))

	assert.Equal(t, a, b, "identical content must hash identically")
	assert.NotEqual(t, a, c)
	assert.Len(t, string(a), 16)
}

func TestNewSourceFile(t *testing.T) {
	f := NewSourceFile("x.go", []byte("package x"))
	assert.Equal(t, "x.go", f.Path)
	assert.Equal(t, 9, f.Size())
	assert.Equal(t, FingerprintOf([]byte("package x")), f.Fingerprint)

	g := NewSourceFile("y.go", []byte("package x"))
	assert.Equal(t, f.Fingerprint, g.Fingerprint, "fingerprint is path independent")
}
