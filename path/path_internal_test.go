package path

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []Token
	}{
		{"/", []Token{{Kind: Root}}},
		{"", nil},
		{"a", []Token{{Kind: Name, Name: "a"}}},
		{"/a/b", []Token{{Kind: Root}, {Kind: Name, Name: "a"}, {Kind: Name, Name: "b"}}},
		{"a/../b", []Token{{Kind: Name, Name: "a"}, {Kind: Parent}, {Kind: Name, Name: "b"}}},
		{"./a/.", []Token{{Kind: Name, Name: "a"}}},
		{"a/", []Token{{Kind: Name, Name: "a"}}},
		{"//a", []Token{{Kind: Root}, {Kind: Name, Name: "a"}}},
	}
	for _, tt := range tests {
		got := Tokenize(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestSplit(t *testing.T) {
	parent, leaf, ok := Split(Tokenize("/a/b/c"))
	if !ok || leaf != "c" || len(parent) != 3 {
		t.Errorf("Split(/a/b/c) = (%v,%q,%v)", parent, leaf, ok)
	}

	if _, _, ok := Split(Tokenize("/")); ok {
		t.Errorf("Split(/) should report ok=false, root names no leaf")
	}

	if _, _, ok := Split(nil); ok {
		t.Errorf("Split(nil) should report ok=false")
	}
}
