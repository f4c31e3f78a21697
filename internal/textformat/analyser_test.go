package textformat

import (
	"errors"
	"testing"
)

func TestNew_DepthMode(t *testing.T) {
	tests := []struct {
		name   string
		delims Delimiters
		want   DepthMode
	}{
		{"nested brackets", Delimiters{"[", "]", "[[", "]]"}, Unbounded},
		{"nested with both sides", Delimiters{"<", ">", "(<", ">)"}, Unbounded},
		{"unrelated delimiters", Delimiters{"[", "]", "(", ")"}, Bounded},
		{"only prefix nests", Delimiters{"[", "]", "[[", ")"}, Bounded},
		{"only suffix nests", Delimiters{"[", "]", "(", "]]"}, Bounded},
		{"identical delimiters", Delimiters{"[", "]", "[", "]"}, Bounded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(tt.delims)
			if a.Mode() != tt.want {
				t.Errorf("Mode() = %v, want %v", a.Mode(), tt.want)
			}
		})
	}
}

func TestGetLevel_Unbounded(t *testing.T) {
	a := New(DefaultDelimiters())

	tests := []struct {
		depth      int
		wantPrefix string
		wantSuffix string
	}{
		{1, "[", "]"},
		{2, "[[", "]]"},
		{3, "[[[", "]]]"},
		{5, "[[[[[", "]]]]]"},
	}

	for _, tt := range tests {
		prefix, suffix, err := a.GetLevel(tt.depth)
		if err != nil {
			t.Fatalf("GetLevel(%d) error = %v", tt.depth, err)
		}
		if prefix != tt.wantPrefix || suffix != tt.wantSuffix {
			t.Errorf("GetLevel(%d) = (%q, %q), want (%q, %q)", tt.depth, prefix, suffix, tt.wantPrefix, tt.wantSuffix)
		}
	}
}

func TestGetLevel_UnboundedWrapsBothSides(t *testing.T) {
	a := New(Delimiters{"<", ">", "(<", ">)"})

	prefix, suffix, err := a.GetLevel(3)
	if err != nil {
		t.Fatalf("GetLevel(3) error = %v", err)
	}
	if prefix != "((<" || suffix != ">))" {
		t.Errorf("GetLevel(3) = (%q, %q), want (%q, %q)", prefix, suffix, "((<", ">))")
	}
}

func TestGetLevel_Bounded(t *testing.T) {
	a := New(Delimiters{"[", "]", "(", ")"})

	prefix, suffix, err := a.GetLevel(2)
	if err != nil {
		t.Fatalf("GetLevel(2) error = %v", err)
	}
	if prefix != "(" || suffix != ")" {
		t.Errorf("GetLevel(2) = (%q, %q), want (%q, %q)", prefix, suffix, "(", ")")
	}

	_, _, err = a.GetLevel(3)
	if !errors.Is(err, ErrUnsupportedDepth) {
		t.Fatalf("GetLevel(3) error = %v, want ErrUnsupportedDepth", err)
	}

	var depthErr *UnsupportedDepthError
	if !errors.As(err, &depthErr) {
		t.Fatalf("GetLevel(3) error type = %T, want *UnsupportedDepthError", err)
	}
	if depthErr.Depth != 3 || depthErr.Max != MaxBoundedDepth {
		t.Errorf("UnsupportedDepthError = %+v, want Depth 3 Max %d", depthErr, MaxBoundedDepth)
	}
}

func TestGetLevel_ZeroDepth(t *testing.T) {
	for _, delims := range []Delimiters{DefaultDelimiters(), {"[", "]", "(", ")"}} {
		_, _, err := New(delims).GetLevel(0)
		if !errors.Is(err, ErrUnsupportedDepth) {
			t.Errorf("GetLevel(0) with %+v error = %v, want ErrUnsupportedDepth", delims, err)
		}
	}
}

func TestCheckLine(t *testing.T) {
	unbounded := New(DefaultDelimiters())
	bounded := New(Delimiters{"[", "]", "(", ")"})

	tests := []struct {
		name      string
		analyser  *Analyser
		line      string
		wantDepth int
		wantName  string
	}{
		{"category", unbounded, "[Key 1]", 1, "Key 1"},
		{"subcategory", unbounded, "[[Category]]", 2, "Category"},
		{"third level", unbounded, "[[[Deep]]]", 3, "Deep"},
		{"empty name", unbounded, "[]", 1, ""},
		{"content", unbounded, "Some text", 0, ""},
		{"marker inside text", unbounded, "text [Key] text", 0, ""},
		{"unclosed marker", unbounded, "[Key", 0, ""},
		{"deepest match wins", unbounded, "[[x]]", 2, "x"},
		{"mismatched depth", unbounded, "[[x]", 1, "[x"},
		{"bounded category", bounded, "[Key 2]", 1, "Key 2"},
		{"bounded subcategory", bounded, "(Category)", 2, "Category"},
		{"bounded literal parens in category", bounded, "[(x)]", 1, "(x)"},
		{"bounded content", bounded, "(not closed", 0, ""},
		{"bounded ignores deeper nesting", bounded, "[[x]]", 1, "[x]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			depth, name := tt.analyser.CheckLine(tt.line)
			if depth != tt.wantDepth || name != tt.wantName {
				t.Errorf("CheckLine(%q) = (%d, %q), want (%d, %q)", tt.line, depth, name, tt.wantDepth, tt.wantName)
			}
		})
	}
}

func TestCheckLine_RoundTripsGetLevel(t *testing.T) {
	tests := []struct {
		name   string
		delims Delimiters
	}{
		{"default brackets", DefaultDelimiters()},
		{"wrapped on both sides", Delimiters{"<", ">", "(<", ">)"}},
		{"prefix grows left, suffix grows right", Delimiters{"[", "]", "{[", "]}"}},
		{"prefix grows right, suffix grows left", Delimiters{"<", ">", "<:", ":>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(tt.delims)
			if a.Mode() != Unbounded {
				t.Fatalf("Mode() = %v, want %v", a.Mode(), Unbounded)
			}

			for depth := 1; depth <= MaxSensibleDepth; depth++ {
				prefix, suffix, err := a.GetLevel(depth)
				if err != nil {
					t.Fatalf("GetLevel(%d) error = %v", depth, err)
				}
				gotDepth, gotName := a.CheckLine(prefix + "name" + suffix)
				if gotDepth != depth || gotName != "name" {
					t.Errorf("CheckLine(%q) = (%d, %q), want (%d, %q)", prefix+"name"+suffix, gotDepth, gotName, depth, "name")
				}
			}
		})
	}
}

func TestCheckLine_OneSidedExtension(t *testing.T) {
	a := New(Delimiters{"[", "]", "{[", "]}"})

	tests := []struct {
		line      string
		wantDepth int
		wantName  string
	}{
		{"[x]", 1, "x"},
		{"{[x]}", 2, "x"},
		{"{{[x]}}", 3, "x"},
		{"{x}", 0, ""},
		{"{[x]", 0, ""},
		{"a {[x]} b", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			depth, name := a.CheckLine(tt.line)
			if depth != tt.wantDepth || name != tt.wantName {
				t.Errorf("CheckLine(%q) = (%d, %q), want (%d, %q)", tt.line, depth, name, tt.wantDepth, tt.wantName)
			}
		})
	}
}

func TestMaxDepth(t *testing.T) {
	if got := New(DefaultDelimiters()).MaxDepth(); got != MaxSensibleDepth {
		t.Errorf("unbounded MaxDepth() = %d, want %d", got, MaxSensibleDepth)
	}
	if got := New(Delimiters{"[", "]", "(", ")"}).MaxDepth(); got != MaxBoundedDepth {
		t.Errorf("bounded MaxDepth() = %d, want %d", got, MaxBoundedDepth)
	}
}
