package lexer

import (
	"testing"

	"vcffilter/internal/token"
)

func allTokens(t *testing.T, src string) []Token {
	t.Helper()
	l := New(src)
	var out []Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("Next(%q): %v", src, err)
		}
		if tok.Kind == token.EOF {
			return out
		}
		out = append(out, tok)
	}
}

func TestScanOperators(t *testing.T) {
	cases := []struct {
		src  string
		want []token.Kind
	}{
		{"<", []token.Kind{token.Lt}},
		{"<=", []token.Kind{token.Le}},
		{"==", []token.Kind{token.Eq}},
		{"=", []token.Kind{token.Eq}},
		{"!=", []token.Kind{token.Ne}},
		{"&&", []token.Kind{token.AndVec}},
		{"||", []token.Kind{token.OrVec}},
		{"& |", []token.Kind{token.And, token.Or}},
		{"(1)", []token.Kind{token.LeftParen, token.Value, token.RightParen}},
	}
	for _, c := range cases {
		toks := allTokens(t, c.src)
		if len(toks) != len(c.want) {
			t.Fatalf("%q: got %d tokens, want %d", c.src, len(toks), len(c.want))
		}
		for i, k := range c.want {
			if toks[i].Kind != k {
				t.Errorf("%q: token %d kind = %v, want %v", c.src, i, toks[i].Kind, k)
			}
		}
	}
}

func TestScanNumber(t *testing.T) {
	cases := []string{"10", "0.5", "1e10", "1.5e-3", ".5"}
	for _, src := range cases {
		toks := allTokens(t, src)
		if len(toks) != 1 || toks[0].Kind != token.Value {
			t.Fatalf("%q: expected single Value token, got %+v", src, toks)
		}
		if toks[0].Text != src {
			t.Errorf("%q: Text = %q, want %q", src, toks[0].Text, src)
		}
	}
}

func TestScanString(t *testing.T) {
	toks := allTokens(t, `"snp"`)
	if len(toks) != 1 {
		t.Fatalf("expected 1 token, got %d", len(toks))
	}
	tok := toks[0]
	if !tok.Quoted {
		t.Error("expected Quoted = true")
	}
	if tok.Text != "snp" {
		t.Errorf("Text = %q, want %q", tok.Text, "snp")
	}
}

func TestScanStringUnterminated(t *testing.T) {
	l := New(`"snp`)
	if _, err := l.Next(); err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestScanIdentifierWithNamespace(t *testing.T) {
	cases := []string{"INFO/DP", "FORMAT/GQ", "FMT/GT", "%QUAL", "%TYPE", "%FILTER"}
	for _, src := range cases {
		toks := allTokens(t, src)
		if len(toks) != 1 || toks[0].Kind != token.Value {
			t.Fatalf("%q: expected single Value token, got %+v", src, toks)
		}
		if toks[0].Text != src {
			t.Errorf("%q: Text = %q, want %q", src, toks[0].Text, src)
		}
		if toks[0].Quoted {
			t.Errorf("%q: unexpected Quoted = true", src)
		}
	}
}

func TestScanFunctionPrefix(t *testing.T) {
	cases := []struct {
		src  string
		kind token.Kind
	}{
		{"%MAX(GQ)", token.Max},
		{"%MIN(GQ)", token.Min},
		{"%AVG(GQ)", token.Avg},
	}
	for _, c := range cases {
		toks := allTokens(t, c.src)
		if len(toks) < 2 {
			t.Fatalf("%q: expected at least 2 tokens, got %d", c.src, len(toks))
		}
		if toks[0].Kind != c.kind {
			t.Errorf("%q: first token kind = %v, want %v", c.src, toks[0].Kind, c.kind)
		}
		if toks[1].Kind != token.LeftParen {
			t.Errorf("%q: second token kind = %v, want LeftParen", c.src, toks[1].Kind)
		}
	}
}

func TestScanNumberFallsBackToIdentifier(t *testing.T) {
	// "10x" isn't a clean numeric literal, so it must scan as one identifier.
	toks := allTokens(t, "10x")
	if len(toks) != 1 || toks[0].Kind != token.Value {
		t.Fatalf("expected single Value token, got %+v", toks)
	}
	if toks[0].Text != "10x" {
		t.Errorf("Text = %q, want %q", toks[0].Text, "10x")
	}
}

func TestOffsetsTrackPosition(t *testing.T) {
	toks := allTokens(t, "DP > 10")
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(toks))
	}
	want := []int{0, 3, 5}
	for i, off := range want {
		if toks[i].Offset != off {
			t.Errorf("token %d offset = %d, want %d", i, toks[i].Offset, off)
		}
	}
}
