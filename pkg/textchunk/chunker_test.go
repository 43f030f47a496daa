package textchunk

import (
	"strings"
	"testing"
)

func TestSplitShortTextSingleChunk(t *testing.T) {
	got := Split("hello world", 450)
	if len(got) != 1 || got[0] != "hello world" {
		t.Fatalf("Split() = %q, want one chunk equal to the input", got)
	}
}

func TestSplitEmptyText(t *testing.T) {
	if got := Split("", 450); got != nil {
		t.Fatalf("Split(\"\") = %q, want nil", got)
	}
}

func TestSplitPrefersSentenceBoundary(t *testing.T) {
	text := "First sentence. Second sentence is a bit longer here."
	got := Split(text, 30)
	if got[0] != "First sentence." {
		t.Fatalf("first chunk = %q, want break after the terminator", got[0])
	}
}

func TestSplitDevanagariDanda(t *testing.T) {
	text := "यह पहला वाक्य है। यह दूसरा वाक्य है। यह तीसरा वाक्य है।"
	got := Split(text, 25)
	if !strings.HasSuffix(got[0], "।") {
		t.Fatalf("first chunk = %q, want break after the danda", got[0])
	}
	if strings.Join(got, "") != text {
		t.Fatal("round trip failed for Devanagari text")
	}
}

func TestSplitFallsBackToWhitespace(t *testing.T) {
	text := "alpha beta gamma delta epsilon"
	got := Split(text, 12)
	for i, c := range got[:len(got)-1] {
		if !strings.HasSuffix(c, " ") {
			t.Fatalf("chunk %d = %q, want break after whitespace", i, c)
		}
	}
	if strings.Join(got, "") != text {
		t.Fatal("round trip failed")
	}
}

func TestSplitHardCut(t *testing.T) {
	text := strings.Repeat("x", 1000)
	got := Split(text, 450)
	if len(got) != 3 {
		t.Fatalf("len(chunks) = %d, want 3", len(got))
	}
	if len(got[0]) != 450 || len(got[1]) != 450 || len(got[2]) != 100 {
		t.Fatalf("chunk lengths = %d/%d/%d, want 450/450/100", len(got[0]), len(got[1]), len(got[2]))
	}
	if strings.Join(got, "") != text {
		t.Fatal("round trip failed")
	}
}

func TestSplitRoundTripAndBound(t *testing.T) {
	inputs := []string{
		"Hello! How are you? I am fine. Thanks for asking.",
		"गृह ऋण के लिए पात्रता क्या है। मुझे ब्याज दर बताइए॥",
		"word " + strings.Repeat("a", 600) + " tail. end",
		strings.Repeat("नमस्ते ", 200),
		"one",
	}
	for _, text := range inputs {
		for _, max := range []int{1, 5, 17, 100, 450} {
			got := Split(text, max)
			if strings.Join(got, "") != text {
				t.Fatalf("round trip failed for max=%d text=%.30q", max, text)
			}
			for i, c := range got {
				if c == "" {
					t.Fatalf("chunk %d empty for max=%d", i, max)
				}
				if n := len([]rune(c)); n > max {
					t.Fatalf("chunk %d has %d runes, want <= %d", i, n, max)
				}
			}
		}
	}
}
