package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase and punctuation stripping",
			input:    "URGENT: verify your OTP now!",
			expected: "urgent verify your otp now",
		},
		{
			name:     "whitespace runs collapse to single spaces",
			input:    "your  account\t\twas\n\nsuspended",
			expected: "your account was suspended",
		},
		{
			name:     "apostrophe survives the filter set",
			input:    "don't share your code",
			expected: "don't share your code",
		},
		{
			name:     "only filter characters",
			input:    "!!!...###",
			expected: "",
		},
		{
			name:     "leading and trailing noise trimmed",
			input:    "  ...win big...  ",
			expected: "win big",
		},
		{
			name:     "every filter character becomes a separator",
			input:    "a!b\"c#d$e%f&g(h)i*j+k,l-m.n/o:p;q<r=s>t?u@v[w\\x]y^z",
			expected: "a b c d e f g h i j k l m n o p q r s t u v w x y z",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestEncode_LengthInvariant(t *testing.T) {
	req := require.New(t)
	tok := New(Vocabulary{"otp": 5}, Config{MaxSeqLen: 40, OOVIndex: 1, VocabSize: 12000})

	inputs := []string{
		"",
		"otp",
		strings.Repeat("otp ", 40),
		strings.Repeat("word ", 400),
		"!!!...###",
	}
	for _, input := range inputs {
		req.Len(tok.Encode(input), 40)
	}
}

func TestEncode_EmptyAfterNormalization(t *testing.T) {
	req := require.New(t)
	tok := New(Vocabulary{"otp": 5}, Config{MaxSeqLen: 6, OOVIndex: 1, VocabSize: 12000})

	req.Equal([]int64{0, 0, 0, 0, 0, 0}, tok.Encode("!!!...###"))
}

func TestEncode_OOVFallback(t *testing.T) {
	req := require.New(t)
	tok := New(Vocabulary{"otp": 5}, Config{MaxSeqLen: 4, OOVIndex: 1, VocabSize: 12000})

	req.Equal([]int64{1, 5, 1, 0}, tok.Encode("unknown otp stranger"))
}

func TestEncode_VocabularyCapEnforcement(t *testing.T) {
	req := require.New(t)
	// "rare" is in the vocabulary but beyond the top-N cap.
	tok := New(Vocabulary{"otp": 5, "rare": 15000}, Config{MaxSeqLen: 4, OOVIndex: 1, VocabSize: 12000})

	req.Equal([]int64{5, 1, 0, 0}, tok.Encode("otp rare"))
}

func TestEncode_TruncationKeepsHead(t *testing.T) {
	req := require.New(t)
	vocab := Vocabulary{"a": 2, "b": 3, "c": 4, "d": 5, "e": 6, "f": 7, "g": 8, "h": 9}
	tok := New(vocab, Config{MaxSeqLen: 3, OOVIndex: 1, VocabSize: 12000})

	// 8 tokens against a max of 3: the last 5 are dropped, never the first.
	req.Equal([]int64{2, 3, 4}, tok.Encode("a b c d e f g h"))
}

func TestEncode_PrePadding(t *testing.T) {
	req := require.New(t)
	tok := New(Vocabulary{"otp": 5}, Config{MaxSeqLen: 5, OOVIndex: 1, VocabSize: 12000, PaddingPre: true})

	req.Equal([]int64{0, 0, 0, 5, 1}, tok.Encode("otp now"))
}

func TestEncode_EndToEndScenario(t *testing.T) {
	req := require.New(t)
	tok := New(Vocabulary{"otp": 5, "bank": 8}, Config{MaxSeqLen: 6, OOVIndex: 1, VocabSize: 12000})

	// "URGENT: verify your OTP now!" -> "urgent verify your otp now"
	// -> everything OOV except "otp", post-padded to length 6.
	req.Equal([]int64{1, 1, 1, 5, 1, 0}, tok.Encode("URGENT: verify your OTP now!"))
}

func TestEncode_EmptyVocabularyDegradesToAllOOV(t *testing.T) {
	req := require.New(t)
	tok := New(Vocabulary{}, Config{MaxSeqLen: 4, OOVIndex: 1, VocabSize: 12000})

	req.Equal([]int64{1, 1, 1, 0}, tok.Encode("verify your account"))
}

func TestNew_ZeroConfigFallsBackToDefaults(t *testing.T) {
	req := require.New(t)
	tok := New(Vocabulary{}, Config{})

	req.Equal(DefaultMaxSeqLen, tok.MaxSeqLen())
	req.Len(tok.Encode("anything"), DefaultMaxSeqLen)
}
