package keywords

import (
	"testing"

	"github.com/stretchr/testify/require"

	errs "scamguard/errors"
)

func TestFlagger_Flag(t *testing.T) {
	req := require.New(t)
	flagger, err := NewFlagger([]string{"gift card", "verify your otp", "you have won"})
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "plain match",
			input:    "send me a gift card today",
			expected: []string{"giftcard"},
		},
		{
			name:     "uppercase and punctuation noise",
			input:    "VERIFY... your; OTP!!",
			expected: []string{"verifyyourotp"},
		},
		{
			name:     "leet speak obfuscation",
			input:    "g1ft c4rd",
			expected: []string{"giftcard"},
		},
		{
			name:     "multiple phrases",
			input:    "you have won! claim with a gift card",
			expected: []string{"youhavewon", "giftcard"},
		},
		{
			name:     "nothing to flag",
			input:    "see you at the meeting tomorrow",
			expected: nil,
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "only noise characters",
			input:    "... ;; ...",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, flagger.Flag(tt.input))
		})
	}
}

func TestNewFlagger_RejectsEmptyPhraseList(t *testing.T) {
	req := require.New(t)

	_, err := NewFlagger(nil)
	req.ErrorIs(err, errs.ErrEmptyPhrases)
}

func TestNewFlagger_DefaultPhrases(t *testing.T) {
	req := require.New(t)

	flagger, err := NewFlagger(DefaultPhrases)
	req.NoError(err)
	req.Contains(flagger.Flag("please VERIFY your account now"), "verifyyouraccount")
}
