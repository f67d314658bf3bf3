package tokenizer

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	errs "scamguard/errors"
)

func TestLoadVocabulary_WordIndex(t *testing.T) {
	req := require.New(t)

	artifact := `{"word_index": {"otp": 5, "bank": "8", "urgent": 2}}`
	vocab, err := LoadVocabulary(strings.NewReader(artifact))

	req.NoError(err)
	req.Equal(Vocabulary{"otp": 5, "bank": 8, "urgent": 2}, vocab)
}

func TestLoadVocabulary_WordIndex_SkipsUnparsableValues(t *testing.T) {
	req := require.New(t)

	artifact := `{"word_index": {"otp": 5, "bad": "not-a-number", "worse": [1], "frac": 2.5}}`
	vocab, err := LoadVocabulary(strings.NewReader(artifact))

	req.NoError(err)
	req.Equal(Vocabulary{"otp": 5}, vocab)
}

func TestLoadVocabulary_IndexWordFallback(t *testing.T) {
	req := require.New(t)

	artifact := `{"index_word": {"5": "otp", "8": "bank", "oops": "dropped"}}`
	vocab, err := LoadVocabulary(strings.NewReader(artifact))

	req.NoError(err)
	req.Equal(Vocabulary{"otp": 5, "bank": 8}, vocab)
}

func TestLoadVocabulary_WordIndexWinsOverIndexWord(t *testing.T) {
	req := require.New(t)

	// Both shapes present and disagreeing: only the first strategy applies.
	artifact := `{"word_index": {"otp": 5}, "index_word": {"9": "otp"}}`
	vocab, err := LoadVocabulary(strings.NewReader(artifact))

	req.NoError(err)
	req.Equal(Vocabulary{"otp": 5}, vocab)
}

func TestLoadVocabulary_EmptyWordIndexFallsThrough(t *testing.T) {
	req := require.New(t)

	artifact := `{"word_index": {}, "index_word": {"5": "otp"}}`
	vocab, err := LoadVocabulary(strings.NewReader(artifact))

	req.NoError(err)
	req.Equal(Vocabulary{"otp": 5}, vocab)
}

func TestLoadVocabulary_FlatScan(t *testing.T) {
	req := require.New(t)

	artifact := `{"otp": 5, "bank": 8, "meta": {"ignored": true}, "name": "tokenizer"}`
	vocab, err := LoadVocabulary(strings.NewReader(artifact))

	req.NoError(err)
	req.Equal(Vocabulary{"otp": 5, "bank": 8}, vocab)
}

func TestLoadVocabulary_NoEntriesIsDegradedNotFatal(t *testing.T) {
	req := require.New(t)

	vocab, err := LoadVocabulary(strings.NewReader(`{"name": "tokenizer"}`))

	req.ErrorIs(err, errs.ErrVocabularyEmpty)
	req.Empty(vocab)
	req.NotNil(vocab)
}

func TestLoadVocabulary_MalformedArtifact(t *testing.T) {
	req := require.New(t)

	vocab, err := LoadVocabulary(strings.NewReader(`{"word_index": `))

	req.Error(err)
	req.Empty(vocab)
}

func TestLoadVocabularyFile_Missing(t *testing.T) {
	req := require.New(t)

	vocab, err := LoadVocabularyFile(filepath.Join(t.TempDir(), "tokenizer.json"))

	req.Error(err)
	req.Empty(vocab)
}
