package tokenizer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	errs "scamguard/errors"
)

// Vocabulary maps a normalized word token to its training-time index.
// Built once, never mutated afterwards. An empty vocabulary is a valid
// degraded state: every lookup becomes out-of-vocabulary.
type Vocabulary map[string]int64

// LoadVocabulary parses an exported tokenizer artifact. The artifact is a
// JSON object carrying the mapping under one of three shapes, tried in
// order; the first shape that yields entries wins and parsing stops there:
//
//  1. a "word_index" object (token -> index, values may be numbers or
//     numeric strings),
//  2. an "index_word" object (index -> token), inverted,
//  3. top-level fields whose values are integers, field name as token.
//
// When no shape yields entries the returned vocabulary is empty and the
// error explains why; callers that can live with an all-OOV pipeline are
// expected to log it and carry on.
func LoadVocabulary(r io.Reader) (Vocabulary, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("read vocabulary artifact: %w", err)
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return Vocabulary{}, fmt.Errorf("parse vocabulary artifact: %w", err)
	}

	if raw, ok := root["word_index"]; ok {
		if vocab := parseWordIndex(raw); len(vocab) > 0 {
			return vocab, nil
		}
	}
	if raw, ok := root["index_word"]; ok {
		if vocab := parseIndexWord(raw); len(vocab) > 0 {
			return vocab, nil
		}
	}
	if vocab := parseFlat(root); len(vocab) > 0 {
		return vocab, nil
	}
	return Vocabulary{}, errs.ErrVocabularyEmpty
}

// LoadVocabularyFile opens and parses the artifact at path. A missing file
// degrades to an empty vocabulary like any other load failure.
func LoadVocabularyFile(path string) (Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("open vocabulary artifact: %w", err)
	}
	defer f.Close()
	return LoadVocabulary(f)
}

func parseWordIndex(raw json.RawMessage) Vocabulary {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	vocab := make(Vocabulary, len(entries))
	for word, value := range entries {
		if idx, ok := parseIndex(value); ok {
			vocab[word] = idx
		}
	}
	return vocab
}

func parseIndexWord(raw json.RawMessage) Vocabulary {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	vocab := make(Vocabulary, len(entries))
	for key, value := range entries {
		idx, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil {
			continue
		}
		var word string
		if err := json.Unmarshal(value, &word); err != nil {
			continue
		}
		vocab[word] = idx
	}
	return vocab
}

func parseFlat(root map[string]json.RawMessage) Vocabulary {
	vocab := make(Vocabulary, len(root))
	for word, value := range root {
		var idx int64
		if err := json.Unmarshal(value, &idx); err != nil {
			continue
		}
		vocab[word] = idx
	}
	return vocab
}

// parseIndex accepts both native JSON integers and numeric strings, the
// two encodings seen in exported word_index fields.
func parseIndex(raw json.RawMessage) (int64, bool) {
	var asInt int64
	if err := json.Unmarshal(raw, &asInt); err == nil {
		return asInt, true
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if idx, err := strconv.ParseInt(strings.TrimSpace(asString), 10, 64); err == nil {
			return idx, true
		}
	}
	return 0, false
}
