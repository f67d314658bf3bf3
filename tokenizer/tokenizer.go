package tokenizer

import "strings"

// filters is the training-time character filter set. It is a literal
// contract with the exported tokenizer: any deviation changes which tokens
// the vocabulary recognizes. Note the apostrophe is not in the set.
const filters = "!\"#$%&()*+,-./:;<=>?@[\\]^_`{|}~\t\n"

const (
	DefaultMaxSeqLen = 40
	DefaultOOVIndex  = 1
	DefaultVocabSize = 12000
)

// Config fixes the sequence shape the model was trained with.
type Config struct {
	MaxSeqLen int
	OOVIndex  int64
	VocabSize int64
	// PaddingPre right-aligns tokens and pads with leading zeros. The
	// default (false) pads after the tokens.
	PaddingPre bool
}

func DefaultConfig() Config {
	return Config{
		MaxSeqLen: DefaultMaxSeqLen,
		OOVIndex:  DefaultOOVIndex,
		VocabSize: DefaultVocabSize,
	}
}

// Normalize reproduces the training-time text cleaning: Unicode lowercase,
// filter characters replaced by spaces, whitespace runs collapsed, ends
// trimmed.
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if strings.ContainsRune(filters, r) {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenizer turns raw text into the fixed-length integer sequence the
// model consumes. It holds the vocabulary and shape read-only, so a single
// instance is safe to share across calls.
type Tokenizer struct {
	vocab Vocabulary
	cfg   Config
}

func New(vocab Vocabulary, cfg Config) *Tokenizer {
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = DefaultMaxSeqLen
	}
	if cfg.OOVIndex <= 0 {
		cfg.OOVIndex = DefaultOOVIndex
	}
	if cfg.VocabSize <= 0 {
		cfg.VocabSize = DefaultVocabSize
	}
	return &Tokenizer{vocab: vocab, cfg: cfg}
}

// Encode returns a sequence of exactly MaxSeqLen entries: vocabulary
// indices for known tokens, the OOV index for unknown ones or for indices
// at or beyond the vocabulary size cap, and zero padding. Texts longer
// than MaxSeqLen keep their first MaxSeqLen tokens; the tail is dropped.
func (t *Tokenizer) Encode(text string) []int64 {
	seq := make([]int64, t.cfg.MaxSeqLen)

	normalized := Normalize(text)
	if normalized == "" {
		return seq
	}

	words := strings.Split(normalized, " ")
	indices := make([]int64, 0, len(words))
	for _, word := range words {
		if word == "" {
			continue
		}
		idx, ok := t.vocab[word]
		if !ok || idx >= t.cfg.VocabSize {
			idx = t.cfg.OOVIndex
		}
		indices = append(indices, idx)
	}

	if len(indices) > t.cfg.MaxSeqLen {
		indices = indices[:t.cfg.MaxSeqLen]
	}
	if t.cfg.PaddingPre {
		copy(seq[t.cfg.MaxSeqLen-len(indices):], indices)
	} else {
		copy(seq, indices)
	}
	return seq
}

// MaxSeqLen exposes the configured sequence length for collaborators that
// must allocate matching tensors.
func (t *Tokenizer) MaxSeqLen() int {
	return t.cfg.MaxSeqLen
}
