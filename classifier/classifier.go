package classifier

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"

	"scamguard/contract"
	"scamguard/domain"
	errs "scamguard/errors"
	"scamguard/inference"
	"scamguard/tokenizer"
)

var validate = validator.New()

const (
	DefaultModelFile      = "scam_lstm_fp16.onnx"
	DefaultVocabularyFile = "tokenizer.json"
)

// Options configures a classifier loaded from exported artifacts. Zero
// values fall back to the training-time defaults.
type Options struct {
	ArtifactDir    string `validate:"required"`
	ModelFile      string
	VocabularyFile string
	// OnnxLibraryPath points at the onnxruntime shared library, forwarded
	// to the inference engine.
	OnnxLibraryPath string
	MaxSeqLen       int   `validate:"gte=0,lte=4096"`
	OOVIndex        int64 `validate:"gte=0"`
	VocabSize       int64 `validate:"gte=0"`
	PaddingPre      bool
}

func (o *Options) applyDefaults() {
	if o.ModelFile == "" {
		o.ModelFile = DefaultModelFile
	}
	if o.VocabularyFile == "" {
		o.VocabularyFile = DefaultVocabularyFile
	}
}

// RiskClassifier is the single entry point of the scoring pipeline. The
// vocabulary and the model handle are loaded once at construction and
// shared read-only across calls, so concurrent Predict calls are safe.
type RiskClassifier struct {
	log    *slog.Logger
	tok    *tokenizer.Tokenizer
	engine contract.Engine

	closeOnce sync.Once
	closed    atomic.Bool
}

// New assembles a classifier from already-built collaborators. Used by
// Load and by tests that substitute the engine. A nil engine is the
// degraded state in which every prediction scores 0.
func New(tok *tokenizer.Tokenizer, engine contract.Engine, log *slog.Logger) *RiskClassifier {
	return &RiskClassifier{log: log, tok: tok, engine: engine}
}

// Load builds the full pipeline from exported artifacts. Artifact problems
// never fail construction: a missing or malformed vocabulary degrades to
// all-OOV encoding, a missing or malformed model degrades every
// prediction to score 0. Both are logged. Only invalid options are an
// error.
func Load(opts Options, log *slog.Logger) (*RiskClassifier, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("classifier options: %w", err)
	}
	opts.applyDefaults()

	vocabPath := filepath.Join(opts.ArtifactDir, opts.VocabularyFile)
	vocab, err := tokenizer.LoadVocabularyFile(vocabPath)
	if err != nil {
		log.Warn("vocabulary artifact unusable, every token becomes out-of-vocabulary",
			"path", vocabPath,
			"error", err)
	}

	tok := tokenizer.New(vocab, tokenizer.Config{
		MaxSeqLen:  opts.MaxSeqLen,
		OOVIndex:   opts.OOVIndex,
		VocabSize:  opts.VocabSize,
		PaddingPre: opts.PaddingPre,
	})

	modelPath := filepath.Join(opts.ArtifactDir, opts.ModelFile)
	var engine contract.Engine
	onnx, err := inference.New(inference.Options{
		ModelPath:   modelPath,
		LibraryPath: opts.OnnxLibraryPath,
		SeqLen:      tok.MaxSeqLen(),
	}, log)
	if err != nil {
		log.Warn("model artifact unusable, every prediction degrades to score 0",
			"path", modelPath,
			"error", err)
	} else {
		engine = onnx
	}

	return New(tok, engine, log), nil
}

// Score runs normalize -> encode -> infer and reports degradation
// explicitly: a nil error with Score 0 means the model genuinely rated the
// text as no risk, a non-nil error means the pipeline could not produce a
// real score.
func (c *RiskClassifier) Score(text string) (domain.Prediction, error) {
	if c.closed.Load() {
		return domain.Prediction{Degraded: true}, errs.ErrClassifierClosed
	}
	if c.engine == nil {
		return domain.Prediction{Degraded: true}, errs.ErrModelUnavailable
	}

	seq := c.tok.Encode(text)
	score, err := c.engine.Infer(seq)
	if err != nil {
		return domain.Prediction{Degraded: true}, err
	}
	return domain.Prediction{Score: inference.Clamp(score)}, nil
}

// Predict is the absorbing form of Score: every failure becomes a score of
// 0 and the result is always within [0,1]. Callers making safety-critical
// decisions should prefer Score, which keeps failures visible instead of
// reporting them as "no risk".
func (c *RiskClassifier) Predict(text string) float64 {
	prediction, err := c.Score(text)
	if err != nil {
		// The unsupported-input fallback is a defined outcome, not a fault.
		if errors.Is(err, errs.ErrUnsupportedInputType) {
			c.log.Info("prediction degraded to zero score", "error", err)
		} else {
			c.log.Warn("prediction degraded to zero score", "error", err)
		}
		return 0
	}
	return prediction.Score
}

// Close releases the model handle. Idempotent, and safe when Predict was
// never invoked. Predictions after Close fail fast with
// ErrClassifierClosed.
func (c *RiskClassifier) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		if c.engine != nil {
			err = c.engine.Close()
		}
	})
	return err
}
