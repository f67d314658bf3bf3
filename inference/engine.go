package inference

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	errs "scamguard/errors"
)

// inputKind is the closed set of input element types the adapter knows how
// to feed. It is resolved once from the model metadata at load time and
// never re-inspected per call.
type inputKind int

const (
	inputUnsupported inputKind = iota
	inputInt64
	inputInt32
	inputFloat32
)

type Options struct {
	ModelPath string
	// LibraryPath points at the onnxruntime shared library. Optional when
	// the runtime environment is already initialized by the host process.
	LibraryPath  string
	SeqLen       int
	IntraThreads int
	InterThreads int
}

// Engine owns one ONNX Runtime session for the scam model. The session and
// its tensors are allocated once at load and reused on every Infer call; a
// mutex serializes calls because the tensors are shared.
type Engine struct {
	log     *slog.Logger
	kind    inputKind
	session *ort.AdvancedSession
	in64    *ort.Tensor[int64]
	in32    *ort.Tensor[int32]
	inF32   *ort.Tensor[float32]
	output  *ort.Tensor[float32]

	mu     sync.Mutex
	closed bool
}

// New loads the model artifact into a ready-to-run session. The input
// element type is inspected here and resolved to one of the supported
// variants; a model declaring anything else still loads, but every Infer
// returns 0 with ErrUnsupportedInputType. Load failures are returned as
// errors for the caller to absorb.
func New(opts Options, log *slog.Logger) (*Engine, error) {
	if opts.SeqLen <= 0 {
		return nil, fmt.Errorf("sequence length must be positive, got %d", opts.SeqLen)
	}
	if opts.LibraryPath != "" {
		ort.SetSharedLibraryPath(opts.LibraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}

	inputs, outputs, err := ort.GetInputOutputInfoWithOptions(opts.ModelPath, nil)
	if err != nil {
		return nil, fmt.Errorf("inspect model %s: %w", opts.ModelPath, err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, fmt.Errorf("model %s declares no inputs or outputs", opts.ModelPath)
	}

	kind := resolveInputKind(inputs[0].DataType)
	if kind == inputUnsupported {
		log.Info("model input element type is unsupported, every inference degrades to score 0",
			"model", opts.ModelPath,
			"type", inputs[0].DataType)
		return &Engine{log: log, kind: inputUnsupported}, nil
	}

	e := &Engine{log: log, kind: kind}
	if err := e.buildSession(opts, inputs[0], outputs[0]); err != nil {
		return nil, err
	}
	log.Debug("model loaded",
		"model", opts.ModelPath,
		"input", inputs[0].Name,
		"output", outputs[0].Name,
		"seq_len", opts.SeqLen)
	return e, nil
}

func (e *Engine) buildSession(opts Options, input, output ort.InputOutputInfo) error {
	sessOpts, err := ort.NewSessionOptions()
	if err != nil {
		return fmt.Errorf("create session options: %w", err)
	}
	defer sessOpts.Destroy()

	if err := sessOpts.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableAll); err != nil {
		return fmt.Errorf("set graph optimization: %w", err)
	}
	if opts.IntraThreads > 0 {
		if err := sessOpts.SetIntraOpNumThreads(opts.IntraThreads); err != nil {
			return fmt.Errorf("set intra threads: %w", err)
		}
	}
	if opts.InterThreads > 0 {
		if err := sessOpts.SetInterOpNumThreads(opts.InterThreads); err != nil {
			return fmt.Errorf("set inter threads: %w", err)
		}
	}

	inputShape := ort.NewShape(1, int64(opts.SeqLen))
	var inputValue ort.Value
	switch e.kind {
	case inputInt64:
		e.in64, err = ort.NewEmptyTensor[int64](inputShape)
		inputValue = e.in64
	case inputInt32:
		e.in32, err = ort.NewEmptyTensor[int32](inputShape)
		inputValue = e.in32
	case inputFloat32:
		e.inF32, err = ort.NewEmptyTensor[float32](inputShape)
		inputValue = e.inF32
	}
	if err != nil {
		return fmt.Errorf("allocate input tensor: %w", err)
	}

	e.output, err = ort.NewEmptyTensor[float32](outputShape(output.Dimensions))
	if err != nil {
		e.destroyTensors()
		return fmt.Errorf("allocate output tensor: %w", err)
	}

	e.session, err = ort.NewAdvancedSession(
		opts.ModelPath,
		[]string{input.Name},
		[]string{output.Name},
		[]ort.Value{inputValue},
		[]ort.Value{e.output},
		sessOpts,
	)
	if err != nil {
		e.destroyTensors()
		return fmt.Errorf("create onnx session: %w", err)
	}
	return nil
}

// Infer feeds one encoded sequence to the model and returns the scalar
// output clamped to [0,1]. The sequence is converted to the input element
// type resolved at load.
func (e *Engine) Infer(seq []int64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return 0, errs.ErrEngineClosed
	}
	switch e.kind {
	case inputUnsupported:
		return 0, errs.ErrUnsupportedInputType
	case inputInt64:
		fillInt64(e.in64.GetData(), seq)
	case inputInt32:
		fillInt32(e.in32.GetData(), seq)
	case inputFloat32:
		fillFloat32(e.inF32.GetData(), seq)
	}

	if err := e.session.Run(); err != nil {
		return 0, fmt.Errorf("%w: %v", errs.ErrInferenceFailed, err)
	}
	raw := e.output.GetData()
	if len(raw) == 0 {
		return 0, fmt.Errorf("%w: model produced no output", errs.ErrInferenceFailed)
	}
	return Clamp(float64(raw[0])), nil
}

// Close destroys the session and its tensors. Safe to call more than once
// and safe when Infer was never invoked.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	if e.session != nil {
		_ = e.session.Destroy()
		e.session = nil
	}
	e.destroyTensors()
	return nil
}

func (e *Engine) destroyTensors() {
	if e.in64 != nil {
		_ = e.in64.Destroy()
		e.in64 = nil
	}
	if e.in32 != nil {
		_ = e.in32.Destroy()
		e.in32 = nil
	}
	if e.inF32 != nil {
		_ = e.inF32.Destroy()
		e.inF32 = nil
	}
	if e.output != nil {
		_ = e.output.Destroy()
		e.output = nil
	}
}

func resolveInputKind(t ort.TensorElementDataType) inputKind {
	switch t {
	case ort.TensorElementDataTypeInt64:
		return inputInt64
	case ort.TensorElementDataTypeInt32:
		return inputInt32
	case ort.TensorElementDataTypeFloat:
		return inputFloat32
	default:
		return inputUnsupported
	}
}

// outputShape concretizes the declared output dimensions; symbolic batch
// or sequence dimensions become 1 since we only ever run single rows.
func outputShape(dims []int64) ort.Shape {
	if len(dims) == 0 {
		return ort.NewShape(1, 1)
	}
	shape := make([]int64, len(dims))
	for i, d := range dims {
		if d <= 0 {
			d = 1
		}
		shape[i] = d
	}
	return ort.Shape(shape)
}

// Clamp bounds a raw model output to a valid probability. NaN collapses to
// 0, the conservative end of the range.
func Clamp(score float64) float64 {
	if math.IsNaN(score) {
		return 0
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func fillInt64(dst, seq []int64) {
	for i := range dst {
		if i < len(seq) {
			dst[i] = seq[i]
		} else {
			dst[i] = 0
		}
	}
}

func fillInt32(dst []int32, seq []int64) {
	for i := range dst {
		if i < len(seq) {
			dst[i] = int32(seq[i])
		} else {
			dst[i] = 0
		}
	}
}

func fillFloat32(dst []float32, seq []int64) {
	for i := range dst {
		if i < len(seq) {
			dst[i] = float32(seq[i])
		} else {
			dst[i] = 0
		}
	}
}
