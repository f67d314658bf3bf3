package main

type Config struct {
	ArtifactDir     string `env:"ARTIFACT_DIR,default=artifacts"`
	ModelFile       string `env:"MODEL_FILE"`
	VocabularyFile  string `env:"VOCABULARY_FILE"`
	OnnxLibraryPath string `env:"ONNXRUNTIME_SHARED_LIBRARY_PATH"`

	MaxSeqLen  int   `env:"MAX_SEQ_LEN,default=40"`
	OOVIndex   int64 `env:"OOV_INDEX,default=1"`
	VocabSize  int64 `env:"VOCAB_SIZE,default=12000"`
	PaddingPre bool  `env:"PADDING_PRE,default=false"`

	BadgerFilepath string `env:"BADGER_FILEPATH,default=data/history"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,default=data/index"`
	LogLevel       string `env:"LOG_LEVEL,default=info"`
}
