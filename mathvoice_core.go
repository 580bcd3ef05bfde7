package main

// MathVoiceCore is the headless core with no UI dependencies. It owns the
// current input/output text, the voice options, and the speech engine. The
// transformer itself is pure; the core only caches its result so the socket
// and REPL surfaces can query input and output independently.
type MathVoiceCore struct {
	inputText    string
	outputText   string
	options      VoiceOptions
	convertLatex bool
	engine       SpeechEngine
}

// NewMathVoiceCore creates a core backed by the given engine. A nil engine
// falls back to spd-say from PATH.
func NewMathVoiceCore(engine SpeechEngine) *MathVoiceCore {
	if engine == nil {
		engine = NewSpdSayEngine()
	}
	return &MathVoiceCore{
		convertLatex: true,
		engine:       engine,
	}
}

// ============================================================================
// Transformation Methods
// ============================================================================

// Transform converts LaTeX markup into speakable text.
func (mv *MathVoiceCore) Transform(input string) string {
	return LatexToText(input)
}

// SetInputText sets the input text and processes it through the transformer
func (mv *MathVoiceCore) SetInputText(text string) {
	mv.inputText = text
	mv.processText()
}

// GetInputText returns the current input text
func (mv *MathVoiceCore) GetInputText() string {
	return mv.inputText
}

// GetOutputText returns the current output text
func (mv *MathVoiceCore) GetOutputText() string {
	return mv.outputText
}

// processText recomputes the output from the current input and settings
func (mv *MathVoiceCore) processText() {
	if mv.convertLatex {
		mv.outputText = LatexToText(mv.inputText)
	} else {
		mv.outputText = mv.inputText
	}
}

// ============================================================================
// Speech Methods
// ============================================================================

// Speak converts text (unless LaTeX conversion is disabled) and dispatches
// it to the engine. Empty text, before or after conversion, is a no-op.
func (mv *MathVoiceCore) Speak(text string) error {
	if mv.convertLatex {
		text = LatexToText(text)
	}
	if text == "" {
		return nil
	}
	return mv.engine.Speak(text, mv.options)
}

// SpeakOutput speaks the already-transformed output text.
func (mv *MathVoiceCore) SpeakOutput() error {
	if mv.outputText == "" {
		return nil
	}
	return mv.engine.Speak(mv.outputText, mv.options)
}

// ListVoices returns the engine's voice catalog.
func (mv *MathVoiceCore) ListVoices() (string, error) {
	return mv.engine.ListVoices()
}

// ============================================================================
// Option Methods
// ============================================================================

// SetVoiceOptions validates and stores the voice options.
func (mv *MathVoiceCore) SetVoiceOptions(opts VoiceOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	mv.options = opts
	return nil
}

// GetVoiceOptions returns the current voice options
func (mv *MathVoiceCore) GetVoiceOptions() VoiceOptions {
	return mv.options
}

// SetConvertLatex toggles LaTeX conversion and reprocesses the input
func (mv *MathVoiceCore) SetConvertLatex(enabled bool) {
	mv.convertLatex = enabled
	mv.processText()
}

// GetConvertLatex reports whether LaTeX conversion is enabled
func (mv *MathVoiceCore) GetConvertLatex() bool {
	return mv.convertLatex
}

// ============================================================================
// Extraction Methods
// ============================================================================

// ExtractFormulas harvests LaTeX formula sources from an HTML document.
func (mv *MathVoiceCore) ExtractFormulas(doc string) ([]string, error) {
	return ExtractFormulas(doc)
}
