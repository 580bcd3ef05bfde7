package main

// MathVoiceCommands defines the interface for all mathvoice operations.
// Both MathVoiceCore (direct implementation) and SocketClientCommands
// (socket wrapper) implement this interface, ensuring feature parity between
// in-process and socket-based access.
type MathVoiceCommands interface {
	// =========================================================================
	// Transformation - LaTeX to speakable text
	// =========================================================================

	// Transform converts LaTeX markup into speakable text. Total over all
	// inputs; it never fails.
	Transform(input string) string

	// SetInputText stores the input text and runs it through the transformer
	SetInputText(text string)

	// GetInputText returns the current input text
	GetInputText() string

	// GetOutputText returns the transformed text for the current input
	GetOutputText() string

	// =========================================================================
	// Speech - dispatch to the external engine
	// =========================================================================

	// Speak converts text (unless conversion is disabled) and speaks it
	Speak(text string) error

	// SpeakOutput speaks the current output text
	SpeakOutput() error

	// ListVoices returns the engine-reported voice catalog
	ListVoices() (string, error)

	// =========================================================================
	// Options
	// =========================================================================

	// SetVoiceOptions replaces the voice options used for speaking
	SetVoiceOptions(opts VoiceOptions) error

	// GetVoiceOptions returns the current voice options
	GetVoiceOptions() VoiceOptions

	// SetConvertLatex toggles LaTeX conversion before speaking
	SetConvertLatex(enabled bool)

	// GetConvertLatex reports whether LaTeX conversion is enabled
	GetConvertLatex() bool

	// =========================================================================
	// Extraction - harvest formulas from documents
	// =========================================================================

	// ExtractFormulas harvests LaTeX formula sources from an HTML document
	ExtractFormulas(doc string) ([]string, error)
}
