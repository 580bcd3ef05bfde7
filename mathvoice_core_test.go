package main

import (
	"encoding/json"
	"strings"
	"testing"
)

// recordingEngine captures Speak calls so tests can inspect what the core
// would have dispatched, without invoking spd-say.
type recordingEngine struct {
	spoken  []string
	options []VoiceOptions
	voices  string
	err     error
}

func (e *recordingEngine) Speak(text string, opts VoiceOptions) error {
	if e.err != nil {
		return e.err
	}
	e.spoken = append(e.spoken, text)
	e.options = append(e.options, opts)
	return nil
}

func (e *recordingEngine) ListVoices() (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return e.voices, nil
}

// ============================================================================
// Text Processing Tests
// ============================================================================

// TestCoreSetInputText tests that setting input recomputes the output
func TestCoreSetInputText(t *testing.T) {
	core := NewMathVoiceCore(&recordingEngine{})

	core.SetInputText(`\frac{a}{b}`)

	if core.GetInputText() != `\frac{a}{b}` {
		t.Errorf("Expected input preserved, got '%s'", core.GetInputText())
	}
	if core.GetOutputText() != "fraction, numerator a, denominator b" {
		t.Errorf("Unexpected output: '%s'", core.GetOutputText())
	}
}

// TestCoreTransform tests that Transform does not touch the stored input
func TestCoreTransform(t *testing.T) {
	core := NewMathVoiceCore(&recordingEngine{})
	core.SetInputText("x")

	got := core.Transform(`a + b`)
	if got != "a plus b" {
		t.Errorf("Expected 'a plus b', got '%s'", got)
	}

	if core.GetInputText() != "x" {
		t.Errorf("Transform should not modify stored input, got '%s'", core.GetInputText())
	}
}

// TestCoreConvertLatexToggle tests that toggling conversion reprocesses input
func TestCoreConvertLatexToggle(t *testing.T) {
	core := NewMathVoiceCore(&recordingEngine{})

	if !core.GetConvertLatex() {
		t.Fatal("Conversion should be enabled by default")
	}

	core.SetInputText(`\alpha`)
	if core.GetOutputText() != "alpha" {
		t.Errorf("Expected 'alpha', got '%s'", core.GetOutputText())
	}

	core.SetConvertLatex(false)
	if core.GetOutputText() != `\alpha` {
		t.Errorf("Expected raw input with conversion off, got '%s'", core.GetOutputText())
	}

	core.SetConvertLatex(true)
	if core.GetOutputText() != "alpha" {
		t.Errorf("Expected 'alpha' after re-enabling, got '%s'", core.GetOutputText())
	}
}

// ============================================================================
// Speech Tests
// ============================================================================

// TestCoreSpeakConverts tests that Speak converts LaTeX before dispatching
func TestCoreSpeakConverts(t *testing.T) {
	engine := &recordingEngine{}
	core := NewMathVoiceCore(engine)

	if err := core.Speak(`x^2`); err != nil {
		t.Fatalf("Speak failed: %v", err)
	}

	if len(engine.spoken) != 1 {
		t.Fatalf("Expected 1 spoken text, got %d", len(engine.spoken))
	}
	if engine.spoken[0] != "x to the power of 2" {
		t.Errorf("Expected converted text, got '%s'", engine.spoken[0])
	}
}

// TestCoreSpeakRaw tests that Speak passes text through with conversion off
func TestCoreSpeakRaw(t *testing.T) {
	engine := &recordingEngine{}
	core := NewMathVoiceCore(engine)
	core.SetConvertLatex(false)

	if err := core.Speak("hello world"); err != nil {
		t.Fatalf("Speak failed: %v", err)
	}

	if len(engine.spoken) != 1 || engine.spoken[0] != "hello world" {
		t.Errorf("Expected raw text dispatched, got %v", engine.spoken)
	}
}

// TestCoreSpeakEmptyIsNoOp tests that empty text never reaches the engine
func TestCoreSpeakEmptyIsNoOp(t *testing.T) {
	engine := &recordingEngine{}
	core := NewMathVoiceCore(engine)

	if err := core.Speak(""); err != nil {
		t.Fatalf("Speak of empty text should succeed, got: %v", err)
	}
	// Whitespace-only input converts to empty text.
	if err := core.Speak("   "); err != nil {
		t.Fatalf("Speak of whitespace should succeed, got: %v", err)
	}

	if len(engine.spoken) != 0 {
		t.Errorf("Engine should not have been called, got %v", engine.spoken)
	}
}

// TestCoreSpeakOutput tests speaking the cached output text
func TestCoreSpeakOutput(t *testing.T) {
	engine := &recordingEngine{}
	core := NewMathVoiceCore(engine)

	// Empty output is a no-op.
	if err := core.SpeakOutput(); err != nil {
		t.Fatalf("SpeakOutput with no input should succeed, got: %v", err)
	}
	if len(engine.spoken) != 0 {
		t.Fatal("Engine should not have been called yet")
	}

	core.SetInputText(`a = b`)
	if err := core.SpeakOutput(); err != nil {
		t.Fatalf("SpeakOutput failed: %v", err)
	}

	if len(engine.spoken) != 1 || engine.spoken[0] != "a equals b" {
		t.Errorf("Expected 'a equals b' dispatched, got %v", engine.spoken)
	}
}

// TestCoreSpeakUsesOptions tests that stored options reach the engine
func TestCoreSpeakUsesOptions(t *testing.T) {
	engine := &recordingEngine{}
	core := NewMathVoiceCore(engine)

	rate := 20
	opts := VoiceOptions{Voice: "male1", Lang: "en", Rate: &rate}
	if err := core.SetVoiceOptions(opts); err != nil {
		t.Fatalf("SetVoiceOptions failed: %v", err)
	}

	if err := core.Speak("x"); err != nil {
		t.Fatalf("Speak failed: %v", err)
	}

	if len(engine.options) != 1 {
		t.Fatalf("Expected 1 options record, got %d", len(engine.options))
	}
	got := engine.options[0]
	if got.Voice != "male1" || got.Lang != "en" || got.Rate == nil || *got.Rate != 20 {
		t.Errorf("Options not propagated: %+v", got)
	}
}

// TestCoreSetVoiceOptionsRejectsInvalid tests validation on option updates
func TestCoreSetVoiceOptionsRejectsInvalid(t *testing.T) {
	core := NewMathVoiceCore(&recordingEngine{})

	rate := 150
	err := core.SetVoiceOptions(VoiceOptions{Rate: &rate})
	if err == nil {
		t.Fatal("Expected error for out-of-range rate")
	}

	// Rejected options must not replace the stored ones.
	if core.GetVoiceOptions().Rate != nil {
		t.Errorf("Invalid options should not be stored: %+v", core.GetVoiceOptions())
	}
}

// TestCoreListVoices tests that ListVoices delegates to the engine
func TestCoreListVoices(t *testing.T) {
	engine := &recordingEngine{voices: "NAME LANGUAGE VARIANT\nafrikaans af none"}
	core := NewMathVoiceCore(engine)

	voices, err := core.ListVoices()
	if err != nil {
		t.Fatalf("ListVoices failed: %v", err)
	}
	if !strings.Contains(voices, "afrikaans") {
		t.Errorf("Expected engine voice list, got '%s'", voices)
	}
}

// ============================================================================
// Command Execution Tests
// ============================================================================

// TestExecuteCommandTransform tests the transform command round-trip
func TestExecuteCommandTransform(t *testing.T) {
	core := NewMathVoiceCore(&recordingEngine{})

	respJSON := core.ExecuteCommand(`{"action":"transform","params":{"text":"x^2 + y^2"}}`)

	var resp Response
	if err := json.Unmarshal([]byte(respJSON), &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if !resp.Success {
		t.Fatalf("Transform command failed: %s", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("Unexpected result type: %T", resp.Result)
	}
	if result["text"] != "x to the power of 2 plus y to the power of 2" {
		t.Errorf("Unexpected transform result: %v", result["text"])
	}
}

// TestExecuteCommandInputOutput tests set_input_text then get_output_text
func TestExecuteCommandInputOutput(t *testing.T) {
	core := NewMathVoiceCore(&recordingEngine{})

	respJSON := core.ExecuteCommand(`{"action":"set_input_text","params":{"text":"\\pi"}}`)
	var resp Response
	if err := json.Unmarshal([]byte(respJSON), &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if !resp.Success {
		t.Fatalf("set_input_text failed: %s", resp.Error)
	}

	respJSON = core.ExecuteCommand(`{"action":"get_output_text","params":{}}`)
	if err := json.Unmarshal([]byte(respJSON), &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if !resp.Success {
		t.Fatalf("get_output_text failed: %s", resp.Error)
	}

	result := resp.Result.(map[string]interface{})
	if result["output"] != "pi" {
		t.Errorf("Expected output 'pi', got %v", result["output"])
	}
}

// TestExecuteCommandVoiceOptions tests set_voice_options and get_voice_options
func TestExecuteCommandVoiceOptions(t *testing.T) {
	core := NewMathVoiceCore(&recordingEngine{})

	respJSON := core.ExecuteCommand(`{"action":"set_voice_options","params":{"voice":"female2","rate":-10}}`)
	var resp Response
	if err := json.Unmarshal([]byte(respJSON), &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if !resp.Success {
		t.Fatalf("set_voice_options failed: %s", resp.Error)
	}

	opts := core.GetVoiceOptions()
	if opts.Voice != "female2" {
		t.Errorf("Expected voice 'female2', got '%s'", opts.Voice)
	}
	if opts.Rate == nil || *opts.Rate != -10 {
		t.Errorf("Expected rate -10, got %v", opts.Rate)
	}
	if opts.Pitch != nil {
		t.Errorf("Pitch was never set, got %v", *opts.Pitch)
	}
}

// TestExecuteCommandVoiceOptionsInvalid tests rejection of invalid options
func TestExecuteCommandVoiceOptionsInvalid(t *testing.T) {
	core := NewMathVoiceCore(&recordingEngine{})

	respJSON := core.ExecuteCommand(`{"action":"set_voice_options","params":{"pitch":300}}`)
	var resp Response
	if err := json.Unmarshal([]byte(respJSON), &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if resp.Success {
		t.Fatal("Expected error response for out-of-range pitch")
	}
	if resp.Error == "" {
		t.Error("Error response should carry a message")
	}
}

// TestExecuteCommandConvertLatex tests the conversion toggle commands
func TestExecuteCommandConvertLatex(t *testing.T) {
	core := NewMathVoiceCore(&recordingEngine{})

	core.ExecuteCommand(`{"action":"set_convert_latex","params":{"enabled":false}}`)
	if core.GetConvertLatex() {
		t.Fatal("Conversion should be disabled")
	}

	respJSON := core.ExecuteCommand(`{"action":"get_convert_latex","params":{}}`)
	var resp Response
	if err := json.Unmarshal([]byte(respJSON), &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	result := resp.Result.(map[string]interface{})
	if enabled, ok := result["enabled"].(bool); !ok || enabled {
		t.Errorf("Expected enabled=false, got %v", result["enabled"])
	}
}

// TestExecuteCommandSpeak tests the speak command against the stub engine
func TestExecuteCommandSpeak(t *testing.T) {
	engine := &recordingEngine{}
	core := NewMathVoiceCore(engine)

	respJSON := core.ExecuteCommand(`{"action":"speak","params":{"text":"a \\leq b"}}`)
	var resp Response
	if err := json.Unmarshal([]byte(respJSON), &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if !resp.Success {
		t.Fatalf("speak failed: %s", resp.Error)
	}

	if len(engine.spoken) != 1 || engine.spoken[0] != "a less than or equal to b" {
		t.Errorf("Unexpected dispatched text: %v", engine.spoken)
	}
}

// TestExecuteCommandExtractFormulas tests the extract_formulas command
func TestExecuteCommandExtractFormulas(t *testing.T) {
	core := NewMathVoiceCore(&recordingEngine{})

	cmd := map[string]interface{}{
		"action": "extract_formulas",
		"params": map[string]interface{}{
			"document": `<p>Then $E = mc^2$ holds.</p>`,
		},
	}
	cmdJSON, _ := json.Marshal(cmd)

	respJSON := core.ExecuteCommand(string(cmdJSON))
	var resp Response
	if err := json.Unmarshal([]byte(respJSON), &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if !resp.Success {
		t.Fatalf("extract_formulas failed: %s", resp.Error)
	}

	result := resp.Result.(map[string]interface{})
	formulas, ok := result["formulas"].([]interface{})
	if !ok || len(formulas) != 1 {
		t.Fatalf("Expected 1 formula, got %v", result["formulas"])
	}
	if formulas[0] != "E = mc^2" {
		t.Errorf("Expected 'E = mc^2', got %v", formulas[0])
	}
}

// TestExecuteCommandInvalidJSON tests the malformed-command path
func TestExecuteCommandInvalidJSON(t *testing.T) {
	core := NewMathVoiceCore(&recordingEngine{})

	respJSON := core.ExecuteCommand(`{not json`)
	var resp Response
	if err := json.Unmarshal([]byte(respJSON), &resp); err != nil {
		t.Fatalf("Error response is not valid JSON: %v", err)
	}
	if resp.Success {
		t.Fatal("Expected failure for invalid JSON")
	}
	if !strings.Contains(resp.Error, "Invalid JSON") {
		t.Errorf("Unexpected error message: %s", resp.Error)
	}
}

// TestExecuteCommandUnknownAction tests the unknown-action path
func TestExecuteCommandUnknownAction(t *testing.T) {
	core := NewMathVoiceCore(&recordingEngine{})

	respJSON := core.ExecuteCommand(`{"action":"launch_missiles","params":{}}`)
	var resp Response
	if err := json.Unmarshal([]byte(respJSON), &resp); err != nil {
		t.Fatalf("Error response is not valid JSON: %v", err)
	}
	if resp.Success {
		t.Fatal("Expected failure for unknown action")
	}
	if !strings.Contains(resp.Error, "Unknown action") {
		t.Errorf("Unexpected error message: %s", resp.Error)
	}
}
