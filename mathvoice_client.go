package main

import (
	"encoding/json"
	"fmt"
	"log"
)

// SocketClientCommands wraps a SocketClient to implement the MathVoiceCommands
// interface. This allows the REPL to use the same interface whether connected
// to a socket server or using MathVoiceCore directly.
type SocketClientCommands struct {
	client *SocketClient
}

// NewSocketClientCommands creates a new socket client wrapper
func NewSocketClientCommands(client *SocketClient) *SocketClientCommands {
	return &SocketClientCommands{client: client}
}

// execute marshals and sends a command, returning the parsed response
func (s *SocketClientCommands) execute(action string, params map[string]interface{}) (map[string]interface{}, error) {
	if params == nil {
		params = map[string]interface{}{}
	}
	cmdJSON, _ := json.Marshal(map[string]interface{}{
		"action": action,
		"params": params,
	})
	return s.client.Execute(string(cmdJSON))
}

// resultField extracts a named field from a successful response
func resultField(resp map[string]interface{}, field string) (interface{}, bool) {
	if success, ok := resp["success"].(bool); ok && success {
		if result, ok := resp["result"].(map[string]interface{}); ok {
			val, ok := result[field]
			return val, ok
		}
	}
	return nil, false
}

// responseError turns a failed response into an error value
func responseError(action string, resp map[string]interface{}) error {
	if errMsg, ok := resp["error"].(string); ok {
		return fmt.Errorf("%s error: %s", action, errMsg)
	}
	return fmt.Errorf("%s failed with unknown error", action)
}

// ============================================================================
// Transformation Methods
// ============================================================================

// Transform implements MathVoiceCommands.Transform
func (s *SocketClientCommands) Transform(input string) string {
	resp, err := s.execute("transform", map[string]interface{}{
		"text": input,
	})
	if err != nil {
		log.Printf("Transform socket error: %v", err)
		return ""
	}

	if val, ok := resultField(resp, "text"); ok {
		if text, ok := val.(string); ok {
			return text
		}
	}

	return ""
}

// SetInputText implements MathVoiceCommands.SetInputText
func (s *SocketClientCommands) SetInputText(text string) {
	_, err := s.execute("set_input_text", map[string]interface{}{
		"text": text,
	})
	if err != nil {
		log.Printf("SetInputText socket error: %v", err)
	}
}

// GetInputText implements MathVoiceCommands.GetInputText
func (s *SocketClientCommands) GetInputText() string {
	resp, err := s.execute("get_input_text", nil)
	if err != nil {
		log.Printf("GetInputText socket error: %v", err)
		return ""
	}

	if val, ok := resultField(resp, "text"); ok {
		if text, ok := val.(string); ok {
			return text
		}
	}

	return ""
}

// GetOutputText implements MathVoiceCommands.GetOutputText
func (s *SocketClientCommands) GetOutputText() string {
	resp, err := s.execute("get_output_text", nil)
	if err != nil {
		log.Printf("GetOutputText socket error: %v", err)
		return ""
	}

	if val, ok := resultField(resp, "output"); ok {
		if output, ok := val.(string); ok {
			return output
		}
	}

	return ""
}

// ============================================================================
// Speech Methods
// ============================================================================

// Speak implements MathVoiceCommands.Speak
func (s *SocketClientCommands) Speak(text string) error {
	resp, err := s.execute("speak", map[string]interface{}{
		"text": text,
	})
	if err != nil {
		return fmt.Errorf("socket error: %w", err)
	}

	if success, ok := resp["success"].(bool); ok && success {
		return nil
	}

	return responseError("speak", resp)
}

// SpeakOutput implements MathVoiceCommands.SpeakOutput
func (s *SocketClientCommands) SpeakOutput() error {
	resp, err := s.execute("speak_output", nil)
	if err != nil {
		return fmt.Errorf("socket error: %w", err)
	}

	if success, ok := resp["success"].(bool); ok && success {
		return nil
	}

	return responseError("speak_output", resp)
}

// ListVoices implements MathVoiceCommands.ListVoices
func (s *SocketClientCommands) ListVoices() (string, error) {
	resp, err := s.execute("list_voices", nil)
	if err != nil {
		return "", fmt.Errorf("socket error: %w", err)
	}

	if val, ok := resultField(resp, "voices"); ok {
		if voices, ok := val.(string); ok {
			return voices, nil
		}
	}

	return "", responseError("list_voices", resp)
}

// ============================================================================
// Option Methods
// ============================================================================

// SetVoiceOptions implements MathVoiceCommands.SetVoiceOptions
func (s *SocketClientCommands) SetVoiceOptions(opts VoiceOptions) error {
	params := map[string]interface{}{
		"voice":  opts.Voice,
		"lang":   opts.Lang,
		"module": opts.Module,
	}
	if opts.Rate != nil {
		params["rate"] = *opts.Rate
	}
	if opts.Pitch != nil {
		params["pitch"] = *opts.Pitch
	}
	if opts.Volume != nil {
		params["volume"] = *opts.Volume
	}

	resp, err := s.execute("set_voice_options", params)
	if err != nil {
		return fmt.Errorf("socket error: %w", err)
	}

	if success, ok := resp["success"].(bool); ok && success {
		return nil
	}

	return responseError("set_voice_options", resp)
}

// GetVoiceOptions implements MathVoiceCommands.GetVoiceOptions
func (s *SocketClientCommands) GetVoiceOptions() VoiceOptions {
	resp, err := s.execute("get_voice_options", nil)
	if err != nil {
		log.Printf("GetVoiceOptions socket error: %v", err)
		return VoiceOptions{}
	}

	if val, ok := resultField(resp, "options"); ok {
		// Convert interface{} back to VoiceOptions
		optsJSON, _ := json.Marshal(val)
		var opts VoiceOptions
		if err := json.Unmarshal(optsJSON, &opts); err == nil {
			return opts
		}
	}

	return VoiceOptions{}
}

// SetConvertLatex implements MathVoiceCommands.SetConvertLatex
func (s *SocketClientCommands) SetConvertLatex(enabled bool) {
	_, err := s.execute("set_convert_latex", map[string]interface{}{
		"enabled": enabled,
	})
	if err != nil {
		log.Printf("SetConvertLatex socket error: %v", err)
	}
}

// GetConvertLatex implements MathVoiceCommands.GetConvertLatex
func (s *SocketClientCommands) GetConvertLatex() bool {
	resp, err := s.execute("get_convert_latex", nil)
	if err != nil {
		log.Printf("GetConvertLatex socket error: %v", err)
		return false
	}

	if val, ok := resultField(resp, "enabled"); ok {
		if enabled, ok := val.(bool); ok {
			return enabled
		}
	}

	return false
}

// ============================================================================
// Extraction Methods
// ============================================================================

// ExtractFormulas implements MathVoiceCommands.ExtractFormulas
func (s *SocketClientCommands) ExtractFormulas(doc string) ([]string, error) {
	resp, err := s.execute("extract_formulas", map[string]interface{}{
		"document": doc,
	})
	if err != nil {
		return nil, fmt.Errorf("socket error: %w", err)
	}

	if val, ok := resultField(resp, "formulas"); ok {
		if val == nil {
			return []string{}, nil
		}
		if items, ok := val.([]interface{}); ok {
			formulas := make([]string, 0, len(items))
			for _, item := range items {
				if f, ok := item.(string); ok {
					formulas = append(formulas, f)
				}
			}
			return formulas, nil
		}
	}

	return nil, responseError("extract_formulas", resp)
}
