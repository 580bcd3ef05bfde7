package main

import (
	"encoding/json"
)

// Command represents a JSON command for socket clients
type Command struct {
	Action string                 `json:"action"`
	Params map[string]interface{} `json:"params"`
}

// Response represents a JSON response from command execution
type Response struct {
	Success bool        `json:"success"`
	Result  interface{} `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ExecuteCommand executes a JSON command and returns a JSON response
func (mv *MathVoiceCore) ExecuteCommand(cmdJSON string) string {
	var cmd Command
	if err := json.Unmarshal([]byte(cmdJSON), &cmd); err != nil {
		return mv.errorResponse("Invalid JSON: " + err.Error())
	}

	switch cmd.Action {
	case "transform":
		return mv.cmdTransform(cmd.Params)
	case "set_input_text":
		return mv.cmdSetInputText(cmd.Params)
	case "get_input_text":
		return mv.cmdGetInputText(cmd.Params)
	case "get_output_text":
		return mv.cmdGetOutputText(cmd.Params)
	case "speak":
		return mv.cmdSpeak(cmd.Params)
	case "speak_output":
		return mv.cmdSpeakOutput(cmd.Params)
	case "list_voices":
		return mv.cmdListVoices(cmd.Params)
	case "set_voice_options":
		return mv.cmdSetVoiceOptions(cmd.Params)
	case "get_voice_options":
		return mv.cmdGetVoiceOptions(cmd.Params)
	case "set_convert_latex":
		return mv.cmdSetConvertLatex(cmd.Params)
	case "get_convert_latex":
		return mv.cmdGetConvertLatex(cmd.Params)
	case "extract_formulas":
		return mv.cmdExtractFormulas(cmd.Params)
	default:
		return mv.errorResponse("Unknown action: " + cmd.Action)
	}
}

// ============================================================================
// Command Handlers
// ============================================================================

// cmdTransform converts LaTeX text without touching the stored input
func (mv *MathVoiceCore) cmdTransform(params map[string]interface{}) string {
	text := getStr(params, "text", "")
	return mv.successResponse(map[string]interface{}{
		"text": mv.Transform(text),
	})
}

// cmdSetInputText sets the input text and processes it
func (mv *MathVoiceCore) cmdSetInputText(params map[string]interface{}) string {
	text := getStr(params, "text", "")
	mv.SetInputText(text)
	return mv.successResponse(map[string]interface{}{
		"success": true,
	})
}

// cmdGetInputText returns the current input text
func (mv *MathVoiceCore) cmdGetInputText(params map[string]interface{}) string {
	return mv.successResponse(map[string]interface{}{
		"text": mv.GetInputText(),
	})
}

// cmdGetOutputText returns the current output text
func (mv *MathVoiceCore) cmdGetOutputText(params map[string]interface{}) string {
	return mv.successResponse(map[string]interface{}{
		"output": mv.GetOutputText(),
	})
}

// cmdSpeak converts and speaks the given text
func (mv *MathVoiceCore) cmdSpeak(params map[string]interface{}) string {
	text := getStr(params, "text", "")
	if err := mv.Speak(text); err != nil {
		return mv.errorResponse(err.Error())
	}
	return mv.successResponse(map[string]interface{}{
		"success": true,
	})
}

// cmdSpeakOutput speaks the current output text
func (mv *MathVoiceCore) cmdSpeakOutput(params map[string]interface{}) string {
	if err := mv.SpeakOutput(); err != nil {
		return mv.errorResponse(err.Error())
	}
	return mv.successResponse(map[string]interface{}{
		"success": true,
	})
}

// cmdListVoices returns the engine's voice catalog
func (mv *MathVoiceCore) cmdListVoices(params map[string]interface{}) string {
	voices, err := mv.ListVoices()
	if err != nil {
		return mv.errorResponse(err.Error())
	}
	return mv.successResponse(map[string]interface{}{
		"voices": voices,
	})
}

// cmdSetVoiceOptions replaces the voice options
func (mv *MathVoiceCore) cmdSetVoiceOptions(params map[string]interface{}) string {
	opts := VoiceOptions{
		Voice:  getStr(params, "voice", ""),
		Lang:   getStr(params, "lang", ""),
		Module: getStr(params, "module", ""),
		Rate:   getIntPtr(params, "rate"),
		Pitch:  getIntPtr(params, "pitch"),
		Volume: getIntPtr(params, "volume"),
	}

	if err := mv.SetVoiceOptions(opts); err != nil {
		return mv.errorResponse(err.Error())
	}
	return mv.successResponse(map[string]interface{}{
		"success": true,
	})
}

// cmdGetVoiceOptions returns the current voice options
func (mv *MathVoiceCore) cmdGetVoiceOptions(params map[string]interface{}) string {
	return mv.successResponse(map[string]interface{}{
		"options": mv.GetVoiceOptions(),
	})
}

// cmdSetConvertLatex toggles LaTeX conversion before speaking
func (mv *MathVoiceCore) cmdSetConvertLatex(params map[string]interface{}) string {
	mv.SetConvertLatex(getBool(params, "enabled", true))
	return mv.successResponse(map[string]interface{}{
		"success": true,
	})
}

// cmdGetConvertLatex reports whether LaTeX conversion is enabled
func (mv *MathVoiceCore) cmdGetConvertLatex(params map[string]interface{}) string {
	return mv.successResponse(map[string]interface{}{
		"enabled": mv.GetConvertLatex(),
	})
}

// cmdExtractFormulas harvests formulas from an HTML document
func (mv *MathVoiceCore) cmdExtractFormulas(params map[string]interface{}) string {
	doc := getStr(params, "document", "")
	formulas, err := mv.ExtractFormulas(doc)
	if err != nil {
		return mv.errorResponse(err.Error())
	}
	return mv.successResponse(map[string]interface{}{
		"formulas": formulas,
	})
}

// ============================================================================
// Helper Functions
// ============================================================================

// getStr safely extracts a string parameter, with a default value
func getStr(params map[string]interface{}, key, defaultValue string) string {
	if val, ok := params[key]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return defaultValue
}

// getBool safely extracts a boolean parameter, with a default value
func getBool(params map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := params[key]; ok {
		if boolVal, ok := val.(bool); ok {
			return boolVal
		}
	}
	return defaultValue
}

// getIntPtr extracts an optional numeric parameter. JSON numbers arrive as
// float64; an absent or non-numeric value yields nil, meaning "not set".
func getIntPtr(params map[string]interface{}, key string) *int {
	if val, ok := params[key]; ok {
		if floatVal, ok := val.(float64); ok {
			intVal := int(floatVal)
			return &intVal
		}
	}
	return nil
}

// successResponse creates a successful response
func (mv *MathVoiceCore) successResponse(result interface{}) string {
	resp := Response{
		Success: true,
		Result:  result,
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

// errorResponse creates an error response
func (mv *MathVoiceCore) errorResponse(errorMsg string) string {
	resp := Response{
		Success: false,
		Error:   errorMsg,
	}
	data, _ := json.Marshal(resp)
	return string(data)
}
