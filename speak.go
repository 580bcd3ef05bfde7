package main

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Speech dispatch errors. The transformer itself cannot fail; these cover
// the external engine boundary only.
var (
	// ErrEngineUnavailable means the required speech binary is not on PATH.
	ErrEngineUnavailable = errors.New("speech engine not available")
	// ErrEngineInvocation means the engine process ran but exited non-zero.
	ErrEngineInvocation = errors.New("speech engine invocation failed")
	// ErrConfiguration means a caller-supplied voice option is out of range.
	ErrConfiguration = errors.New("invalid voice option")
)

// VoiceOptions carries the engine parameters for one utterance. Nil numeric
// fields mean "engine default": the corresponding flag is omitted entirely.
type VoiceOptions struct {
	Voice  string `json:"voice,omitempty"`
	Lang   string `json:"lang,omitempty"`
	Module string `json:"module,omitempty"`
	Rate   *int   `json:"rate,omitempty"`
	Pitch  *int   `json:"pitch,omitempty"`
	Volume *int   `json:"volume,omitempty"`
}

// Validate checks that every numeric option lies in [-100, 100].
func (o VoiceOptions) Validate() error {
	checks := []struct {
		name  string
		value *int
	}{
		{"rate", o.Rate},
		{"pitch", o.Pitch},
		{"volume", o.Volume},
	}
	for _, c := range checks {
		if c.value != nil && (*c.value < -100 || *c.value > 100) {
			return fmt.Errorf("%w: %s %d out of range [-100, 100]", ErrConfiguration, c.name, *c.value)
		}
	}
	return nil
}

// SpeechEngine is the external collaborator that turns finished text into
// audio. Implementations own their process-level failure modes; the
// transformer does not depend on them completing.
type SpeechEngine interface {
	// Speak synthesizes text with the given options, blocking until the
	// engine finishes or fails.
	Speak(text string, opts VoiceOptions) error

	// ListVoices returns the engine-reported voice catalog in the engine's
	// own format.
	ListVoices() (string, error)
}

// SpdSayEngine dispatches speech through the Speech Dispatcher CLI
// (spd-say). The concrete synthesizer (e.g. RHVoice) is selected by the
// speech-dispatcher configuration or by the Module option.
type SpdSayEngine struct {
	// Binary is the spd-say executable name or path. Empty means "spd-say".
	Binary string
}

// NewSpdSayEngine creates an engine using the spd-say binary from PATH.
func NewSpdSayEngine() *SpdSayEngine {
	return &SpdSayEngine{Binary: "spd-say"}
}

func (e *SpdSayEngine) binary() string {
	if e.Binary == "" {
		return "spd-say"
	}
	return e.Binary
}

// Available reports whether the spd-say binary can be found.
func (e *SpdSayEngine) Available() bool {
	_, err := exec.LookPath(e.binary())
	return err == nil
}

// Speak runs spd-say synchronously. Empty text is a no-op.
func (e *SpdSayEngine) Speak(text string, opts VoiceOptions) error {
	if text == "" {
		return nil
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	if !e.Available() {
		return fmt.Errorf("%w: %s not found, install speech-dispatcher", ErrEngineUnavailable, e.binary())
	}

	cmd := exec.Command(e.binary(), buildSpdSayArgs(text, opts)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %v: %s", ErrEngineInvocation, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// ListVoices returns the catalog from spd-say -L. Stdout and stderr are
// combined; the format is owned by the engine.
func (e *SpdSayEngine) ListVoices() (string, error) {
	if !e.Available() {
		return "", fmt.Errorf("%w: %s not found, install speech-dispatcher", ErrEngineUnavailable, e.binary())
	}
	out, err := exec.Command(e.binary(), "-L").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEngineInvocation, err)
	}
	return string(out), nil
}

// buildSpdSayArgs assembles the spd-say argument list. Flag letters follow
// the spd-say CLI: -o module, -l language, -y voice, -r rate, -p pitch,
// -i volume; the text is always the final argument.
func buildSpdSayArgs(text string, opts VoiceOptions) []string {
	var args []string
	if opts.Module != "" {
		args = append(args, "-o", opts.Module)
	}
	if opts.Lang != "" {
		args = append(args, "-l", opts.Lang)
	}
	if opts.Voice != "" {
		args = append(args, "-y", opts.Voice)
	}
	if opts.Rate != nil {
		args = append(args, "-r", strconv.Itoa(*opts.Rate))
	}
	if opts.Pitch != nil {
		args = append(args, "-p", strconv.Itoa(*opts.Pitch))
	}
	if opts.Volume != nil {
		args = append(args, "-i", strconv.Itoa(*opts.Volume))
	}
	return append(args, text)
}
