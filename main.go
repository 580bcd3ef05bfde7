// Command mathvoice turns LaTeX math into speakable text and hands it to the
// speech-dispatcher via spd-say. It can run as a one-shot converter, speak
// directly, extract formulas from HTML documents, or serve its commands over
// a Unix domain socket for other programs.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
)

const version = "1.0.0"

// CLI defines the command-line interface for mathvoice.
var CLI struct {
	Transform TransformCmd `cmd:"" help:"Convert LaTeX to speakable text and print it"`
	Speak     SpeakCmd     `cmd:"" help:"Convert LaTeX to speakable text and speak it"`
	Voices    VoicesCmd    `cmd:"" help:"List voices reported by the speech engine"`
	Extract   ExtractCmd   `cmd:"" help:"Extract formulas from an HTML document"`
	Serve     ServeCmd     `cmd:"" help:"Run a socket server exposing the command interface"`
	Repl      ReplCmd      `cmd:"" help:"Start an interactive session"`
	Version   VersionCmd   `cmd:"" help:"Print version information"`
}

// voiceFlags are the spd-say passthrough options shared by speaking commands.
type voiceFlags struct {
	Voice  string `short:"y" help:"Voice to use (e.g. male1, female2)"`
	Lang   string `short:"l" help:"Language code (e.g. en, ru)"`
	Module string `short:"o" help:"Speech output module"`
	Rate   *int   `short:"r" help:"Speech rate from -100 to 100"`
	Pitch  *int   `short:"p" help:"Speech pitch from -100 to 100"`
	Volume *int   `short:"i" help:"Speech volume from -100 to 100"`
}

// options converts the parsed flags into engine options.
func (v *voiceFlags) options() VoiceOptions {
	return VoiceOptions{
		Voice:  v.Voice,
		Lang:   v.Lang,
		Module: v.Module,
		Rate:   v.Rate,
		Pitch:  v.Pitch,
		Volume: v.Volume,
	}
}

// readText joins argument words, falling back to stdin when none were given.
func readText(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// TransformCmd converts LaTeX to speakable text on stdout.
type TransformCmd struct {
	Text []string `arg:"" optional:"" help:"LaTeX text (reads stdin when omitted)"`
}

func (c *TransformCmd) Run() error {
	text, err := readText(c.Text)
	if err != nil {
		return err
	}
	fmt.Println(LatexToText(text))
	return nil
}

// SpeakCmd converts LaTeX and dispatches it to the speech engine.
type SpeakCmd struct {
	voiceFlags
	NoLatex bool     `help:"Speak the text as-is without LaTeX conversion"`
	Text    []string `arg:"" optional:"" help:"LaTeX text (reads stdin when omitted)"`
}

func (c *SpeakCmd) Run() error {
	text, err := readText(c.Text)
	if err != nil {
		return err
	}

	core := NewMathVoiceCore(nil)
	if err := core.SetVoiceOptions(c.options()); err != nil {
		return err
	}
	core.SetConvertLatex(!c.NoLatex)

	return core.Speak(text)
}

// VoicesCmd prints the engine's voice catalog.
type VoicesCmd struct{}

func (c *VoicesCmd) Run() error {
	core := NewMathVoiceCore(nil)
	voices, err := core.ListVoices()
	if err != nil {
		return err
	}
	fmt.Print(voices)
	return nil
}

// ExtractCmd pulls formulas out of an HTML document.
type ExtractCmd struct {
	File      string `arg:"" optional:"" help:"HTML file (reads stdin when omitted)" type:"existingfile"`
	Transform bool   `short:"t" help:"Also print the speakable form of each formula"`
}

func (c *ExtractCmd) Run() error {
	var doc string
	if c.File != "" {
		data, err := os.ReadFile(c.File)
		if err != nil {
			return err
		}
		doc = string(data)
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		doc = string(data)
	}

	formulas, err := ExtractFormulas(doc)
	if err != nil {
		return err
	}

	for _, formula := range formulas {
		fmt.Println(formula)
		if c.Transform {
			fmt.Printf("    %s\n", LatexToText(formula))
		}
	}
	return nil
}

// ServeCmd runs the Unix socket server until interrupted.
type ServeCmd struct {
	voiceFlags
	Socket string `short:"s" default:"/tmp/mathvoice.sock" help:"Unix socket path"`
}

func (c *ServeCmd) Run() error {
	core := NewMathVoiceCore(nil)
	if err := core.SetVoiceOptions(c.options()); err != nil {
		return err
	}

	server := NewSocketServer(c.Socket, core)
	if err := server.Start(); err != nil {
		return err
	}

	fmt.Printf("mathvoice listening on %s\n", c.Socket)
	server.Wait()
	return nil
}

// ReplCmd starts an interactive session, in-process or against a server.
type ReplCmd struct {
	Connect string `short:"c" help:"Connect to a running socket server instead of running in-process"`
}

func (c *ReplCmd) Run() error {
	if c.Connect != "" {
		session, err := NewSocketREPLSession(c.Connect)
		if err != nil {
			return err
		}
		return session.Run()
	}

	session := NewREPLSession(NewMathVoiceCore(nil))
	return session.Run()
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("mathvoice %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("mathvoice"),
		kong.Description("Speak LaTeX math through the speech-dispatcher"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
