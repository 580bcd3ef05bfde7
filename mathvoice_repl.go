package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

// REPLCommand represents a parsed command. Rest keeps the text after the
// verb verbatim, because LaTeX input is case sensitive and must not go
// through the lowercasing that keyword objects get.
type REPLCommand struct {
	Verb   string
	Object string
	Args   []string
	Rest   string
}

// REPLFormatter handles output formatting
type REPLFormatter struct {
	useColor bool
}

// NewREPLFormatter creates a new formatter
func NewREPLFormatter(useColor bool) *REPLFormatter {
	return &REPLFormatter{useColor: useColor}
}

// PrintSuccess prints a success message
func (f *REPLFormatter) PrintSuccess(message string) {
	if f.useColor {
		color.Green("✓ %s\n", message)
	} else {
		fmt.Printf("✓ %s\n", message)
	}
}

// PrintError prints an error message
func (f *REPLFormatter) PrintError(message string) {
	if f.useColor {
		color.Red("✗ Error: %s\n", message)
	} else {
		fmt.Printf("✗ Error: %s\n", message)
	}
}

// PrintInfo prints an info message
func (f *REPLFormatter) PrintInfo(message string) {
	if f.useColor {
		color.Cyan("ℹ %s\n", message)
	} else {
		fmt.Printf("ℹ %s\n", message)
	}
}

// PrintOptions prints the current voice options as a settings list
func (f *REPLFormatter) PrintOptions(opts VoiceOptions, convertLatex bool) {
	printOpt := func(name, value string) {
		if value == "" {
			value = "(default)"
		}
		if f.useColor {
			fmt.Printf("  %s %s\n", color.CyanString("%-8s", name), value)
		} else {
			fmt.Printf("  %-8s %s\n", name, value)
		}
	}

	printOpt("voice", opts.Voice)
	printOpt("lang", opts.Lang)
	printOpt("module", opts.Module)
	printOpt("rate", formatIntOpt(opts.Rate))
	printOpt("pitch", formatIntOpt(opts.Pitch))
	printOpt("volume", formatIntOpt(opts.Volume))
	printOpt("latex", strconv.FormatBool(convertLatex))
}

// formatIntOpt renders an optional numeric setting
func formatIntOpt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// ParseCommand parses a verb-first command string
func ParseCommand(input string) (*REPLCommand, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty command")
	}

	// Split by whitespace, but handle quoted strings
	parts := splitArgs(input)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	cmd := &REPLCommand{
		Verb: strings.ToLower(parts[0]),
		Rest: strings.TrimSpace(strings.TrimPrefix(input, parts[0])),
	}

	if len(parts) > 1 {
		cmd.Object = strings.ToLower(parts[1])
		cmd.Args = parts[2:]
	}

	return cmd, nil
}

// splitArgs splits a command string into arguments, respecting quotes
func splitArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)
	escaped := false

	for _, ch := range input {
		if escaped {
			current.WriteRune(ch)
			escaped = false
			continue
		}

		if ch == '\\' {
			escaped = true
			continue
		}

		if (ch == '"' || ch == '\'') && !inQuotes {
			inQuotes = true
			quoteChar = ch
			continue
		}

		if ch == quoteChar && inQuotes {
			inQuotes = false
			quoteChar = 0
			continue
		}

		if ch == ' ' && !inQuotes {
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
			continue
		}

		current.WriteRune(ch)
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args
}

// ExecuteREPLCommand executes a REPL command and returns the result
func ExecuteREPLCommand(cmd *REPLCommand, commands MathVoiceCommands, formatter *REPLFormatter, rl *readline.Instance) error {
	switch cmd.Verb {
	// Transformation commands
	case "transform":
		return handleTransformCommand(cmd, commands, formatter)
	case "input":
		return handleInputCommand(cmd, commands, formatter, rl)
	case "output":
		fmt.Println(commands.GetOutputText())
		return nil

	// Speech commands
	case "speak":
		return handleSpeakCommand(cmd, commands, formatter)
	case "voices":
		return handleVoicesCommand(commands, formatter)

	// Settings
	case "set":
		return handleSetCommand(cmd, commands, formatter)
	case "show":
		return handleShowCommand(cmd, commands, formatter)

	// Document extraction
	case "extract":
		return handleExtractCommand(cmd, commands, formatter)

	// Utility commands
	case "help":
		return handleHelpCommand(cmd)
	case "quit", "exit":
		return fmt.Errorf("exit")
	case "clear":
		fmt.Print("\033[2J\033[H") // Clear screen
		return nil

	default:
		formatter.PrintError(fmt.Sprintf("Unknown command: %s", cmd.Verb))
		formatter.PrintInfo("Type 'help' for available commands")
		return nil
	}
}

// Command handlers

func handleTransformCommand(cmd *REPLCommand, commands MathVoiceCommands, formatter *REPLFormatter) error {
	latex := cmd.Rest
	if latex == "" {
		formatter.PrintError("transform requires LaTeX text")
		return nil
	}
	fmt.Println(commands.Transform(latex))
	return nil
}

func handleInputCommand(cmd *REPLCommand, commands MathVoiceCommands, formatter *REPLFormatter, rl *readline.Instance) error {
	// input <text, or empty for multiline>
	text := cmd.Rest
	if text == "" {
		// Prompt for multiline input
		formatter.PrintInfo("Enter text (end with blank line):")

		// Use readline to read multiple lines
		var lines []string
		rl.SetPrompt("")
		for {
			line, err := rl.Readline()
			if err == readline.ErrInterrupt {
				continue
			} else if err != nil {
				break
			}

			// Empty line ends input
			if strings.TrimSpace(line) == "" {
				break
			}
			lines = append(lines, line)
		}
		rl.SetPrompt("mathvoice> ")
		text = strings.Join(lines, "\n")
	}

	commands.SetInputText(text)
	formatter.PrintSuccess("Input text set")
	fmt.Println(commands.GetOutputText())
	return nil
}

func handleSpeakCommand(cmd *REPLCommand, commands MathVoiceCommands, formatter *REPLFormatter) error {
	// speak output  -> speak the current output text
	// speak <text>  -> convert and speak the given text
	if cmd.Object == "output" && len(cmd.Args) == 0 {
		if err := commands.SpeakOutput(); err != nil {
			formatter.PrintError(err.Error())
			return nil
		}
		formatter.PrintSuccess("Speaking output")
		return nil
	}

	text := cmd.Rest
	if text == "" {
		formatter.PrintError("speak requires text, or 'speak output'")
		return nil
	}

	if err := commands.Speak(text); err != nil {
		formatter.PrintError(err.Error())
		return nil
	}
	formatter.PrintSuccess("Speaking")
	return nil
}

func handleVoicesCommand(commands MathVoiceCommands, formatter *REPLFormatter) error {
	voices, err := commands.ListVoices()
	if err != nil {
		formatter.PrintError(err.Error())
		return nil
	}
	fmt.Println(voices)
	return nil
}

func handleSetCommand(cmd *REPLCommand, commands MathVoiceCommands, formatter *REPLFormatter) error {
	// set <option> <value>
	if cmd.Object == "" || len(cmd.Args) < 1 {
		formatter.PrintError("set requires an option name and a value")
		formatter.PrintInfo("Options: voice, lang, module, rate, pitch, volume, latex")
		return nil
	}
	value := cmd.Args[0]

	if cmd.Object == "latex" {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			formatter.PrintError("latex expects true or false")
			return nil
		}
		commands.SetConvertLatex(enabled)
		formatter.PrintSuccess(fmt.Sprintf("LaTeX conversion %s", map[bool]string{true: "enabled", false: "disabled"}[enabled]))
		return nil
	}

	opts := commands.GetVoiceOptions()
	switch cmd.Object {
	case "voice":
		opts.Voice = value
	case "lang":
		opts.Lang = value
	case "module":
		opts.Module = value
	case "rate", "pitch", "volume":
		n, err := strconv.Atoi(value)
		if err != nil {
			formatter.PrintError(fmt.Sprintf("%s expects a number from -100 to 100", cmd.Object))
			return nil
		}
		switch cmd.Object {
		case "rate":
			opts.Rate = &n
		case "pitch":
			opts.Pitch = &n
		case "volume":
			opts.Volume = &n
		}
	default:
		formatter.PrintError(fmt.Sprintf("Unknown option: %s", cmd.Object))
		formatter.PrintInfo("Options: voice, lang, module, rate, pitch, volume, latex")
		return nil
	}

	if err := commands.SetVoiceOptions(opts); err != nil {
		formatter.PrintError(err.Error())
		return nil
	}
	formatter.PrintSuccess(fmt.Sprintf("Set %s to %s", cmd.Object, value))
	return nil
}

func handleShowCommand(cmd *REPLCommand, commands MathVoiceCommands, formatter *REPLFormatter) error {
	switch cmd.Object {
	case "options", "":
		formatter.PrintInfo("Current settings:")
		formatter.PrintOptions(commands.GetVoiceOptions(), commands.GetConvertLatex())
	case "input":
		fmt.Println(commands.GetInputText())
	case "output":
		fmt.Println(commands.GetOutputText())
	default:
		formatter.PrintError("show requires 'options', 'input', or 'output'")
	}
	return nil
}

func handleExtractCommand(cmd *REPLCommand, commands MathVoiceCommands, formatter *REPLFormatter) error {
	// extract <file>
	path := cmd.Rest
	if path == "" {
		formatter.PrintError("extract requires a file path")
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		formatter.PrintError(err.Error())
		return nil
	}

	formulas, err := commands.ExtractFormulas(string(data))
	if err != nil {
		formatter.PrintError(err.Error())
		return nil
	}

	if len(formulas) == 0 {
		formatter.PrintInfo("No formulas found")
		return nil
	}

	for _, formula := range formulas {
		fmt.Printf("%s\n    %s\n", formula, commands.Transform(formula))
	}
	return nil
}

func handleHelpCommand(cmd *REPLCommand) error {
	showMainHelp()
	return nil
}

func showMainHelp() {
	help := `
MathVoice REPL - Available Commands
===================================

TRANSFORMATION:
  transform <latex>           Convert LaTeX to speakable text
  input <text>                Set input text and show its transformation
  input                       Enter multiline input mode
  output                      Show the transformed output text

SPEECH:
  speak <latex>               Convert text and speak it
  speak output                Speak the current output text
  voices                      List voices reported by the engine

SETTINGS:
  set voice <name>            Select a voice (e.g. male1)
  set lang <code>             Select a language (e.g. en)
  set module <name>           Select a speech output module
  set rate <-100..100>        Set the speech rate
  set pitch <-100..100>       Set the speech pitch
  set volume <-100..100>      Set the speech volume
  set latex <true|false>      Toggle LaTeX conversion before speaking
  show options                Show the current settings

DOCUMENTS:
  extract <file>              Extract and transform formulas from an HTML file

UTILITIES:
  help                        Show this help
  clear                       Clear the screen
  quit, exit                  Exit the REPL

EXAMPLES:
  > transform \frac{a}{b}
  > input x^2 + y^2 = z^2
  > speak output
  > set rate 20
  > extract lecture.html
`
	fmt.Print(help)
}

// REPLSession manages the REPL interactive session
type REPLSession struct {
	commands  MathVoiceCommands
	formatter *REPLFormatter
	history   []string
	closer    func() error
}

// NewREPLSession creates a REPL session backed by an in-process core
func NewREPLSession(core *MathVoiceCore) *REPLSession {
	return &REPLSession{
		commands:  core,
		formatter: NewREPLFormatter(true),
		history:   make([]string, 0),
	}
}

// NewSocketREPLSession creates a REPL session connected to a socket server
func NewSocketREPLSession(socketPath string) (*REPLSession, error) {
	client, err := NewSocketClient(socketPath)
	if err != nil {
		return nil, err
	}

	session := &REPLSession{
		commands:  NewSocketClientCommands(client),
		formatter: NewREPLFormatter(true),
		history:   make([]string, 0),
		closer:    client.Close,
	}

	return session, nil
}

// Run starts the interactive REPL loop
func (rs *REPLSession) Run() error {
	// Create readline instance
	rl, err := readline.New("mathvoice> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	// Print banner
	color.Cyan("MathVoice REPL v1.0\n")
	color.Cyan("Type 'help' for available commands\n\n")

	// Main REPL loop
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err != nil {
			// readline returns io.EOF as a simple string, not the io.EOF constant
			if err.Error() == "EOF" {
				fmt.Println()
				break
			}
			rs.formatter.PrintError(err.Error())
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Store in history
		rs.history = append(rs.history, line)

		// Parse and execute command
		cmd, err := ParseCommand(line)
		if err != nil {
			rs.formatter.PrintError(err.Error())
			continue
		}

		if err := ExecuteREPLCommand(cmd, rs.commands, rs.formatter, rl); err != nil {
			if err.Error() == "exit" {
				break
			}
			rs.formatter.PrintError(err.Error())
		}
	}

	rs.formatter.PrintInfo("Goodbye!")
	if rs.closer != nil {
		rs.closer()
	}
	return nil
}
