// +build ignore

package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
)

func main() {
	socketPath := flag.String("socket", "/tmp/mathvoice.sock", "Path to the socket file")
	flag.Parse()

	client, err := NewSocketClient(*socketPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	fmt.Printf("Connected to mathvoice socket at %s\n", *socketPath)
	fmt.Println("Type 'help' for available commands, 'quit' to exit")
	fmt.Println()

	// Read commands from stdin
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line == "quit" {
			fmt.Println("Disconnecting...")
			break
		}

		if line == "help" {
			printHelp()
			continue
		}

		// Try to parse as JSON
		var cmd map[string]interface{}
		if err := json.Unmarshal([]byte(line), &cmd); err != nil {
			fmt.Printf("Invalid JSON: %v\n", err)
			fmt.Println("Type 'help' for examples")
			continue
		}

		// Send command and get response
		response, err := client.Execute(line)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		// Pretty print response
		var resp interface{}
		if err := json.Unmarshal([]byte(response), &resp); err != nil {
			fmt.Printf("Response: %s\n", response)
		} else {
			data, _ := json.MarshalIndent(resp, "", "  ")
			fmt.Printf("Response: %s\n", string(data))
		}
		fmt.Println()
	}
}

// SocketClient manages connection to the socket server
type SocketClient struct {
	conn net.Conn
}

// NewSocketClient creates a new socket client
func NewSocketClient(socketPath string) (*SocketClient, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to socket: %w", err)
	}

	return &SocketClient{conn: conn}, nil
}

// Execute sends a command and returns the response
func (sc *SocketClient) Execute(cmdJSON string) (string, error) {
	// Send command
	if err := sc.sendMessage([]byte(cmdJSON)); err != nil {
		return "", err
	}

	// Receive response
	response, err := sc.receiveMessage()
	if err != nil {
		return "", err
	}

	return string(response), nil
}

// sendMessage sends a length-prefixed message
func (sc *SocketClient) sendMessage(data []byte) error {
	lengthBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lengthBuf, uint32(len(data)))

	if _, err := sc.conn.Write(lengthBuf); err != nil {
		return err
	}

	if _, err := sc.conn.Write(data); err != nil {
		return err
	}

	return nil
}

// receiveMessage receives a length-prefixed message
func (sc *SocketClient) receiveMessage() ([]byte, error) {
	lengthBuf := make([]byte, 4)
	if _, err := io.ReadFull(sc.conn, lengthBuf); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(lengthBuf)
	data := make([]byte, length)

	if _, err := io.ReadFull(sc.conn, data); err != nil {
		return nil, err
	}

	return data, nil
}

// Close closes the connection
func (sc *SocketClient) Close() error {
	return sc.conn.Close()
}

// printHelp prints available commands
func printHelp() {
	fmt.Println("Available commands:")
	fmt.Println()
	fmt.Println("TRANSFORMATION COMMANDS:")
	fmt.Println("1. Transform LaTeX without storing it:")
	fmt.Println(`   {"action":"transform","params":{"text":"\\frac{a}{b}"}}`)
	fmt.Println()
	fmt.Println("2. Set input text:")
	fmt.Println(`   {"action":"set_input_text","params":{"text":"x^2 + y^2"}}`)
	fmt.Println()
	fmt.Println("3. Get input text:")
	fmt.Println(`   {"action":"get_input_text","params":{}}`)
	fmt.Println()
	fmt.Println("4. Get output text:")
	fmt.Println(`   {"action":"get_output_text","params":{}}`)
	fmt.Println()
	fmt.Println("SPEECH COMMANDS:")
	fmt.Println("5. Convert and speak text:")
	fmt.Println(`   {"action":"speak","params":{"text":"a \\leq b"}}`)
	fmt.Println()
	fmt.Println("6. Speak the current output:")
	fmt.Println(`   {"action":"speak_output","params":{}}`)
	fmt.Println()
	fmt.Println("7. List voices:")
	fmt.Println(`   {"action":"list_voices","params":{}}`)
	fmt.Println()
	fmt.Println("OPTION COMMANDS:")
	fmt.Println("8. Set voice options:")
	fmt.Println(`   {"action":"set_voice_options","params":{"voice":"male1","lang":"en","rate":20}}`)
	fmt.Println()
	fmt.Println("9. Get voice options:")
	fmt.Println(`   {"action":"get_voice_options","params":{}}`)
	fmt.Println()
	fmt.Println("10. Toggle LaTeX conversion:")
	fmt.Println(`   {"action":"set_convert_latex","params":{"enabled":false}}`)
	fmt.Println()
	fmt.Println("11. Check LaTeX conversion:")
	fmt.Println(`   {"action":"get_convert_latex","params":{}}`)
	fmt.Println()
	fmt.Println("DOCUMENT COMMANDS:")
	fmt.Println("12. Extract formulas from HTML:")
	fmt.Println(`   {"action":"extract_formulas","params":{"document":"<p>$x^2$</p>"}}`)
	fmt.Println()
	fmt.Println("Type 'help' again to see this message, or 'quit' to exit")
	fmt.Println()
}
