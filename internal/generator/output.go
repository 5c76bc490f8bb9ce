package generator

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

// WriteOutput publishes the generated content on the process output channel.
// Inside a GitHub workflow the content becomes the multiline `answer` step
// output; everywhere else it is printed to stdout.
func (g *Generator) WriteOutput(content string) error {
	if g.forge.Name() == "github" {
		if path := os.Getenv("GITHUB_OUTPUT"); path != "" {
			return writeActionOutput(path, "answer", content)
		}
	}

	fmt.Println("\n----- Result: -----")
	fmt.Println(content)
	return nil
}

// writeActionOutput appends a multiline output in the workflow-command heredoc
// format. The delimiter is random so the content can never terminate the
// block early.
func writeActionOutput(path, name, value string) error {
	buf := make([]byte, 15)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("generating output delimiter: %w", err)
	}
	delimiter := hex.EncodeToString(buf)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening GITHUB_OUTPUT file: %w", err)
	}
	defer file.Close()

	_, err = fmt.Fprintf(file, "%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
	return err
}
