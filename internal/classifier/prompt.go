package classifier

import (
	"fmt"
	"strings"

	"github.com/cuongbtq/jobconnect/internal/command"
)

// BuildPrompt embeds the user message in the fixed instruction prompt that
// enumerates every command shape.
func BuildPrompt(message string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an AI assistant for JobConnect job board. User message: %s\n\n", message)
	b.WriteString("Analyze the user message.")
	for _, shape := range command.Shapes() {
		fmt.Fprintf(&b, "\nIf it indicates %s, respond ONLY with: %s", shape.Intent, shape.Template())
	}
	b.WriteString("\n\nIf none of these, respond helpfully. Do not add extra text to commands.")

	return b.String()
}
