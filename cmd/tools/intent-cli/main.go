// cmd/tools/intent-cli/main.go
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"discard-copilot/internal/common/config"
	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/intent"
)

// intent-cli runs the intent parser against a line of text so pattern and
// threshold changes can be checked without starting the full service.
func main() {
	confidence := flag.Float64("confidence", 0.7, "did-you-mean threshold")
	clarification := flag.Float64("clarification", 0.5, "hard clarification threshold")
	currency := flag.String("currency", "USDC", "default currency")
	maxEntities := flag.Int("max-entities", 10, "entity cap per parse")
	flag.Parse()

	parser := intent.NewParser(config.IntentConfig{
		ConfidenceThreshold:    *confidence,
		ClarificationThreshold: *clarification,
		MaxEntities:            *maxEntities,
		DefaultCurrency:        *currency,
	}, logger.NewNoOpLogger())

	text := strings.Join(flag.Args(), " ")
	if text != "" {
		printResult(parser, text)
		return
	}

	// No argument: read lines from stdin, one parse per line.
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		printResult(parser, line)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "read stdin: %v\n", err)
		os.Exit(1)
	}
}

func printResult(parser *intent.Parser, text string) {
	result := parser.Parse(text)
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
