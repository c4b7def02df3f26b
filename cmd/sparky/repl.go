package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aschepis/backscratcher/sparky/agent"
)

// querier is the part of agent.Agent the shell needs.
type querier interface {
	ProcessQuery(ctx context.Context, query string) (*agent.QueryResult, error)
}

const clearScreen = "\033[H\033[2J"

// runREPL reads queries line by line until exit, quit, an empty line, EOF
// or cancellation. Query errors are printed and the shell keeps going.
func runREPL(ctx context.Context, q querier, name string, in io.Reader, out io.Writer) error {
	printBanner(out, name)

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines, readErr := readLines(readCtx, in)

	for {
		if ctx.Err() != nil {
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		}
		fmt.Fprintf(out, "%s> ", name)

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		case l, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				fmt.Fprintln(out, "\nGoodbye!")
				return nil
			}
			line = l
		}

		query := strings.TrimSpace(line)
		switch strings.ToLower(query) {
		case "", "exit", "quit":
			fmt.Fprintln(out, "\nGoodbye!")
			return nil
		case "clear":
			fmt.Fprint(out, clearScreen)
			continue
		}

		fmt.Fprintln(out, "Processing...")
		result, err := q.ProcessQuery(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			printError(out, err)
			continue
		}
		printReplResult(out, result)
	}
}

// readLines scans in on its own goroutine so a blocked read never holds up
// cancellation. The error channel receives the scanner error once lines closes.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}

func printBanner(out io.Writer, name string) {
	fmt.Fprintf(out, "\n%s AI Agent - Interactive Mode\n", name)
	fmt.Fprintln(out, separator)
	fmt.Fprintln(out, `Type your questions (or "exit"/"quit" to quit, "clear" to clear the screen)`)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Example queries:")
	fmt.Fprintln(out, `   - "What is 15 * 23?"`)
	fmt.Fprintln(out, `   - "Calculate the square root of 144"`)
	fmt.Fprintln(out, `   - "What's the weather in San Francisco?"`)
	fmt.Fprintln(out, `   - "What day of the week is it in Tokyo?"`)
	fmt.Fprintln(out)
}
