package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"llm-workflow/internal/di"
	"llm-workflow/internal/infrastructure/env"
	"llm-workflow/internal/infrastructure/userinteraction"

	"github.com/fatih/color"
)

var defaultPrompts = map[string]string{
	"basic":      "Write a limerick about python programming",
	"structured": "Alice and Bob are going to a science fair on Friday.",
	"tools":      "What's the weather like in Chennai today?",
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: agent [basic|structured|tools] [prompt...]")
}

func main() {
	mode := "tools"
	args := os.Args[1:]
	if len(args) > 0 {
		mode = args[0]
		args = args[1:]
	}
	if _, ok := defaultPrompts[mode]; !ok {
		usage()
		os.Exit(2)
	}

	cfg, err := env.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "" {
		prompt = readPrompt(defaultPrompts[mode])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	container, err := di.NewContainer(di.Config{
		Env:      cfg,
		Progress: userinteraction.NewConsoleProgress(),
	})
	if err != nil {
		log.Fatalf("Initialization error: %v", err)
	}
	defer container.Close()

	container.Logger.Info("Task started", "mode", mode, "prompt", prompt)

	if err := run(ctx, container, mode, prompt); err != nil {
		container.Logger.Error("Task failed", "mode", mode, "error", err)
		color.New(color.FgRed).Fprintf(os.Stderr, "\nError: %v\n", err)
		container.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, c *di.Container, mode, prompt string) error {
	title := color.New(color.FgCyan, color.Bold)

	switch mode {
	case "basic":
		content, err := c.Chat.Complete(ctx, "", prompt)
		if err != nil {
			return err
		}
		title.Println("\nANSWER:")
		fmt.Println(content)

	case "structured":
		event, err := c.EventExtractor.Extract(ctx, prompt)
		if err != nil {
			return err
		}
		title.Println("\nEVENT:")
		fmt.Printf("Name:         %s\n", event.Name)
		fmt.Printf("Date:         %s\n", event.Date)
		fmt.Printf("Participants: %s\n", strings.Join(event.Participants, ", "))

	case "tools":
		answer, err := c.WeatherAssistant.Ask(ctx, prompt)
		if err != nil {
			return err
		}
		title.Println("\nWEATHER:")
		fmt.Printf("Temperature: %.1f°C\n", answer.Weather.Temperature)
		fmt.Println(answer.Weather.Response)
	}

	return nil
}

func readPrompt(fallback string) string {
	fmt.Fprintf(os.Stderr, "Enter a prompt (empty for %q):\n> ", fallback)

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return fallback
	}
	if line = strings.TrimSpace(line); line != "" {
		return line
	}
	return fallback
}
