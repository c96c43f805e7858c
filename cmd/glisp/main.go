package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpschroeder/glisp"
	"github.com/jpschroeder/glisp/config"
	"github.com/jpschroeder/glisp/lib"
	"github.com/peterh/liner"
	"golang.org/x/term"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	fs := flag.NewFlagSet("glisp", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath(), "path to a TOML settings file")
	expr := fs.String("e", "", "evaluate an expression, print the result and exit")
	quiet := fs.Bool("q", false, "do not echo results")
	if err := fs.Parse(argv); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	interp, err := glisp.New(glisp.WithLogger(logger), glisp.WithBuiltins(lib.Register))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer interp.Close()

	for _, path := range cfg.Preload {
		if err := loadFile(interp, path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if *expr != "" {
		v, err := interp.EvalString(*expr)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if !*quiet {
			fmt.Println(glisp.Print(v))
		}
		return 0
	}

	if fs.NArg() > 0 {
		for _, path := range fs.Args() {
			if err := loadFile(interp, path); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}
		return 0
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return repl(interp, cfg, *quiet)
	}
	return readPiped(interp, os.Stdin, *quiet)
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "glisp", "config.toml")
}

func loadFile(interp *glisp.Interpreter, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := interp.Load(f, path); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func repl(interp *glisp.Interpreter, cfg config.Config, quiet bool) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.HistoryFile
	if histPath != "" && !filepath.IsAbs(histPath) {
		if home, err := os.UserHomeDir(); err == nil {
			histPath = filepath.Join(home, histPath)
		}
	}
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	for {
		src, ok := readByBalance(ln, cfg.Prompt, cfg.ContinuePrompt)
		if !ok {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		evalInput(interp, src, quiet)
	}
}

// readByBalance keeps prompting while the input so far has unclosed
// brackets or strings. ctrl-c discards the pending input.
func readByBalance(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			if b.Len() > 0 && errors.Is(err, io.EOF) {
				return b.String(), true
			}
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if status, _ := glisp.CheckBalance(b.String()); status != glisp.Incomplete {
			return b.String(), true
		}
	}
}

// readPiped is the non-interactive loop: no prompts, input gathered line by
// line until it parses
func readPiped(interp *glisp.Interpreter, r io.Reader, quiet bool) int {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var b strings.Builder
	code := 0
	for sc.Scan() {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(sc.Text())
		if status, _ := glisp.CheckBalance(b.String()); status == glisp.Incomplete {
			continue
		}
		if !evalInput(interp, b.String(), quiet) {
			code = 1
		}
		b.Reset()
	}
	if strings.TrimSpace(b.String()) != "" {
		fmt.Fprintln(os.Stderr, "unexpected end of input")
		code = 1
	}
	return code
}

func evalInput(interp *glisp.Interpreter, src string, quiet bool) bool {
	status, _, err := glisp.Parse(interp.Global(), src, quiet)
	if status == glisp.Failed {
		fmt.Fprintln(os.Stderr, glisp.WrapErrorWithSource(err, src))
		return false
	}
	return true
}
