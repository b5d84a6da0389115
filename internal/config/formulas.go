package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/eoserv-go/worldcore/internal/combat"
)

// LoadFormulas reads a formulas file and registers every named RPN
// expression into engine (§9 "Formula evaluation": "Parse RPN once per
// name on first use and cache the parsed program keyed by name" — this
// loader does the same registration combat.Engine.Register already
// caches, just driven from a file instead of call sites).
//
// File format: one "name = rpn expression" assignment per line, blank
// lines and lines starting with "#" ignored. A missing file is not an
// error — the engine then falls back to ResolveDamage's built-in
// formula, matching §4.6 "if no formula, use: ...".
func LoadFormulas(path string, engine *combat.Engine) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: opening formulas file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, expr, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("config: formulas file %s line %d: missing '='", path, lineNo)
		}
		engine.Register(strings.TrimSpace(name), strings.TrimSpace(expr))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("config: reading formulas file %s: %w", path, err)
	}
	return nil
}
