package main

import (
	"os"
	"strings"

	"codewerk/internal/cli"
	"codewerk/internal/model"
)

func isModeName(s string) bool {
	_, err := model.ParseMode(s)
	return err == nil
}

func rewriteModeShortcutArgs(argv []string) []string {
	// Convenience: `codewerk qrcode` works like `codewerk ui --mode qrcode`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv
	// before parsing.
	//
	// Users often pass persistent flags first (e.g. `codewerk --base-url ... qrcode`),
	// so we must find the first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--base-url": true,
		"--mode":     true,
		"--dir":      true,
		"--format":   true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	rewrite := func(i int) []string {
		mode, _ := model.ParseMode(argv[i])
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "ui", "--mode", string(mode))
		out = append(out, argv[i+1:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isModeName(argv[i+1]) {
				return rewrite(i + 1)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			// --flag=value form
			if strings.Contains(a, "=") {
				continue
			}
			if boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
				continue
			}
			continue
		}

		// First positional token.
		if isModeName(a) {
			return rewrite(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteModeShortcutArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
