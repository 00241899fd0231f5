package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/owl-lang/owlc/internal/compiler"
	"github.com/owl-lang/owlc/internal/diagnostic"
)

const version = "0.1.0"

const usage = `owlc - The Owl language compiler

Usage:
  owlc check [--json] <file.owl>       Parse and type-check only
  owlc build [-o <out.py>] <file.owl>  Compile to a Python script
  owlc run <file.owl>                  Compile and execute

Options:
  --json         Emit diagnostics as a JSON report
  -o <out.py>    Output path for build (default: <file>.py)

Configuration:
  An owl.yaml file in the working directory can set the build output
  path, the Python interpreter used by run, and disabled warnings.

Examples:
  owlc check hello.owl           Report errors and warnings
  owlc check --json hello.owl    Machine-readable report
  owlc build hello.owl           Write hello.py
  owlc run hello.owl             Compile and run with python3
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := compiler.LoadConfig(compiler.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "check":
		handleCheck(os.Args[2:], cfg)
	case "build":
		handleBuild(os.Args[2:], cfg)
	case "run":
		handleRun(os.Args[2:], cfg)
	case "help", "--help", "-h":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func readSource(filePath string) string {
	data, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %s\n", err)
		os.Exit(1)
	}
	return string(data)
}

func handleCheck(args []string, cfg *compiler.Config) {
	asJSON := false
	var filePath string

	for _, arg := range args {
		switch arg {
		case "--json":
			asJSON = true
		default:
			if strings.HasPrefix(arg, "-") {
				fmt.Fprintf(os.Stderr, "Unknown option: %s\n", arg)
				os.Exit(1)
			}
			filePath = arg
		}
	}

	if filePath == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}

	diags := cfg.FilterDiagnostics(compiler.Check(readSource(filePath)))

	if asJSON {
		report := diagnostic.NewReport(version)
		report.AddFile(filePath, diags)
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	} else {
		diagnostic.Render(os.Stdout, filePath, diags, diagnostic.StdoutIsTerminal())
		if !diags.HasErrors() {
			fmt.Printf("%s: no errors\n", filePath)
		}
	}

	if diags.HasErrors() {
		os.Exit(1)
	}
}

func handleBuild(args []string, cfg *compiler.Config) {
	var filePath, outPath string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: -o requires a path")
				os.Exit(1)
			}
			i++
			outPath = args[i]
		default:
			if strings.HasPrefix(args[i], "-") {
				fmt.Fprintf(os.Stderr, "Unknown option: %s\n", args[i])
				os.Exit(1)
			}
			filePath = args[i]
		}
	}

	if filePath == "" {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		os.Exit(1)
	}
	if outPath == "" {
		outPath = cfg.Output
	}
	if outPath == "" {
		base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		outPath = base + ".py"
	}

	source := readSource(filePath)
	res := compiler.Compile(source)
	diags := cfg.FilterDiagnostics(res.Diagnostics)
	diagnostic.Render(os.Stderr, filePath, diags, false)
	if diags.HasErrors() {
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, []byte(res.PySource), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s -> %s\n", filePath, outPath)
}

func handleRun(args []string, cfg *compiler.Config) {
	if len(args) != 1 || strings.HasPrefix(args[0], "-") {
		fmt.Fprintln(os.Stderr, "Error: run takes exactly one input file")
		os.Exit(1)
	}

	if err := compiler.Run(readSource(args[0]), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
