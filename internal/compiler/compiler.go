package compiler

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/owl-lang/owlc/internal/checker"
	"github.com/owl-lang/owlc/internal/diagnostic"
	"github.com/owl-lang/owlc/internal/lower"
	"github.com/owl-lang/owlc/internal/parser"
	"github.com/owl-lang/owlc/internal/pybe"
)

// Result holds the output of a compilation
type Result struct {
	Diagnostics *diagnostic.Diagnostics
	PySource    string
}

// Compile runs the full pipeline: parse -> check -> lower -> pybe.
// Codegen is skipped when the source has errors; warnings alone do
// not block it.
func Compile(source string) *Result {
	res := &Result{}

	p := parser.New(source)
	prog := p.Parse()

	if p.Diagnostics().HasErrors() {
		res.Diagnostics = p.Diagnostics()
		return res
	}

	checkResult := checker.CheckWithResult(prog)
	res.Diagnostics = p.Diagnostics()
	res.Diagnostics.Merge(checkResult.Diagnostics)
	if res.Diagnostics.HasErrors() {
		return res
	}

	mod := lower.Lower(prog, checkResult)
	res.PySource = pybe.Generate(mod)

	return res
}

// Check runs parse + check only (no codegen). All diagnostics are
// reported, not just the first failing phase's.
func Check(source string) *diagnostic.Diagnostics {
	p := parser.New(source)
	prog := p.Parse()

	diags := p.Diagnostics()
	if diags.HasErrors() {
		return diags
	}

	diags.Merge(checker.Check(prog))
	return diags
}

// EmitPython runs the full pipeline and writes the Python source to outPath.
func EmitPython(source, outPath string) error {
	res := Compile(source)
	if res.Diagnostics != nil && res.Diagnostics.HasErrors() {
		return fmt.Errorf("compilation errors:\n%s", res.Diagnostics.Format("input"))
	}

	return os.WriteFile(outPath, []byte(res.PySource), 0644)
}

// Run compiles source to a uniquely named temp script and executes it
// with the configured Python interpreter, wiring through stdio.
func Run(source string, cfg *Config) error {
	res := Compile(source)
	if res.Diagnostics != nil && res.Diagnostics.HasErrors() {
		return fmt.Errorf("compilation errors:\n%s", res.Diagnostics.Format("input"))
	}

	scriptPath := filepath.Join(os.TempDir(), fmt.Sprintf("owlc-%s.py", uuid.NewString()))
	if err := os.WriteFile(scriptPath, []byte(res.PySource), 0644); err != nil {
		return fmt.Errorf("failed to write temp script: %w", err)
	}
	defer os.Remove(scriptPath)

	python := "python3"
	if cfg != nil && cfg.Python != "" {
		python = cfg.Python
	}

	cmd := exec.Command(python, scriptPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", python, err)
	}
	return nil
}
