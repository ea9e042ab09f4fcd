package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestCloneE2EBasic exercises the compare subcommand end to end against a
// single Python file holding two small functions that differ only in a
// local variable name, and checks the report header.
func TestCloneE2EBasic(t *testing.T) {
	binaryPath := buildPolydupBinary(t)

	testDir := t.TempDir()
	createTestPythonFile(t, testDir, "simple.py", `
def func1():
    x = 1
    return x

def func2():
    y = 1
    return y
`)

	cmd := exec.Command(binaryPath, "compare", testDir)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		t.Logf("Command output: %s", stdout.String())
		t.Logf("Command stderr: %s", stderr.String())
		t.Fatalf("Command failed: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "Clone Detection Results") {
		t.Error("Output should contain 'Clone Detection Results' header")
	}
}

// TestCloneE2EJSONOutput verifies that --json writes a well-formed report
// file to the configured output directory.
func TestCloneE2EJSONOutput(t *testing.T) {
	binaryPath := buildPolydupBinary(t)

	testDir := t.TempDir()
	createTestPythonFile(t, testDir, "clones_example.py", `
def function_a(param):
    value = param * 2
    return value

def function_b(arg):
    result = arg * 2
    return result
`)

	absBinaryPath, err := filepath.Abs(binaryPath)
	if err != nil {
		t.Fatalf("Failed to get absolute path for binary: %v", err)
	}

	testFile := filepath.Join(testDir, "clones_example.py")
	outputDir := t.TempDir()

	createTestConfigFile(t, testDir, outputDir)

	cmd := exec.Command(absBinaryPath, "compare", "--json", testFile)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := cmd.Start(); err != nil {
		t.Fatalf("Command failed to start: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err = <-done:
		if err != nil {
			t.Fatalf("Command failed: %v\nStderr: %s", err, stderr.String())
		}
	case <-ctx.Done():
		if err := cmd.Process.Kill(); err != nil {
			t.Logf("Failed to kill process: %v", err)
		}
		t.Fatal("Command timed out after 10 seconds")
	}

	t.Logf("Command stdout: %s", stdout.String())
	t.Logf("Command stderr: %s", stderr.String())

	files, err := filepath.Glob(filepath.Join(outputDir, "clone_*.json"))
	if err != nil {
		t.Fatalf("Glob error: %v", err)
	}
	if len(files) == 0 {
		allFiles, _ := os.ReadDir(outputDir)
		var fileNames []string
		for _, f := range allFiles {
			fileNames = append(fileNames, f.Name())
		}
		t.Fatalf("No JSON file generated in %s, files present: %v", outputDir, fileNames)
	}

	jsonContent, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatalf("Failed to read JSON file: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(jsonContent, &result); err != nil {
		t.Fatalf("Invalid JSON output: %v\nContent: %s", err, string(jsonContent))
	}

	for _, field := range []string{"clones", "clone_pairs", "clone_groups", "statistics", "duration_ms", "success"} {
		if _, ok := result[field]; !ok {
			t.Errorf("JSON output should contain %q field", field)
		}
	}
}

// TestCloneE2ETypes tests --clone-types filtering.
func TestCloneE2ETypes(t *testing.T) {
	binaryPath := buildPolydupBinary(t)

	testDir := t.TempDir()
	createTestPythonFile(t, testDir, "types.py", `
def func_a():
    return 1

def func_b():
    return 1
`)

	tests := []struct {
		name       string
		cloneTypes string
		shouldPass bool
	}{
		{name: "type1 only", cloneTypes: "type1", shouldPass: true},
		{name: "all types", cloneTypes: "type1,type2,type3,type4", shouldPass: true},
		{name: "invalid type", cloneTypes: "invalid", shouldPass: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, "compare", "--clone-types", tt.cloneTypes, testDir)
			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr

			err := cmd.Run()
			if tt.shouldPass && err != nil {
				t.Errorf("Command should pass but failed: %v\nStderr: %s", err, stderr.String())
			} else if !tt.shouldPass && err == nil {
				t.Error("Command should fail but passed")
			}
		})
	}
}

// TestCloneE2EThreshold tests --similarity-threshold configuration.
func TestCloneE2EThreshold(t *testing.T) {
	binaryPath := buildPolydupBinary(t)

	testDir := t.TempDir()
	createTestPythonFile(t, testDir, "threshold_test.py", `
def high_similarity_1():
    x = 10
    y = x + 5
    return y

def high_similarity_2():
    a = 10
    b = a + 5
    return b

def low_similarity():
    data = [1, 2, 3, 4, 5]
    result = sum(data)
    processed = result * 2
    final = processed - 1
    return final
`)

	tests := []struct {
		name      string
		threshold string
	}{
		{name: "high threshold 0.9", threshold: "0.9"},
		{name: "very high threshold 0.99", threshold: "0.99"},
		{name: "low threshold 0.5", threshold: "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, "compare", "--similarity-threshold", tt.threshold, testDir)
			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr

			err := cmd.Run()
			if err != nil {
				t.Fatalf("Command failed: %v\nStderr: %s", err, stderr.String())
			}

			output := stdout.String()
			if !strings.Contains(output, "Clone Detection Results") {
				t.Error("Output should contain clone detection results header")
			}
		})
	}
}

// TestCloneE2EFlags exercises the bulk of the compare subcommand's flags.
func TestCloneE2EFlags(t *testing.T) {
	binaryPath := buildPolydupBinary(t)

	testDir := t.TempDir()
	outputDir := t.TempDir()

	createTestConfigFile(t, testDir, outputDir)

	createTestPythonFile(t, testDir, "flagtest.py", `
def sample_func1(param):
    result = param * 2
    return result

def sample_func2(arg):
    value = arg * 2
    return value
`)

	tests := []struct {
		name       string
		args       []string
		shouldPass bool
	}{
		{name: "details flag", args: []string{"compare", "--details", testDir}, shouldPass: true},
		{name: "show content", args: []string{"compare", "--show-content", testDir}, shouldPass: true},
		{name: "sort by similarity", args: []string{"compare", "--sort", "similarity", testDir}, shouldPass: true},
		{name: "sort by size", args: []string{"compare", "--sort", "size", testDir}, shouldPass: true},
		{name: "min-lines filter", args: []string{"compare", "--min-lines", "3", testDir}, shouldPass: true},
		{name: "min-nodes filter", args: []string{"compare", "--min-nodes", "5", testDir}, shouldPass: true},
		{name: "csv format", args: []string{"compare", "--csv", "--no-open", testDir}, shouldPass: true},
		{name: "skip tests", args: []string{"compare", "--skip-test", testDir}, shouldPass: true},
		{name: "no cross file", args: []string{"compare", "--no-cross-file", testDir}, shouldPass: true},
		{name: "help flag", args: []string{"compare", "--help"}, shouldPass: true},
		{name: "invalid sort criteria", args: []string{"compare", "--sort", "invalid", testDir}, shouldPass: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr

			err := cmd.Run()
			if tt.shouldPass && err != nil {
				t.Errorf("Command should pass but failed: %v\nStderr: %s", err, stderr.String())
			} else if !tt.shouldPass && err == nil {
				t.Error("Command should fail but passed")
			}
		})
	}
}

// TestCloneE2EErrorHandling tests error scenarios.
func TestCloneE2EErrorHandling(t *testing.T) {
	binaryPath := buildPolydupBinary(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "nonexistent file", args: []string{"compare", "/nonexistent/file.py"}},
		{name: "invalid similarity threshold low", args: []string{"compare", "--similarity-threshold", "-0.1", "."}},
		{name: "invalid similarity threshold high", args: []string{"compare", "--similarity-threshold", "1.5", "."}},
		{name: "negative min-lines", args: []string{"compare", "--min-lines", "-1", "."}},
		{name: "negative min-nodes", args: []string{"compare", "--min-nodes", "-1", "."}},
		{name: "negative rename cost", args: []string{"compare", "--rename-cost", "-1", "."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr

			err := cmd.Run()
			if err == nil {
				t.Error("Command should fail but passed")
			}

			output := stderr.String() + stdout.String()
			if len(output) == 0 {
				t.Error("Should provide error message")
			}
		})
	}
}

// TestCloneE2EMultipleFiles tests clone detection across a directory of files.
func TestCloneE2EMultipleFiles(t *testing.T) {
	binaryPath := buildPolydupBinary(t)

	testDir := t.TempDir()

	createTestPythonFile(t, testDir, "file1.py", `
def simple_func():
    return 42

def another_func():
    return 42
`)

	cmd := exec.Command(binaryPath, "compare", testDir)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		t.Logf("Command stderr: %s", stderr.String())
		t.Logf("Command stdout: %s", stdout.String())
		t.Fatalf("Command failed: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "Clone Detection Results") {
		t.Error("Output should contain clone detection results header")
	}
}

// TestCloneE2EAdvancedOptions exercises the less common flags, including the
// per-edit-operation cost overrides.
func TestCloneE2EAdvancedOptions(t *testing.T) {
	binaryPath := buildPolydupBinary(t)

	testDir := t.TempDir()
	createTestPythonFile(t, testDir, "advanced.py", `
def function_with_literals():
    name = "John"
    age = 30
    result = f"Name: {name}, Age: {age}"
    return result

def function_with_different_literals():
    name = "Jane"
    age = 25
    result = f"Name: {name}, Age: {age}"
    return result
`)

	tests := []struct {
		name string
		args []string
	}{
		{name: "ignore literals", args: []string{"compare", "--ignore-literals", testDir}},
		{name: "ignore identifiers", args: []string{"compare", "--ignore-identifiers", testDir}},
		{name: "group clones", args: []string{"compare", "--group", testDir}},
		{name: "min and max similarity", args: []string{"compare", "--min-similarity", "0.5", "--max-similarity", "0.9", testDir}},
		{name: "custom edit costs", args: []string{"compare", "--rename-cost", "0.5", "--delete-cost", "1.5", "--insert-cost", "1.5", testDir}},
		{name: "jobs override", args: []string{"compare", "--jobs", "2", testDir}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			var stdout, stderr bytes.Buffer
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr

			err := cmd.Run()
			if err != nil {
				t.Fatalf("Command should pass: %v\nStderr: %s", err, stderr.String())
			}
		})
	}
}

// TestCloneE2ERecursiveAnalysis tests recursive directory analysis.
func TestCloneE2ERecursiveAnalysis(t *testing.T) {
	binaryPath := buildPolydupBinary(t)

	testDir := t.TempDir()

	createTestPythonFile(t, testDir, "main.py", `
def main_function():
    return "result"
`)

	cmd := exec.Command(binaryPath, "compare", "--recursive", testDir)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		t.Logf("Command stderr: %s", stderr.String())
		t.Fatalf("Command failed: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "Clone Detection Results") {
		t.Error("Should contain clone detection results header")
	}
}

// TestCloneE2ETimeout verifies a run with --timeout set completes and prints results.
func TestCloneE2ETimeout(t *testing.T) {
	binaryPath := buildPolydupBinary(t)

	testDir := t.TempDir()
	createTestPythonFile(t, testDir, "timeout.py", `
def timeout_func():
    return 1
`)

	cmd := exec.Command(binaryPath, "compare", "--timeout", "30s", testDir)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.Fatalf("Command should pass within timeout: %v\nStderr: %s", err, stderr.String())
	}

	if !strings.Contains(stdout.String(), "Clone Detection Results") {
		t.Error("Output should contain clone detection results header")
	}
}
