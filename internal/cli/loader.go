package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/loomhq/loom/internal/compiler"
	"github.com/loomhq/loom/internal/schema"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeScanError     = "E002" // Directory scan error
	ErrCodeNoFiles       = "E003" // No CUE files found
	ErrCodeCompileFailed = "E004" // CUE compile failed
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeStoreFailed   = "E006" // Database error
)

// LoadError represents an error that occurred during rule loading.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadResult contains the rules loaded from a path, in authoring order.
type LoadResult struct {
	Automations []schema.Automation
	FileCount   int
}

// LoadRules compiles the automations in a .cue file, or in every .cue
// file under a directory. Files are visited in sorted path order so the
// resulting store positions are stable across runs.
func LoadRules(path string) (*LoadResult, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("rules path not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing rules path: %v", err)}
	}

	files := []string{path}
	if info.IsDir() {
		files, err = findCUEFiles(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
		}
		if len(files) == 0 {
			return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", path)}
		}
	}

	result := &LoadResult{FileCount: len(files)}
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("reading %s: %v", file, err)}
		}
		automations, err := compiler.CompileFile(file, src)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeCompileFailed, Message: err.Error()}
		}
		result.Automations = append(result.Automations, automations...)
	}
	return result, nil
}

// findCUEFiles walks the directory and returns all .cue file paths,
// sorted for deterministic position assignment.
func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}
