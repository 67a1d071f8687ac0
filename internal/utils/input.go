package utils

import (
	"fmt"
	"io"
	"os"
)

// StdinPath is the positional argument that selects standard input.
const StdinPath = "-"

// ReadInput reads the entire scan input. A path of "-" buffers standard
// input until EOF; anything else is read as a file. The full content is
// returned in one piece so matching always sees the whole text.
func ReadInput(path string) ([]byte, error) {
	if path == StdinPath {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

// InputName returns a display name for the input source.
func InputName(path string) string {
	if path == StdinPath {
		return "stdin"
	}
	return path
}
