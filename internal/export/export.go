package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/objseed/internal/types"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted values of --format.
var Formats = []string{FormatJSON, FormatYAML}

func normalize(format string) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s. Supported formats: %v", format, Formats)
	}
}

func marshal(tree *types.ClassTree, format string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if format == FormatYAML {
		data, err = yaml.Marshal(tree)
	} else {
		data, err = json.MarshalIndent(tree, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal class %d: %w", tree.ID, err)
	}
	return data, nil
}

// Encode writes tree to w in the given format.
func Encode(w io.Writer, tree *types.ClassTree, format string) error {
	format, err := normalize(format)
	if err != nil {
		return err
	}

	data, err := marshal(tree, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteClass stores tree in exportPath under a timestamped name and returns
// the file path.
func WriteClass(tree *types.ClassTree, exportPath, format string) (string, error) {
	format, err := normalize(format)
	if err != nil {
		return "", err
	}

	data, err := marshal(tree, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(exportPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filePath := filepath.Join(exportPath, fmt.Sprintf("class_%d_%s.%s", tree.ID, timestamp, format))

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return filePath, nil
}
