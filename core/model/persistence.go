package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ezoic/carprep/pkg/errors"
)

// FormatVersion is the version written into every persisted envelope.
const FormatVersion = "1.0"

// Envelope is the on-disk layout of a persisted object.
type Envelope struct {
	FormatVersion string          `json:"format_version"`
	Kind          string          `json:"kind"`
	Payload       json.RawMessage `json:"payload"`
}

// SaveObject writes state to path inside a versioned envelope tagged with
// kind. Parent directories are created as needed; an existing file is
// overwritten.
//
// Example:
//
//	err := model.SaveObject("artifact/preprocessor.pkl", "Preprocessor", state)
func SaveObject(path, kind string, state interface{}) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewIOError("SaveObject", path, fmt.Errorf("failed to create directory: %w", err))
		}
	}

	// Encode before touching the file so a bad payload leaves no partial artifact.
	var buf bytes.Buffer
	if err := SaveObjectToWriter(&buf, kind, state); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewIOError("SaveObject", path, fmt.Errorf("failed to create file: %w", err))
	}
	if _, err := buf.WriteTo(file); err != nil {
		_ = file.Close()
		return errors.NewIOError("SaveObject", path, fmt.Errorf("failed to write file: %w", err))
	}
	if err := file.Close(); err != nil {
		return errors.NewIOError("SaveObject", path, fmt.Errorf("failed to close file: %w", err))
	}
	return nil
}

// SaveObjectToWriter encodes state as an envelope to w.
func SaveObjectToWriter(w io.Writer, kind string, state interface{}) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return errors.NewSerializationError("SaveObject", fmt.Errorf("failed to encode payload: %w", err))
	}

	env := Envelope{
		FormatVersion: FormatVersion,
		Kind:          kind,
		Payload:       payload,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(&env); err != nil {
		return errors.NewSerializationError("SaveObject", fmt.Errorf("failed to encode envelope: %w", err))
	}
	return nil
}

// LoadObject reads the envelope at path, checks version and kind, and
// decodes the payload into state.
func LoadObject(path, kind string, state interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.NewIOError("LoadObject", path, fmt.Errorf("failed to open file: %w", err))
	}
	defer func() { _ = file.Close() }()

	return LoadObjectFromReader(file, kind, state)
}

// LoadObjectFromReader is LoadObject for an arbitrary reader.
func LoadObjectFromReader(r io.Reader, kind string, state interface{}) error {
	var env Envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return errors.NewSerializationError("LoadObject", fmt.Errorf("failed to decode envelope: %w", err))
	}

	if env.FormatVersion == "" {
		return errors.NewSerializationError("LoadObject",
			errors.NewValueError("LoadObject", "format_version is required"))
	}
	if env.FormatVersion != FormatVersion {
		return errors.NewSerializationError("LoadObject",
			errors.NewValueError("LoadObject", fmt.Sprintf("unsupported format version: %s", env.FormatVersion)))
	}
	if env.Kind != kind {
		return errors.NewSerializationError("LoadObject",
			errors.NewValueError("LoadObject", fmt.Sprintf("expected kind %s, got %s", kind, env.Kind)))
	}

	if err := json.Unmarshal(env.Payload, state); err != nil {
		return errors.NewSerializationError("LoadObject", fmt.Errorf("failed to decode payload: %w", err))
	}
	return nil
}
