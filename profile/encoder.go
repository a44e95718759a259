package profile

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"base16builder/model"
	"base16builder/plist"
)

// Encoder converts an XML property list to the binary encoding.
type Encoder interface {
	EncodeBinary(ctx context.Context, xml []byte) ([]byte, error)
}

// Encoder selection modes.
const (
	ModeAuto   = "auto"
	ModePlutil = "plutil"
	ModeNative = "native"
	ModeNone   = "none"
)

// Native encodes in-process.
type Native struct{}

func (Native) EncodeBinary(_ context.Context, xml []byte) ([]byte, error) {
	doc, err := plist.Parse(xml)
	if err != nil {
		return nil, err
	}
	return doc.Marshal(plist.BinaryFormat)
}

// Plutil shells out to the platform plutil tool. Each call works on its own
// temp file so interleaved conversions never share a path.
type Plutil struct {
	Path    string
	TempDir string
}

func (p Plutil) EncodeBinary(ctx context.Context, xml []byte) ([]byte, error) {
	dir := p.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	name := filepath.Join(dir, "color-"+uuid.NewString()+".plist")
	if err := os.WriteFile(name, xml, 0o600); err != nil {
		return nil, fmt.Errorf("write %s: %w", name, err)
	}
	defer os.Remove(name)

	out, err := exec.CommandContext(ctx, p.Path, "-convert", "binary1", name).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("plutil -convert binary1: %w: %s", err, bytes.TrimSpace(out))
	}
	return os.ReadFile(name)
}

// Detect resolves the binary conversion capability once per run.
// It fails with model.ErrEnvironmentUnsupported when the requested
// capability is absent.
func Detect(mode, plutilPath, tempDir string) (Encoder, error) {
	if plutilPath == "" {
		plutilPath = "plutil"
	}
	switch mode {
	case "", ModeAuto:
		if path, err := exec.LookPath(plutilPath); err == nil {
			return Plutil{Path: path, TempDir: tempDir}, nil
		}
		return Native{}, nil
	case ModePlutil:
		path, err := exec.LookPath(plutilPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %s not found: %v", model.ErrEnvironmentUnsupported, plutilPath, err)
		}
		return Plutil{Path: path, TempDir: tempDir}, nil
	case ModeNative:
		return Native{}, nil
	case ModeNone:
		return nil, fmt.Errorf("%w: binary conversion disabled", model.ErrEnvironmentUnsupported)
	}
	return nil, fmt.Errorf("unknown encoder mode %q", mode)
}
