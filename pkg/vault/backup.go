package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format is a backup file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// BackupVersion is written into every backup file.
const BackupVersion = 1

// ParseFormat accepts "json", "yaml" or "yml", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Entry is one account in a backup file. IDs are not exported; importing
// always assigns fresh ones.
type Entry struct {
	Secret string   `json:"secret" yaml:"secret"`
	Issuer string   `json:"issuer" yaml:"issuer"`
	Label  string   `json:"label" yaml:"label"`
	Tags   []string `json:"tags" yaml:"tags"`
}

// Backup is the export file layout.
type Backup struct {
	Version    int       `json:"version" yaml:"version"`
	ExportedAt time.Time `json:"exportedAt" yaml:"exportedAt"`
	Data       []Entry   `json:"data" yaml:"data"`
}

// Export writes every account to w. Secrets are written in plaintext: the
// backup is meant to be re-imported on another device.
func (v *Vault) Export(w io.Writer, format Format, now time.Time) error {
	accounts := v.List()
	if len(accounts) == 0 {
		return ErrNothingToExport
	}

	b := Backup{
		Version:    BackupVersion,
		ExportedAt: now.UTC(),
		Data:       make([]Entry, len(accounts)),
	}
	for i, a := range accounts {
		b.Data[i] = Entry{Secret: a.Secret, Issuer: a.Issuer, Label: a.Label, Tags: a.Tags}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(b); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ParseBackup reads either a Backup document or a bare list of entries.
func ParseBackup(r io.Reader, format Format) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(ErrInvalidBackup, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrInvalidBackup
	}

	var unmarshal func([]byte, any) error
	switch format {
	case FormatJSON:
		unmarshal = json.Unmarshal
	case FormatYAML:
		unmarshal = yaml.Unmarshal
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	var list []Entry
	if err := unmarshal(data, &list); err == nil {
		return list, nil
	}

	var b Backup
	if err := unmarshal(data, &b); err != nil {
		return nil, errors.Join(ErrInvalidBackup, err)
	}
	if b.Data == nil {
		return nil, fmt.Errorf("%w: missing data list", ErrInvalidBackup)
	}
	return b.Data, nil
}

// ImportFrom parses a backup from r and imports it.
func (v *Vault) ImportFrom(ctx context.Context, r io.Reader, format Format) (int, error) {
	entries, err := ParseBackup(r, format)
	if err != nil {
		return 0, err
	}
	return v.Import(ctx, entries)
}
