package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/vvka-141/ddlcheck/internal/preprocessor"
)

// Calculator computes content checksums.
type Calculator interface {
	// CalculateRaw computes a checksum of the raw, unmodified content.
	CalculateRaw(content []byte) string

	// CalculateNormalized computes a checksum of normalized content.
	CalculateNormalized(content []byte) string
}

// SHA256 implements Calculator with SHA-256.
// It is safe for concurrent use by multiple goroutines.
type SHA256 struct {
	pipeline *preprocessor.Pipeline
}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{pipeline: preprocessor.NewPipeline()}
}

// CalculateRaw computes SHA-256 of raw content.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// CalculateNormalized computes SHA-256 of normalized content.
func (c SHA256) CalculateNormalized(content []byte) string {
	hash := sha256.Sum256([]byte(c.normalize(string(content))))
	return hex.EncodeToString(hash[:])
}

func (c SHA256) normalize(content string) string {
	p := c.pipeline
	if p == nil {
		p = preprocessor.NewPipeline()
	}
	return strings.ToLower(strings.TrimSpace(p.Normalize(content)))
}

var _ Calculator = SHA256{}
