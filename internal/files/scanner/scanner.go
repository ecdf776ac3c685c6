package scanner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vvka-141/ddlcheck/internal/checksum"
	"github.com/vvka-141/ddlcheck/internal/files/filesystem"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

// Scanner discovers SQL files in a directory tree.
// Scanner is safe for concurrent use by multiple goroutines as long as
// the provided calculator and fsProvider are also thread-safe.
type Scanner struct {
	calculator checksum.Calculator
	fsProvider filesystem.FileSystemProvider
}

// NewScanner creates a new file scanner with the given checksum calculator.
// Uses OS filesystem by default.
// Panics if calculator is nil.
func NewScanner(calculator checksum.Calculator) *Scanner {
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	return &Scanner{
		calculator: calculator,
		fsProvider: filesystem.NewOSFileSystem(),
	}
}

// NewScannerWithFS creates a new file scanner with a custom filesystem provider.
// Panics if calculator or fsProvider is nil.
func NewScannerWithFS(calculator checksum.Calculator, fsProvider filesystem.FileSystemProvider) *Scanner {
	if calculator == nil {
		panic("calculator cannot be nil")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{
		calculator: calculator,
		fsProvider: fsProvider,
	}
}

// ScanDirectory recursively scans sourcePath for .sql files.
// A missing directory is reported as ddlcheck.ErrInputUnavailable.
func (s *Scanner) ScanDirectory(sourcePath string) (ddlcheck.FileScanResult, error) {
	dir, err := s.fsProvider.Open(sourcePath)
	if err != nil {
		return ddlcheck.FileScanResult{}, fmt.Errorf("failed to open directory %s: %w: %w", sourcePath, ddlcheck.ErrInputUnavailable, err)
	}

	var files []ddlcheck.SourceFile

	err = dir.Walk(func(file filesystem.File, err error) error {
		if err != nil {
			return fmt.Errorf("error walking path: %w", err)
		}

		if file.Info().IsDir() || !IsSQLFile(file.Info().Name()) {
			return nil
		}

		source, err := s.processFile(file)
		if err != nil {
			return fmt.Errorf("failed to process file %s: %w", file.RelativePath(), err)
		}

		files = append(files, source)
		return nil
	})
	if err != nil {
		return ddlcheck.FileScanResult{}, err
	}

	return ddlcheck.FileScanResult{Files: files}, nil
}

// ReadFile loads a single script with the same metadata as a directory scan.
func (s *Scanner) ReadFile(path string) (ddlcheck.SourceFile, error) {
	info, err := s.fsProvider.Stat(path)
	if err != nil {
		return ddlcheck.SourceFile{}, fmt.Errorf("%s: %w: %w", path, ddlcheck.ErrInputUnavailable, err)
	}
	if info.IsDir() {
		return ddlcheck.SourceFile{}, fmt.Errorf("%s is a directory: %w", path, ddlcheck.ErrInputUnavailable)
	}

	content, err := s.fsProvider.ReadFile(path)
	if err != nil {
		return ddlcheck.SourceFile{}, fmt.Errorf("failed to read %s: %w: %w", path, ddlcheck.ErrInputUnavailable, err)
	}

	return s.describe(filepath.ToSlash(path), filepath.ToSlash(filepath.Base(path)), info, content), nil
}

func (s *Scanner) processFile(file filesystem.File) (ddlcheck.SourceFile, error) {
	content, err := file.ReadContent()
	if err != nil {
		return ddlcheck.SourceFile{}, fmt.Errorf("failed to read file: %w: %w", ddlcheck.ErrInputUnavailable, err)
	}

	return s.describe(filepath.ToSlash(file.Path()), filepath.ToSlash(file.RelativePath()), file.Info(), content), nil
}

func (s *Scanner) describe(path, rel string, info filesystem.FileInfo, content []byte) ddlcheck.SourceFile {
	return ddlcheck.SourceFile{
		Path:         path,
		RelativePath: rel,
		Name:         info.Name(),
		Content:      string(content),
		SizeBytes:    info.Size(),
		Checksum:     s.calculator.CalculateNormalized(content),
		ChecksumRaw:  s.calculator.CalculateRaw(content),
		ModifiedAt:   info.ModTime(),
	}
}

// IsSQLFile reports whether name carries the .sql extension.
func IsSQLFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ddlcheck.SQLFileExtension)
}

// Verify Scanner implements the interface at compile time
var _ ddlcheck.FileScanner = (*Scanner)(nil)
