// Package catz reads and writes gzipped track files.
package catz

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotblauer/catseg/params"
)

type GZFileWriter struct {
	f      *os.File
	gzw    *gzip.Writer
	locked bool
	closed bool
}

type GZFileWriterConfig struct {
	CompressionLevel int
	Flag             int
	FilePerm         os.FileMode
	DirPerm          os.FileMode
}

// DefaultGZFileWriterConfig truncates existing files; every output is
// a whole rendering of one track.
func DefaultGZFileWriterConfig() *GZFileWriterConfig {
	return &GZFileWriterConfig{
		CompressionLevel: params.DefaultGZipCompressionLevel,
		Flag:             os.O_WRONLY | os.O_TRUNC | os.O_CREATE,
		FilePerm:         0660,
		DirPerm:          0770,
	}
}

func NewGZFileWriter(path string, config *GZFileWriterConfig) (*GZFileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), config.DirPerm); err != nil {
		return nil, err
	}
	fi, err := os.OpenFile(path, config.Flag, config.FilePerm)
	if err != nil {
		return nil, err
	}
	gzw, err := gzip.NewWriterLevel(fi, config.CompressionLevel)
	if err != nil {
		fi.Close()
		return nil, err
	}
	return &GZFileWriter{f: fi, gzw: gzw}, nil
}

func (g *GZFileWriter) Write(p []byte) (int, error) {
	g.lock()
	return g.gzw.Write(p)
}

// lock locks the file for exclusive access.
// The lock is released when the file is closed.
func (g *GZFileWriter) lock() {
	if g.locked || g.closed || g.f == nil {
		return
	}
	_ = syscall.Flock(int(g.f.Fd()), syscall.LOCK_EX)
	g.locked = true
}

func (g *GZFileWriter) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	if err := g.gzw.Close(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}

func (g *GZFileWriter) Path() string {
	return g.f.Name()
}

// WriteFile writes the output of fn to a gzipped file at path.
func WriteFile(path string, fn func(w io.Writer) error) error {
	gzw, err := NewGZFileWriter(path, DefaultGZFileWriterConfig())
	if err != nil {
		return err
	}
	if err := fn(gzw); err != nil {
		gzw.Close()
		return err
	}
	return gzw.Close()
}

type GZFileReader struct {
	f      *os.File
	gzr    *gzip.Reader
	closed bool
}

func NewGZFileReader(path string) (*GZFileReader, error) {
	fi, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	gzr, err := gzip.NewReader(fi)
	if err != nil {
		fi.Close()
		return nil, err
	}
	return &GZFileReader{f: fi, gzr: gzr}, nil
}

func (g *GZFileReader) Path() string {
	return g.f.Name()
}

// Read satisfies the io.Reader interface.
func (g *GZFileReader) Read(p []byte) (int, error) {
	return g.gzr.Read(p)
}

// Close closes the gzip reader and the file.
func (g *GZFileReader) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	if err := g.gzr.Close(); err != nil {
		g.f.Close()
		return err
	}
	return g.f.Close()
}

// LineCount consumes the reader.
func (g *GZFileReader) LineCount() (int, error) {
	count := 0
	scanner := bufio.NewScanner(g.gzr)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}

// IsGZ reports whether path names a gzipped file.
func IsGZ(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

// Open opens path for reading, decompressing it if it is gzipped.
func Open(path string) (io.ReadCloser, error) {
	if IsGZ(path) {
		return NewGZFileReader(path)
	}
	return os.Open(path)
}

// TrimExt strips a trailing .gz and then the format extension of path.
func TrimExt(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	return strings.TrimSuffix(base, filepath.Ext(base))
}
