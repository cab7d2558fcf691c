// Package scan walks a directory tree for ROM files and archives, decodes
// every header it finds and reports the results in file order.
package scan

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"inespector/ines"
	"inespector/log"
)

// Result is the outcome of decoding one ROM, on disk or inside an archive.
// Exactly one of Header or Err may be missing: a bad signature carries both
// (the raw header plus the error), a read failure only Err.
type Result struct {
	// Path is relative to the scanned root. A ROM inside an archive is
	// "archive.zip:entry.nes".
	Path string

	Header   *ines.Header
	Layout   *ines.Layout
	FileSize int64
	Err      error
}

// Scanner finds and decodes ROMs under a root directory. Files are read in
// parallel but results always come back in sorted file order.
type Scanner struct {
	// Jobs caps the number of files read in parallel. 0 means NumCPU.
	Jobs int

	// Filter drops decoded headers that do not match. Results carrying
	// an error are never filtered.
	Filter Filter
}

const romExt = ".nes"

// Archive extensions the walk picks up. 7z and rar are recognized so they
// can be reported as unsupported instead of silently skipped.
var archiveExts = []string{".zip", ".7z", ".rar"}

// ScanDir walks root and decodes every ROM file and zip archive entry found
// under it. Per-file problems land in the results; the returned error is
// only for walking failures or context cancellation.
func (s *Scanner) ScanDir(ctx context.Context, root string) ([]Result, error) {
	start := time.Now()

	files, err := collectFiles(root)
	if err != nil {
		return nil, err
	}
	log.ModScan.DebugZ("collected files").Int("count", len(files)).String("root", root).End()

	jobs := s.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	perFile := make([][]Result, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perFile[i] = s.scanFile(root, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []Result
	for _, rs := range perFile {
		results = append(results, rs...)
	}
	log.ModScan.DebugZ("scan complete").
		Int("results", len(results)).
		Duration("elapsed", time.Since(start)).
		End()
	return results, nil
}

func collectFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == romExt || slices.Contains(archiveExts, ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

func (s *Scanner) scanFile(root, path string) []Result {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case romExt:
		if r, ok := s.scanROM(rel, path); ok {
			return []Result{r}
		}
		return nil
	case ".zip":
		return s.scanZip(rel, path)
	case ".7z", ".rar":
		log.ModArchive.WarnZ("unsupported archive format, skipping").String("path", rel).End()
		return nil
	}
	return nil
}

// scanROM decodes the header of a single .nes file. The second return is
// false when the ROM decoded fine but the filter rejected it.
func (s *Scanner) scanROM(rel, path string) (Result, bool) {
	res := Result{Path: rel}

	f, err := os.Open(path)
	if err != nil {
		res.Err = err
		return res, true
	}
	defer f.Close()

	var raw [ines.HeaderSize]byte
	if _, err := io.ReadFull(f, raw[:]); err != nil {
		res.Err = fmt.Errorf("file too short (less than %d bytes)", ines.HeaderSize)
		return res, true
	}

	fi, err := f.Stat()
	if err != nil {
		res.Err = err
		return res, true
	}

	return s.finish(res, raw[:], fi.Size())
}

func (s *Scanner) scanZip(rel, path string) []Result {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return []Result{{Path: rel, Err: err}}
	}
	defer zr.Close()

	var results []Result
	found := 0
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(zf.Name), romExt) {
			continue
		}
		found++

		if r, ok := s.scanZipEntry(rel+":"+zf.Name, zf); ok {
			results = append(results, r)
		}
	}

	if found == 0 {
		results = append(results, Result{Path: rel, Err: errors.New("no .nes files found in archive")})
	}
	return results
}

func (s *Scanner) scanZipEntry(path string, zf *zip.File) (Result, bool) {
	res := Result{Path: path}

	log.ModArchive.DebugZ("zip entry").
		String("path", path).
		Uint64("size", zf.UncompressedSize64).
		End()

	rc, err := zf.Open()
	if err != nil {
		res.Err = err
		return res, true
	}
	defer rc.Close()

	var raw [ines.HeaderSize]byte
	if _, err := io.ReadFull(rc, raw[:]); err != nil {
		res.Err = fmt.Errorf("file too short (less than %d bytes)", ines.HeaderSize)
		return res, true
	}

	return s.finish(res, raw[:], int64(zf.UncompressedSize64))
}

// finish runs the common tail of a scan: decode, layout, filter.
func (s *Scanner) finish(res Result, raw []byte, fileSize int64) (Result, bool) {
	hdr, err := ines.DecodeHeader(raw)
	res.Header = hdr
	if err != nil {
		log.ModScan.DebugZ("undecodable header").
			String("path", res.Path).
			Blob("raw", raw).
			End()
		res.Err = err
		return res, true
	}

	log.ModScan.DebugZ("decoded header").
		String("path", res.Path).
		Stringer("format", hdr.Format).
		Int("mapper", hdr.Mapper).
		End()

	res.FileSize = fileSize
	lay, err := hdr.Layout(fileSize)
	if err != nil {
		res.Err = err
		return res, true
	}
	res.Layout = lay

	if !s.Filter.Match(hdr) {
		return Result{}, false
	}
	return res, true
}
