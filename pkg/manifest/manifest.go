package manifest

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/prosidy/internal/logging"
	"github.com/yaklabco/prosidy/pkg/ast"
	"github.com/yaklabco/prosidy/pkg/fsutil"
	"github.com/yaklabco/prosidy/pkg/parser"
)

// Entry is the header of one source file.
type Entry struct {
	// Path is slash-separated and relative to the manifest root.
	Path string

	// Meta is the parsed header. It owns its text. Nil when Err is set.
	Meta *ast.Meta

	// Err is set when the file could not be read or its header did not
	// parse.
	Err error

	// Source is the decoded file content, kept only for failed entries so
	// errors can be rendered against it.
	Source string
}

// Stats captures aggregate information about a scan.
type Stats struct {
	Discovered int
	Parsed     int
	Failed     int
	// Skipped counts vendored paths and binary files.
	Skipped int
}

// Manifest maps source paths to their headers.
type Manifest struct {
	// Root is the absolute directory that was scanned.
	Root string

	// Entries are ordered by path and include failures.
	Entries []Entry

	Stats Stats
}

// Lookup returns the header parsed for path.
func (m *Manifest) Lookup(path string) (*ast.Meta, bool) {
	for i := range m.Entries {
		if m.Entries[i].Path == path {
			return m.Entries[i].Meta, m.Entries[i].Meta != nil
		}
	}
	return nil, false
}

// Failures returns the entries that could not be parsed.
func (m *Manifest) Failures() []Entry {
	var out []Entry
	for _, e := range m.Entries {
		if e.Err != nil {
			out = append(out, e)
		}
	}
	return out
}

// HasFailures reports whether any entry failed.
func (m *Manifest) HasFailures() bool {
	return m != nil && m.Stats.Failed > 0
}

type outcome struct {
	index   int
	entry   Entry
	skipped bool
}

// Scan discovers sources under opts.Root and parses their headers
// concurrently. Per-file failures are recorded on their entries; the
// returned error covers discovery failures and cancellation.
func Scan(ctx context.Context, opts Options) (*Manifest, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}
	prs := opts.Parser
	if prs == nil {
		prs = parser.New()
	}

	start := time.Now()

	root, files, vendored, err := discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		Root:    root,
		Entries: make([]Entry, 0, len(files)),
		Stats:   Stats{Discovered: len(files), Skipped: vendored},
	}
	if len(files) == 0 {
		return m, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	logger.Debug("scanning manifest",
		logging.FieldRoot, root,
		logging.FieldFiles, len(files),
		logging.FieldJobs, jobs)

	workCh := make(chan int)
	outCh := make(chan outcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(ctx, prs, logger, files, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for i := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Workers finish out of order; slots keep the discovery order.
	slots := make([]*outcome, len(files))
	for out := range outCh {
		slots[out.index] = &out
	}

	for _, out := range slots {
		if out == nil {
			continue
		}
		switch {
		case out.skipped:
			m.Stats.Skipped++
		case out.entry.Err != nil:
			m.Stats.Failed++
			m.Entries = append(m.Entries, out.entry)
		default:
			m.Stats.Parsed++
			m.Entries = append(m.Entries, out.entry)
		}
	}

	logger.Debug("manifest scanned",
		logging.FieldEntries, m.Stats.Parsed,
		logging.FieldFailed, m.Stats.Failed,
		logging.FieldSkipped, m.Stats.Skipped,
		logging.FieldDuration, time.Since(start))

	if ctx.Err() != nil {
		return m, fmt.Errorf("manifest scan cancelled: %w", ctx.Err())
	}
	return m, nil
}

func worker(
	ctx context.Context,
	prs *parser.Parser,
	logger *log.Logger,
	files []candidate,
	workCh <-chan int,
	outCh chan<- outcome,
) {
	for i := range workCh {
		if ctx.Err() != nil {
			return
		}

		out := readEntry(ctx, prs, logger, files[i])
		out.index = i

		select {
		case <-ctx.Done():
			return
		case outCh <- out:
		}
	}
}

func readEntry(ctx context.Context, prs *parser.Parser, logger *log.Logger, file candidate) outcome {
	entry := Entry{Path: file.rel}

	data, _, err := fsutil.ReadFile(ctx, file.abs)
	if err != nil {
		entry.Err = err
		return outcome{entry: entry}
	}

	if !hasUTF16BOM(data) && enry.IsBinary(data) {
		logger.Debug("skipping binary file", logging.FieldPath, file.rel)
		return outcome{skipped: true}
	}

	src, err := parser.DecodeSource(data)
	if err != nil {
		entry.Err = err
		return outcome{entry: entry}
	}

	meta, err := prs.ParseMeta(src)
	if err != nil {
		logger.Debug("header did not parse",
			logging.FieldPath, file.rel,
			logging.FieldError, err)
		entry.Err = err
		entry.Source = src
		return outcome{entry: entry}
	}

	meta.IntoOwned()
	entry.Meta = meta
	return outcome{entry: entry}
}

// hasUTF16BOM reports whether data starts with a UTF-16 byte order mark.
// Such files contain NUL bytes and would otherwise look binary.
func hasUTF16BOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF})
}
