package storage

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

const journalPrefix = "landings"

// JournalEntry is one line of the landing journal.
type JournalEntry struct {
	Time      time.Time `json:"time"`
	Kind      string    `json:"kind"`
	X         float64   `json:"x,omitempty"`
	XAbs      float64   `json:"x_abs,omitempty"`
	W         int       `json:"w,omitempty"`
	ColorIdx  int       `json:"colorIdx,omitempty"`
	TiltAfter float64   `json:"tilt_after"`
}

// Journal appends entries as zstd-compressed JSONL. Each writer session
// gets its own file per UTC day, so a session that never closed cannot
// corrupt the frames written after it.
type Journal struct {
	dir string
	now func() time.Time

	mu     sync.Mutex
	curDay string
	f      *os.File
	enc    *zstd.Encoder
	w      *bufio.Writer
}

func NewJournal(dir string) *Journal {
	return &Journal{dir: dir, now: time.Now}
}

func (j *Journal) Write(e JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if e.Time.IsZero() {
		e.Time = j.now().UTC()
	}
	day := e.Time.UTC().Format("2006-01-02")
	if day != j.curDay {
		if err := j.rotateLocked(day); err != nil {
			return err
		}
	}

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := j.w.Write(b); err != nil {
		return err
	}
	if err := j.w.WriteByte('\n'); err != nil {
		return err
	}
	if err := j.w.Flush(); err != nil {
		return err
	}
	return j.enc.Flush()
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.closeLocked()
}

func (j *Journal) rotateLocked(day string) error {
	if err := j.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return err
	}
	f, err := j.createLocked(day)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	j.f = f
	j.enc = enc
	j.w = bufio.NewWriterSize(enc, 32*1024)
	j.curDay = day
	return nil
}

func (j *Journal) closeLocked() error {
	var err error
	if j.w != nil {
		_ = j.w.Flush()
	}
	if j.enc != nil {
		err = j.enc.Close()
		j.enc = nil
	}
	if j.f != nil {
		_ = j.f.Close()
		j.f = nil
	}
	j.w = nil
	j.curDay = ""
	return err
}

// createLocked opens a new file for day. The name carries the wall clock
// in nanoseconds and is bumped until it does not collide.
func (j *Journal) createLocked(day string) (*os.File, error) {
	stamp := time.Now().UnixNano()
	for {
		f, err := os.OpenFile(j.pathFor(day, stamp), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			stamp++
			continue
		}
		return f, err
	}
}

func (j *Journal) pathFor(day string, stamp int64) string {
	return filepath.Join(j.dir, fmt.Sprintf("%s-%s-%d.jsonl.zst", journalPrefix, day, stamp))
}

// ReadJournal returns every entry under dir in file (day, session) order.
// A file left torn or corrupt by a crashed writer contributes the entries
// decoded before the damage; only unreadable files are errors.
func ReadJournal(dir string) ([]JournalEntry, error) {
	paths, err := filepath.Glob(filepath.Join(dir, journalPrefix+"-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	entries := make([]JournalEntry, 0)
	for _, p := range paths {
		got, err := readJournalFile(p)
		if err != nil {
			return entries, fmt.Errorf("read %s: %w", p, err)
		}
		entries = append(entries, got...)
	}
	return entries, nil
}

func readJournalFile(path string) ([]JournalEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(1))
	if err != nil {
		// bad frame header
		return nil, nil
	}
	defer dec.Close()

	var entries []JournalEntry
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var e JournalEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	// A scan error is a damaged frame; the entries before it stand.
	return entries, nil
}

// ExportCSV writes entries as CSV with a header row.
func ExportCSV(out io.Writer, entries []JournalEntry) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"time", "kind", "x", "x_abs", "w", "colorIdx", "tilt_after"}); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			e.Time.Format(time.RFC3339Nano),
			e.Kind,
			strconv.FormatFloat(e.X, 'f', 6, 64),
			strconv.FormatFloat(e.XAbs, 'f', 6, 64),
			strconv.Itoa(e.W),
			strconv.Itoa(e.ColorIdx),
			strconv.FormatFloat(e.TiltAfter, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
