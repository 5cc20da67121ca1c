// Package tradelog journals booked fills and quotes as daily JSON-lines files.
package tradelog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"bond-market-maker/internal/interfaces"
	"bond-market-maker/internal/types"
)

const dateLayout = "2006-01-02"

// QuoteEntry is one published two-way price.
type QuoteEntry struct {
	Time     string  `json:"time"`
	Ticker   string  `json:"ticker"`
	Mid      float64 `json:"mid"`
	Bid      float64 `json:"bid"`
	Ask      float64 `json:"ask"`
	Skew     float64 `json:"skew"`
	Position float64 `json:"position"`
}

// Journal writes under Dir: fills/YYYY-MM-DD.txt and quotes/YYYY-MM-DD.txt,
// dated in UTC.
type Journal struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

var _ interfaces.FillJournal = (*Journal)(nil)

func New(dir string) *Journal {
	if dir == "" {
		dir = "logs"
	}
	return &Journal{dir: dir, now: time.Now}
}

func (j *Journal) Dir() string { return j.dir }

// FillsPath is the fills file for the day containing t.
func (j *Journal) FillsPath(t time.Time) string {
	return filepath.Join(j.dir, "fills", t.UTC().Format(dateLayout)+".txt")
}

func (j *Journal) quotesPath(t time.Time) string {
	return filepath.Join(j.dir, "quotes", t.UTC().Format(dateLayout)+".txt")
}

// Append writes f to the file for the fill's own date, or today's when the
// fill carries no time.
func (j *Journal) Append(f types.Fill) error {
	t := f.Time
	if t.IsZero() {
		t = j.now()
	}
	return j.appendLine(j.FillsPath(t), f)
}

func (j *Journal) AppendQuote(e QuoteEntry) error {
	now := j.now().UTC()
	e.Time = now.Format(time.RFC3339)
	return j.appendLine(j.quotesPath(now), e)
}

func (j *Journal) appendLine(p string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips journal files last modified more than retentionDays
// ago and removes the originals. Files it cannot read are left alone.
func (j *Journal) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	cutoff := j.now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(j.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		// already compressed on an earlier pass
		if _, err := os.Stat(gz); err == nil {
			_ = os.Remove(p)
			return nil
		}
		if err := gzipFile(p, gz); err != nil {
			return nil
		}
		_ = os.Remove(p)
		return nil
	})
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		_ = gw.Close()
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	if err := gw.Close(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// ReadFills loads every fill recorded for the day containing t. A missing
// file yields no fills and no error.
func (j *Journal) ReadFills(t time.Time) ([]types.Fill, error) {
	return readFills(j.FillsPath(t))
}
