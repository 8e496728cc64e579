package internal

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// VideoRecord is one row of the catalog.
type VideoRecord struct {
	Number        int
	VideoID       string
	URL           string
	Title         string
	DatePublished string
	Duration      string
	DurationSec   int
}

// PageFetcher retrieves the raw HTML of a video page.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (io.ReadCloser, error)
}

// HTTPPageFetcher fetches pages over plain HTTP GET.
type HTTPPageFetcher struct {
	client *http.Client
}

// NewPageFetcher creates a fetcher with a sane request timeout.
func NewPageFetcher() *HTTPPageFetcher {
	return &HTTPPageFetcher{client: &http.Client{Timeout: 30 * time.Second}}
}

// Fetch GETs the page and fails on any non-2xx response.
func (f *HTTPPageFetcher) Fetch(ctx context.Context, pageURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", pageURL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	return resp.Body, nil
}

// Collector scrapes video metadata into catalog records.
type Collector struct {
	fetcher PageFetcher
	ui      UIManager
	verbose bool
}

// NewCollector creates a metadata collector.
func NewCollector(fetcher PageFetcher, ui UIManager, verbose bool) *Collector {
	return &Collector{fetcher: fetcher, ui: ui, verbose: verbose}
}

// Collect scrapes every URL in input order, assigning 1-based sequence
// numbers. Items with missing metadata or failing fetches are dropped with
// a notice; an invalid reference aborts the batch.
func (c *Collector) Collect(ctx context.Context, rawURLs []string) ([]VideoRecord, error) {
	var records []VideoRecord
	scraped := 0

	for i, rawURL := range rawURLs {
		record, err := c.Scrape(ctx, i+1, rawURL)
		if err != nil {
			if errors.Is(err, ErrInvalidReference) {
				return records, err
			}
			// Fetch failures name the offending URL; skip the item only
			c.ui.Warnf("Warning: %v\n", err)
			continue
		}
		if record == nil {
			c.ui.Warnf("Warning: incomplete metadata for %s, dropping\n", rawURL)
			continue
		}

		records = append(records, *record)
		scraped++
		if scraped%10 == 0 {
			c.ui.Printf("Finished processing video number: %d\n", scraped)
		}
	}

	return records, nil
}

// Scrape fetches and parses a single video page. A nil record with nil
// error means a required field was missing and the item should be dropped.
func (c *Collector) Scrape(ctx context.Context, number int, rawURL string) (*VideoRecord, error) {
	ref, err := NormalizeReference(rawURL)
	if err != nil {
		return nil, err
	}

	body, err := c.fetcher.Fetch(ctx, ref.URL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing page %s: %w", ref.URL, err)
	}

	videoID := metaContent(doc, "identifier")
	title := metaContent(doc, "name")
	published := formatPublishDate(metaContent(doc, "datePublished"))
	display, seconds, durErr := ParseISODuration(metaContent(doc, "duration"))

	if videoID == "" || title == "" || published == "" || durErr != nil {
		if c.verbose {
			c.ui.Verbose("Missing metadata on %s (id=%q title=%q date=%q duration err=%v)\n",
				ref.URL, videoID, title, published, durErr)
		}
		return nil, nil
	}

	return &VideoRecord{
		Number:        number,
		VideoID:       videoID,
		URL:           ref.URL,
		Title:         title,
		DatePublished: published,
		Duration:      display,
		DurationSec:   seconds,
	}, nil
}

// metaContent reads the content attribute of a <meta itemprop=...> tag.
func metaContent(doc *goquery.Document, itemprop string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[itemprop=%q]`, itemprop)).First().Attr("content")
	return content
}

// formatPublishDate reformats the page's RFC3339 publish timestamp as
// DD-MM-YYYY. Returns "" if the value is absent or unparseable.
func formatPublishDate(value string) string {
	if value == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return ""
	}
	return t.Format("02-01-2006")
}

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISODuration parses the page's ISO-8601 duration (PT#H#M#S) into a
// display string (H:MM:SS when hours > 0, else M:SS) and total seconds.
// Minute counts of 60 or more carry into hours.
func ParseISODuration(value string) (string, int, error) {
	m := isoDurationPattern.FindStringSubmatch(value)
	if m == nil || value == "PT" {
		return "", 0, fmt.Errorf("unrecognized duration: %q", value)
	}

	hours := atoiDefault(m[1])
	minutes := atoiDefault(m[2])
	seconds := atoiDefault(m[3])

	hours += minutes / 60
	minutes %= 60

	total := hours*3600 + minutes*60 + seconds

	var display string
	if hours > 0 {
		display = fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	} else {
		display = fmt.Sprintf("%d:%02d", minutes, seconds)
	}

	return display, total, nil
}

func atoiDefault(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

// ReadURLList reads the input list, one URL per record (first field of each
// CSV row), keeping only lines that look like video URLs.
func ReadURLList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening URL list: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var urls []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading URL list: %w", err)
		}
		if len(row) > 0 && IsLikelyVideoURL(row[0]) {
			urls = append(urls, row[0])
		}
	}

	return urls, nil
}
