package feed

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/piraces/feedzone/pkg/helpers"
	"github.com/piraces/feedzone/pkg/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var ErrFeedNotFound = errors.New("no feed found at the given address")

var types = []string{
	"rss+xml",
	"atom+xml",
	"feed+json",
	"text/xml",
	"application/xml",
}

// Discovered is a feed address confirmed to serve a parsable feed.
type Discovered struct {
	URL   string
	Title string
}

type Discoverer struct {
	downloader *Downloader
	parser     *gofeed.Parser
}

func NewDiscoverer(timeout time.Duration) *Discoverer {
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 2 {
				return errors.New("stopped after 2 redirects")
			}
			return nil
		},
		Timeout: timeout,
	}
	return &Discoverer{
		downloader: NewDownloader(client),
		parser:     gofeed.NewParser(),
	}
}

// Discover resolves url to the feed it serves or advertises and checks that
// the feed parses.
func (d *Discoverer) Discover(ctx context.Context, url string) (Discovered, error) {
	feedURL, err := d.GetFeedURL(ctx, url)
	if err != nil {
		metrics.AppErrors.With(prometheus.Labels{"type": "DISCOVERY"}).Inc()
		return Discovered{}, err
	}

	parsed, err := d.ParseFeed(ctx, feedURL)
	if err != nil {
		metrics.AppErrors.With(prometheus.Labels{"type": "FEED_PARSE"}).Inc()
		return Discovered{}, errors.Wrapf(err, "error parsing feed '%s'", feedURL)
	}

	return Discovered{URL: feedURL, Title: parsed.Title}, nil
}

// GetFeedURL returns url itself when it serves a feed, or the first feed
// linked from the HTML page it serves.
func (d *Discoverer) GetFeedURL(ctx context.Context, url string) (string, error) {
	body, contentType, err := d.downloader.Download(ctx, url)
	if err != nil {
		return "", errors.Wrapf(err, "error downloading '%s'", url)
	}
	defer body.Close()

	for _, typ := range types {
		if strings.Contains(contentType, typ) {
			return url, nil
		}
	}

	if !strings.Contains(contentType, "text/html") {
		return "", errors.Wrapf(ErrFeedNotFound, "unexpected content type '%s'", contentType)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", errors.Wrap(err, "error reading html document")
	}

	for _, typ := range types {
		href, _ := doc.Find(fmt.Sprintf("link[type*='%s']", typ)).Attr("href")
		if href == "" {
			continue
		}
		if !helpers.IsAbsoluteHttpUrl(href) {
			href, err = helpers.ResolveUrl(url, href)
			if err != nil {
				return "", errors.Wrap(err, "error resolving relative feed link")
			}
		}
		log.Printf("[DEBUG] discovered feed %s from %s", href, url)
		return href, nil
	}

	return "", ErrFeedNotFound
}

func (d *Discoverer) ParseFeed(ctx context.Context, url string) (*gofeed.Feed, error) {
	body, _, err := d.downloader.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return d.parser.Parse(body)
}
