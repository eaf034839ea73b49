package producer

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// rssFeed is the slice of RSS 2.0 the feed-backed producers need:
// item headlines and their categories
type rssFeed struct {
	Items []rssItem `xml:"channel>item"`
}

type rssItem struct {
	Title      string   `xml:"title"`
	Categories []string `xml:"category"`
}

func decodeFeed(body io.Reader) (*rssFeed, error) {
	var feed rssFeed
	if err := xml.NewDecoder(body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return &feed, nil
}

// hasCategory reports whether any of the item's categories contains
// one of the keywords, case-insensitively
func hasCategory(categories, keywords []string) bool {
	for _, cat := range categories {
		cat = strings.ToLower(cat)
		for _, kw := range keywords {
			if strings.Contains(cat, kw) {
				return true
			}
		}
	}
	return false
}
