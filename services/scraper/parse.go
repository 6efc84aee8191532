package scraper

import (
	"fmt"
	"strings"
	"time"

	"huliveaddon/models"
	"huliveaddon/utils"

	"github.com/PuerkitoBio/goquery"
)

const baseURL = "https://musor.tv"

// musor.tv markup is not stable; each field is located through a list of
// selectors tried in order.
var (
	cardSelectors    = []string{"table.showeventtable", "div.showeventtable", "table.eventtable"}
	titleSelectors   = []string{".showeventtitle a", ".showeventtitle", "h3 a"}
	timeSelectors    = []string{".showeventtime", "time"}
	channelSelectors = []string{".showeventchannel img", ".showeventchannel a", ".showeventchannel"}
	descSelectors    = []string{`td[itemprop="description"]`, ".showeventdescription"}
	posterSelectors  = []string{"img.showeventimg", "img"}
)

// parsePage extracts raw listings from one rendered listing page. Individual
// malformed cards are skipped; only an unreadable document is an error.
func parsePage(html string, now time.Time, loc *time.Location) ([]models.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	cards := findFirst(doc.Selection, cardSelectors)
	if cards == nil {
		// Selector drift: none of the known card patterns matched.
		return nil, fmt.Errorf("no listing elements matched known selectors")
	}

	var listings []models.RawListing
	cards.Each(func(_ int, card *goquery.Selection) {
		title := utils.Cleanup(selectText(card, titleSelectors))
		if title == "" {
			return
		}

		timeText := utils.Cleanup(selectText(card, timeSelectors))

		channel := ""
		if sel := findFirst(card, channelSelectors); sel != nil {
			if alt, ok := sel.First().Attr("alt"); ok {
				channel = utils.Cleanup(alt)
			} else {
				channel = utils.Cleanup(sel.First().Text())
			}
		}

		category := utils.Cleanup(selectText(card, descSelectors))

		poster := ""
		if sel := findFirst(card, posterSelectors); sel != nil {
			src, _ := sel.First().Attr("src")
			poster = absolutize(src)
		}

		listings = append(listings, models.RawListing{
			Title:    title,
			Start:    inferStart(timeText, now, loc),
			Channel:  channel,
			Category: category,
			Poster:   poster,
		})
	})

	return listings, nil
}

// findFirst returns the first selector's non-empty selection, or nil.
func findFirst(root *goquery.Selection, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if found := root.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return nil
}

func selectText(root *goquery.Selection, selectors []string) string {
	if sel := findFirst(root, selectors); sel != nil {
		return sel.First().Text()
	}
	return ""
}

// absolutize resolves poster URLs relative to musor.tv.
func absolutize(src string) string {
	if src == "" {
		return ""
	}
	if strings.HasPrefix(src, "http") {
		return src
	}
	if strings.HasPrefix(src, "/") {
		return baseURL + src
	}
	return baseURL + "/" + src
}

// dedupe removes repeated listings. Two entries are duplicates when title,
// channel and start time truncated to the minute all match; the first
// occurrence wins.
func dedupe(listings []models.RawListing) []models.RawListing {
	seen := make(map[string]struct{}, len(listings))
	out := make([]models.RawListing, 0, len(listings))
	for _, l := range listings {
		key := l.Title + "|" + l.Channel + "|" + l.Start.Truncate(time.Minute).Format("2006-01-02T15:04")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, l)
	}
	return out
}
