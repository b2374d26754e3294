package internal

import (
	"fmt"
	"html/template"
	"math/rand"
	"strings"
	"sync"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// QuoteOptions holds options for creating the quote Card.
type QuoteOptions struct {
	PageURL     string // The URL of the page to scrape for quotes.
	QuoteXPath  string // The XPath to select the quote elements.
	AuthorXPath string // The XPath to select the author relative to the quote element.
}

func (c Config) GetQuoteOptions() QuoteOptions {
	return QuoteOptions{
		PageURL:     c.Quote.PageURL,
		QuoteXPath:  c.Quote.QuoteXPath,
		AuthorXPath: c.Quote.AuthorXPath,
	}
}

// NewQuoteCards creates a Card showing a random quote scraped from the configured page.
func NewQuoteCards(options QuoteOptions) CardSource {
	if options.PageURL == "" {
		return func(WeekView) []Card { return nil }
	}
	return makeQuoteCards(func() ([]quote, error) {
		return fetchQuotes(options)
	})
}

// makeQuoteCards keeps the first quotes fetched successfully. Failed fetches are retried on the next render.
func makeQuoteCards(getQuotes func() ([]quote, error)) CardSource {
	var mu sync.Mutex
	var quotes []quote

	load := func() ([]quote, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(quotes) > 0 {
			return quotes, nil
		}
		fetched, err := getQuotes()
		if err != nil {
			return nil, err
		}
		quotes = fetched
		return quotes, nil
	}

	return func(WeekView) []Card {
		return []Card{
			{
				Type:     CardTypeText,
				Group:    CardGroupSide,
				Priority: 30,
				loader: func(c *Card) error {
					quotes, err := load()
					if err != nil {
						return err
					}
					if len(quotes) == 0 {
						return nil
					}
					q := quotes[rand.Intn(len(quotes))]
					c.Title = "Quote"
					c.Body = template.HTML(template.HTMLEscapeString(q.Text))
					if q.Author != "" {
						c.Footer = template.HTML(template.HTMLEscapeString(q.Author))
					}
					return nil
				},
			},
		}
	}
}

type quote struct {
	Text   string
	Author string
}

func fetchQuotes(options QuoteOptions) ([]quote, error) {
	doc, err := htmlquery.LoadURL(options.PageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load quote page: %w", err)
	}
	return findQuotes(doc, options)
}

func findQuotes(doc *html.Node, options QuoteOptions) ([]quote, error) {
	nodes, err := htmlquery.QueryAll(doc, options.QuoteXPath)
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	var quotes []quote
	for _, node := range nodes {
		text := strings.TrimSpace(htmlquery.InnerText(node))
		if text == "" {
			continue
		}
		q := quote{Text: text}
		if options.AuthorXPath != "" {
			author, err := htmlquery.Query(node, options.AuthorXPath)
			if err != nil {
				return nil, fmt.Errorf("failed to query author: %w", err)
			}
			if author != nil {
				q.Author = strings.TrimSpace(htmlquery.InnerText(author))
			}
		}
		quotes = append(quotes, q)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("no quotes found at %s", options.PageURL)
	}
	return quotes, nil
}
