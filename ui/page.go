package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ActiveClass marks a visible overlay element (suggestions, sidebar, overlay)
const ActiveClass = "active"

// Page is the in-memory document the controllers attach to.
// It is not safe for concurrent use; touch it only from the loop.
type Page struct {
	doc *goquery.Document
}

// NewPage wraps an existing document
func NewPage(doc *goquery.Document) *Page {
	return &Page{doc: doc}
}

// ParsePage parses an HTML document
func ParsePage(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return NewPage(doc), nil
}

// ParsePageString parses an HTML document held in a string
func ParsePageString(html string) (*Page, error) {
	return ParsePage(strings.NewReader(html))
}

// Find returns every element matching selector
func (p *Page) Find(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}

// Exists reports whether at least one element matches selector
func (p *Page) Exists(selector string) bool {
	return selector != "" && p.doc.Find(selector).Length() > 0
}

// SetHTML replaces the content of the first element matching selector
func (p *Page) SetHTML(selector, html string) bool {
	sel := p.doc.Find(selector).First()
	if sel.Length() == 0 {
		return false
	}
	sel.SetHtml(html)
	return true
}

// Show adds ActiveClass to every element matching selector
func (p *Page) Show(selector string) {
	p.doc.Find(selector).AddClass(ActiveClass)
}

// Hide removes ActiveClass; hiding a hidden element is a no-op
func (p *Page) Hide(selector string) {
	p.doc.Find(selector).RemoveClass(ActiveClass)
}

// Visible reports whether the first element matching selector carries ActiveClass
func (p *Page) Visible(selector string) bool {
	return p.doc.Find(selector).First().HasClass(ActiveClass)
}

// Within reports whether the element addressed by target is, or sits inside,
// an element matching any of regions.
func (p *Page) Within(target string, regions ...string) bool {
	if target == "" {
		return false
	}
	el := p.doc.Find(target).First()
	if el.Length() == 0 {
		return false
	}
	for _, region := range regions {
		if region != "" && el.Closest(region).Length() > 0 {
			return true
		}
	}
	return false
}

// HTML serialises the whole document
func (p *Page) HTML() (string, error) {
	return p.doc.Html()
}
