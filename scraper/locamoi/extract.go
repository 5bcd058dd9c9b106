package locamoi

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"locamoi-scraper/gazetteer"
	"locamoi-scraper/models"
)

var (
	// titlePattern matches listing titles such as
	//   "3 rooms house of 73m²"
	//   "1 room of 78m²"        <- no explicit type word
	titlePattern = regexp.MustCompile(
		`(?i)(\d+)\s+rooms?(?:\s+(house|apartment|studio|room))?\s+of\s+([\d.,]+)\s*m²`)

	// pricePattern matches monthly rents such as "1 860 € / month", where the
	// thousands separator may be a regular, no-break or narrow no-break space.
	pricePattern = regexp.MustCompile(
		`(?i)([\d\s` + "  " + `]+)\s*€\s*/\s*month`)
)

var priceSpaceStripper = strings.NewReplacer(" ", "", " ", "", " ", "", "\t", "", "\n", "", "\r", "")

func validTypeWord(w string) bool {
	switch w {
	case "house", "apartment", "studio", "room":
		return true
	}
	return false
}

// parsePrice extracts the monthly rent from a string like "1 860 € / month".
func parsePrice(s string) *float64 {
	m := pricePattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	raw := priceSpaceStripper.Replace(m[1])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return models.Float64(v)
}

// parseSurface extracts the surface in m² from a matched title. The decimal
// separator may be "," or ".".
func parseSurface(title string) *float64 {
	m := titlePattern.FindStringSubmatch(title)
	if m == nil {
		return nil
	}
	raw := strings.ReplaceAll(strings.ReplaceAll(m[3], ",", "."), " ", "")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return models.Float64(v)
}

// parseRooms extracts the room count from a matched title.
func parseRooms(title string) *int {
	m := titlePattern.FindStringSubmatch(title)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return models.Int(n)
}

// extractListings parses one result page and returns every candidate whose
// title matches the pattern and survives type resolution.
//
// Resolution rules, for the task's property type:
//   - studio and student-apartment feeds aggregate everything, so an explicit
//     type word only has to be a valid one (or absent);
//   - other feeds require the type word to equal the feed's own label; a
//     title without a type word is implicitly assigned the feed's type.
//
// Address, rent and source URL are best effort: the next free-text node, the
// next text node matching the price pattern, and the nearest enclosing link.
// A malformed numeric substring nulls that field, never the candidate.
func extractListings(pageHTML, baseURL string, task Task, page int) []*models.Listing {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil
	}

	nodes := collectTextNodes(doc)
	taskLabel := strings.ToLower(task.Type.Label)
	broad := gazetteer.IsBroadCategory(task.Type.Key)

	var listings []*models.Listing
	idx := 0

	for i, node := range nodes {
		title := strings.TrimSpace(node.Data)
		m := titlePattern.FindStringSubmatch(title)
		if m == nil {
			continue
		}

		typeWord := strings.ToLower(m[2])
		if broad {
			if typeWord != "" && !validTypeWord(typeWord) {
				continue
			}
		} else if typeWord != "" {
			if !validTypeWord(typeWord) || typeWord != taskLabel {
				continue
			}
		}

		idx++

		l := &models.Listing{
			ID: fmt.Sprintf("%s_%s_p%d_%d",
				task.Type.Key, strings.ToLower(strings.ReplaceAll(task.City, " ", "_")), page, idx),
			PropertyType: task.Type.Key,
			Title:        title,
			City:         task.City,
			Region:       task.Region,
			Surface:      parseSurface(title),
			Rooms:        parseRooms(title),
		}

		// Address: the next non-empty text node after the title.
		for _, next := range nodes[i+1:] {
			if text := strings.TrimSpace(next.Data); text != "" {
				l.Address = models.String(text)
				break
			}
		}

		// Rent: the next text node matching the price pattern.
		for _, next := range nodes[i+1:] {
			if pricePattern.MatchString(next.Data) {
				l.Rent = parsePrice(next.Data)
				break
			}
		}

		l.URL = enclosingLink(node, baseURL)

		listings = append(listings, l)
	}

	return listings
}

// collectTextNodes returns the document's text nodes in document order,
// skipping script and style contents.
func collectTextNodes(doc *goquery.Document) []*html.Node {
	var nodes []*html.Node

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range doc.Selection.Nodes {
		walk(root)
	}
	return nodes
}

// enclosingLink climbs from a text node to the nearest ancestor <a href> and
// resolves its target against the base URL.
func enclosingLink(node *html.Node, baseURL string) *string {
	for p := node.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode || p.Data != "a" {
			continue
		}
		for _, attr := range p.Attr {
			if attr.Key != "href" {
				continue
			}
			base, err := url.Parse(baseURL)
			if err != nil {
				return nil
			}
			ref, err := url.Parse(attr.Val)
			if err != nil {
				return nil
			}
			return models.String(base.ResolveReference(ref).String())
		}
		return nil
	}
	return nil
}
