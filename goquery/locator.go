// Package goquery implements entry filtering and media scanning over HTML
// documents parsed with github.com/PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Entry is a view of one content entry inside a parsed document.
// Removing it detaches the entry root, and with it every descendant,
// from the document.
type Entry struct {
	Node *html.Node
}

// Text returns the concatenated text of the entry and all its descendants.
func (e Entry) Text() string {
	return goquery.NewDocumentFromNode(e.Node).Text()
}

// Remove detaches the entry from its document.
// Removing an entry that is already detached is a no-op.
func (e Entry) Remove() {
	if e.Node.Parent != nil {
		e.Node.Parent.RemoveChild(e.Node)
	}
}

// Locator finds content entries by class name.
type Locator struct {
	classes map[string]struct{}
}

// NewLocator creates a Locator matching elements that carry any of classes.
func NewLocator(classes []string) *Locator {
	set := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		set[c] = struct{}{}
	}
	return &Locator{classes: set}
}

// FindEntries returns the entries of doc in document order.
//
// An element matching several classes is returned once, and the subtree of
// a matched entry is not searched further, so an entry nested inside
// another entry is never returned on its own. The walk uses an explicit
// stack rather than recursion.
func (l *Locator) FindEntries(doc *goquery.Document) []Entry {
	var entries []Entry
	stack := append([]*html.Node(nil), doc.Nodes...)
	for i, j := 0, len(stack)-1; i < j; i, j = i+1, j-1 {
		stack[i], stack[j] = stack[j], stack[i]
	}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type == html.ElementNode && l.matches(n) {
			entries = append(entries, Entry{Node: n})
			continue
		}

		// Push in reverse so the first child is visited first.
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return entries
}

// matches reports whether n has a class attribute token in the entry class set.
func (l *Locator) matches(n *html.Node) bool {
	for _, attr := range n.Attr {
		if attr.Namespace != "" || attr.Key != "class" {
			continue
		}
		for _, class := range strings.Fields(attr.Val) {
			if _, ok := l.classes[class]; ok {
				return true
			}
		}
	}
	return false
}
