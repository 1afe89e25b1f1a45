package crawler

import "strings"

// insecureMarker is the substring that flags a resource reference as
// insecure. A plain substring match is intentional: it catches http: URLs
// anywhere in an attribute value or inline script/style text, including
// inside query strings and concatenated JavaScript. It also flags benign
// mentions of "http://" in comments; that precision tradeoff is part of
// the detection contract and must not be "fixed" with URL parsing.
const insecureMarker = "http:"

// scanTarget pairs a tag name with the attribute that carries its
// resource reference. An empty attribute means only inline text is
// inspected for that tag.
type scanTarget struct {
	tag  string
	attr string
}

// scanTargets is the fixed inspection table. Findings are emitted in this
// order, then in document order within each entry.
var scanTargets = []scanTarget{
	{"img", "src"},
	{"iframe", "src"},
	{"script", "src"},
	{"object", "data"},
	{"form", "action"},
	{"embed", "src"},
	{"video", "src"},
	{"audio", "src"},
	{"source", "src"},
	{"link", "href"},
	{"style", ""},
}

// Inspect scans a parsed HTTPS page for insecure (http:) sub-resource
// references and returns the flagged values in scan order.
//
// For script and style elements the inline text is inspected in addition
// to the attribute. The two checks are independent: a <script> with an
// http: src and http: inline text yields two findings.
func Inspect(doc *Document) []string {
	var flagged []string

	for _, target := range scanTargets {
		for _, el := range doc.ElementsByTag(target.tag) {
			if target.attr != "" {
				if value, ok := el.Attr(target.attr); ok && strings.Contains(value, insecureMarker) {
					flagged = append(flagged, value)
				}
			}
			if target.tag == "script" || target.tag == "style" {
				if text := el.Text(); strings.Contains(text, insecureMarker) {
					flagged = append(flagged, text)
				}
			}
		}
	}

	return flagged
}
