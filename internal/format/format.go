// Package format converts raw AI answers into the two shapes the site
// renders: sanitized HTML for the lesson body and flat plain text for
// speech synthesis. Both transforms are pure.
package format

import (
	"regexp"
	"strings"
)

var (
	headingRe    = regexp.MustCompile(`#{1,6}\s+`)
	emphasisRe   = regexp.MustCompile(`\*\*|\*`)
	inlineCodeRe = regexp.MustCompile("`[^`]*`")
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]*)\)`)
	paragraphRe  = regexp.MustCompile(`\n{2,}`)
	numberedRe   = regexp.MustCompile(`(?m)^\d+\.\s`)
	bulletRe     = regexp.MustCompile(`(?m)^[-*]\s`)
	tagRe        = regexp.MustCompile(`</?[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ForDisplay strips markdown markers from raw and wraps the remaining
// text in minimal HTML: <ol>/<ul> for list-shaped paragraphs, <p> for
// everything else. Empty input yields empty output.
func ForDisplay(raw string) string {
	if raw == "" {
		return ""
	}

	text := headingRe.ReplaceAllString(raw, "")
	text = emphasisRe.ReplaceAllString(text, "")
	text = inlineCodeRe.ReplaceAllString(text, "")
	text = linkRe.ReplaceAllString(text, "$1")

	var units []string
	for _, p := range paragraphRe.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		switch {
		case numberedRe.MatchString(p):
			units = append(units, listHTML(p, numberedRe, "ol"))
		case bulletRe.MatchString(p):
			units = append(units, listHTML(p, bulletRe, "ul"))
		default:
			units = append(units, "<p>"+p+"</p>")
		}
	}

	return strings.Join(units, "\n")
}

func listHTML(paragraph string, marker *regexp.Regexp, tag string) string {
	var b strings.Builder
	b.WriteString("<" + tag + ">")
	for _, line := range strings.Split(paragraph, "\n") {
		item := strings.TrimSpace(marker.ReplaceAllString(line, ""))
		if item == "" {
			continue
		}
		b.WriteString("<li>" + item + "</li>")
	}
	b.WriteString("</" + tag + ">")
	return b.String()
}

// ForSpeech flattens text for a synthesizer: markup tags and list
// markers are dropped, blank-line breaks become a sentence pause, and
// remaining whitespace collapses to single spaces.
func ForSpeech(text string) string {
	if text == "" {
		return ""
	}

	plain := tagRe.ReplaceAllString(text, "")
	// List prefixes must go while line starts are still visible.
	plain = numberedRe.ReplaceAllString(plain, "")
	plain = bulletRe.ReplaceAllString(plain, "")
	plain = paragraphRe.ReplaceAllString(plain, ". ")
	plain = strings.ReplaceAll(plain, "\n", " ")
	plain = whitespaceRe.ReplaceAllString(plain, " ")

	return strings.TrimSpace(plain)
}
