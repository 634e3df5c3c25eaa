// Package xmldesc is a thin adapter for an XML descriptor input form: a
// root element with a version label, a newline-separated list of archive
// paths, and optional skip/keep package lists. Full XML grammar beyond
// this is out of scope, so encoding/xml's struct-tag decoding is used
// directly rather than adopting a third-party XML library.
package xmldesc

import (
	"encoding/xml"
	"io"
	"strings"
)

// Descriptor is the decoded form of one XML descriptor file. encoding/xml
// already discards XML comments while decoding, so no manual
// comment-stripping pass is needed ahead of Parse.
type Descriptor struct {
	XMLName xml.Name `xml:"descriptor"`

	Version      string `xml:"version"`
	ArchivesRaw  string `xml:"archives"`
	SkipPkgsRaw  string `xml:"skip_packages"`
	PackagesRaw  string `xml:"packages"`
}

// Parse decodes one XML descriptor document from r.
func Parse(r io.Reader) (*Descriptor, error) {
	var d Descriptor
	if err := xml.NewDecoder(r).Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Archives returns the descriptor's newline-separated archive list, split
// and trimmed, blank lines dropped.
func (d *Descriptor) Archives() []string { return splitLines(d.ArchivesRaw) }

// SkipPackages returns the optional skip-list, split and trimmed.
func (d *Descriptor) SkipPackages() []string { return splitLines(d.SkipPkgsRaw) }

// Packages returns the optional keep-list, split and trimmed.
func (d *Descriptor) Packages() []string { return splitLines(d.PackagesRaw) }

func splitLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
