// Package identity derives graph node keys from note filenames.
package identity

import (
	"fmt"
	"regexp"
)

const (
	NameFilename = "filename"
	NameIDPrefix = "id-prefix"
)

// Strategy derives a stable key from a filename.
type Strategy interface {
	Name() string
	Key(filename string) string
}

// New returns the strategy registered under name.
func New(name string) (Strategy, error) {
	switch name {
	case "", NameFilename:
		return Filename{}, nil
	case NameIDPrefix:
		return IDPrefix{}, nil
	default:
		return nil, fmt.Errorf("identity: unknown strategy %q", name)
	}
}

// Filename uses the whole filename as key.
type Filename struct{}

func (Filename) Name() string               { return NameFilename }
func (Filename) Key(filename string) string { return filename }

var idPrefixRe = regexp.MustCompile(`^\w{12}`)

// IDPrefix uses the leading twelve word characters of a filename, the
// timestamp identifier common in Zettelkasten naming schemes. Filenames
// without such a prefix keep their full name.
type IDPrefix struct{}

func (IDPrefix) Name() string { return NameIDPrefix }

func (IDPrefix) Key(filename string) string {
	if id := idPrefixRe.FindString(filename); id != "" {
		return id
	}
	return filename
}
