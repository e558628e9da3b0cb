// Package jtf parses, validates and manipulates JTF documents: JSON files
// holding labeled sparse tables with targeted style rules.
package jtf

import (
	"log/slog"
	"time"
)

// CurrentVersion is the newest JTF syntax version understood by this package.
const CurrentVersion = "v1.1.9"

// DefaultSupportedVersions is used when Options.SupportedVersions is empty.
var DefaultSupportedVersions = []string{CurrentVersion}

// Options configures validation and document behavior.
type Options struct {
	// SupportedVersions is the allow-list for metadata "jtf". The first entry
	// is stamped into documents that declare no version.
	// If empty, DefaultSupportedVersions is used.
	SupportedVersions []string
	// CheckFormulas enables the lexical check of string cells starting with "=".
	CheckFormulas bool
	// Logger receives advisory notices. If nil, advisories are discarded.
	Logger *slog.Logger
	// Now is the clock used for timestamps. If nil, time.Now is used.
	Now func() time.Time
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		SupportedVersions: DefaultSupportedVersions,
	}
}

func (o Options) versions() []string {
	if len(o.SupportedVersions) == 0 {
		return DefaultSupportedVersions
	}
	return o.SupportedVersions
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (o Options) clock() func() time.Time {
	if o.Now != nil {
		return o.Now
	}
	return time.Now
}
