package skinini

import (
	"gopkg.in/ini.v1"
)

// Info is the descriptive part of the [General] section.
type Info struct {
	Name    string
	Author  string
	Version string
}

// ParseInfo reads [General] Name, Author and Version. Lines the ini
// grammar cannot make sense of, such as "//" comments, are skipped.
func ParseInfo(text string) (Info, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveSections:     true,
		InsensitiveKeys:         true,
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
		KeyValueDelimiters:      ":",
	}, []byte(text))
	if err != nil {
		return Info{}, err
	}
	sec := f.Section("General")
	return Info{
		Name:    sec.Key("Name").String(),
		Author:  sec.Key("Author").String(),
		Version: sec.Key("Version").String(),
	}, nil
}
