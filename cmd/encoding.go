/*
Copyright © 2025 cbman contributors
*/
package cmd

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

var xmlEncodingRe = regexp.MustCompile(`(?i)<\?xml[^?]*encoding=["']([^"']+)["']`)

// decodeFilelist converts the raw bytes of a filelist export to UTF-8,
// keyed off the XML declaration. DC++ clients mostly write utf-8, but
// older windows clients exported single-byte codepages. The declaration
// is rewritten so the parser does not trip over the stale charset.
func decodeFilelist(data []byte) ([]byte, error) {
	match := xmlEncodingRe.FindSubmatch(data)
	if match == nil {
		return data, nil
	}

	enc := strings.ToLower(string(match[1]))

	switch enc {
	case "utf-8", "utf8":
		return data, nil
	case "windows-1252", "cp1252":
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode windows-1252: %w", err)
		}
		return fixXMLDeclarationEncoding(decoded), nil
	case "windows-1251", "win-1251", "cp1251":
		decoded, err := charmap.Windows1251.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode windows-1251: %w", err)
		}
		return fixXMLDeclarationEncoding(decoded), nil
	case "iso-8859-1", "latin1":
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode iso-8859-1: %w", err)
		}
		return fixXMLDeclarationEncoding(decoded), nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", enc)
	}
}

// fixXMLDeclarationEncoding replaces the encoding in the XML declaration
// with utf-8 so the XML parser doesn't complain.
func fixXMLDeclarationEncoding(data []byte) []byte {
	return xmlEncodingRe.ReplaceAllFunc(data, func(decl []byte) []byte {
		m := xmlEncodingRe.FindSubmatch(decl)
		return bytes.Replace(decl, m[1], []byte("utf-8"), 1)
	})
}
