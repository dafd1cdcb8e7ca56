package secrets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Entry is one secret parsed from the secrets file.
type Entry struct {
	Name    string
	Payload string
}

// ParseFile decodes a secrets document into entries in file order.
// A key appearing twice keeps its first position and its last value.
func ParseFile(data []byte) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse secrets file: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("failed to parse secrets file: top-level value must be an object")
	}

	var entries []Entry
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse secrets file: %w", err)
		}
		name, _ := keyTok.(string)

		var buf strings.Builder
		if err := encodeValue(dec, &buf); err != nil {
			return nil, fmt.Errorf("failed to parse secret %q: %w", name, err)
		}

		if i, seen := index[name]; seen {
			entries[i].Payload = buf.String()
			continue
		}
		index[name] = len(entries)
		entries = append(entries, Entry{Name: name, Payload: buf.String()})
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse secrets file: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("failed to parse secrets file: trailing data after object")
	}
	return entries, nil
}

// encodeValue streams the next value from dec into buf in Python json.dumps
// form. Object key order is kept as read.
func encodeValue(dec *json.Decoder, buf *strings.Builder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			buf.WriteByte('{')
			for first := true; dec.More(); first = false {
				if !first {
					buf.WriteString(", ")
				}
				keyTok, err := dec.Token()
				if err != nil {
					return err
				}
				writeString(buf, keyTok.(string))
				buf.WriteString(": ")
				if err := encodeValue(dec, buf); err != nil {
					return err
				}
			}
			buf.WriteByte('}')
		case '[':
			buf.WriteByte('[')
			for first := true; dec.More(); first = false {
				if !first {
					buf.WriteString(", ")
				}
				if err := encodeValue(dec, buf); err != nil {
					return err
				}
			}
			buf.WriteByte(']')
		default:
			return fmt.Errorf("unexpected delimiter %q", v)
		}
		// closing delimiter
		if _, err := dec.Token(); err != nil {
			return err
		}
	case string:
		writeString(buf, v)
	case json.Number:
		writeNumber(buf, v)
	case bool:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case nil:
		buf.WriteString("null")
	default:
		return fmt.Errorf("unexpected token %v", tok)
	}
	return nil
}

// writeNumber writes an integer literal as an arbitrary precision integer and
// any other number as the shortest float repr: fixed notation with at least
// one fractional digit for exponents in [-4, 16), scientific otherwise.
// Out of range floats become Infinity.
func writeNumber(buf *strings.Builder, n json.Number) {
	lit := n.String()
	if !strings.ContainsAny(lit, ".eE") {
		if i, ok := new(big.Int).SetString(lit, 10); ok {
			buf.WriteString(i.String())
			return
		}
	}

	f, err := strconv.ParseFloat(lit, 64)
	switch {
	case math.IsInf(f, 1):
		buf.WriteString("Infinity")
		return
	case math.IsInf(f, -1):
		buf.WriteString("-Infinity")
		return
	case err != nil:
		buf.WriteString(lit)
		return
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	_, expPart, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expPart)
	if exp < -4 || exp >= 16 {
		buf.WriteString(sci)
		return
	}
	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	buf.WriteString(fixed)
	if !strings.Contains(fixed, ".") {
		buf.WriteString(".0")
	}
}

const hex = "0123456789abcdef"

// writeString writes s as an ASCII-only JSON string. Everything outside
// printable ASCII is written as \uXXXX, with surrogate pairs above the BMP.
func writeString(buf *strings.Builder, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				buf.WriteRune(r)
			case r > 0xffff:
				r -= 0x10000
				writeEscape(buf, 0xd800+(r>>10))
				writeEscape(buf, 0xdc00+(r&0x3ff))
			default:
				writeEscape(buf, r)
			}
		}
	}
	buf.WriteByte('"')
}

func writeEscape(buf *strings.Builder, r rune) {
	buf.WriteString(`\u`)
	buf.WriteByte(hex[(r>>12)&0xf])
	buf.WriteByte(hex[(r>>8)&0xf])
	buf.WriteByte(hex[(r>>4)&0xf])
	buf.WriteByte(hex[r&0xf])
}
