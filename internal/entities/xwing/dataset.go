package xwing

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Dataset is the full card data set: groups (ships, pilots, upgrades, ...)
// of display names, each mapping to one or more cards.
//
// JSON objects are decoded in document order. Card IDs and match order are
// derived from that order so it must survive a decode/encode round trip.
type Dataset struct {
	Groups []Group
}

// Group is one top level category of the data set
type Group struct {
	Name    string
	Entries []Entry
}

// Entry is a display name and the cards sharing it
type Entry struct {
	Name  string
	Cards []*Card
}

// Group returns the group with the given name, or nil
func (d *Dataset) Group(name string) *Group {
	for i := range d.Groups {
		if d.Groups[i].Name == name {
			return &d.Groups[i]
		}
	}
	return nil
}

// CardCount returns the number of cards across all groups
func (d *Dataset) CardCount() int {
	n := 0
	for _, g := range d.Groups {
		for _, e := range g.Entries {
			n += len(e.Cards)
		}
	}
	return n
}

// UnmarshalJSON decodes {"group": {"name": [card, ...]}} keeping key order
func (d *Dataset) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	var groups []Group
	for dec.More() {
		groupName, err := readKey(dec)
		if err != nil {
			return err
		}

		group := Group{Name: groupName}
		if err := expectDelim(dec, '{'); err != nil {
			return fmt.Errorf("group %q: %w", groupName, err)
		}
		for dec.More() {
			name, err := readKey(dec)
			if err != nil {
				return fmt.Errorf("group %q: %w", groupName, err)
			}

			var cards []*Card
			if err := dec.Decode(&cards); err != nil {
				return fmt.Errorf("group %q, name %q: %w", groupName, name, err)
			}
			group.Entries = append(group.Entries, Entry{Name: name, Cards: cards})
		}
		if err := expectDelim(dec, '}'); err != nil {
			return fmt.Errorf("group %q: %w", groupName, err)
		}

		groups = append(groups, group)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return err
	}

	d.Groups = groups
	return nil
}

// MarshalJSON encodes the data set preserving group and entry order
func (d Dataset) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range d.Groups {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, g.Name); err != nil {
			return nil, err
		}

		buf.WriteByte('{')
		for j, e := range g.Entries {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, e.Name); err != nil {
				return nil, err
			}
			cards, err := json.Marshal(e.Cards)
			if err != nil {
				return nil, fmt.Errorf("group %q, name %q: %w", g.Name, e.Name, err)
			}
			buf.Write(cards)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	b, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}
