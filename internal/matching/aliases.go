package matching

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AliasEntry maps a canonical skill label to the token sets that resolve to it.
type AliasEntry struct {
	Canonical string     `yaml:"canonical"`
	Aliases   [][]string `yaml:"aliases"`
}

// AliasTable is an ordered, read-only list of alias entries. Entries are
// checked in declaration order and the first entry whose alias set is
// contained in the input wins.
type AliasTable struct {
	entries []AliasEntry
	labels  map[string]struct{}
}

// NewAliasTable builds a table from entries. Canonical labels and alias
// tokens are normalized; entries with an empty label are skipped.
func NewAliasTable(entries []AliasEntry) *AliasTable {
	t := &AliasTable{
		entries: make([]AliasEntry, 0, len(entries)),
		labels:  make(map[string]struct{}, len(entries)),
	}
	for _, e := range entries {
		label := Normalize(e.Canonical)
		if label == "" {
			continue
		}
		clean := AliasEntry{Canonical: label}
		for _, set := range e.Aliases {
			var toks []string
			for _, tok := range set {
				if n := Normalize(tok); n != "" {
					toks = append(toks, n)
				}
			}
			if len(toks) > 0 {
				clean.Aliases = append(clean.Aliases, toks)
			}
		}
		t.entries = append(t.entries, clean)
		t.labels[label] = struct{}{}
	}
	return t
}

// Entries returns a copy of the table's entries in lookup order.
func (t *AliasTable) Entries() []AliasEntry {
	if t == nil {
		return nil
	}
	out := make([]AliasEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Canonicalize resolves raw to its canonical label. Unknown skills are
// returned normalized.
func (t *AliasTable) Canonicalize(raw string) string {
	n := Normalize(raw)
	if t == nil || n == "" {
		return n
	}
	if _, ok := t.labels[n]; ok {
		return n
	}
	tokens := Tokenize(raw)
	for _, e := range t.entries {
		for _, set := range e.Aliases {
			if isSubset(set, tokens) {
				return e.Canonical
			}
		}
	}
	return n
}

type aliasFile struct {
	Skills []AliasEntry `yaml:"skills"`
}

// LoadAliasTable reads an alias table from a YAML file of the form
//
//	skills:
//	  - canonical: amazon web services
//	    aliases: [[aws]]
func LoadAliasTable(path string) (*AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file %s: %w", path, err)
	}
	return ParseAliasTable(data)
}

// ParseAliasTable decodes a YAML alias table.
func ParseAliasTable(data []byte) (*AliasTable, error) {
	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse alias table: %w", err)
	}
	if len(f.Skills) == 0 {
		return nil, fmt.Errorf("alias table has no skills")
	}
	return NewAliasTable(f.Skills), nil
}

// DefaultAliasTable returns the built-in alias table.
func DefaultAliasTable() *AliasTable {
	return NewAliasTable(defaultAliases)
}

var defaultAliases = []AliasEntry{
	{Canonical: "amazon web services", Aliases: [][]string{{"aws"}, {"amazon", "web", "services"}}},
	{Canonical: "google cloud platform", Aliases: [][]string{{"gcp"}, {"google", "cloud"}}},
	{Canonical: "microsoft azure", Aliases: [][]string{{"azure"}}},
	{Canonical: "kubernetes", Aliases: [][]string{{"k8s"}, {"kubernetes"}}},
	{Canonical: "javascript", Aliases: [][]string{{"js"}, {"javascript"}, {"ecmascript"}}},
	{Canonical: "typescript", Aliases: [][]string{{"ts"}, {"typescript"}}},
	{Canonical: "node.js", Aliases: [][]string{{"nodejs"}, {"node.js"}, {"node"}}},
	{Canonical: "react", Aliases: [][]string{{"reactjs"}, {"react.js"}}},
	{Canonical: "go", Aliases: [][]string{{"golang"}}},
	{Canonical: "postgresql", Aliases: [][]string{{"postgres"}, {"postgresql"}, {"psql"}}},
	{Canonical: "ci/cd", Aliases: [][]string{{"ci", "cd"}, {"cicd"}, {"continuous", "integration"}}},
	{Canonical: "machine learning", Aliases: [][]string{{"ml"}, {"machine", "learning"}}},
	{Canonical: "artificial intelligence", Aliases: [][]string{{"ai"}}},
	{Canonical: "bachelor's degree", Aliases: [][]string{
		{"bachelor"}, {"bachelors"}, {"bachelor's"}, {"bs"}, {"b", "s"}, {"b.s"}, {"b.s."}, {"bsc"},
	}},
	{Canonical: "master's degree", Aliases: [][]string{
		{"master"}, {"masters"}, {"master's"}, {"msc"}, {"m.s"}, {"m.s."}, {"m", "s"},
	}},
	{Canonical: "phd", Aliases: [][]string{{"ph.d"}, {"ph.d."}, {"doctorate"}}},
}
