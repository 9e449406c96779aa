package feature

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// Kind tells areas from individual trees.
type Kind string

const (
	KindArea Kind = "area"
	KindTree Kind = "tree"
)

const (
	defaultTreeTitle = "Tree"
	defaultAreaTitle = "Green Area"
)

// Identity is the display identity of a feature.
type Identity struct {
	Kind     Kind   `json:"kind" yaml:"kind"`
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle" yaml:"subtitle"`
}

// KindOf returns KindTree for tree-typed point features, KindArea otherwise.
func KindOf(f Raw) Kind {
	if _, ok := f.Geometry.(orb.Point); !ok {
		return KindArea
	}
	if t, _ := f.Properties[FieldElementType].(string); t == ElementTypeTree {
		return KindTree
	}
	return KindArea
}

// Classify derives kind, title and subtitle of a feature.
func Classify(f Raw) Identity {
	kind := KindOf(f)

	if kind == KindTree {
		title, ok := First(f, TreeTitleChain)
		if !ok {
			title = defaultTreeTitle
		}
		subtitle, _ := First(f, TreeSubtitleChain)
		return Identity{Kind: kind, Title: title, Subtitle: subtitle}
	}

	title, ok := First(f, AreaTitleChain)
	if !ok {
		title = defaultAreaTitle
	}
	return Identity{Kind: kind, Title: title}
}

// Key returns the deduplication key of a feature. Sparse features without
// any naming field are keyed by their canonical property JSON.
func Key(f Raw) string {
	if k, ok := First(f, IdentityChain); ok {
		return k
	}

	// encoding/json writes map keys sorted
	data, err := json.Marshal(f.Properties)
	if err != nil {
		return fmt.Sprint(map[string]any(f.Properties))
	}
	return string(data)
}

// Matches reports whether query is a case-insensitive substring of the
// name, description or identifier of f. Generated labels such as
// "Area 42" are not searched. An empty query matches everything.
func Matches(f Raw, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}

	for _, chain := range SearchChains {
		if s, ok := First(f, chain); ok && strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
