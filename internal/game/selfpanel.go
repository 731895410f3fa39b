// internal/game/selfpanel.go
package game

import "strings"

// ExtractSelfPanel derives the private view of the resolved seat from its
// raw roster entry. The entry may still be a JSON-encoded string; every
// sub-structure is decoded and defaulted the same way Normalize does.
func ExtractSelfPanel(v interface{}) SelfPanel {
	panel := SelfPanel{
		DevCards: []string{},
		Ports:    []string{},
	}

	entry, ok := looseMap(v)
	if !ok {
		return panel
	}

	panel.Hand = extractResources(entry)
	panel.DevCards = extractDevCards(entry)
	for _, p := range looseSlice(entry["ports"]) {
		if s, ok := p.(string); ok {
			panel.Ports = append(panel.Ports, s)
		}
	}
	return panel
}

// extractResources accepts both a nested hand sub-object and flat per-resource
// fields, with lower-case or capitalized names. Missing or non-numeric values
// map to zero.
func extractResources(entry map[string]interface{}) ResourceSet {
	var hand ResourceSet
	if nested, ok := looseMap(entry["hand"]); ok {
		for _, kind := range ResourceKinds {
			hand.Set(kind, resourceField(nested, kind))
		}
		return hand
	}
	for _, kind := range ResourceKinds {
		hand.Set(kind, resourceField(entry, kind))
	}
	return hand
}

// extractDevCards flattens the development-card hand into one label per
// physical card. Three historical shapes are supported, in precedence order:
// an explicit name list, a count map keyed by kind, and a bare victory-point
// count. Duplicates are expected and meaningful.
func extractDevCards(entry map[string]interface{}) []string {
	cards := []string{}

	switch dc := decodeLoose(entry["development_cards"]).(type) {
	case []interface{}:
		for _, item := range dc {
			name, ok := item.(string)
			if !ok {
				continue
			}
			cards = append(cards, cardLabel(name))
		}
		return cards

	case map[string]interface{}:
		// Expand counts into repeated entries, grouped by kind.
		counts := map[string]int{}
		for key, v := range dc {
			n, ok := looseInt(v)
			if !ok || n <= 0 {
				continue
			}
			counts[cardLabel(key)] += n
		}
		for _, kind := range devCardOrder {
			for i := 0; i < counts[kind]; i++ {
				cards = append(cards, kind)
			}
		}
		return cards
	}

	for _, field := range []string{"victory_point_cards", "victory_cards"} {
		if n, ok := looseInt(entry[field]); ok {
			for i := 0; i < n; i++ {
				cards = append(cards, VictoryPointCard)
			}
			return cards
		}
	}
	return cards
}

// cardLabel canonicalizes a card name: anything matching "victory"
// case-insensitively becomes the distinguished (never playable) VP entry,
// known kinds map to their canonical label and everything else is
// title-cased.
func cardLabel(name string) string {
	norm := strings.ToLower(strings.ReplaceAll(name, "_", " "))
	norm = strings.Join(strings.Fields(norm), " ")
	if strings.Contains(norm, "victory") {
		return VictoryPointCard
	}
	for _, kind := range devCardOrder {
		if strings.ToLower(kind) == norm {
			return kind
		}
	}
	return titleCase(name)
}
