// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package completion

import (
	"github.com/pdiddy/healthpulse/internal/textutil"
	"github.com/pdiddy/healthpulse/pkg/types"
)

// BriefFor builds the request brief for a selection and its trend artifact.
func BriefFor(sel types.TopicSelection, art types.TrendArtifact) Brief {
	return Brief{
		Title:             art.TopicTitle,
		Focus:             Focus(art.TopicTitle, art.PrimaryKeyword),
		PrimaryKeyword:    art.PrimaryKeyword,
		SecondaryKeywords: append([]string(nil), art.SecondaryKeywords...),
		Sources:           append([]string(nil), art.Sources...),
		Category:          sel.MainCategory,
		Subcategory:       sel.SubCategory,
		Specific:          sel.Specific(),
	}
}

// Focus is the short subject phrase used in headings. It always contains the
// primary keyword.
func Focus(title, primary string) string {
	focus := textutil.Subject(title)
	if primary != "" && !textutil.ContainsPhrase(focus, primary) {
		focus = primary + " " + focus
	}
	return focus
}
