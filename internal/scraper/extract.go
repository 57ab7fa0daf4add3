package scraper

import (
	"html"
	"regexp"
	"strings"

	"github.com/chefrag-labs/chefrag-cli/internal/core/ports/driven"
)

// Pre-compiled regular expressions for the source site's markup.
// Listing pages wrap each recipe teaser in an "in_seen" block;
// recipe pages keep ingredients in a table of class "ingr" and steps
// in "step_n" blocks.
var (
	listingBlock   = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*\bin_seen\b[^"]*"[^>]*>(.*?)</div>`)
	listingHref    = regexp.MustCompile(`(?is)<a[^>]*href="([^"]+)"`)
	listingTitle   = regexp.MustCompile(`(?is)<h3[^>]*>(.*?)</h3>`)
	ingredientsTbl = regexp.MustCompile(`(?is)<table[^>]*class="[^"]*\bingr\b[^"]*"[^>]*>(.*?)</table>`)
	tableRow       = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	spanText       = regexp.MustCompile(`(?is)<span[^>]*>(.*?)</span>`)
	stepBlock      = regexp.MustCompile(`(?is)<div[^>]*class="[^"]*\bstep_n\b[^"]*"[^>]*>(.*?)</div>`)
	paragraph      = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	anyTag         = regexp.MustCompile(`<[^>]+>`)
)

// ExtractListing pulls (title, link) pairs out of a listing page.
// Relative links are resolved against baseURL. Markup it cannot make
// sense of yields an empty result, never an error.
func ExtractListing(page, baseURL string) []driven.RecipeLink {
	var links []driven.RecipeLink
	for _, block := range listingBlock.FindAllStringSubmatch(page, -1) {
		href := listingHref.FindStringSubmatch(block[1])
		title := listingTitle.FindStringSubmatch(block[1])
		if href == nil || title == nil {
			continue
		}

		link := href[1]
		if strings.HasPrefix(link, "/") {
			link = baseURL + link
		}
		text := strings.ToLower(strings.TrimSpace(cleanMarkup(title[1])))
		if link == "" || text == "" {
			continue
		}
		links = append(links, driven.RecipeLink{Title: text, URL: link})
	}
	return links
}

// ExtractRecipe pulls the ingredient list and the step list out of a
// recipe page. Either list degrades to empty when its section is
// missing or malformed.
func ExtractRecipe(page string) (ingredients, steps []string) {
	if tbl := ingredientsTbl.FindStringSubmatch(page); tbl != nil {
		rows := tableRow.FindAllStringSubmatch(tbl[1], -1)
		var spans []string
		// The first row is the section header.
		for i, row := range rows {
			if i == 0 {
				continue
			}
			for _, span := range spanText.FindAllStringSubmatch(row[1], -1) {
				spans = append(spans, span[1])
			}
		}
		// The leading two spans carry the portion labels, not
		// ingredients.
		if len(spans) > 2 {
			spans = spans[2:]
		} else {
			spans = nil
		}
		for _, s := range spans {
			text := strings.ToLower(strings.TrimSpace(cleanMarkup(s)))
			if text != "" {
				ingredients = append(ingredients, text)
			}
		}
	}

	for _, block := range stepBlock.FindAllStringSubmatch(page, -1) {
		p := paragraph.FindStringSubmatch(block[1])
		if p == nil {
			continue
		}
		text := strings.ToLower(strings.TrimSpace(cleanMarkup(p[1])))
		if text != "" {
			steps = append(steps, text)
		}
	}

	return ingredients, steps
}

// cleanMarkup strips nested tags and decodes HTML entities.
func cleanMarkup(s string) string {
	return html.UnescapeString(anyTag.ReplaceAllString(s, ""))
}
