package pages

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var contentYAML []byte

// Catalog holds the static text rendered by the weather alerts and cost tips pages.
type Catalog struct {
	Weather struct {
		BestTiming   []string `yaml:"best_timing"`
		ActivityTips []string `yaml:"activity_tips"`
	} `yaml:"weather_advice"`
	CostCategories map[string]string `yaml:"cost_categories"`
	CostStrategies []CostStrategy    `yaml:"cost_strategies"`
}

// CostStrategy is one money-saving strategy with its estimated savings.
type CostStrategy struct {
	Title   string   `yaml:"title"`
	Savings string   `yaml:"savings"`
	Tips    []string `yaml:"tips"`
}

// LoadCatalog parses the embedded content catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(contentYAML)
}

// ParseCatalog parses a content catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse content catalog: %w", err)
	}
	if len(c.CostStrategies) == 0 {
		return nil, fmt.Errorf("content catalog has no cost strategies")
	}
	return &c, nil
}

// WeatherAdvice renders the weather-based advice for the given crop stage,
// planned activity and urgency.
func (c *Catalog) WeatherAdvice(stage, activity, urgency string) string {
	var b strings.Builder
	b.WriteString("## Weather-Based Advice\n\n")
	b.WriteString("### Current Situation\n")
	fmt.Fprintf(&b, "- **Crop Stage**: %s\n", stage)
	fmt.Fprintf(&b, "- **Activity**: %s\n", activity)
	fmt.Fprintf(&b, "- **Urgency**: %s\n\n", urgency)
	b.WriteString("### Best Timing\n")
	writeBullets(&b, c.Weather.BestTiming)
	b.WriteString("\n### Activity-Specific Tips\n")
	writeBullets(&b, c.Weather.ActivityTips)
	return b.String()
}

// CostTips renders the money-saving strategies under the category heading.
// Unknown categories fall back to the raw category key as heading.
func (c *Catalog) CostTips(category string) string {
	heading, ok := c.CostCategories[category]
	if !ok {
		heading = category
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", heading)
	fmt.Fprintf(&b, "## Top %d Money-Saving Strategies\n", len(c.CostStrategies))
	for i, s := range c.CostStrategies {
		fmt.Fprintf(&b, "\n### %d. %s 💰 Save %s\n", i+1, s.Title, s.Savings)
		writeBullets(&b, s.Tips)
	}
	return b.String()
}

func writeBullets(b *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}
