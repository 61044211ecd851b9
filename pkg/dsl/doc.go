/*
Package dsl provides a fluent Go builder for draw flows.

It is the programmatic counterpart of the YAML definitions read by package flow,
useful for embedding, tests and flows generated at startup.

Example usage:

	b := dsl.New("phone")

	b.Table("brand_codes", map[string]string{
		"Asus":   "asus",
		"Xiaomi": "mi",
	})

	b.Static("Brand", "common/brands.txt")

	b.Dynamic("Series").
		From("Brand").
		Via("brand_codes").
		In("brands").
		Prefix("series_")

	f, err := b.Build()
	// ... pass f to luckydraw.New(dir, luckydraw.WithFlow(f))
*/
package dsl
