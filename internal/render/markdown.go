package render

import (
	"fmt"
	"strings"
)

// Markdown renders the trip as a Markdown document: a title, the date range,
// one section per bucket in key order and a closing budget section.
func Markdown(in Input) []byte {
	v := buildView(in)
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", v.Title)
	fmt.Fprintf(&b, "Dates: %s\n\n", v.Dates)

	for _, bucket := range v.Buckets {
		fmt.Fprintf(&b, "## %s\n", bucket.Key)
		for _, it := range bucket.Items {
			fmt.Fprintf(&b, "- **%s**: %s (%s → %s)", it.Type, it.Name, orUnknown(it.Start), orUnknown(it.End))
			if it.Cost != "" {
				b.WriteString(" — " + it.Cost)
			}
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	b.WriteString("## Budget\n")
	for _, m := range v.Embedded {
		fmt.Fprintf(&b, "- Embedded: %s\n", m)
	}
	for _, m := range v.Explicit {
		fmt.Fprintf(&b, "- Explicit: %s\n", m)
	}
	return []byte(b.String())
}
