package chains

import "strings"

// Context tags.
const (
	TagSearch = "search"
	TagMath   = "math"
)

var (
	tagHeaders = map[string]string{TagSearch: "Search Results", TagMath: "Math Calculation"}
	tagTools   = map[string]string{TagSearch: "Search", TagMath: "Calculator"}
)

// ToolsAvailable lists every tool a response may report.
var ToolsAvailable = []string{"Search", "Calculator", "Reasoning"}

type contribution struct {
	tag  string
	text string
}

// Context is the ordered set of tool contributions gathered for one query.
// It is request scoped and not safe for concurrent use.
type Context struct {
	entries []contribution
}

// Add appends a contribution. A repeated tag replaces the earlier text in place.
func (c *Context) Add(tag, text string) {
	for i := range c.entries {
		if c.entries[i].tag == tag {
			c.entries[i].text = text
			return
		}
	}
	c.entries = append(c.entries, contribution{tag: tag, text: text})
}

// Get returns the contribution for tag.
func (c *Context) Get(tag string) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, e := range c.entries {
		if e.tag == tag {
			return e.text, true
		}
	}
	return "", false
}

// Empty reports whether nothing was contributed.
func (c *Context) Empty() bool {
	return c == nil || len(c.entries) == 0
}

// Text renders every contribution under its header, in insertion order.
func (c *Context) Text() string {
	if c.Empty() {
		return ""
	}
	var sb strings.Builder
	for _, e := range c.entries {
		header, ok := tagHeaders[e.tag]
		if !ok {
			header = e.tag
		}
		sb.WriteString(header)
		sb.WriteString(":\n")
		sb.WriteString(e.text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// Tools returns the tool names behind the contributions, in order.
func (c *Context) Tools() []string {
	tools := []string{}
	if c == nil {
		return tools
	}
	for _, e := range c.entries {
		if name, ok := tagTools[e.tag]; ok {
			tools = append(tools, name)
		}
	}
	return tools
}
