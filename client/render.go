package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/k0kubun/pp/v3"
	"github.com/tidwall/gjson"
)

// Renderer turns tool envelopes into terminal output: markdown through
// glamour for the payloads, colored status lines for errors and info.
type Renderer struct {
	out   io.Writer
	glam  *glamour.TermRenderer
	debug bool
}

func NewRenderer(out io.Writer, debug bool) (*Renderer, error) {
	glam, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{out: out, glam: glam, debug: debug}, nil
}

// Envelope renders one tool response.
func (r *Renderer) Envelope(tool string, env gjson.Result) {
	if r.debug {
		pp.Fprintln(r.out, env.Value())
	}

	switch env.Get("status").String() {
	case "error":
		fmt.Fprintf(r.out, "%s %s\n", color.RedString("Error:"), env.Get("error").String())
		return
	case "info":
		fmt.Fprintf(r.out, "%s %s\n", color.YellowString("Info:"), env.Get("message").String())
		return
	}

	r.markdown(r.payloadMarkdown(tool, env))
}

func (r *Renderer) payloadMarkdown(tool string, env gjson.Result) string {
	var b strings.Builder
	switch tool {
	case "chat_assistant":
		b.WriteString(env.Get("response").String())
		b.WriteString("\n")
		if summary := env.Get("conversation_summary").String(); summary != "" {
			fmt.Fprintf(&b, "\n> %s\n", summary)
		}
	case "coding_assistant":
		fmt.Fprintf(&b, "## Code (%s)\n\n```%s\n%s\n```\n",
			env.Get("language").String(),
			strings.ToLower(env.Get("language").String()),
			env.Get("code").String())
		fmt.Fprintf(&b, "\n## Explanation\n\n%s\n", env.Get("explanation").String())
		fmt.Fprintf(&b, "\n## Tests\n\n```%s\n%s\n```\n",
			strings.ToLower(env.Get("language").String()),
			env.Get("tests").String())
		fmt.Fprintf(&b, "\n## Review\n\n%s\n", env.Get("review").String())
	case "research_assistant":
		fmt.Fprintf(&b, "## Research: %s\n\n%s\n", env.Get("query").String(), env.Get("research_results").String())
		fmt.Fprintf(&b, "\n## Summary\n\n%s\n", env.Get("summary").String())
		if sources := env.Get("sources").Array(); len(sources) > 0 {
			b.WriteString("\n## Sources\n\n")
			for _, source := range sources {
				fmt.Fprintf(&b, "- %s\n", source.String())
			}
		}
	case "video_strategy_analyzer":
		b.WriteString(env.Get("strategy_document").String())
		b.WriteString("\n")
		if insights := env.Get("actionable_insights").Array(); len(insights) > 0 {
			b.WriteString("\n## Actionable Insights\n\n")
			for _, insight := range insights {
				fmt.Fprintf(&b, "- **%s** (%s): %s\n",
					insight.Get("category").String(),
					insight.Get("priority").String(),
					insight.Get("insight").String())
			}
		}
		if recs := env.Get("implementation_recommendations").Array(); len(recs) > 0 {
			b.WriteString("\n## Recommendations\n\n")
			for _, rec := range recs {
				fmt.Fprintf(&b, "- **%s**: %s\n", rec.Get("title").String(), rec.Get("description").String())
			}
		}
	case "batch_video_analysis":
		fmt.Fprintf(&b, "## Batch Analysis\n\nProcessed %d of %d videos.\n\n",
			env.Get("processed_count").Int(), env.Get("total_found").Int())
		for _, result := range env.Get("results").Array() {
			if result.Get("status").String() == "error" {
				fmt.Fprintf(&b, "- %s: failed (%s)\n", result.Get("file").String(), result.Get("error").String())
				continue
			}
			fmt.Fprintf(&b, "- %s: %d insights, %d recommendations\n",
				result.Get("file").String(),
				result.Get("insights_count").Int(),
				result.Get("recommendations_count").Int())
		}
	case "agent_status":
		fmt.Fprintf(&b, "## %s (model %s)\n\nActive sessions: %d\n\n",
			env.Get("server").String(), env.Get("llm_model").String(), env.Get("active_sessions").Int())
		for _, op := range env.Get("tools").Array() {
			fmt.Fprintf(&b, "- `%s` [%s] %s\n",
				op.Get("name").String(), op.Get("category").String(), op.Get("description").String())
		}
	case "list_sessions":
		fmt.Fprintf(&b, "## Sessions (%d)\n\n", env.Get("total_sessions").Int())
		env.Get("active_sessions").ForEach(func(key, value gjson.Result) bool {
			fmt.Fprintf(&b, "- %s: %d messages\n", key.String(), value.Int())
			return true
		})
	default:
		b.WriteString("```json\n")
		b.WriteString(env.Raw)
		b.WriteString("\n```\n")
	}
	return b.String()
}

func (r *Renderer) markdown(text string) {
	rendered, err := r.glam.Render(text)
	if err != nil {
		fmt.Fprintln(r.out, text)
		return
	}
	fmt.Fprint(r.out, rendered)
}
