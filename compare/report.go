package compare

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var csvHeader = []string{"Prompt", "Category", "Model", "Response", "State", "ToolCalled", "ToolCode", "DurationMs"}

// WriteCSV writes one record per row under a header.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Prompt,
			r.Category,
			r.Model,
			r.Response,
			string(r.State),
			strconv.FormatBool(r.ToolCalled),
			r.ToolCode,
			strconv.FormatInt(r.Duration.Milliseconds(), 10),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMarkdown writes a report with one section per prompt and each model's answer
// beneath it. Prompts and models keep the order they first appear in rows.
func WriteMarkdown(w io.Writer, rows []Row) error {
	var (
		prompts []string
		models  []string
		seenP   = map[string]bool{}
		seenM   = map[string]bool{}
		answers = map[[2]string]Row{}
	)
	for _, r := range rows {
		if !seenP[r.Prompt] {
			seenP[r.Prompt] = true
			prompts = append(prompts, r.Prompt)
		}
		if !seenM[r.Model] {
			seenM[r.Model] = true
			models = append(models, r.Model)
		}
		key := [2]string{r.Prompt, r.Model}
		if _, ok := answers[key]; !ok {
			answers[key] = r
		}
	}

	var b strings.Builder
	b.WriteString("# Weather Assistant Model Comparison\n\n")

	for _, p := range prompts {
		fmt.Fprintf(&b, "## Prompt: %s\n", p)
		for _, m := range models {
			r, ok := answers[[2]string{p, m}]
			if !ok {
				continue
			}
			tool := "no tool call"
			if r.ToolCalled {
				tool = "tool call"
				if r.ToolCode != "" {
					tool += ": " + r.ToolCode
				}
			}
			fmt.Fprintf(&b, "**%s** (%s, %s):\n\n```\n%s\n```\n\n", m, r.Category, tool,
				strings.ReplaceAll(r.Response, "\n", "  \n"))
		}
		b.WriteString("\n---\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
