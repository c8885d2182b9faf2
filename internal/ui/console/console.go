package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gopak/framepak/internal/frameworks"
	"github.com/gopak/framepak/internal/manager"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type ConsoleUI struct {
	m   *manager.Manager
	out io.Writer
}

func NewConsoleUI(m *manager.Manager) *ConsoleUI {
	return &ConsoleUI{m: m, out: os.Stdout}
}

// PrintOrder prints the build order of names (all dependencies when empty).
func (c *ConsoleUI) PrintOrder(names []string) error {
	order, err := c.m.BuildOrder(names...)
	if err != nil {
		return err
	}
	fmt.Fprint(c.out, renderOrder(order, c.m.Graph()))
	return nil
}

// PrintSearchPaths prints the directories searched on each platform.
func (c *ConsoleUI) PrintSearchPaths(platforms []frameworks.Platform, extra []string) {
	for _, p := range platforms {
		fmt.Fprint(c.out, renderSearchPaths(p, c.m.SearchPaths(p, extra)))
	}
}

// PrintEmbed prints inferred framework locations, one per line, or as a table.
func (c *ConsoleUI) PrintEmbed(paths []string, asTable bool) {
	if asTable {
		fmt.Fprint(c.out, renderEmbedTable(paths))
		return
	}
	for _, p := range paths {
		fmt.Fprintln(c.out, p)
	}
}

func renderOrder(order []string, g manager.Graph) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "Dependency", "Depends on"})
	for i, name := range order {
		deps := append([]string{}, g[name]...)
		sort.Strings(deps)
		on := text.FgHiBlack.Sprint("-")
		if len(deps) > 0 {
			on = strings.Join(deps, ", ")
		}
		tw.AppendRow(table.Row{i + 1, name, on})
	}
	return tw.Render() + "\n"
}

func renderSearchPaths(p frameworks.Platform, dirs []string) string {
	var b strings.Builder
	b.WriteString(text.Bold.Sprint(string(p)) + "\n")
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Search path", "Frameworks"})
	for _, d := range dirs {
		count := text.FgHiBlack.Sprint("missing")
		if st, err := os.Stat(d); err == nil && st.IsDir() {
			if found, err := frameworks.FindFrameworks(context.Background(), []string{d}); err == nil {
				count = fmt.Sprint(len(found))
			}
		}
		tw.AppendRow(table.Row{d, count})
	}
	b.WriteString(tw.Render())
	b.WriteString("\n\n")
	return b.String()
}

func renderEmbedTable(paths []string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Framework", "Location"})
	for _, p := range paths {
		tw.AppendRow(table.Row{frameworks.NameOf(p), p})
	}
	if len(paths) == 0 {
		tw.AppendRow(table.Row{text.FgHiBlack.Sprint("(none)"), ""})
	}
	return tw.Render() + "\n"
}

func colorGreen(s string) string { return text.FgGreen.Sprint(s) }
func colorRed(s string) string   { return text.FgRed.Sprint(s) }
func colorGray(s string) string  { return text.FgHiBlack.Sprint(s) }
