package ui

import (
	"io"
	"path"
	"slices"
	"strings"

	"github.com/Digital-Shane/media-sort/internal/core"
	"github.com/Digital-Shane/treeview"
	"github.com/charmbracelet/lipgloss"
)

// Plan groups planned files as root → series → season. Movies sit under the
// empty series and season keys.
type Plan map[string]map[string]map[string][]core.PlanEntry

// GroupPlan builds a Plan from flat entries.
func GroupPlan(entries []core.PlanEntry) Plan {
	plan := Plan{}
	for _, e := range entries {
		series, ok := plan[e.Root]
		if !ok {
			series = map[string]map[string][]core.PlanEntry{}
			plan[e.Root] = series
		}
		seasons, ok := series[e.Series]
		if !ok {
			seasons = map[string][]core.PlanEntry{}
			series[e.Series] = seasons
		}
		seasons[e.Season] = append(seasons[e.Season], e)
	}
	return plan
}

// planItem is the payload of a plan tree node. Entry is set on files.
type planItem struct {
	Dir   bool
	Entry core.PlanEntry
}

type planNode = treeview.Node[planItem]

type treeStyles struct {
	dir    lipgloss.Style
	file   lipgloss.Style
	branch lipgloss.Style
}

// TreeReporter prints a dry-run plan as a directory tree.
type TreeReporter struct {
	out    io.Writer
	styles treeStyles
}

// NewTreeReporter styles output for out; writers that are not a color
// terminal get plain text.
func NewTreeReporter(out io.Writer) *TreeReporter {
	r := lipgloss.NewRenderer(out)
	return &TreeReporter{
		out: out,
		styles: treeStyles{
			dir:    r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
			file:   r.NewStyle(),
			branch: r.NewStyle().Foreground(lipgloss.Color("8")),
		},
	}
}

// Report implements core.Reporter.
func (t *TreeReporter) Report(entries []core.PlanEntry) error {
	return t.render(GroupPlan(entries))
}

// RenderTree writes entries as a plain tree to w.
func RenderTree(w io.Writer, entries []core.PlanEntry) error {
	plain := &TreeReporter{out: w, styles: treeStyles{lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle()}}
	return plain.Report(entries)
}

// render draws the connectors itself; treeview only renders through its
// interactive model.
func (t *TreeReporter) render(plan Plan) error {
	var b strings.Builder
	for _, root := range buildTree(plan).Nodes() {
		b.WriteString(t.styles.dir.Render(root.Name() + "/"))
		b.WriteByte('\n')
		t.renderChildren(&b, root.Children(), "")
	}
	_, err := io.WriteString(t.out, b.String())
	return err
}

func (t *TreeReporter) renderChildren(b *strings.Builder, nodes []*planNode, prefix string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		connector, indent := "├─ ", "│  "
		if last {
			connector, indent = "└─ ", "   "
		}
		b.WriteString(t.styles.branch.Render(prefix + connector))
		if n.Data().Dir {
			b.WriteString(t.styles.dir.Render(n.Name() + "/"))
		} else {
			b.WriteString(t.styles.file.Render(n.Name()))
		}
		b.WriteByte('\n')
		t.renderChildren(b, n.Children(), prefix+indent)
	}
}

// buildTree orders the plan into a tree: roots, series and seasons by name;
// inside a folder files come first, then its Subtitles folder, then
// subfolders. Node ids are the slash-joined paths below the output root.
func buildTree(plan Plan) *treeview.Tree[planItem] {
	roots := make([]*planNode, 0, len(plan))
	for _, rootName := range sortedKeys(plan) {
		root := dirNode(rootName, rootName)
		seriesMap := plan[rootName]
		if loose, ok := seriesMap[""]; ok {
			addLeaves(root, rootName, loose[""])
		}
		for _, seriesName := range sortedKeys(seriesMap) {
			if seriesName == "" {
				continue
			}
			seriesID := path.Join(rootName, seriesName)
			series := dirNode(seriesID, seriesName)
			seasons := seriesMap[seriesName]
			for _, seasonName := range sortedKeys(seasons) {
				seasonID := path.Join(seriesID, seasonName)
				season := dirNode(seasonID, seasonName)
				addLeaves(season, seasonID, seasons[seasonName])
				series.AddChild(season)
			}
			root.AddChild(series)
		}
		roots = append(roots, root)
	}
	return treeview.NewTree(roots)
}

func dirNode(id, name string) *planNode {
	return treeview.NewNode(id, name, planItem{Dir: true})
}

// addLeaves appends the files of one folder to parent, subtitles grouped
// under their own folder after the videos.
func addLeaves(parent *planNode, parentID string, entries []core.PlanEntry) {
	var files, subs []core.PlanEntry
	for _, e := range entries {
		if e.Subtitle {
			subs = append(subs, e)
		} else {
			files = append(files, e)
		}
	}
	byName := func(a, b core.PlanEntry) int { return strings.Compare(a.Name, b.Name) }
	slices.SortFunc(files, byName)
	slices.SortFunc(subs, byName)

	for _, f := range files {
		parent.AddChild(treeview.NewNode(path.Join(parentID, f.Name), f.Name, planItem{Entry: f}))
	}
	if len(subs) > 0 {
		subID := path.Join(parentID, core.SubtitleDirName)
		dir := dirNode(subID, core.SubtitleDirName)
		for _, s := range subs {
			dir.AddChild(treeview.NewNode(path.Join(subID, s.Name), s.Name, planItem{Entry: s}))
		}
		parent.AddChild(dir)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
