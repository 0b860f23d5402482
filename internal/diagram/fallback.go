package diagram

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind is the diagram family detected from the source header.
type Kind string

// Diagram families understood by Summarize.
const (
	KindFlowchart Kind = "flowchart"
	KindSequence  Kind = "sequence"
	KindClass     Kind = "class"
	KindState     Kind = "state"
	KindER        Kind = "er"
	KindPie       Kind = "pie"
	KindGantt     Kind = "gantt"
	KindUnknown   Kind = "diagram"
)

// kindHeaders maps the leading keyword of a diagram to its family.
// Order matters: "stateDiagram-v2" must be checked by prefix.
var kindHeaders = []struct {
	keyword string
	kind    Kind
}{
	{"flowchart", KindFlowchart},
	{"graph", KindFlowchart},
	{"sequenceDiagram", KindSequence},
	{"classDiagram", KindClass},
	{"stateDiagram", KindState},
	{"erDiagram", KindER},
	{"pie", KindPie},
	{"gantt", KindGantt},
}

var kindCaptions = map[Kind]string{
	KindFlowchart: "Flowchart",
	KindSequence:  "Sequence diagram",
	KindClass:     "Class diagram",
	KindState:     "State diagram",
	KindER:        "Entity relationship diagram",
	KindPie:       "Pie chart",
	KindGantt:     "Schedule",
	KindUnknown:   "Diagram",
}

// maxEdges bounds the number of relations listed for graph-like diagrams.
const maxEdges = 8

const arrow = "→"

// Summary is the textual stand-in for a diagram that could not be rendered.
type Summary struct {
	Kind  Kind
	Title string
	Items []string
}

// Caption returns a short heading for the summary, e.g. "Pie chart: Budget".
func (s Summary) Caption() string {
	name, ok := kindCaptions[s.Kind]
	if !ok {
		name = kindCaptions[KindUnknown]
	}
	if s.Title != "" {
		return name + ": " + s.Title
	}
	return name
}

// Empty reports whether nothing could be extracted from the source.
func (s Summary) Empty() bool {
	return len(s.Items) == 0
}

// Line patterns used by the extractors.
var (
	titleLine      = regexp.MustCompile(`^(?:pie\s+)?title\s+(.+)$`)
	frontTitleLine = regexp.MustCompile(`^title:\s*(.+)$`)
	edgeOp         = regexp.MustCompile(`\s*(?:<?-{2,}>|<?={2,}>|<?-\.+->|-\.+-|-{3,}|={3,}|--[ox]|~~~)\s*(?:\|([^|]*)\|)?\s*`)
	nodeID         = regexp.MustCompile(`^(\[\*\]|[\w]+)`)
	participant    = regexp.MustCompile(`^(?:participant|actor)\s+(\S+)(?:\s+as\s+(.+))?$`)
	seqMessage     = regexp.MustCompile(`^([^:<>+-][^:<>+]*?)\s*-{1,2}(?:>>|>|x|\))\s*[+-]?\s*([^:]+?)\s*:\s*(.*)$`)
	classRelation  = regexp.MustCompile(`^(\w+)\s*(?:"[^"]*"\s*)?(?:<\|--|\*--|o--|-->|<--|--\*|--o|--\|>|\.\.>|<\.\.|\.\.\|>|<\|\.\.|--|\.\.)\s*(?:"[^"]*"\s*)?(\w+)\s*(?::\s*(.*))?$`)
	erRelation     = regexp.MustCompile(`^([\w-]+)\s+[|}o]{1,2}(?:--|\.\.)[|{o]{1,2}\s+([\w-]+)\s*:\s*"?([^"]*?)"?\s*$`)
	pieSlice       = regexp.MustCompile(`^"([^"]+)"\s*:\s*(\d+(?:\.\d+)?)`)
)

// Flowchart and state statements that never describe a node or an edge.
var graphKeywords = []string{
	"subgraph", "end", "classDef", "class", "style", "linkStyle", "click", "direction", "note",
}

// Gantt statements that configure the chart rather than list tasks.
var ganttDirectives = []string{
	"title", "dateFormat", "axisFormat", "excludes", "includes", "todayMarker",
	"tickInterval", "weekday", "inclusiveEndDates", "topAxis",
}

// Summarize derives a deterministic textual description of diagram source:
// relations for graph-like diagrams, label/value pairs for pie charts and
// section/task pairs for schedules. It never fails; unknown or unparsable
// source yields a Summary with no items.
func Summarize(src string) Summary {
	lines, frontTitle := significantLines(src)
	s := Summary{Kind: KindUnknown, Title: frontTitle}
	if len(lines) == 0 {
		return s
	}

	s.Kind = detectKind(lines[0])
	body := lines[1:]
	if s.Kind == KindUnknown {
		body = lines
	}

	if rest, ok := cutKeyword(lines[0], "pie"); ok && s.Kind == KindPie {
		if m := titleLine.FindStringSubmatch(strings.TrimSpace(rest)); m != nil {
			s.Title = strings.TrimSpace(m[1])
		}
	}
	for _, l := range body {
		if m := titleLine.FindStringSubmatch(l); m != nil {
			s.Title = strings.TrimSpace(m[1])
		}
	}

	switch s.Kind {
	case KindFlowchart:
		s.Items = graphEdges(body, false)
	case KindState:
		s.Items = graphEdges(body, true)
	case KindSequence:
		s.Items = sequenceMessages(body)
	case KindClass:
		s.Items = relations(body, classRelation)
	case KindER:
		s.Items = relations(body, erRelation)
	case KindPie:
		s.Items = pieSlices(body)
	case KindGantt:
		s.Items = ganttTasks(body)
	}
	return s
}

// significantLines returns trimmed, non-empty, non-comment lines with any
// leading front matter block removed, plus the front matter title if set.
func significantLines(src string) ([]string, string) {
	var out []string
	var title string
	inFront := false
	for i, raw := range strings.Split(src, "\n") {
		l := strings.TrimSpace(raw)
		if l == "---" && (i == 0 || inFront) {
			inFront = !inFront
			continue
		}
		if inFront {
			if m := frontTitleLine.FindStringSubmatch(l); m != nil {
				title = strings.Trim(strings.TrimSpace(m[1]), `"'`)
			}
			continue
		}
		if l == "" || strings.HasPrefix(l, "%%") {
			continue
		}
		out = append(out, l)
	}
	return out, title
}

func detectKind(header string) Kind {
	for _, h := range kindHeaders {
		if _, ok := cutKeyword(header, h.keyword); ok {
			return h.kind
		}
	}
	return KindUnknown
}

// cutKeyword reports whether line starts with keyword as a whole word
// (or, for versioned headers such as "stateDiagram-v2", a dashed suffix).
func cutKeyword(line, keyword string) (string, bool) {
	rest, ok := strings.CutPrefix(line, keyword)
	if !ok {
		return "", false
	}
	if rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '-' || rest[0] == ';' {
		return rest, true
	}
	return "", false
}

func startsWithAny(line string, keywords []string) bool {
	for _, k := range keywords {
		if _, ok := cutKeyword(line, k); ok {
			return true
		}
	}
	return false
}

// graphEdges extracts "A → B" pairs from flowchart and state statements,
// following chains such as "A --> B --> C". Node ids are replaced by their
// label text when the diagram defines one. With trailingLabels, text after a
// colon on the last node is the edge label ("s1 --> s2 : done").
func graphEdges(lines []string, trailingLabels bool) []string {
	labels := make(map[string]string)
	type edge struct{ from, to, label string }
	var edges []edge

	for _, l := range lines {
		l = strings.TrimSuffix(l, ";")
		if startsWithAny(l, graphKeywords) || titleLine.MatchString(l) {
			continue
		}
		locs := edgeOp.FindAllStringSubmatchIndex(l, -1)
		if len(locs) == 0 {
			nodeRef(l, labels)
			continue
		}

		var nodes, edgeLabels []string
		prev := 0
		for _, loc := range locs {
			nodes = append(nodes, l[prev:loc[0]])
			label := ""
			if loc[2] >= 0 {
				label = strings.TrimSpace(l[loc[2]:loc[3]])
			}
			edgeLabels = append(edgeLabels, label)
			prev = loc[1]
		}
		last := l[prev:]
		if trailingLabels {
			var label string
			last, label, _ = strings.Cut(last, ":")
			if label = strings.TrimSpace(label); label != "" {
				edgeLabels[len(edgeLabels)-1] = label
			}
		}
		nodes = append(nodes, last)

		ids := make([]string, len(nodes))
		for i, n := range nodes {
			ids[i] = nodeRef(n, labels)
		}
		for i := 0; i+1 < len(ids); i++ {
			if ids[i] == "" || ids[i+1] == "" {
				continue
			}
			edges = append(edges, edge{ids[i], ids[i+1], edgeLabels[i]})
		}
	}

	items := make([]string, 0, min(len(edges), maxEdges+1))
	for i, e := range edges {
		if i == maxEdges {
			items = append(items, fmt.Sprintf("… %d more", len(edges)-maxEdges))
			break
		}
		item := display(e.from, labels) + " " + arrow + " " + display(e.to, labels)
		if e.label != "" {
			item += " (" + e.label + ")"
		}
		items = append(items, item)
	}
	return items
}

// nodeRef parses a node reference such as `A`, `A[Label]` or `B(("Round"))`,
// records its label, and returns the id ("" when none).
func nodeRef(text string, labels map[string]string) string {
	text = strings.TrimSpace(text)
	id := nodeID.FindString(text)
	if id == "" {
		return ""
	}
	rest := strings.TrimSpace(text[len(id):])
	if rest != "" && strings.ContainsRune("[({>", rune(rest[0])) {
		label := strings.Trim(rest, `[](){}>/\ "`)
		if label != "" {
			if _, seen := labels[id]; !seen {
				labels[id] = label
			}
		}
	}
	return id
}

func display(id string, labels map[string]string) string {
	if label, ok := labels[id]; ok {
		return label
	}
	return id
}

func sequenceMessages(lines []string) []string {
	aliases := make(map[string]string)
	var items []string
	for _, l := range lines {
		if m := participant.FindStringSubmatch(l); m != nil {
			if m[2] != "" {
				aliases[m[1]] = strings.TrimSpace(m[2])
			}
			continue
		}
		m := seqMessage.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		from, to := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if a, ok := aliases[from]; ok {
			from = a
		}
		if a, ok := aliases[to]; ok {
			to = a
		}
		items = append(items, fmt.Sprintf("%s %s %s: %s", from, arrow, to, strings.TrimSpace(m[3])))
	}
	return items
}

// relations extracts "A → B" items, with an optional ": label" suffix, from
// lines matched by re (groups: from, to, label).
func relations(lines []string, re *regexp.Regexp) []string {
	var items []string
	for _, l := range lines {
		m := re.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		item := m[1] + " " + arrow + " " + m[2]
		if label := strings.TrimSpace(m[3]); label != "" {
			item += ": " + label
		}
		items = append(items, item)
	}
	return items
}

func pieSlices(lines []string) []string {
	var items []string
	for _, l := range lines {
		if m := pieSlice.FindStringSubmatch(l); m != nil {
			items = append(items, m[1]+": "+m[2])
		}
	}
	return items
}

func ganttTasks(lines []string) []string {
	var items []string
	section := ""
	for _, l := range lines {
		if rest, ok := cutKeyword(l, "section"); ok {
			section = strings.TrimSpace(rest)
			continue
		}
		if startsWithAny(l, ganttDirectives) {
			continue
		}
		task, _, ok := strings.Cut(l, ":")
		if !ok {
			continue
		}
		task = strings.TrimSpace(task)
		if task == "" {
			continue
		}
		if section != "" {
			task = section + ": " + task
		}
		items = append(items, task)
	}
	return items
}
