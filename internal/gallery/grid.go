package gallery

import "strconv"

// MaxCells is how many items the grid shows before collapsing into "+N".
const MaxCells = 4

type Cell struct {
	Index   int    `json:"index"`
	URL     string `json:"url"`
	Type    string `json:"type"`
	Thumb   string `json:"thumb"`
	IsVideo bool   `json:"is_video"`
	ColSpan int    `json:"col_span"`
	Overlay string `json:"overlay,omitempty"`
}

type Grid struct {
	Columns int    `json:"columns"`
	Cells   []Cell `json:"cells"`
	Total   int    `json:"total"`
}

// NewGrid lays out up to four cells. A single item gets one column; more use
// two, with the first of exactly three items spanning both. When there are
// more than four items the fourth cell carries a "+N" overlay.
func NewGrid(urls, types []string) Grid {
	n := len(urls)
	g := Grid{Total: n}
	if n == 0 {
		return g
	}

	g.Columns = 2
	if n == 1 {
		g.Columns = 1
	}

	shown := min(n, MaxCells)
	g.Cells = make([]Cell, 0, shown)
	for i := range shown {
		c := Cell{Index: i, URL: urls[i], Type: InferType(urls[i], typeAt(types, i)), ColSpan: 1}
		c.IsVideo = IsVideo(c.Type)
		c.Thumb = thumbnail(c)
		if n == 3 && i == 0 {
			c.ColSpan = 2
		}
		if i == MaxCells-1 && n > MaxCells {
			c.Overlay = "+" + strconv.Itoa(n-MaxCells)
		}
		g.Cells = append(g.Cells, c)
	}
	return g
}

func thumbnail(c Cell) string {
	if !c.IsVideo {
		return OptimizeImageURL(c.URL)
	}
	if poster, ok := PosterURL(c.URL); ok {
		return poster
	}
	return ""
}

func typeAt(types []string, i int) string {
	if i < len(types) {
		return types[i]
	}
	return ""
}
