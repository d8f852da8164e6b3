package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"lightcull/internal/domain"
)

// pairItem is one row of the browser.
type pairItem struct {
	pair   domain.ImagePair
	marked bool
}

func (i pairItem) FilterValue() string { return i.pair.Name() }

type pairDelegate struct{}

func (pairDelegate) Height() int                         { return 1 }
func (pairDelegate) Spacing() int                        { return 0 }
func (pairDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (pairDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(pairItem)
	if !ok {
		return
	}

	cursor := "  "
	name := fileNameStyle.Render(it.pair.Name())
	if index == m.Index() {
		cursor = cursorStyle.Render(iconCursor + " ")
		name = selectedStyle.Render(it.pair.Name())
	}

	mark := " "
	if it.marked {
		mark = markStyle.Render(iconMarked)
	}
	top := " "
	if it.pair.HasTopTag {
		top = topStyle.Render(iconTop)
	}
	raw := ""
	if it.pair.HasRAW() {
		raw = " " + rawFileStyle.Render(iconRAW+" "+domain.RAWExtension)
	}
	thumb := ""
	if it.pair.ThumbnailPath != "" {
		thumb = " " + dateStyle.Render(iconThumb)
	}

	fmt.Fprintf(w, "%s%s %s %s%s%s", cursor, mark, top, name, raw, thumb)
}
