package loader

import (
	"bufio"
	"io"
	"strings"

	"github.com/nathoo/dungeoncore/types"
)

// EmptyCell advances one column in a map file.
const EmptyCell = '0'

// ParseMap reads a CSV map of w x h cells. Commas are skipped, '0' is an
// empty cell and every other symbol, blanks included, becomes a placement. Rows past h and
// columns past w are ignored.
func ParseMap(r io.Reader, w, h int) (types.MapLayout, error) {
	layout := types.MapLayout{Width: w, Height: h}
	sc := bufio.NewScanner(r)
	for y := 0; y < h && sc.Scan(); y++ {
		x := 0
		for _, c := range strings.TrimRight(sc.Text(), "\r") {
			if x >= w {
				break
			}
			switch c {
			case ',':
				continue
			case EmptyCell:
			default:
				layout.Placements = append(layout.Placements, types.Placement{
					Pos:    types.Position{X: x, Y: y},
					Symbol: c,
				})
			}
			x++
		}
	}
	return layout, sc.Err()
}
